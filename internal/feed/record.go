package feed

import (
	"fmt"
	"strings"
)

// Canonical field keys.
const (
	FieldType         = "TIPO"
	FieldName         = "NOME"
	FieldHighway      = "RODOVIA"
	FieldDescription  = "DESCRICAO"
	FieldLat          = "LAT"
	FieldLon          = "LON"
	FieldStartLat     = "START_LAT"
	FieldStartLon     = "START_LON"
	FieldEndLat       = "END_LAT"
	FieldEndLon       = "END_LON"
	FieldBaseTariff   = "EIXO_1_2"
	FieldExtraTariff  = "EIXO_ADICIONAL"
	FieldID           = "ID"
	FieldImpact       = "IMPACTO"
	FieldEstimatedEnd = "DATA_FIM"
)

var headerAliases = map[string]string{
	"TYPE":        FieldType,
	"CATEGORIA":   FieldType,
	"NAME":        FieldName,
	"HIGHWAY":     FieldHighway,
	"ROAD":        FieldHighway,
	"DESCRIPTION": FieldDescription,
	"DESCRIÇÃO":   FieldDescription,
	"LATITUDE":    FieldLat,
	"LONGITUDE":   FieldLon,
	"LNG":         FieldLon,
	"TARIFA":      FieldBaseTariff,
	"EIXO_1E2":    FieldBaseTariff,
}

// CanonicalKey upper-cases a header and resolves known aliases.
func CanonicalKey(header string) string {
	key := strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(header, `"`, "")))
	if alias, ok := headerAliases[key]; ok {
		return alias
	}
	return key
}

// Record is one raw feed row keyed by canonical field name.
type Record map[string]any

// Text returns the trimmed string form of a field, or "" when absent.
func (r Record) Text(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// Number returns the field cleaned by CleanNumber.
func (r Record) Number(key string) float64 {
	return CleanNumber(r[key])
}

// populated reports whether any field carries a non-empty value.
func (r Record) populated() bool {
	for k := range r {
		if r.Text(k) != "" {
			return true
		}
	}
	return false
}
