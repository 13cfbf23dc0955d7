package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseStructured decodes a JSON array of objects. Keys are canonicalized the same
// way tabular headers are; numbers keep their textual form for CleanNumber.
// Elements that are not objects come back as nil records so Normalize counts them
// as dropped; only a body that is not an array fails.
func ParseStructured(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode structured feed: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for _, elem := range raw {
		obj, ok := decodeObject(elem)
		if !ok {
			records = append(records, nil)
			continue
		}
		rec := make(Record, len(obj))
		for k, v := range obj {
			rec[CanonicalKey(k)] = v
		}
		if rec.populated() {
			records = append(records, rec)
		}
	}
	return records, nil
}

func decodeObject(elem json.RawMessage) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(elem))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
