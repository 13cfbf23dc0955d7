package feed

import "strings"

// Dialect describes how a tabular feed splits its fields.
type Dialect struct {
	Delimiter rune
	// Quoted enables the quote-aware scan. Only comma feeds are scanned this way;
	// semicolon feeds are split plainly and cannot carry the delimiter inside a value.
	Quoted bool
}

var (
	CommaDialect     = Dialect{Delimiter: ',', Quoted: true}
	SemicolonDialect = Dialect{Delimiter: ';', Quoted: false}
)

// DetectDialect picks the delimiter from the header line. Semicolon wins only when it
// appears strictly more often than comma; ties and empty lines fall back to comma.
func DetectDialect(firstLine string) Dialect {
	commas := strings.Count(firstLine, ",")
	semicolons := strings.Count(firstLine, ";")
	if semicolons > commas && semicolons > 0 {
		return SemicolonDialect
	}
	return CommaDialect
}
