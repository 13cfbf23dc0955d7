package feed

import (
	"strings"
)

// SplitRecord splits one line using the dialect. Quoted dialects toggle quoting on
// every double quote and drop the quotes; unquoted dialects split plainly. Fields are trimmed.
func SplitRecord(line string, d Dialect) []string {
	if !d.Quoted {
		parts := strings.Split(line, string(d.Delimiter))
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		return parts
	}

	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == d.Delimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

// ParseTabular turns delimited text into records. The first non-blank line is the
// header; each later line maps onto it positionally. Extra trailing values are
// ignored, missing ones are left out, and rows without any value are skipped.
func ParseTabular(text string) []Record {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	dialect := DetectDialect(lines[0])
	rawHeaders := SplitRecord(lines[0], dialect)
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = CanonicalKey(h)
	}

	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := SplitRecord(line, dialect)
		rec := make(Record, len(headers))
		for i := 0; i < len(headers) && i < len(values); i++ {
			if headers[i] == "" {
				continue
			}
			rec[headers[i]] = strings.ReplaceAll(values[i], `"`, "")
		}
		if rec.populated() {
			records = append(records, rec)
		}
	}
	return records
}
