package feed

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CleanNumber coerces a feed value to a float. Numbers pass through when finite.
// Strings are trimmed; when both ',' and '.' appear, '.' is a thousands separator and
// ',' the decimal mark; a lone ',' is the decimal mark. The longest leading numeric
// prefix is then parsed, so "8,00 R$" is 8. No numeric prefix gives NaN.
func CleanNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return finiteOrNaN(n)
	case float32:
		return finiteOrNaN(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return finiteOrNaN(f)
	case string:
		return cleanNumberString(n)
	default:
		return math.NaN()
	}
}

func cleanNumberString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}

	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Contains(s, ",") {
		s = strings.Replace(s, ",", ".", 1)
	}

	prefix := numericPrefix(s)
	if prefix == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return math.NaN()
	}
	return finiteOrNaN(f)
}

// numericPrefix returns the longest prefix of s shaped like [+-]digits[.digits][e[+-]digits].
// The mantissa needs at least one digit; an exponent without digits is left out.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}
	return s[:i]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func finiteOrNaN(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}
