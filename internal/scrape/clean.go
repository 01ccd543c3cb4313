package scrape

import (
	"strconv"
	"strings"
)

// CleanScalar normalizes one table cell into a typed value:
//
//   - "-" and "" become nil
//   - percent signs and thousands separators are stripped
//   - a trailing B or M multiplies by 1e9 or 1e6, ignoring surrounding
//     text such as a currency prefix ("Rs 4.5B") or spacing ("4.5 B")
//   - whole numbers come back as int64, fractions as float64
//   - anything else comes back as the trimmed original string
func CleanScalar(raw string) interface{} {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return nil
	}

	cleaned := strings.ReplaceAll(s, ",", "")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.TrimSpace(cleaned)

	multiplier := 1.0
	if n := len(cleaned); n > 1 {
		switch cleaned[n-1] {
		case 'B', 'b':
			multiplier = 1e9
		case 'M', 'm':
			multiplier = 1e6
		}
		if multiplier != 1.0 {
			cleaned = keepNumeric(cleaned[:n-1])
		}
	}

	if multiplier == 1.0 {
		if v, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
			return v
		}
	}
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return v * multiplier
	}

	return s
}

// keepNumeric drops everything but digits, the decimal point and a sign.
func keepNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '.' || r == '-' || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanRecord applies CleanScalar to every value of a record, returning a
// typed copy. The period label is left untouched.
func CleanRecord(rec map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(rec))
	for k, v := range rec {
		if k == "period" {
			out[k] = v
			continue
		}
		out[k] = CleanScalar(v)
	}
	return out
}
