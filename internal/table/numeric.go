package table

import (
	"strconv"
	"strings"
)

// ParseNumeric parses a cell as a number. Percent signs are stripped and the
// decimal separator is detected from the last ',' or '.' in the value, unless
// the separators form digit grouping ("1,234", "1,234,567", "1.234.567").
// DHS exports occasionally wrap low-count estimates in parentheses, e.g. "(12.4)";
// those parse as the enclosed value.
func ParseNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}
	raw = strings.ReplaceAll(raw, " ", "")
	if raw == "" {
		return 0, false
	}
	commas := strings.Count(raw, ",")
	dots := strings.Count(raw, ".")
	switch {
	case commas > 0 && dots == 0 && grouped(raw, ','):
		raw = strings.ReplaceAll(raw, ",", "")
	case dots > 1 && commas == 0 && grouped(raw, '.'):
		raw = strings.ReplaceAll(raw, ".", "")
	default:
		dec := '.'
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && (dpos < 0 || cpos > dpos) {
			dec = ','
		}
		for _, sep := range []rune{',', '.'} {
			if sep == dec {
				continue
			}
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
		if dec != '.' {
			raw = strings.ReplaceAll(raw, string(dec), ".")
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// grouped reports whether sep splits s into thousands groups: a leading group
// of one to three digits without a leading zero, then groups of exactly three.
func grouped(s string, sep rune) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	parts := strings.Split(s, string(sep))
	if len(parts) < 2 {
		return false
	}
	head := parts[0]
	if len(head) == 0 || len(head) > 3 || !digits(head) || (head[0] == '0') {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 || !digits(p) {
			return false
		}
	}
	return true
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
