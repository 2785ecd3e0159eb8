package resolve

import (
	"strings"

	"github.com/KaramelBytes/dhsreport-cli/internal/table"
)

// Structural column names that never hold an indicator.
var reservedColumns = map[string]struct{}{
	"row_labels": {},
	"label":      {},
	"is_data":    {},
	"sort_order": {},
}

// MatchColumn returns the first column whose header contains a keyword.
// Keywords are tried in priority order; each one scans the columns in table
// order before the next keyword is considered.
func MatchColumn(t *table.Table, keywords []string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		for _, c := range t.Columns {
			if strings.Contains(strings.ToLower(c.Name), k) {
				return c.Name, true
			}
		}
	}
	return "", false
}

// ResolveColumn picks the indicator column for keywords, falling back to the
// first numeric, non-structural column. It reports false when the table has no
// numeric column at all.
func ResolveColumn(t *table.Table, keywords []string) (string, bool) {
	if name, ok := MatchColumn(t, keywords); ok {
		return name, true
	}
	if t == nil {
		return "", false
	}
	for _, name := range t.NumericColumns() {
		if _, reserved := reservedColumns[strings.ToLower(name)]; reserved {
			continue
		}
		return name, true
	}
	return "", false
}

// MatchColumnAny returns the first column, in table order, whose header
// contains any of the keywords.
func MatchColumnAny(t *table.Table, keywords ...string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, c := range t.Columns {
		name := strings.ToLower(c.Name)
		for _, kw := range keywords {
			if k := strings.ToLower(strings.TrimSpace(kw)); k != "" && strings.Contains(name, k) {
				return c.Name, true
			}
		}
	}
	return "", false
}
