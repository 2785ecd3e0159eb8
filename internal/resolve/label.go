package resolve

import (
	"strings"

	"github.com/KaramelBytes/dhsreport-cli/internal/table"
)

// Markers that flag a row as footnote or sample-size metadata rather than data.
var nonDataMarkers = []string{"#", "weighted n"}

// CleanedRow is a table row with its label reduced to the trailing path segment.
// The raw label stays available as Row.Label.
type CleanedRow struct {
	table.Row
	Label  table.Label
	IsData bool
}

// Normalize strips a hierarchical "outer|inner" label down to its last segment.
// Absent labels are returned unchanged and flagged as non-data.
func Normalize(raw table.Label) (table.Label, bool) {
	if !raw.Valid {
		return raw, false
	}
	clean := raw.Text
	if i := strings.LastIndex(clean, "|"); i >= 0 {
		clean = clean[i+1:]
	}
	clean = strings.TrimSpace(clean)
	return table.NewLabel(clean), isDataLabel(raw.Text)
}

func isDataLabel(raw string) bool {
	lower := strings.ToLower(raw)
	for _, m := range nonDataMarkers {
		if strings.Contains(lower, m) {
			return false
		}
	}
	return true
}

// CleanAll normalizes every row of t, keeping non-data rows with IsData false.
func CleanAll(t *table.Table) []CleanedRow {
	if t == nil {
		return nil
	}
	out := make([]CleanedRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		lbl, ok := Normalize(r.Label)
		out = append(out, CleanedRow{Row: r, Label: lbl, IsData: ok})
	}
	return out
}

// Clean normalizes t and keeps only data rows, in table order.
func Clean(t *table.Table) []CleanedRow {
	all := CleanAll(t)
	out := all[:0]
	for _, r := range all {
		if r.IsData {
			out = append(out, r)
		}
	}
	return out
}
