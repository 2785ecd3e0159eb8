package resolve

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dhsreport-cli/internal/table"
)

var totalMarkers = []string{"total", "ensemble"}

// TotalRow returns the first row whose raw label contains "Total" or
// "Ensemble", ignoring case.
func TotalRow(t *table.Table) (table.Row, error) {
	if t == nil {
		return table.Row{}, ErrMissingTotalRow
	}
	for _, r := range t.Rows {
		if !r.Label.Valid {
			continue
		}
		lower := strings.ToLower(r.Label.Text)
		for _, m := range totalMarkers {
			if strings.Contains(lower, m) {
				return r, nil
			}
		}
	}
	return table.Row{}, fmt.Errorf("%s: %w", t.Name, ErrMissingTotalRow)
}

// TotalValue reads column from the Total row of t.
func TotalValue(t *table.Table, column string) (float64, error) {
	row, err := TotalRow(t)
	if err != nil {
		return 0, err
	}
	v, ok := t.Value(row, column)
	if !ok {
		return 0, fmt.Errorf("%s: %q: %w", t.Name, column, ErrUnresolvedColumn)
	}
	return v, nil
}
