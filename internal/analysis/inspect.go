package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/dhsreport-cli/internal/resolve"
	"github.com/KaramelBytes/dhsreport-cli/internal/table"
	"github.com/KaramelBytes/dhsreport-cli/internal/utils"
)

// ColumnSummary describes one column of an inspected table.
type ColumnSummary struct {
	Name    string
	Kind    string // label, numeric or text
	NonNull int
	Missing int
	Min     float64
	Max     float64
	Mean    float64
}

// DimensionSummary lists the categories a dimension resolves to, in display order.
type DimensionSummary struct {
	Dimension  resolve.Dimension
	Categories []string
}

// Inspection is a diagnostic view of how a table resolves.
type Inspection struct {
	Name        string
	Source      table.Source
	Rows        int
	DataRows    int
	LabelColumn string
	Columns     []ColumnSummary
	TotalLabel  string
	HasTotal    bool
	Dimensions  []DimensionSummary
}

// Inspect summarises t: column kinds, the Total row and the categories found
// per dimension.
func Inspect(t *table.Table) *Inspection {
	in := &Inspection{
		Name:        t.Name,
		Source:      t.Source,
		Rows:        len(t.Rows),
		DataRows:    len(resolve.Clean(t)),
		LabelColumn: t.LabelColumnName(),
	}
	for i, c := range t.Columns {
		cs := ColumnSummary{Name: c.Name, Kind: "text"}
		switch {
		case i == t.LabelColumn:
			cs.Kind = "label"
		case c.Numeric:
			cs.Kind = "numeric"
		}
		var vals []float64
		for _, r := range t.Rows {
			if i >= len(r.Texts) || r.Texts[i] == "" {
				cs.Missing++
				continue
			}
			cs.NonNull++
			if c.Numeric && !math.IsNaN(r.Values[i]) {
				vals = append(vals, r.Values[i])
			}
		}
		if len(vals) > 0 {
			cs.Min, _ = stats.Min(vals)
			cs.Max, _ = stats.Max(vals)
			cs.Mean, _ = stats.Mean(vals)
		}
		in.Columns = append(in.Columns, cs)
	}
	if row, err := resolve.TotalRow(t); err == nil {
		in.HasTotal = true
		in.TotalLabel = strings.TrimSpace(row.Label.Text)
	}
	for _, d := range resolve.Dimensions() {
		rows := resolve.Resolve(t, d)
		if len(rows) == 0 {
			continue
		}
		ds := DimensionSummary{Dimension: d}
		for _, r := range rows {
			ds.Categories = append(ds.Categories, r.Category)
		}
		in.Dimensions = append(in.Dimensions, ds)
	}
	return in
}

// Markdown renders the inspection as a compact plain-text summary.
func (in *Inspection) Markdown() string {
	var b strings.Builder
	b.WriteString("[TABLE SUMMARY]\n")
	if in.Name != "" {
		b.WriteString(fmt.Sprintf("Table: %s\n", in.Name))
	}
	if in.Source.Path != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", in.Source.Path))
	}
	if in.Source.Sheet != "" {
		b.WriteString(fmt.Sprintf("Sheet: %s\n", in.Source.Sheet))
	}
	b.WriteString(fmt.Sprintf("Rows: %d (data rows %d)\n", in.Rows, in.DataRows))
	b.WriteString(fmt.Sprintf("Label column: %s\n", in.LabelColumn))
	if in.HasTotal {
		b.WriteString(fmt.Sprintf("Total row: %s\n\n", in.TotalLabel))
	} else {
		b.WriteString("Total row: missing\n\n")
	}

	b.WriteString("[SCHEMA]\n")
	for _, c := range in.Columns {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", utils.SafeCell(c.Name), c.Kind, c.NonNull, missPct))
		if c.Kind == "numeric" && c.NonNull > 0 {
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g", c.Min, c.Max, c.Mean))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[CATEGORIES]\n")
	if len(in.Dimensions) == 0 {
		b.WriteString("- none resolved\n")
	}
	for _, d := range in.Dimensions {
		b.WriteString(fmt.Sprintf("- %s: %s\n", d.Dimension, utils.SafeCell(strings.Join(d.Categories, ", "))))
	}
	return b.String()
}
