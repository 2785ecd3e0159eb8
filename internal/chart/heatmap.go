package chart

import (
	"fmt"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

// Heat describes a row by column grid of values.
type Heat struct {
	Title   string
	XLabel  string
	YLabel  string
	Rows    []string
	Columns []string
	// Values is indexed [row][column].
	Values [][]float64
	Format string
}

// grid adapts Heat to plotter.GridXYZ with the first row drawn at the top.
type grid struct {
	values [][]float64
	rows   int
	cols   int
}

func (g grid) Dims() (c, r int)   { return g.cols, g.rows }
func (g grid) Z(c, r int) float64 { return g.values[g.rows-1-r][c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

// Heatmap writes an annotated heatmap.
func (s Style) Heatmap(path string, h Heat) error {
	if len(h.Rows) == 0 || len(h.Columns) == 0 {
		return ErrNoData
	}
	if len(h.Values) != len(h.Rows) {
		return fmt.Errorf("chart %q: %d value rows for %d rows", h.Title, len(h.Values), len(h.Rows))
	}
	vals := make([][]float64, len(h.Values))
	var flat []float64
	for i, row := range h.Values {
		if len(row) != len(h.Columns) {
			return fmt.Errorf("chart %q: row %q has %d values for %d columns", h.Title, h.Rows[i], len(row), len(h.Columns))
		}
		vals[i] = finite(row)
		flat = append(flat, vals[i]...)
	}
	g := grid{values: vals, rows: len(h.Rows), cols: len(h.Columns)}

	p := s.newPlot(h.Title, h.XLabel, h.YLabel)
	hm := plotter.NewHeatMap(g, palette.Heat(12, 1))
	hm.Min, hm.Max = axisMin(flat), axisMax(flat, 0, 1)
	if hm.Max <= hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	var at plotter.XYs
	var texts []string
	f := h.Format
	if f == "" {
		f = "%.1f"
	}
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			at = append(at, plotter.XY{X: g.X(c), Y: g.Y(r)})
			texts = append(texts, fmt.Sprintf(f, g.Z(c, r)))
		}
	}
	labels, err := s.valueLabels(at, texts)
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	p.NominalX(h.Columns...)
	p.NominalY(reversed(h.Rows)...)
	return s.savePlot(path, p)
}
