package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Lines describes a single-series line chart over nominal categories.
type Lines struct {
	Title  string
	XLabel string
	YLabel string
	Labels []string
	Values []float64
	Color  color.Color
	Format string
	Max    float64
}

// Line writes a line chart with ringed markers, a light area fill and value labels.
func (s Style) Line(path string, l Lines) error {
	if len(l.Values) == 0 {
		return ErrNoData
	}
	if len(l.Labels) != len(l.Values) {
		return fmt.Errorf("chart %q: %d labels for %d values", l.Title, len(l.Labels), len(l.Values))
	}
	vals := finite(l.Values)
	c := l.Color
	if c == nil {
		c = s.color(0)
	}

	p := s.newPlot(l.Title, l.XLabel, l.YLabel)
	xys := make(plotter.XYs, len(vals))
	for i, v := range vals {
		xys[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("line %q: %w", l.Title, err)
	}
	line.Color = c
	line.Width = vg.Points(2.5)
	line.FillColor = fade(c, 0x33)
	points.Shape = draw.RingGlyph{}
	points.Radius = vg.Points(5)
	points.Color = c
	p.Add(line, points)

	hi := axisMax(vals, l.Max, 1.3)
	at := make(plotter.XYs, len(vals))
	texts := make([]string, len(vals))
	for i, v := range vals {
		at[i] = plotter.XY{X: float64(i), Y: v + hi*0.04}
		texts[i] = fmt.Sprintf(format(l.Format), v)
	}
	labels, err := s.valueLabels(at, texts)
	if err != nil {
		return err
	}
	p.Add(labels)

	p.NominalX(l.Labels...)
	p.Y.Min, p.Y.Max = axisMin(vals), hi
	return s.savePlot(path, p)
}

func fade(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
