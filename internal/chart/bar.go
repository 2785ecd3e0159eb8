package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Bars describes a single-series bar chart.
type Bars struct {
	Title  string
	XLabel string
	YLabel string
	Labels []string
	Values []float64
	// Colors sets per-bar colours; bars beyond its length use Color, then the palette.
	Colors []color.Color
	Color  color.Color
	// Format is the fmt verb for value labels, "%.1f%%" by default.
	Format string
	// Max fixes the value axis maximum; zero scales to the data.
	Max float64
	// Rotate tilts category labels for long names.
	Rotate bool
}

func (b Bars) check() error {
	if len(b.Values) == 0 {
		return ErrNoData
	}
	if len(b.Labels) != len(b.Values) {
		return fmt.Errorf("chart %q: %d labels for %d values", b.Title, len(b.Labels), len(b.Values))
	}
	return nil
}

func (s Style) barColor(b Bars, i int) color.Color {
	if i < len(b.Colors) && b.Colors[i] != nil {
		return b.Colors[i]
	}
	if b.Color != nil {
		return b.Color
	}
	return s.color(0)
}

// barPlot lays out one bar per value at positions 0..n-1.
func (s Style) barPlot(b Bars, horizontal bool) (*plot.Plot, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	b.Values = finite(b.Values)
	n := len(b.Values)
	p := s.newPlot(b.Title, b.XLabel, b.YLabel)
	span := s.Width
	if horizontal {
		span = s.Height
	}
	w := barWidth(span, n, 0.7)
	hi := axisMax(b.Values, b.Max, 1.2)
	lo := axisMin(b.Values)

	xys := make(plotter.XYs, 0, n)
	texts := make([]string, 0, n)
	for i, v := range b.Values {
		pos := float64(i)
		if horizontal {
			pos = float64(n - 1 - i)
		}
		bc, err := plotter.NewBarChart(plotter.Values{v}, w)
		if err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		bc.XMin = pos
		bc.Horizontal = horizontal
		bc.Color = s.barColor(b, i)
		bc.LineStyle.Width = 0
		p.Add(bc)

		if v == 0 {
			continue
		}
		pad := (hi - lo) * 0.03
		if horizontal {
			xys = append(xys, plotter.XY{X: v + pad, Y: pos})
		} else {
			xys = append(xys, plotter.XY{X: pos, Y: v + pad})
		}
		texts = append(texts, fmt.Sprintf(format(b.Format), v))
	}
	if len(xys) > 0 {
		l, err := s.valueLabels(xys, texts)
		if err != nil {
			return nil, err
		}
		if horizontal {
			for i := range l.TextStyle {
				l.TextStyle[i].XAlign = draw.XLeft
				l.TextStyle[i].YAlign = draw.YCenter
			}
		}
		p.Add(l)
	}

	if horizontal {
		p.NominalY(reversed(b.Labels)...)
		p.X.Min, p.X.Max = lo, hi
	} else {
		p.NominalX(b.Labels...)
		p.Y.Min, p.Y.Max = lo, hi
		if b.Rotate {
			p.X.Tick.Label.Rotation = math.Pi / 4
			p.X.Tick.Label.XAlign = draw.XRight
			p.X.Tick.Label.YAlign = draw.YCenter
		}
	}
	return p, nil
}

// Bar writes a vertical bar chart with value labels.
func (s Style) Bar(path string, b Bars) error {
	p, err := s.barPlot(b, false)
	if err != nil {
		return err
	}
	return s.savePlot(path, p)
}

// HBar writes a horizontal bar chart; the first label is drawn at the top.
func (s Style) HBar(path string, b Bars) error {
	p, err := s.barPlot(b, true)
	if err != nil {
		return err
	}
	return s.savePlot(path, p)
}

// Group is one series of a grouped or stacked chart.
type Group struct {
	Name   string
	Values []float64
	Color  color.Color
}

// Grouped describes several series over shared categories.
type Grouped struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Groups     []Group
	Format     string
	Max        float64
	Rotate     bool
	// MinLabel hides value labels smaller than it.
	MinLabel float64
}

func (g Grouped) check() error {
	if len(g.Categories) == 0 || len(g.Groups) == 0 {
		return ErrNoData
	}
	for _, gr := range g.Groups {
		if len(gr.Values) != len(g.Categories) {
			return fmt.Errorf("chart %q: group %q has %d values for %d categories",
				g.Title, gr.Name, len(gr.Values), len(g.Categories))
		}
	}
	return nil
}

// finite copies vs with NaN and infinite values replaced by 0.
func finite(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = v
		}
	}
	return out
}

func (g Grouped) sanitized() Grouped {
	groups := make([]Group, len(g.Groups))
	for i, gr := range g.Groups {
		gr.Values = finite(gr.Values)
		groups[i] = gr
	}
	g.Groups = groups
	return g
}

func (s Style) groupColor(gr Group, i int) color.Color {
	if gr.Color != nil {
		return gr.Color
	}
	return s.color(i)
}

// GroupedBar writes side-by-side bars per category with a legend.
func (s Style) GroupedBar(path string, g Grouped) error {
	if err := g.check(); err != nil {
		return err
	}
	g = g.sanitized()
	p := s.newPlot(g.Title, g.XLabel, g.YLabel)
	ng := len(g.Groups)
	w := barWidth(s.Width, len(g.Categories)*ng, 0.7)

	var all []float64
	for _, gr := range g.Groups {
		all = append(all, gr.Values...)
	}
	hi := axisMax(all, g.Max, 1.2)
	pad := hi * 0.02

	for i, gr := range g.Groups {
		bc, err := plotter.NewBarChart(plotter.Values(gr.Values), w)
		if err != nil {
			return fmt.Errorf("group %q: %w", gr.Name, err)
		}
		bc.Color = s.groupColor(gr, i)
		bc.LineStyle.Width = 0
		bc.Offset = vg.Length(float64(i)-float64(ng-1)/2) * w
		p.Add(bc)
		p.Legend.Add(gr.Name, bc)

		xys := make(plotter.XYs, 0, len(gr.Values))
		texts := make([]string, 0, len(gr.Values))
		for j, v := range gr.Values {
			if v == 0 || v < g.MinLabel {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(j), Y: v + pad})
			texts = append(texts, fmt.Sprintf(format(g.Format), v))
		}
		if len(xys) == 0 {
			continue
		}
		l, err := s.valueLabels(xys, texts)
		if err != nil {
			return err
		}
		l.Offset = vg.Point{X: bc.Offset}
		p.Add(l)
	}
	p.Legend.Top = true
	p.NominalX(g.Categories...)
	p.Y.Min, p.Y.Max = axisMin(all), hi
	if g.Rotate {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	return s.savePlot(path, p)
}

// StackedHBar writes one horizontal bar per category with the groups stacked
// left to right. Segment labels are centred inside each segment.
func (s Style) StackedHBar(path string, g Grouped) error {
	if err := g.check(); err != nil {
		return err
	}
	g = g.sanitized()
	p := s.newPlot(g.Title, g.XLabel, g.YLabel)
	n := len(g.Categories)
	w := barWidth(s.Height, n, 0.6)

	cum := make([]float64, n)
	var prev *plotter.BarChart
	var xys plotter.XYs
	var texts []string
	for i, gr := range g.Groups {
		vals := make(plotter.Values, n)
		for j, v := range gr.Values {
			vals[n-1-j] = v
		}
		bc, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return fmt.Errorf("group %q: %w", gr.Name, err)
		}
		bc.Horizontal = true
		bc.Color = s.groupColor(gr, i)
		bc.LineStyle.Width = 0
		if prev != nil {
			bc.StackOn(prev)
		}
		prev = bc
		p.Add(bc)
		p.Legend.Add(gr.Name, bc)

		for j, v := range vals {
			if v > 0 && v >= g.MinLabel {
				xys = append(xys, plotter.XY{X: cum[j] + v/2, Y: float64(j)})
				texts = append(texts, fmt.Sprintf(format(g.Format), v))
			}
			cum[j] += v
		}
	}
	if len(xys) > 0 {
		l, err := s.valueLabels(xys, texts)
		if err != nil {
			return err
		}
		for i := range l.TextStyle {
			l.TextStyle[i].YAlign = draw.YCenter
			l.TextStyle[i].Color = color.White
		}
		p.Add(l)
	}
	p.Legend.Top = true
	p.NominalY(reversed(g.Categories)...)
	p.X.Min, p.X.Max = 0, axisMax(cum, g.Max, 1.05)
	return s.savePlot(path, p)
}
