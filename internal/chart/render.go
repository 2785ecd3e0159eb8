package chart

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/dhsreport-cli/internal/utils"
)

const defaultFormat = "%.1f%%"

func (s Style) newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = s.TitleSize
	p.Title.Padding = vg.Points(8)
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.X.Label.TextStyle.Font.Size = s.LabelSize
	p.Y.Label.TextStyle.Font.Size = s.LabelSize
	return p
}

// save renders into an in-memory canvas at the style's size and DPI and then
// writes the PNG atomically to path.
func (s Style) save(path string, render func(dc draw.Canvas)) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c := vgimg.NewWith(vgimg.UseWH(s.Width, s.Height), vgimg.UseDPI(s.DPI))
	render(draw.New(c))
	err := utils.SafeWriteWith(path, func(w io.Writer) error {
		if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func (s Style) savePlot(path string, p *plot.Plot) error {
	return s.save(path, p.Draw)
}

// valueLabels annotates points with formatted values.
func (s Style) valueLabels(xys plotter.XYs, texts []string) (*plotter.Labels, error) {
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("value labels: %w", err)
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Font.Size = s.ValueSize
		l.TextStyle[i].XAlign = draw.XCenter
	}
	return l, nil
}

// axisMax returns the value-axis maximum: fixed when positive, else the data
// maximum scaled by headroom. Flat or empty data yields 1.
func axisMax(values []float64, fixed, headroom float64) float64 {
	if fixed > 0 {
		return fixed
	}
	if len(values) == 0 {
		return 1
	}
	hi := floats.Max(values)
	if hi <= 0 {
		return 1
	}
	return hi * headroom
}

// axisMin is 0 unless the data dips below it.
func axisMin(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if lo := floats.Min(values); lo < 0 {
		return lo * 1.15
	}
	return 0
}

func format(f string) string {
	if f == "" {
		return defaultFormat
	}
	return f
}

// barWidth spreads n slots of width over the canvas span.
func barWidth(span vg.Length, n int, fill float64) vg.Length {
	if n < 1 {
		n = 1
	}
	w := vg.Length(float64(span) * fill / float64(n+1))
	if limit := vg.Points(80); w > limit {
		w = limit
	}
	return w
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}
