package chart

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DualBar writes two bar panels side by side under a shared title.
func (s Style) DualBar(path, title string, left, right Bars) error {
	lp, err := s.barPlot(left, false)
	if err != nil {
		return err
	}
	rp, err := s.barPlot(right, false)
	if err != nil {
		return err
	}
	return s.save(path, func(dc draw.Canvas) {
		top := vg.Length(0)
		if title != "" {
			top = s.TitleSize * 2
			sty := text.Style{
				Color:   color.Black,
				Font:    font.From(plot.DefaultFont, s.TitleSize),
				XAlign:  draw.XCenter,
				YAlign:  draw.YTop,
				Handler: plot.DefaultTextHandler,
			}
			dc.FillText(sty, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - s.TitleSize/2}, title)
		}
		tiles := draw.Tiles{Rows: 1, Cols: 2, PadTop: top, PadX: vg.Millimeter * 6}
		panels := [][]*plot.Plot{{lp, rp}}
		canvases := plot.Align(panels, tiles, dc)
		lp.Draw(canvases[0][0])
		rp.Draw(canvases[0][1])
	})
}
