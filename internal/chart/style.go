// Package chart renders the report figures as PNG files with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when an emitter receives nothing to draw.
var ErrNoData = errors.New("chart: no data")

// Named colours shared by the figures.
var (
	Red    = RGB(0xE74C3C)
	Blue   = RGB(0x3498DB)
	Green  = RGB(0x27AE60)
	Orange = RGB(0xF39C12)
	Slate  = RGB(0x2C3E50)
	Grey   = RGB(0x95A5A6)
	Olive  = RGB(0x808000)
	Sky    = RGB(0x87CEEB)
	Navy   = RGB(0x4472C4)
	Leaf   = RGB(0x70AD47)
	Amber  = RGB(0xE67E22)
	Brick  = RGB(0xC0392B)
)

// RGB converts a 0xRRGGBB value to an opaque colour.
func RGB(hex uint32) color.RGBA {
	return color.RGBA{R: uint8(hex >> 16), G: uint8(hex >> 8), B: uint8(hex), A: 0xFF}
}

// Style is the rendering configuration shared by every emitter in a run.
type Style struct {
	DPI       int
	Width     vg.Length
	Height    vg.Length
	TitleSize vg.Length
	LabelSize vg.Length
	ValueSize vg.Length
	// Palette colours series and bars that carry no colour of their own.
	Palette []color.Color
}

// DefaultStyle returns a 10x6 inch, 150 DPI style.
func DefaultStyle() Style {
	return NewStyle(150, 10, 6)
}

// NewStyle returns the default style at the given DPI and size in inches.
func NewStyle(dpi int, widthIn, heightIn float64) Style {
	return Style{
		DPI:       dpi,
		Width:     vg.Length(widthIn) * vg.Inch,
		Height:    vg.Length(heightIn) * vg.Inch,
		TitleSize: vg.Points(14),
		LabelSize: vg.Points(12),
		ValueSize: vg.Points(10),
		Palette:   []color.Color{Blue, Red, Green, Orange, Slate, Amber, Grey},
	}
}

// WithSize returns a copy of s with a different canvas size in inches.
func (s Style) WithSize(widthIn, heightIn float64) Style {
	s.Width = vg.Length(widthIn) * vg.Inch
	s.Height = vg.Length(heightIn) * vg.Inch
	return s
}

// Validate rejects styles that cannot produce an image.
func (s Style) Validate() error {
	if s.DPI <= 0 {
		return fmt.Errorf("chart: dpi must be positive, got %d", s.DPI)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("chart: size must be positive, got %vx%v", s.Width, s.Height)
	}
	return nil
}

func (s Style) color(i int) color.Color {
	if len(s.Palette) == 0 {
		return Blue
	}
	return s.Palette[i%len(s.Palette)]
}

// Ramp returns n colours interpolated between from and to.
func Ramp(n int, from, to color.RGBA) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		f := 0.0
		if n > 1 {
			f = float64(i) / float64(n-1)
		}
		lerp := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*f) }
		out[i] = color.RGBA{R: lerp(from.R, to.R), G: lerp(from.G, to.G), B: lerp(from.B, to.B), A: 0xFF}
	}
	return out
}
