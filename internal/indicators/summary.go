package indicators

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary describes the spread of a breakdown series.
type Summary struct {
	N           int
	Mean        float64
	Min         float64
	Max         float64
	MinCategory string
	MaxCategory string
}

// Spread is the gap between the highest and lowest category.
func (s Summary) Spread() float64 { return s.Max - s.Min }

// Summarize computes mean and extremes of s. The first category holding an
// extreme is reported.
func Summarize(s *Series) (Summary, error) {
	if s == nil || len(s.Points) == 0 {
		return Summary{}, fmt.Errorf("summarize: %w", stats.ErrEmptyInput)
	}
	data := stats.Float64Data(s.Values())
	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize %s: %w", s.Column, err)
	}
	lo, err := stats.Min(data)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize %s: %w", s.Column, err)
	}
	hi, err := stats.Max(data)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize %s: %w", s.Column, err)
	}
	out := Summary{N: len(data), Mean: mean, Min: lo, Max: hi}
	for _, p := range s.Points {
		if out.MinCategory == "" && p.Value == lo {
			out.MinCategory = p.Category
		}
		if out.MaxCategory == "" && p.Value == hi {
			out.MaxCategory = p.Category
		}
	}
	return out, nil
}
