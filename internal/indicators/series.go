package indicators

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KaramelBytes/dhsreport-cli/internal/resolve"
	"github.com/KaramelBytes/dhsreport-cli/internal/table"
)

// OverallLabel names the national point appended to age series.
const OverallLabel = "Ensemble"

// Point is one category value of a breakdown.
type Point struct {
	Category string
	Value    float64
}

// Series is an indicator column broken down by one dimension.
type Series struct {
	Table     string
	Dimension resolve.Dimension
	Column    string
	Points    []Point
}

// Categories returns the category labels in order.
func (s *Series) Categories() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Category
	}
	return out
}

// Values returns the point values in order.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Breakdown reads column for every category of d. Missing cells count as 0.
func Breakdown(t *table.Table, d resolve.Dimension, column string) (*Series, error) {
	if t == nil {
		return nil, fmt.Errorf("%s: table not loaded", d)
	}
	col, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", t.Name, column, resolve.ErrUnresolvedColumn)
	}
	column = col.Name
	rows := resolve.Resolve(t, d)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %s: %w", t.Name, d, resolve.ErrUnresolvedCategory)
	}
	s := &Series{Table: t.Name, Dimension: d, Column: column}
	for _, r := range rows {
		v, ok := t.Value(r.Row, column)
		if !ok {
			v = 0
		}
		s.Points = append(s.Points, Point{Category: r.Category, Value: v})
	}
	return s, nil
}

// ResolveBreakdown picks the indicator column from keywords and breaks it down by d.
func ResolveBreakdown(t *table.Table, d resolve.Dimension, keywords []string) (*Series, error) {
	if t == nil {
		return nil, fmt.Errorf("%s: table not loaded", d)
	}
	col, ok := resolve.ResolveColumn(t, keywords)
	if !ok {
		return nil, fmt.Errorf("%s: %v: %w", t.Name, keywords, resolve.ErrUnresolvedColumn)
	}
	return Breakdown(t, d, col)
}

// WithOverall returns a copy of s with an Ensemble point holding total.
func WithOverall(s *Series, total float64) *Series {
	out := *s
	out.Points = append(append([]Point(nil), s.Points...), Point{Category: OverallLabel, Value: total})
	return &out
}

// Title formats a category label for display, capitalising each word.
func Title(s string) string {
	return cases.Title(language.Und).String(s)
}

// Paired lines up two indicators over shared categories.
type Paired struct {
	Categories []string
	A, B       []float64
}

// Pair walks dims in order and, for each category of a, pairs its value with
// the value of b for the same category (case-insensitive) or 0. A dimension is
// used only when both sides resolve it. Categories already seen are skipped.
func Pair(a, b *table.Table, dims []resolve.Dimension, aKeys, bKeys []string) (*Paired, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("pair: table not loaded")
	}
	aCol, okA := resolve.ResolveColumn(a, aKeys)
	bCol, okB := resolve.ResolveColumn(b, bKeys)
	if !okA || !okB {
		return nil, fmt.Errorf("pair %s/%s: %w", a.Name, b.Name, resolve.ErrUnresolvedColumn)
	}
	p := &Paired{}
	seen := map[string]bool{}
	for _, d := range dims {
		as, err := Breakdown(a, d, aCol)
		if err != nil {
			continue
		}
		bs, err := Breakdown(b, d, bCol)
		if err != nil {
			continue
		}
		for _, pt := range as.Points {
			label := Title(pt.Category)
			if seen[label] {
				continue
			}
			seen[label] = true
			bv := 0.0
			for _, q := range bs.Points {
				if strings.EqualFold(q.Category, pt.Category) {
					bv = q.Value
					break
				}
			}
			p.Categories = append(p.Categories, label)
			p.A = append(p.A, pt.Value)
			p.B = append(p.B, bv)
		}
	}
	if len(p.Categories) == 0 {
		return nil, fmt.Errorf("pair %s/%s: %w", a.Name, b.Name, resolve.ErrUnresolvedCategory)
	}
	return p, nil
}

// Grid is a row by column matrix of values, used for regional heatmaps.
type Grid struct {
	Rows    []string
	Columns []string
	Values  [][]float64
}

// Regional builds a region by indicator grid. Each key's column is resolved
// with "yes", "had" and the key itself; regions appear in first-seen order and
// cells an indicator lacks hold 0.
func Regional(tables Tables, keys []string, names map[string]string) (*Grid, error) {
	type cell struct {
		col int
		v   float64
	}
	g := &Grid{}
	rowIdx := map[string]int{}
	var cells [][]cell
	for _, key := range keys {
		s, err := ResolveBreakdown(tables[key], resolve.Region, []string{"yes", "had", key})
		if err != nil {
			continue
		}
		name := names[key]
		if name == "" {
			name = Title(key)
		}
		col := len(g.Columns)
		g.Columns = append(g.Columns, name)
		for _, pt := range s.Points {
			label := Title(pt.Category)
			i, ok := rowIdx[label]
			if !ok {
				i = len(g.Rows)
				rowIdx[label] = i
				g.Rows = append(g.Rows, label)
				cells = append(cells, nil)
			}
			cells[i] = append(cells[i], cell{col: col, v: pt.Value})
		}
	}
	if len(g.Rows) == 0 {
		return nil, fmt.Errorf("regional grid: %w", resolve.ErrUnresolvedCategory)
	}
	g.Values = make([][]float64, len(g.Rows))
	for i := range g.Rows {
		g.Values[i] = make([]float64, len(g.Columns))
		for _, c := range cells[i] {
			g.Values[i][c.col] = c.v
		}
	}
	return g, nil
}
