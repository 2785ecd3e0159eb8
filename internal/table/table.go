package table

import (
	"math"
	"strings"
)

// DefaultLabelColumn is the header DHS exports use for hierarchical row labels.
const DefaultLabelColumn = "row_labels"

// Label is an optional row label. Valid is false when the source cell was absent.
type Label struct {
	Text  string
	Valid bool
}

// NewLabel returns a present label.
func NewLabel(s string) Label { return Label{Text: s, Valid: true} }

// Column describes a table column and its inferred type.
type Column struct {
	Name    string
	Numeric bool
}

// Row is one source row. Values is aligned with Table.Columns; cells that are
// missing or not numeric hold NaN and keep their raw text in Texts.
type Row struct {
	Index  int
	Label  Label
	Values []float64
	Texts  []string
}

// Source identifies where a table was loaded from.
type Source struct {
	Path  string
	Sheet string
}

// Table is an ordered set of rows sharing one header.
type Table struct {
	Name        string
	Source      Source
	Columns     []Column
	Rows        []Row
	LabelColumn int
}

// LabelColumnName returns the header of the label column, or "" when the table has none.
func (t *Table) LabelColumnName() string {
	if t == nil || t.LabelColumn < 0 || t.LabelColumn >= len(t.Columns) {
		return ""
	}
	return t.Columns[t.LabelColumn].Name
}

// ColumnIndex returns the index of the column with the given header (case-insensitive).
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t == nil {
		return -1, false
	}
	want := strings.TrimSpace(name)
	for i, c := range t.Columns {
		if strings.EqualFold(c.Name, want) {
			return i, true
		}
	}
	return -1, false
}

// Column returns the column with the given header (case-insensitive).
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return Column{}, false
	}
	return t.Columns[i], true
}

// Value returns the numeric value of row r in the named column. Missing or
// non-numeric cells report false.
func (t *Table) Value(r Row, column string) (float64, bool) {
	idx, ok := t.ColumnIndex(column)
	if !ok || idx >= len(r.Values) {
		return math.NaN(), false
	}
	v := r.Values[idx]
	if math.IsNaN(v) {
		return v, false
	}
	return v, true
}

// NumericColumns lists the headers of numeric-typed columns in table order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.Columns {
		if c.Numeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// FromRecords builds a table from a header and string records. labelColumn
// selects the row-label column by header; when it is empty or absent the first
// column is used.
func FromRecords(name string, header []string, records [][]string, labelColumn string) *Table {
	ncol := len(header)
	t := &Table{Name: name, LabelColumn: -1}
	t.Columns = make([]Column, ncol)
	for i, h := range header {
		t.Columns[i] = Column{Name: strings.TrimSpace(h)}
	}
	if ncol == 0 {
		return t
	}
	if labelColumn == "" {
		labelColumn = DefaultLabelColumn
	}
	if idx, ok := t.ColumnIndex(labelColumn); ok {
		t.LabelColumn = idx
	} else {
		t.LabelColumn = 0
	}

	numCnt := make([]int, ncol)
	txtCnt := make([]int, ncol)
	for i, rec := range records {
		if len(rec) < ncol {
			tmp := make([]string, ncol)
			copy(tmp, rec)
			rec = tmp
		}
		row := Row{Index: i, Values: make([]float64, ncol), Texts: make([]string, ncol)}
		for j := 0; j < ncol; j++ {
			v := strings.TrimSpace(rec[j])
			row.Texts[j] = v
			row.Values[j] = math.NaN()
			if v == "" {
				continue
			}
			if j == t.LabelColumn {
				txtCnt[j]++
				continue
			}
			if x, ok := ParseNumeric(v); ok {
				row.Values[j] = x
				numCnt[j]++
				continue
			}
			txtCnt[j]++
		}
		if v := row.Texts[t.LabelColumn]; v != "" {
			// keep the untrimmed cell so marker checks see the raw label
			row.Label = NewLabel(rec[t.LabelColumn])
		}
		t.Rows = append(t.Rows, row)
	}
	for j := range t.Columns {
		t.Columns[j].Numeric = j != t.LabelColumn && numCnt[j] > 0 && txtCnt[j] == 0
	}
	return t
}
