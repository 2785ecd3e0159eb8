package table

import (
	"fmt"
	"strings"

	"github.com/extrame/xls"
)

// xlsLoader reads legacy BIFF workbooks, the format DHS StatCompiler exports use.
type xlsLoader struct{}

func (xlsLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xls")
}

// Load reads a sheet selected by name (case-insensitive). An empty sheet name
// selects the first sheet. The first row is the header.
func (xlsLoader) Load(path, sheet, labelColumn string) (t *Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("read xls: malformed workbook: %v", r)
		}
	}()
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	sheets := xlsSheets(wb)
	names := make([]string, len(sheets))
	for i, ws := range sheets {
		names[i] = ws.Name
	}
	target, err := pickSheet(names, sheet, path)
	if err != nil {
		return nil, err
	}
	for _, ws := range sheets {
		if ws.Name == target {
			return fromGrid(target, gridOf(biffRows{ws}), labelColumn)
		}
	}
	return nil, fmt.Errorf("sheet %s not readable", target)
}

func xlsSheets(wb *xls.WorkBook) []*xls.WorkSheet {
	var out []*xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		if ws := wb.GetSheet(i); ws != nil {
			out = append(out, ws)
		}
	}
	return out
}

func xlsSheetNames(path string) (names []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			names, err = nil, fmt.Errorf("read xls: malformed workbook: %v", r)
		}
	}()
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	for _, ws := range xlsSheets(wb) {
		names = append(names, ws.Name)
	}
	return names, nil
}

// sheetRows is the row access gridOf needs from a worksheet.
type sheetRows interface {
	// rowCount is one past the last row index.
	rowCount() int
	// cells returns the row's cells from column 0; nil for an absent row.
	cells(i int) []string
}

type biffRows struct{ ws *xls.WorkSheet }

func (b biffRows) rowCount() int { return int(b.ws.MaxRow) + 1 }

func (b biffRows) cells(i int) []string {
	row := b.ws.Row(i)
	if row == nil {
		return nil
	}
	last := row.LastCol()
	if last <= 0 {
		return nil
	}
	out := make([]string, last)
	for j := row.FirstCol(); j < last; j++ {
		if j >= 0 {
			out[j] = row.Col(j)
		}
	}
	return out
}

// gridOf copies a sheet into a rectangular-enough grid. Absent rows become
// empty records and trailing blank rows are dropped.
func gridOf(s sheetRows) [][]string {
	n := s.rowCount()
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, s.cells(i))
	}
	for len(rows) > 0 && blank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
