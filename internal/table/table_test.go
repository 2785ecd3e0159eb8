package table

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.5", 12.5, true},
		{"12,5", 12.5, true},
		{"12.5%", 12.5, true},
		{" 7 ", 7, true},
		{"(3.2)", 3.2, true},
		{"1.000,5", 1000.5, true},
		{"1,234", 1234, true},
		{"1,234,567", 1234567, true},
		{"-1,234", -1234, true},
		{"1.234.567", 1234567, true},
		{"1,234.5", 1234.5, true},
		{"0,123", 0.123, true},
		{"12,3456", 12.3456, true},
		{"1.234", 1.234, true},
		{"1,2,3", 0, false},
		{"", 0, false},
		{"Yes", 0, false},
		{"*", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumeric(c.in)
		if ok != c.ok {
			t.Fatalf("ParseNumeric(%q) ok = %v, want %v", c.in, ok, c.ok)
		}
		if ok && math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("ParseNumeric(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFromRecordsInfersTypesAndLabels(t *testing.T) {
	header := []string{"row_labels", "Diarrhea|Yes", "Note"}
	records := [][]string{
		{"Age|<6", "10.2", "a"},
		{"Age|6-11", "15.4"},
		{"", "", "b"},
		{"Weighted N", "842", ""},
	}
	tbl := FromRecords("Diarrhea", header, records, "")
	if tbl.LabelColumnName() != "row_labels" {
		t.Fatalf("label column = %q", tbl.LabelColumnName())
	}
	if tbl.Columns[0].Numeric {
		t.Fatalf("label column must not be numeric")
	}
	if !tbl.Columns[1].Numeric {
		t.Fatalf("expected Diarrhea|Yes numeric")
	}
	if tbl.Columns[2].Numeric {
		t.Fatalf("expected Note non-numeric")
	}
	if len(tbl.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(tbl.Rows))
	}
	if !tbl.Rows[0].Label.Valid || tbl.Rows[0].Label.Text != "Age|<6" {
		t.Fatalf("row 0 label = %#v", tbl.Rows[0].Label)
	}
	if tbl.Rows[2].Label.Valid {
		t.Fatalf("blank label should be absent")
	}
	if v, ok := tbl.Value(tbl.Rows[1], "diarrhea|yes"); !ok || v != 15.4 {
		t.Fatalf("value = %v,%v want 15.4", v, ok)
	}
	if _, ok := tbl.Value(tbl.Rows[1], "Note"); ok {
		t.Fatalf("padded cell should be missing")
	}
}

func TestFromRecordsFallsBackToFirstColumn(t *testing.T) {
	tbl := FromRecords("x", []string{"Characteristic", "Value"}, [][]string{{"Total", "3"}}, "row_labels")
	if tbl.LabelColumn != 0 {
		t.Fatalf("label column = %d, want 0", tbl.LabelColumn)
	}
	if got := tbl.NumericColumns(); len(got) != 1 || got[0] != "Value" {
		t.Fatalf("numeric columns = %v", got)
	}
}

func writeWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for i, r := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			row := r
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "tables.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestLoadXLSXBySheetName(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"ORS": {
			{"row_labels", "Given oral rehydration salts for diarrhea|Yes"},
			{"Wealth quintile|Poorest", 20.5},
			{"Total", 33.1},
		},
	})
	tbl, err := Load(path, "ors", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Name != "ORS" {
		t.Fatalf("name = %q, want ORS", tbl.Name)
	}
	if tbl.Source.Path != path || tbl.Source.Sheet != "ors" {
		t.Fatalf("source = %#v", tbl.Source)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	if v, ok := tbl.Value(tbl.Rows[1], "Given oral rehydration salts for diarrhea|Yes"); !ok || v != 33.1 {
		t.Fatalf("total value = %v,%v", v, ok)
	}
}

func TestLoadXLSXMissingSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{"Fever": {{"row_labels", "x"}}})
	_, err := Load(path, "ARI", "")
	var le *SourceLoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected SourceLoadError, got %v", err)
	}
	if le.Sheet != "ARI" {
		t.Fatalf("sheet = %q", le.Sheet)
	}
}

func TestLoadMissingFileAndUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	var le *SourceLoadError
	if _, err := Load(filepath.Join(dir, "nope.xlsx"), "", ""); !errors.As(err, &le) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err = %v", err)
	}
	ods := filepath.Join(dir, "Tables_DIAR.ods")
	if err := os.WriteFile(ods, []byte("zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(ods, "Diarrhea", ""); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("ods err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadXLSMalformed(t *testing.T) {
	legacy := filepath.Join(t.TempDir(), "Tables_DIAR.xls")
	if err := os.WriteFile(legacy, []byte("binary"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(legacy, "Diarrhea", "")
	var le *SourceLoadError
	if !errors.As(err, &le) || errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("xls err = %v, want a read failure", err)
	}
	if !strings.Contains(err.Error(), "xls") {
		t.Fatalf("xls err = %v", err)
	}
	if _, err := SheetNames(legacy); err == nil {
		t.Fatalf("expected SheetNames error for malformed xls")
	}
}

// gridSheet is an in-memory sheetRows; nil rows are absent.
type gridSheet [][]string

func (g gridSheet) rowCount() int { return len(g) }
func (g gridSheet) cells(i int) []string { return g[i] }

func TestXLSGridToTable(t *testing.T) {
	grid := gridOf(gridSheet{
		{"row_labels", "Diarrhea in the 2 weeks before the survey|Yes", "Number of children"},
		{"Residence|Urban", "10", "1,234"},
		nil,
		{"", "", ""},
		{"Residence|Rural", "13.8", "2,005"},
		{"Total", "12.3", "3,239"},
		nil,
		{"", " "},
	})
	if len(grid) != 6 {
		t.Fatalf("grid rows = %d, want 6 (trailing blanks dropped)", len(grid))
	}
	tbl, err := fromGrid("Diarrhea", grid, "")
	if err != nil {
		t.Fatalf("fromGrid: %v", err)
	}
	if !tbl.Columns[1].Numeric || !tbl.Columns[2].Numeric {
		t.Fatalf("columns = %+v", tbl.Columns)
	}
	if v, ok := tbl.Value(tbl.Rows[4], "Number of children"); !ok || v != 3239 {
		t.Fatalf("total count = %v,%v", v, ok)
	}
	if _, err := fromGrid("Empty", gridOf(gridSheet{nil}), ""); err == nil {
		t.Fatalf("expected header error for empty sheet")
	}
}

func TestPickSheet(t *testing.T) {
	sheets := []string{"Diarrhea", "ORS ", "Feeding"}
	if got, err := pickSheet(sheets, "", "t.xls"); err != nil || got != "Diarrhea" {
		t.Fatalf("default sheet = %q, %v", got, err)
	}
	if got, err := pickSheet(sheets, "ors", "t.xls"); err != nil || got != "ORS " {
		t.Fatalf("ors sheet = %q, %v", got, err)
	}
	_, err := pickSheet(sheets, "ARI", "t.xls")
	if err == nil || !strings.Contains(err.Error(), "available sheets: Diarrhea, ORS , Feeding") {
		t.Fatalf("missing sheet err = %v", err)
	}
	if _, err := pickSheet(nil, "", "t.xls"); err == nil {
		t.Fatalf("expected error for workbook without sheets")
	}
}

func TestLocateFallsBackToSiblingWorkbook(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "Tables_DIAR.xlsx")
	if err := os.WriteFile(xlsx, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, ok := Locate(filepath.Join(dir, "Tables_DIAR.xls")); !ok || got != xlsx {
		t.Fatalf("Locate(.xls) = %q,%v, want %q", got, ok, xlsx)
	}
	if got, ok := Locate(xlsx); !ok || got != xlsx {
		t.Fatalf("Locate(existing) = %q,%v", got, ok)
	}
	missing := filepath.Join(dir, "Tables_Size.xls")
	if got, ok := Locate(missing); ok || got != missing {
		t.Fatalf("Locate(missing) = %q,%v", got, ok)
	}
	csv := filepath.Join(dir, "Tables_DIAR.csv")
	if _, ok := Locate(csv); ok {
		t.Fatalf("csv should not fall back to a workbook")
	}
}

func TestLoadXLSXGroupedCounts(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	style, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		t.Fatalf("new style: %v", err)
	}
	sheet := "Sheet1"
	cells := map[string]any{
		"A1": "row_labels", "B1": "Number of children",
		"A2": "Residence|Urban", "B2": 1234,
		"A3": "Total", "B3": 1234567,
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}
	if err := f.SetCellStyle(sheet, "B2", "B3", style); err != nil {
		t.Fatalf("set style: %v", err)
	}
	path := filepath.Join(t.TempDir(), "counts.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	tbl, err := Load(path, "", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !tbl.Columns[1].Numeric {
		t.Fatalf("count column not numeric: texts %q, %q", tbl.Rows[0].Texts[1], tbl.Rows[1].Texts[1])
	}
	for i, want := range []float64{1234, 1234567} {
		if v, ok := tbl.Value(tbl.Rows[i], "Number of children"); !ok || v != want {
			t.Fatalf("row %d (%q) = %v,%v, want %v", i, tbl.Rows[i].Texts[1], v, ok, want)
		}
	}
}

func TestLoadCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "fever.csv")
	content := "row_labels,Fever symptoms in the 2 weeks before the survey|Yes\n" +
		"Residence|Urban,14.1\n" +
		"Residence|Rural,16.0\n" +
		"Total,15.2\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Load(p, "", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Name != "fever" {
		t.Fatalf("name = %q", tbl.Name)
	}
	if len(tbl.Rows) != 3 || !tbl.Columns[1].Numeric {
		t.Fatalf("unexpected table: %+v", tbl)
	}
}
