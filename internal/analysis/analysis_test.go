package analysis

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/KaramelBytes/dhsreport-cli/internal/chart"
	"github.com/KaramelBytes/dhsreport-cli/internal/config"
	"github.com/KaramelBytes/dhsreport-cli/internal/manifest"
	"github.com/KaramelBytes/dhsreport-cli/internal/report"
	"github.com/KaramelBytes/dhsreport-cli/internal/table"
)

func writeWorkbook(t *testing.T, path string, sheets map[string][][]any) {
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
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

func diarrheaSheets() map[string][][]any {
	return map[string][][]any{
		"Diarrhea": {
			{"row_labels", "Diarrhea in the 2 weeks before the survey|Yes", "Advice or treatment sought for diarrhea|Yes"},
			{"Age in months|<6", 6.1, 49.0},
			{"Age in months|6-11", 17.5, 58.0},
			{"Age in months|12-23", 19.4, 55.0},
			{"Residence|Urban", 10.0, 60.0},
			{"Residence|Rural", 13.8, 51.0},
			{"Region|Adamawa", 15.2, 40.0},
			{"Region|Douala", 8.0, 62.0},
			{"Weighted N", 4512.0, 540.0},
			{"Total", 12.3, 52.4},
		},
		"ORS": {
			{"row_labels", "Given oral rehydration salts for diarrhea|Yes", "Given zinc for diarrhea|Yes",
				"Given zinc and ORS for diarrhea|Yes",
				"Given oral rehydration treatment or increased liquids for diarrhea|Yes",
				"No treatment for diarrhea|Yes"},
			{"Wealth|Poorest", 10.0, 12.0, 5.0, 40.0, 30.0},
			{"Wealth|Middle", 20.0, 20.0, 9.0, 55.0, 22.0},
			{"Wealth|Richest", 35.0, 28.0, 14.0, 70.0, 15.0},
			{"Total", 18.2, 21.0, 9.5, 54.0, 23.4},
		},
		"Feeding": {
			{"row_labels", "Amount of liquids given|More", "Amount of liquids given|Same",
				"Amount of liquids given|Somewhat less", "Amount of liquids given|Much less",
				"Amount of liquids given|None", "Amount of food given|More", "Amount of food given|Same",
				"Amount of food given|Somewhat less", "Amount of food given|Much less",
				"Amount of food given|None"},
			{"Total", 20.0, 35.0, 25.0, 12.0, 8.0, 10.0, 30.0, 35.0, 15.0, 10.0},
		},
	}
}

func writeInputs(t *testing.T, dir string, withAll bool) {
	t.Helper()
	writeWorkbook(t, filepath.Join(dir, "Tables_DIAR.xlsx"), diarrheaSheets())
	if !withAll {
		return
	}
	writeWorkbook(t, filepath.Join(dir, "Tables_Size.xlsx"), map[string][][]any{
		"Size_birthweight": {
			{"row_labels", "Birth weight less than 2.5 kg|Yes"},
			{"Mother's age at birth|<20", 14.0},
			{"Mother's age at birth|20-34", 9.0},
			{"Mother's age at birth|35-49", 11.0},
			{"Region|Adamawa", 12.5},
			{"Region|Douala", 7.2},
			{"Region|North", 15.8},
			{"Total", 10.1},
		},
	})
	writeWorkbook(t, filepath.Join(dir, "Tables_ARI_FV.xlsx"), map[string][][]any{
		"Fever": {
			{"row_labels", "Fever symptoms in the 2 weeks before the survey|Yes", "Advice or treatment sought for fever symptoms|Yes"},
			{"Residence|Urban", 13.0, 65.0},
			{"Residence|Rural", 16.0, 58.0},
			{"Wealth|Poorest", 18.0, 45.0},
			{"Wealth|Richest", 11.0, 75.0},
			{"Mother's education|No education", 17.0, 44.0},
			{"Mother's education|Secondary", 13.5, 68.0},
			{"Region|Adamawa", 20.5, 45.0},
			{"Region|Douala", 11.0, 70.0},
			{"Total", 15.1, 61.2},
		},
		"ARI": {
			{"row_labels", "ARI symptoms in the 2 weeks before the survey|Yes", "Advice or treatment sought for ARI symptoms|Yes"},
			{"Residence|Urban", 2.1, 70.0},
			{"Residence|Rural", 3.4, 55.0},
			{"Region|Adamawa", 4.0, 50.0},
			{"Total", 2.9, 60.5},
		},
	})
}

func testOptions(in, out string) Options {
	return Options{
		InputDir:    in,
		OutputDir:   out,
		ReportName:  "Child_Health_Report.md",
		Title:       "Child Health",
		LabelColumn: table.DefaultLabelColumn,
		HTML:        true,
		Style:       chart.NewStyle(50, 4, 3),
		Sources:     config.DefaultSources(),
		Now:         func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) },
	}
}

func TestRunRendersEveryFigure(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInputs(t, in, true)

	res, err := Run(context.Background(), testOptions(in, out), zap.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Skipped) != 0 {
		t.Fatalf("unexpected skips: %v", res.Skipped)
	}
	if diff := cmp.Diff(report.Figures(), res.Figures); diff != "" {
		t.Fatalf("figures mismatch (-want +got):\n%s", diff)
	}
	pngMagic := []byte("\x89PNG\r\n\x1a\n")
	for _, id := range res.Figures {
		data, err := os.ReadFile(filepath.Join(out, id))
		if err != nil {
			t.Fatalf("read %s: %v", id, err)
		}
		if !bytes.HasPrefix(data, pngMagic) {
			t.Fatalf("%s is not a PNG", id)
		}
	}

	md, err := os.ReadFile(res.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{
		"# Child Health",
		"](fig1_birthweight_region.png)",
		"](graphique_10_8_prevalence_treatment.png)",
		"| Diarrhea | 12.3 | 52.4 |",
	} {
		if !strings.Contains(string(md), want) {
			t.Fatalf("report missing %q", want)
		}
	}
	if _, err := os.Stat(res.HTMLPath); err != nil {
		t.Fatalf("html not written: %v", err)
	}

	m, err := manifest.Load(out)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if m.RunID == "" || len(m.Sources) != 6 {
		t.Fatalf("manifest = %+v", m)
	}
	if got := len(m.Figures()); got != len(report.Figures()) {
		t.Fatalf("manifest figures = %d, want %d", got, len(report.Figures()))
	}
	if a, ok := m.Artifact("Child_Health_Report.md"); !ok || a.Path != "Child_Health_Report.md" {
		t.Fatalf("report artifact = %+v, %v", a, ok)
	}
}

func TestRunSkipsWhatMissingSourcesFeed(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInputs(t, in, false)
	opt := testOptions(in, out)
	opt.HTML = false

	res, err := Run(context.Background(), opt, zap.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, id := range []string{report.FigBirthweightRegion, report.FigFeverARI, report.FigCareSeekingEducation, "morbidity"} {
		if _, ok := res.Skipped[id]; !ok {
			t.Fatalf("expected %s to be skipped, got %v", id, res.Skipped)
		}
	}
	rendered := map[string]bool{}
	for _, id := range res.Figures {
		rendered[id] = true
	}
	for _, id := range []string{report.FigDiarrheaAge, report.FigORSWealth, report.FigFeeding107, report.FigDiarrheaAge106} {
		if !rendered[id] {
			t.Fatalf("expected %s to render, skipped: %v", id, res.Skipped[id])
		}
	}
	if _, err := os.Stat(filepath.Join(out, report.FigBirthweightRegion)); !os.IsNotExist(err) {
		t.Fatalf("skipped figure written: %v", err)
	}
	if res.HTMLPath != "" {
		t.Fatalf("html written without flag: %s", res.HTMLPath)
	}

	md, err := os.ReadFile(res.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(md), "Figure 1: Low birth weight (<2.5 kg) by region is not available") {
		t.Fatalf("report does not explain missing figure 1:\n%s", md)
	}

	m, err := manifest.Load(out)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	failed := 0
	for _, s := range m.Sources {
		// configured .xls names fall back to the .xlsx files on disk
		want := "Tables_DIAR.xlsx"
		if s.Error != "" {
			failed++
			want = config.DefaultSources()[s.Key].Workbook
		}
		if s.Workbook != want {
			t.Fatalf("source %s workbook = %q, want %q", s.Key, s.Workbook, want)
		}
	}
	if failed != 3 {
		t.Fatalf("failed sources = %d, want 3", failed)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInputs(t, in, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, testOptions(in, out), zap.NewNop()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunRejectsInvalidStyle(t *testing.T) {
	opt := testOptions(t.TempDir(), t.TempDir())
	opt.Style.Width = 0
	if _, err := Run(context.Background(), opt, nil); err == nil {
		t.Fatalf("expected style error")
	}
}

func TestInspect(t *testing.T) {
	tbl := table.FromRecords("Diarrhea", []string{"row_labels", "Diarrhea|Yes", "Note"}, [][]string{
		{"Age in months|6-11", "20.1", ""},
		{"Age in months|<6", "10.5", "low"},
		{"Residence|Urban", "9", ""},
		{"Weighted N", "1200", ""},
		{"Total", "12", ""},
	}, "")
	in := Inspect(tbl)
	if in.Rows != 5 || in.DataRows != 4 {
		t.Fatalf("rows = %d/%d, want 5/4", in.Rows, in.DataRows)
	}
	if !in.HasTotal || in.TotalLabel != "Total" {
		t.Fatalf("total = %v %q", in.HasTotal, in.TotalLabel)
	}
	kinds := []string{}
	for _, c := range in.Columns {
		kinds = append(kinds, c.Kind)
	}
	if diff := cmp.Diff([]string{"label", "numeric", "text"}, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if c := in.Columns[1]; c.Min != 9 || c.Max != 1200 {
		t.Fatalf("numeric summary = %+v", c)
	}

	md := in.Markdown()
	for _, want := range []string{
		"[TABLE SUMMARY]",
		"Rows: 5 (data rows 4)",
		"Total row: Total",
		"- Diarrhea/Yes: numeric (non-null 5, missing 0.0%)",
		"- Note: text (non-null 1, missing 80.0%)",
		"- age: <6, 6-11",
		"- residence: Urban",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestInspectWithoutTotal(t *testing.T) {
	tbl := table.FromRecords("x", []string{"row_labels", "v"}, [][]string{{"Other|thing", "1"}}, "")
	md := Inspect(tbl).Markdown()
	if !strings.Contains(md, "Total row: missing") || !strings.Contains(md, "- none resolved") {
		t.Fatalf("markdown = %s", md)
	}
}
