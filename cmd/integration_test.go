package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/xuri/excelize/v2"

	cfgpkg "github.com/KaramelBytes/dhsreport-cli/internal/config"
)

// resetFlags clears values and Changed state that persist across invocations.
func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// runCmd is a helper to execute the root command with args and return stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	for _, c := range []interface{ Flags() *pflag.FlagSet }{rootCmd, generateCmd, inspectCmd} {
		resetFlags(c.Flags())
	}
	resetFlags(rootCmd.PersistentFlags())
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out.String()
}

func writeDiarrheaWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "Diarrhea"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	rows := [][]any{
		{"row_labels", "Diarrhea in the 2 weeks before the survey|Yes", "Advice or treatment sought for diarrhea|Yes"},
		{"Age in months|<6", 6.1, 49.0},
		{"Age in months|6-11", 17.5, 58.0},
		{"Residence|Urban", 10.0, 60.0},
		{"Residence|Rural", 13.8, 51.0},
		{"Weighted N", 4512.0, 540.0},
		{"Total", 12.3, 52.4},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := r
		if err := f.SetSheetRow("Diarrhea", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(dir, "Tables_DIAR.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestCLI_GenerateWithPartialInputs(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeDiarrheaWorkbook(t, in)

	got := runCmd(t, "generate", "--input-dir", in, "--output-dir", out, "--dpi", "40", "--html")
	for _, want := range []string{
		"✓ Saved fig3_diarrhea_age.png",
		"⚠ Skipped fig1_birthweight_region.png",
		"✓ Report written to " + filepath.Join(out, "Child_Health_Report.md"),
		"✓ HTML written to " + filepath.Join(out, "Child_Health_Report.html"),
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "manifest.json")); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
}

func TestCLI_GenerateQuiet(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeDiarrheaWorkbook(t, in)
	if got := runCmd(t, "generate", "--input-dir", in, "--output-dir", out, "--dpi", "40", "-q", "--report", "r.md"); got != "" {
		t.Fatalf("quiet run printed %q", got)
	}
	if _, err := os.Stat(filepath.Join(out, "r.md")); err != nil {
		t.Fatalf("report missing: %v", err)
	}
}

func TestCLI_GenerateRejectsBadDPI(t *testing.T) {
	resetFlags(generateCmd.Flags())
	cfg = nil
	rootCmd.SetArgs([]string{"generate", "--input-dir", t.TempDir(), "--output-dir", t.TempDir(), "--dpi=-5"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected error for negative dpi")
	}
}

func TestCLI_Inspect(t *testing.T) {
	dir := t.TempDir()
	wb := writeDiarrheaWorkbook(t, dir)

	got := runCmd(t, "inspect", wb, "--sheet", "Diarrhea")
	for _, want := range []string{"[TABLE SUMMARY]", "Total row: Total", "- age: <6, 6-11", "- residence: Urban, Rural"} {
		if !strings.Contains(got, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, got)
		}
	}

	dest := filepath.Join(dir, "inspect.md")
	got = runCmd(t, "inspect", wb, "-o", dest)
	if !strings.Contains(got, "✓ Wrote inspection to") {
		t.Fatalf("unexpected output %q", got)
	}
	if b, err := os.ReadFile(dest); err != nil || !strings.Contains(string(b), "[SCHEMA]") {
		t.Fatalf("inspection file = %q, %v", b, err)
	}

	if got := runCmd(t, "inspect", wb, "--list-sheets"); strings.TrimSpace(got) != "Diarrhea" {
		t.Fatalf("list-sheets = %q", got)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	runCmd(t, "config", "set", "dpi", "200", "--config", path)
	runCmd(t, "config", "set", "sources.ari.sheet", "IRA", "--config", path)

	c, err := cfgpkg.Load(path)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if c.DPI != 200 || c.Sources["ari"].Sheet != "IRA" || c.Sources["ari"].Workbook != "Tables_ARI_FV.xls" {
		t.Fatalf("saved config = %+v", c)
	}

	got := runCmd(t, "config", "show")
	if !strings.Contains(got, "dpi: 150") || !strings.Contains(got, "ari: Tables_ARI_FV.xls [ARI]") {
		t.Fatalf("config show:\n%s", got)
	}
	if err := setConfigValue(cfgpkg.Default(), "nope", "x"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestSetConfigValueLowercasesSourceKey(t *testing.T) {
	c := cfgpkg.Default()
	if err := setConfigValue(c, "sources.ORS.sheet", "SRO"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := c.Sources["ORS"]; ok {
		t.Fatalf("mixed-case key stored: %v", c.SourceKeys())
	}
	if got := c.Sources["ors"]; got.Sheet != "SRO" || got.Workbook != "Tables_DIAR.xls" {
		t.Fatalf("ors source = %+v", got)
	}
	if len(c.Sources) != len(cfgpkg.DefaultSources()) {
		t.Fatalf("sources = %v", c.SourceKeys())
	}
}
