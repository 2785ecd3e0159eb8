// Package analysis runs the child health pipeline: load the DHS tables,
// extract indicators, render every figure and write the report.
package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/KaramelBytes/dhsreport-cli/internal/chart"
	"github.com/KaramelBytes/dhsreport-cli/internal/config"
	"github.com/KaramelBytes/dhsreport-cli/internal/indicators"
	"github.com/KaramelBytes/dhsreport-cli/internal/manifest"
	"github.com/KaramelBytes/dhsreport-cli/internal/report"
	"github.com/KaramelBytes/dhsreport-cli/internal/table"
	"github.com/KaramelBytes/dhsreport-cli/internal/utils"
)

// Options controls one pipeline run.
type Options struct {
	InputDir    string
	OutputDir   string
	ReportName  string
	Title       string
	LabelColumn string
	HTML        bool
	Style       chart.Style
	// Sources maps table keys to their workbook (relative to InputDir) and sheet.
	Sources map[string]config.SourceConfig
	// Now stamps the report; time.Now when nil.
	Now func() time.Time
}

// OptionsFromConfig maps the global configuration to run options.
func OptionsFromConfig(c *config.Global) Options {
	return Options{
		InputDir:    c.InputDir,
		OutputDir:   c.OutputDir,
		ReportName:  c.ReportName,
		Title:       c.Title,
		LabelColumn: c.LabelColumn,
		HTML:        c.HTML,
		Style:       chart.NewStyle(c.DPI, c.ChartWidthIn, c.ChartHeightIn),
		Sources:     c.Sources,
	}
}

// Result describes what a run produced.
type Result struct {
	ReportPath   string
	HTMLPath     string
	ManifestPath string
	// Figures lists rendered figure IDs in report order.
	Figures []string
	// Skipped maps figure or indicator IDs to the reason they were not produced.
	Skipped  map[string]string
	Manifest *manifest.Manifest
}

// Run executes the pipeline. Missing tables and figures that cannot be drawn
// are logged and recorded; only output failures abort the run.
func Run(ctx context.Context, opt Options, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opt.ReportName == "" {
		opt.ReportName = config.Default().ReportName
	}
	if opt.Style.DPI == 0 {
		opt.Style = chart.DefaultStyle()
	}
	if err := opt.Style.Validate(); err != nil {
		return nil, err
	}
	now := time.Now
	if opt.Now != nil {
		now = opt.Now
	}
	if err := utils.EnsureDir(opt.OutputDir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	man := manifest.New(opt.OutputDir)
	res := &Result{Skipped: map[string]string{}, Manifest: man}
	skip := func(id string, err error) {
		res.Skipped[id] = err.Error()
		man.AddSkip(id, err)
	}

	w := &workspace{
		style:  opt.Style,
		tables: indicators.Tables{},
		series: map[string]*indicators.Series{},
	}
	var sources []report.Source
	for _, key := range sourceKeys(opt.Sources) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src := opt.Sources[key]
		path, found := table.Locate(filepath.Join(opt.InputDir, src.Workbook))
		if found {
			src.Workbook = filepath.Base(path)
		}
		t, err := table.Load(path, src.Sheet, opt.LabelColumn)
		rs := report.Source{Key: key, Workbook: src.Workbook, Sheet: src.Sheet}
		if err != nil {
			log.Warn("source not loaded", zap.String("table", key), zap.Error(err))
			rs.Err = err.Error()
			man.AddSource(key, src.Workbook, src.Sheet, 0, err)
			sources = append(sources, rs)
			continue
		}
		t.Name = key
		w.tables[key] = t
		rs.Rows = len(t.Rows)
		man.AddSource(key, src.Workbook, src.Sheet, rs.Rows, nil)
		sources = append(sources, rs)
		log.Debug("source loaded", zap.String("table", key), zap.Int("rows", rs.Rows))
	}

	conditions, err := indicators.Morbidity(w.tables)
	if err != nil {
		log.Warn("morbidity totals incomplete", zap.String("reason", err.Error()))
		skip("morbidity", err)
	}
	w.conditions = conditions
	var care *indicators.Condition
	if c, ok := indicators.FindCondition(conditions, indicators.KeyDiarrhea); ok {
		care = &c
	}
	w.treatments, w.treatErr = indicators.Treatments(w.tables[indicators.KeyORS], care)
	if w.treatErr != nil {
		log.Warn("treatment totals incomplete", zap.String("reason", w.treatErr.Error()))
		skip("treatments", w.treatErr)
	}
	if ft := w.tables[indicators.KeyFeeding]; ft != nil {
		w.feeding, w.feedingErr = indicators.ExtractFeeding(ft)
	} else {
		w.feedingErr = fmt.Errorf("%s: table not loaded", indicators.KeyFeeding)
	}
	if w.feedingErr != nil {
		log.Warn("feeding totals unavailable", zap.String("reason", w.feedingErr.Error()))
		skip("feeding", w.feedingErr)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.ReportPath = filepath.Join(opt.OutputDir, opt.ReportName)
	reportDir := filepath.Dir(res.ReportPath)
	if err := utils.EnsureDir(reportDir); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	figs := map[string]string{}
	w.renderFigures(opt.OutputDir, func(id, path string, err error) {
		if err != nil {
			log.Warn("figure skipped", zap.String("figure", id), zap.String("reason", err.Error()))
			skip(id, err)
			return
		}
		rel, rerr := filepath.Rel(reportDir, path)
		if rerr != nil {
			rel = path
		}
		figs[id] = filepath.ToSlash(rel)
		res.Figures = append(res.Figures, id)
		man.AddArtifact(id, manifest.KindFigure, path)
		log.Debug("figure saved", zap.String("figure", id))
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	md := report.Build(report.Input{
		Title:      opt.Title,
		Generated:  now(),
		Conditions: w.conditions,
		Treatments: w.treatments,
		Feeding:    w.feeding,
		Regional:   w.regional,
		Series:     w.series,
		Figures:    figs,
		Skipped:    res.Skipped,
		Sources:    sources,
	})
	if err := utils.SafeWriteFile(res.ReportPath, []byte(md)); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	man.AddArtifact(opt.ReportName, manifest.KindReport, res.ReportPath)

	if opt.HTML {
		res.HTMLPath = strings.TrimSuffix(res.ReportPath, filepath.Ext(res.ReportPath)) + ".html"
		title := opt.Title
		if title == "" {
			title = "Child Health Report"
		}
		if err := utils.SafeWriteFile(res.HTMLPath, report.ToHTML(md, title)); err != nil {
			return nil, fmt.Errorf("write html: %w", err)
		}
		man.AddArtifact(filepath.Base(res.HTMLPath), manifest.KindHTML, res.HTMLPath)
	}

	if err := man.Save(); err != nil {
		return nil, fmt.Errorf("save manifest: %w", err)
	}
	res.ManifestPath = filepath.Join(opt.OutputDir, manifest.FileName)
	log.Info("report written",
		zap.String("path", res.ReportPath),
		zap.Int("figures", len(res.Figures)),
		zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

func sourceKeys(sources map[string]config.SourceConfig) []string {
	c := config.Global{Sources: sources}
	return c.SourceKeys()
}
