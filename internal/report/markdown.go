// Package report assembles the child health Markdown report.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/dhsreport-cli/internal/indicators"
	"github.com/KaramelBytes/dhsreport-cli/internal/utils"
)

// Source describes one input table for the appendix.
type Source struct {
	Key      string
	Workbook string
	Sheet    string
	Rows     int
	Err      string
}

// Input is everything the report reads. Figures maps figure IDs to image paths
// relative to the report; Skipped maps figure or indicator IDs to a reason.
type Input struct {
	Title      string
	Generated  time.Time
	Conditions []indicators.Condition
	Treatments []indicators.Measure
	Feeding    *indicators.Feeding
	Regional   *indicators.Grid
	Series     map[string]*indicators.Series
	Figures    map[string]string
	Skipped    map[string]string
	Sources    []Source
}

// Build renders the report as Markdown.
func Build(in Input) string {
	var b strings.Builder
	title := in.Title
	if title == "" {
		title = "Child Health Report"
	}
	b.WriteString(fmt.Sprintf("# %s\n\n", title))
	if !in.Generated.IsZero() {
		b.WriteString(fmt.Sprintf("_Generated %s from DHS tabulations._\n\n", in.Generated.Format("2006-01-02 15:04")))
	}

	b.WriteString("## Key results\n\n")
	writeConditions(&b, in.Conditions)

	b.WriteString("## 1. Birth weight and size\n\n")
	b.WriteString("### 1.1 Low birth weight by region\n\n")
	in.figure(&b, FigBirthweightRegion)
	in.narrate(&b, FigBirthweightRegion, "the share of low birth weight")
	b.WriteString("### 1.2 Low birth weight by maternal age\n\n")
	in.figure(&b, FigBirthweightMaternalAge)
	in.table(&b, FigBirthweightMaternalAge, "Mother's age at birth", "Low birth weight (%)")

	b.WriteString("## 2. Diarrhea\n\n")
	b.WriteString("### 2.1 Prevalence by child age\n\n")
	in.figure(&b, FigDiarrheaAge)
	in.figure(&b, FigDiarrheaAge106)
	in.narrate(&b, FigDiarrheaAge, "diarrhea prevalence")
	in.table(&b, FigDiarrheaAge, "Age (months)", "Diarrhea (%)")
	b.WriteString("### 2.2 Prevalence by place of residence\n\n")
	in.figure(&b, FigDiarrheaResidence)
	in.narrate(&b, FigDiarrheaResidence, "diarrhea prevalence")
	b.WriteString("### 2.3 ORS treatment by wealth quintile\n\n")
	in.figure(&b, FigORSWealth)
	in.narrate(&b, FigORSWealth, "ORS use")
	in.table(&b, FigORSWealth, "Wealth quintile", "ORS (%)")
	b.WriteString("### 2.4 Treatment of diarrhea\n\n")
	in.figure(&b, FigTreatment105)
	in.figure(&b, FigORSZinc)
	writeTreatments(&b, in.Treatments)
	b.WriteString("### 2.5 Feeding practices during diarrhea\n\n")
	in.figure(&b, FigFeeding)
	in.figure(&b, FigFeeding107)
	writeFeeding(&b, in.Feeding)

	b.WriteString("## 3. Fever\n\n")
	b.WriteString("### 3.1 Care-seeking by mother's education\n\n")
	in.figure(&b, FigCareSeekingEducation)
	in.narrate(&b, FigCareSeekingEducation, "care-seeking for fever")
	in.table(&b, FigCareSeekingEducation, "Education", "Advice or treatment sought (%)")

	b.WriteString("## 4. Acute respiratory infections\n\n")
	b.WriteString("### 4.1 Comparison with fever\n\n")
	in.figure(&b, FigFeverARI)
	b.WriteString("### 4.2 Morbidity and treatment seeking\n\n")
	in.figure(&b, FigMorbidityTreatment)
	in.figure(&b, FigPrevalence108)

	b.WriteString("## 5. Regional patterns\n\n")
	in.figure(&b, FigRegionalHeatmap)
	writeGrid(&b, in.Regional)

	b.WriteString("## Appendix: data sources\n\n")
	writeSources(&b, in.Sources)
	in.writeSkipped(&b)
	b.WriteString("Percentages are read as published in the DHS tabulations; no weighting or confidence intervals are applied here.\n")
	return b.String()
}

func (in Input) figure(b *strings.Builder, id string) {
	if path, ok := in.Figures[id]; ok {
		b.WriteString(fmt.Sprintf("![%s](%s)\n\n", Caption(id), path))
		return
	}
	reason := in.Skipped[id]
	if reason == "" {
		reason = "not generated"
	}
	b.WriteString(fmt.Sprintf("> %s is not available: %s.\n\n", Caption(id), utils.SafeCell(reason)))
}

func (in Input) narrate(b *strings.Builder, id, subject string) {
	s, ok := in.Series[id]
	if !ok || s == nil {
		return
	}
	sum, err := indicators.Summarize(s)
	if err != nil {
		return
	}
	if sum.N == 1 {
		b.WriteString(fmt.Sprintf("Only one %s category was found: %s at %.1f%%.\n\n",
			s.Dimension, indicators.Title(sum.MaxCategory), sum.Max))
		return
	}
	b.WriteString(fmt.Sprintf("Across %d %s categories, %s ranges from %.1f%% (%s) to %.1f%% (%s), a gap of %.1f percentage points. The unweighted mean across categories is %.1f%%.\n\n",
		sum.N, s.Dimension, subject,
		sum.Min, indicators.Title(sum.MinCategory),
		sum.Max, indicators.Title(sum.MaxCategory),
		sum.Spread(), sum.Mean))
}

func (in Input) table(b *strings.Builder, id, category, value string) {
	s, ok := in.Series[id]
	if !ok || s == nil || len(s.Points) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("| %s | %s |\n|---|---:|\n", category, value))
	for _, p := range s.Points {
		b.WriteString(fmt.Sprintf("| %s | %.1f |\n", utils.SafeCell(p.Category), p.Value))
	}
	b.WriteString("\n")
}

func writeConditions(b *strings.Builder, cs []indicators.Condition) {
	if len(cs) == 0 {
		b.WriteString("Morbidity totals were not available in the loaded tables.\n\n")
		return
	}
	b.WriteString("| Condition | Prevalence (%) | Advice or treatment sought (%) |\n|---|---:|---:|\n")
	for _, c := range cs {
		b.WriteString(fmt.Sprintf("| %s | %.1f | %.1f |\n", c.Name, c.Prevalence, c.Treatment))
	}
	b.WriteString("\n")
	hi := cs[0]
	for _, c := range cs[1:] {
		if c.Prevalence > hi.Prevalence {
			hi = c
		}
	}
	b.WriteString(fmt.Sprintf("%s is the most common condition in the two weeks before the survey (%.1f%% of children under five); advice or treatment was sought for %.1f%% of them.\n\n",
		hi.Name, hi.Prevalence, hi.Treatment))
}

func writeTreatments(b *strings.Builder, ms []indicators.Measure) {
	if len(ms) == 0 {
		return
	}
	b.WriteString("| Treatment | Children with diarrhea (%) |\n|---|---:|\n")
	for _, m := range ms {
		b.WriteString(fmt.Sprintf("| %s | %.1f |\n", m.Label, m.Value))
	}
	b.WriteString("\n")
}

func writeFeeding(b *strings.Builder, f *indicators.Feeding) {
	if f == nil {
		return
	}
	b.WriteString("| Amount given | Liquids (%) | Food (%) |\n|---|---:|---:|\n")
	cell := func(s indicators.Shares, l indicators.Level) string {
		if !s.Found[l] {
			return "–"
		}
		return fmt.Sprintf("%.1f", s.Values[l])
	}
	for _, l := range indicators.Levels() {
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", l, cell(f.Liquids, l), cell(f.Food, l)))
	}
	b.WriteString("\n")
}

func writeGrid(b *strings.Builder, g *indicators.Grid) {
	if g == nil || len(g.Rows) == 0 {
		return
	}
	b.WriteString("| Region |")
	for _, c := range g.Columns {
		b.WriteString(fmt.Sprintf(" %s (%%) |", utils.SafeCell(c)))
	}
	b.WriteString("\n|---|" + strings.Repeat("---:|", len(g.Columns)) + "\n")
	for i, r := range g.Rows {
		b.WriteString(fmt.Sprintf("| %s |", utils.SafeCell(r)))
		for _, v := range g.Values[i] {
			b.WriteString(fmt.Sprintf(" %.1f |", v))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeSources(b *strings.Builder, srcs []Source) {
	if len(srcs) == 0 {
		b.WriteString("No sources were configured.\n\n")
		return
	}
	b.WriteString("| Table | Workbook | Sheet | Rows | Status |\n|---|---|---|---:|---|\n")
	for _, s := range srcs {
		status := "loaded"
		if s.Err != "" {
			status = "failed: " + utils.SafeCell(s.Err)
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s |\n", s.Key, utils.SafeCell(s.Workbook), utils.SafeCell(s.Sheet), s.Rows, status))
	}
	b.WriteString("\n")
}

func (in Input) writeSkipped(b *strings.Builder) {
	if len(in.Skipped) == 0 {
		return
	}
	b.WriteString("### Skipped content\n\n")
	seen := map[string]bool{}
	for _, id := range Figures() {
		if r, ok := in.Skipped[id]; ok {
			b.WriteString(fmt.Sprintf("- %s: %s\n", id, utils.SafeCell(r)))
			seen[id] = true
		}
	}
	var rest []string
	for id := range in.Skipped {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		b.WriteString(fmt.Sprintf("- %s: %s\n", id, utils.SafeCell(in.Skipped[id])))
	}
	b.WriteString("\n")
}
