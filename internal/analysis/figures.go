package analysis

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/KaramelBytes/dhsreport-cli/internal/chart"
	"github.com/KaramelBytes/dhsreport-cli/internal/indicators"
	"github.com/KaramelBytes/dhsreport-cli/internal/report"
	"github.com/KaramelBytes/dhsreport-cli/internal/resolve"
)

// Column keyword hints per source, tried in priority order.
var (
	birthweightKeys = []string{"2.5", "yes", "less than"}
	diarrheaKeys    = []string{"diarrhea", "yes", "had"}
	feverKeys       = []string{"fever", "yes", "had"}
	ariKeys         = []string{"ari", "yes", "symptoms"}
	careKeys        = []string{"advice", "treatment", "sought", "care"}
	orsFallbackKeys = []string{"yes", "treatment"}
)

var conditionNames = map[string]string{
	indicators.KeyDiarrhea: "Diarrhea",
	indicators.KeyFever:    "Fever",
	indicators.KeyARI:      "ARI",
}

// figures binds each figure ID to its renderer, in report order.
var figures = []struct {
	id     string
	render func(w *workspace, path string) error
}{
	{report.FigBirthweightRegion, (*workspace).birthweightRegion},
	{report.FigBirthweightMaternalAge, (*workspace).birthweightMaternalAge},
	{report.FigDiarrheaAge, (*workspace).diarrheaAge},
	{report.FigDiarrheaResidence, (*workspace).diarrheaResidence},
	{report.FigORSWealth, (*workspace).orsWealth},
	{report.FigFeverARI, (*workspace).feverARI},
	{report.FigCareSeekingEducation, (*workspace).careSeekingEducation},
	{report.FigRegionalHeatmap, (*workspace).regionalHeatmap},
	{report.FigMorbidityTreatment, (*workspace).morbidityTreatment},
	{report.FigORSZinc, (*workspace).orsZinc},
	{report.FigFeeding, (*workspace).feedingPractices},
	{report.FigTreatment105, (*workspace).treatment105},
	{report.FigDiarrheaAge106, (*workspace).diarrheaAge106},
	{report.FigFeeding107, (*workspace).feeding107},
	{report.FigPrevalence108, (*workspace).prevalence108},
}

// workspace carries the loaded tables and extracted indicators shared by the
// figure renderers. Renderers record breakdown series for the report.
type workspace struct {
	style      chart.Style
	tables     indicators.Tables
	conditions []indicators.Condition
	treatments []indicators.Measure
	feeding    *indicators.Feeding
	feedingErr error
	treatErr   error
	regional   *indicators.Grid
	series     map[string]*indicators.Series
}

func (w *workspace) breakdown(id, key string, d resolve.Dimension, keys []string) (*indicators.Series, error) {
	s, err := indicators.ResolveBreakdown(w.tables[key], d, keys)
	if err != nil {
		return nil, err
	}
	w.series[id] = s
	return s, nil
}

func titled(cats []string) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = indicators.Title(c)
	}
	return out
}

func (w *workspace) birthweightRegion(path string) error {
	s, err := w.breakdown(report.FigBirthweightRegion, indicators.KeyBirthweight, resolve.Region, birthweightKeys)
	if err != nil {
		return err
	}
	return w.style.WithSize(10, 8).HBar(path, chart.Bars{
		Title:  "Figure 1: Low Birth Weight (<2.5 kg) by Region",
		XLabel: "Percentage (%)",
		Labels: titled(s.Categories()),
		Values: s.Values(),
		Colors: chart.Ramp(len(s.Points), chart.Green, chart.Red),
		Max:    maxOrZero(s.Values(), 1.15),
	})
}

func (w *workspace) birthweightMaternalAge(path string) error {
	s, err := w.breakdown(report.FigBirthweightMaternalAge, indicators.KeyBirthweight, resolve.MaternalAge, birthweightKeys)
	if err != nil {
		return err
	}
	return w.style.WithSize(8, 6).Bar(path, chart.Bars{
		Title:  "Figure 2: Low Birth Weight by Maternal Age",
		XLabel: "Mother's Age at Birth",
		YLabel: "Low Birth Weight Prevalence (%)",
		Labels: s.Categories(),
		Values: s.Values(),
		Colors: []color.Color{chart.Red, chart.Blue, chart.Green},
	})
}

func (w *workspace) diarrheaAge(path string) error {
	s, err := w.breakdown(report.FigDiarrheaAge, indicators.KeyDiarrhea, resolve.Age, diarrheaKeys)
	if err != nil {
		return err
	}
	return w.style.Line(path, chart.Lines{
		Title:  "Figure 3: Diarrhea Prevalence by Child Age",
		XLabel: "Child Age (months)",
		YLabel: "Diarrhea Prevalence (%)",
		Labels: s.Categories(),
		Values: s.Values(),
		Color:  chart.Red,
	})
}

func (w *workspace) diarrheaResidence(path string) error {
	s, err := w.breakdown(report.FigDiarrheaResidence, indicators.KeyDiarrhea, resolve.Residence, diarrheaKeys)
	if err != nil {
		return err
	}
	return w.style.WithSize(7, 6).Bar(path, chart.Bars{
		Title:  "Figure 4: Diarrhea by Place of Residence",
		YLabel: "Diarrhea Prevalence (%)",
		Labels: titled(s.Categories()),
		Values: s.Values(),
		Colors: []color.Color{chart.Blue, chart.Green},
	})
}

func (w *workspace) orsWealth(path string) error {
	t := w.tables[indicators.KeyORS]
	if t == nil {
		return fmt.Errorf("%s: table not loaded", indicators.KeyORS)
	}
	col, ok := resolve.MatchColumnAny(t, "ors", "oral")
	if !ok {
		if col, ok = resolve.ResolveColumn(t, orsFallbackKeys); !ok {
			return fmt.Errorf("%s: %w", t.Name, resolve.ErrUnresolvedColumn)
		}
	}
	s, err := indicators.Breakdown(t, resolve.Wealth, col)
	if err != nil {
		return err
	}
	w.series[report.FigORSWealth] = s
	return w.style.Bar(path, chart.Bars{
		Title:  "Figure 5: ORS Treatment for Diarrhea by Wealth Quintile",
		XLabel: "Wealth Quintile",
		YLabel: "ORS Treatment Rate (%)",
		Labels: titled(s.Categories()),
		Values: s.Values(),
		Colors: chart.Ramp(len(s.Points), chart.Brick, chart.Green),
	})
}

func (w *workspace) feverARI(path string) error {
	p, err := indicators.Pair(w.tables[indicators.KeyFever], w.tables[indicators.KeyARI],
		[]resolve.Dimension{resolve.Residence, resolve.Wealth}, feverKeys, ariKeys)
	if err != nil {
		return err
	}
	return w.style.WithSize(12, 7).GroupedBar(path, chart.Grouped{
		Title:      "Figure 6: Fever vs ARI Prevalence Comparison",
		XLabel:     "Category",
		YLabel:     "Prevalence (%)",
		Categories: p.Categories,
		Groups: []chart.Group{
			{Name: "Fever", Values: p.A, Color: chart.Red},
			{Name: "ARI", Values: p.B, Color: chart.Blue},
		},
		Rotate: true,
	})
}

func (w *workspace) careSeekingEducation(path string) error {
	s, err := w.breakdown(report.FigCareSeekingEducation, indicators.KeyFever, resolve.Education, careKeys)
	if err != nil {
		return err
	}
	return w.style.WithSize(9, 6).Bar(path, chart.Bars{
		Title:  "Figure 7: Care-Seeking for Fever by Mother's Education",
		XLabel: "Mother's Education Level",
		YLabel: "Care-Seeking Rate (%)",
		Labels: titled(s.Categories()),
		Values: s.Values(),
		Colors: chart.Ramp(len(s.Points), chart.RGB(0xA1D99B), chart.RGB(0x00441B)),
	})
}

func (w *workspace) regionalHeatmap(path string) error {
	g, err := indicators.Regional(w.tables,
		[]string{indicators.KeyDiarrhea, indicators.KeyFever, indicators.KeyARI}, conditionNames)
	if err != nil {
		return err
	}
	w.regional = g
	return w.style.WithSize(10, 10).Heatmap(path, chart.Heat{
		Title:   "Figure 8: Regional Child Morbidity Indicators",
		XLabel:  "Health Indicator",
		YLabel:  "Region",
		Rows:    g.Rows,
		Columns: g.Columns,
		Values:  g.Values,
	})
}

func (w *workspace) morbidityTreatment(path string) error {
	if len(w.conditions) == 0 {
		return fmt.Errorf("morbidity totals: %w", chart.ErrNoData)
	}
	cats := make([]string, len(w.conditions))
	prev := make([]float64, len(w.conditions))
	treat := make([]float64, len(w.conditions))
	for i, c := range w.conditions {
		cats[i], prev[i], treat[i] = c.Name, c.Prevalence, c.Treatment
	}
	return w.style.GroupedBar(path, chart.Grouped{
		Title:      "Figure 9: Child Morbidity Prevalence and Treatment Seeking",
		XLabel:     "Health Condition",
		YLabel:     "Percentage (%)",
		Categories: cats,
		Groups: []chart.Group{
			{Name: "Prevalence", Values: prev, Color: chart.Red},
			{Name: "Treatment Sought", Values: treat, Color: chart.Green},
		},
		Format: "%.0f%%",
	})
}

// orsZincLabels picks the headline treatments and their display names.
var orsZincLabels = []struct{ label, display string }{
	{"ORT or increased liquids", "ORS/ORT"},
	{"Zinc", "Zinc"},
	{"Zinc and ORS", "ORS + Zinc"},
	{"No treatment", "No Treatment"},
}

func (w *workspace) orsZinc(path string) error {
	if w.treatErr != nil && len(w.treatments) == 0 {
		return w.treatErr
	}
	var labels []string
	var values []float64
	for _, pick := range orsZincLabels {
		for _, m := range w.treatments {
			if m.Label == pick.label {
				labels = append(labels, pick.display)
				values = append(values, m.Value)
				break
			}
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("ORS and zinc totals: %w", chart.ErrNoData)
	}
	return w.style.WithSize(8, 6).Bar(path, chart.Bars{
		Title:  "Figure 10: Diarrhea Treatment Types",
		YLabel: "Children with diarrhea (%)",
		Labels: labels,
		Values: values,
		Colors: []color.Color{chart.Blue, chart.Orange, chart.Green, chart.Grey},
		Format: "%.0f%%",
	})
}

func (w *workspace) feedingReady() error {
	if w.feeding == nil {
		if w.feedingErr != nil {
			return w.feedingErr
		}
		return fmt.Errorf("feeding totals: %w", chart.ErrNoData)
	}
	return nil
}

func (w *workspace) feedingPractices(path string) error {
	if err := w.feedingReady(); err != nil {
		return err
	}
	var cats []string
	var liquids, food []float64
	for _, l := range indicators.Levels() {
		cats = append(cats, l.String())
		liquids = append(liquids, w.feeding.Liquids.Values[l])
		food = append(food, w.feeding.Food.Values[l])
	}
	return w.style.GroupedBar(path, chart.Grouped{
		Title:      "Figure 11: Feeding Practices During Diarrhea",
		XLabel:     "Amount Given During Diarrhea",
		YLabel:     "Percentage of Children (%)",
		Categories: cats,
		Groups: []chart.Group{
			{Name: "Liquids", Values: liquids, Color: chart.Blue},
			{Name: "Food", Values: food, Color: chart.Amber},
		},
		Format: "%.0f%%",
	})
}

var treatmentColors = map[string]color.Color{
	indicators.GroupCare:  chart.Red,
	indicators.GroupORS:   chart.Orange,
	indicators.GroupZinc:  chart.Blue,
	indicators.GroupORT:   chart.Green,
	indicators.GroupOther: chart.Slate,
}

func (w *workspace) treatment105(path string) error {
	if len(w.treatments) == 0 {
		if w.treatErr != nil {
			return w.treatErr
		}
		return fmt.Errorf("treatment totals: %w", chart.ErrNoData)
	}
	labels := make([]string, len(w.treatments))
	values := make([]float64, len(w.treatments))
	colors := make([]color.Color, len(w.treatments))
	for i, m := range w.treatments {
		labels[i], values[i], colors[i] = m.Label, m.Value, treatmentColors[m.Group]
	}
	return w.style.WithSize(10, 8).HBar(path, chart.Bars{
		Title:  "Graphique 10.5 Traitement de la diarrhée",
		Labels: labels,
		Values: values,
		Colors: colors,
		Format: "%.0f",
	})
}

func (w *workspace) diarrheaAge106(path string) error {
	t := w.tables[indicators.KeyDiarrhea]
	s, err := indicators.ResolveBreakdown(t, resolve.Age, diarrheaKeys)
	if err != nil {
		return err
	}
	total, err := resolve.TotalValue(t, s.Column)
	if err != nil {
		return err
	}
	all := indicators.WithOverall(s, total)
	colors := make([]color.Color, len(all.Points))
	for i := range colors {
		colors[i] = chart.Navy
	}
	colors[len(colors)-1] = chart.Leaf
	return w.style.Bar(path, chart.Bars{
		Title:  "Graphique 10.6 Prévalence de la diarrhée, par âge",
		XLabel: "Âge en mois",
		Labels: all.Categories(),
		Values: all.Values(),
		Colors: colors,
		Format: "%.0f%%",
	})
}

var levelColors = map[indicators.Level]color.Color{
	indicators.More:         chart.Green,
	indicators.Same:         chart.Blue,
	indicators.SomewhatLess: chart.Orange,
	indicators.MuchLess:     chart.Amber,
	indicators.None:         chart.Brick,
}

func (w *workspace) feeding107(path string) error {
	if err := w.feedingReady(); err != nil {
		return err
	}
	var groups []chart.Group
	for _, l := range indicators.Levels() {
		groups = append(groups, chart.Group{
			Name:   l.String(),
			Values: []float64{w.feeding.Food.Values[l], w.feeding.Liquids.Values[l]},
			Color:  levelColors[l],
		})
	}
	return w.style.WithSize(12, 4).StackedHBar(path, chart.Grouped{
		Title:      "Graphique 10.7 Pratiques alimentaires pendant la diarrhée",
		Categories: []string{"Aliments donnés", "Liquides donnés"},
		Groups:     groups,
		Format:     "%.0f%%",
		Max:        100,
		MinLabel:   5,
	})
}

func (w *workspace) prevalence108(path string) error {
	if len(w.conditions) == 0 {
		return fmt.Errorf("morbidity totals: %w", chart.ErrNoData)
	}
	n := len(w.conditions)
	labels := make([]string, n)
	prev := make([]float64, n)
	treat := make([]float64, n)
	// ARI, fever, diarrhea from left to right
	for i, c := range w.conditions {
		j := n - 1 - i
		labels[j], prev[j], treat[j] = conditionNames[c.Key], c.Prevalence, c.Treatment
	}
	return w.style.WithSize(12, 5).DualBar(path, "Graphique 10.8 Prévalence et traitement des maladies infantiles",
		chart.Bars{Title: "Symptoms in the 2 weeks before the interview", Labels: labels, Values: prev, Color: chart.Olive, Format: "%.0f%%"},
		chart.Bars{Title: "Advice or treatment sought", Labels: labels, Values: treat, Color: chart.Sky, Format: "%.0f%%"},
	)
}

// maxOrZero returns the scaled maximum of vs, or 0 to let the chart decide.
func maxOrZero(vs []float64, headroom float64) float64 {
	hi := 0.0
	for _, v := range vs {
		if v > hi {
			hi = v
		}
	}
	return hi * headroom
}

// renderFigures draws every figure into dir. Failures are returned per ID and
// never stop the remaining figures.
func (w *workspace) renderFigures(dir string, each func(id, path string, err error)) {
	for _, f := range figures {
		path := filepath.Join(dir, f.id)
		each(f.id, path, f.render(w, path))
	}
}
