package indicators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/dhsreport-cli/internal/resolve"
	"github.com/KaramelBytes/dhsreport-cli/internal/table"
)

// Source table keys.
const (
	KeyBirthweight = "birthweight"
	KeyDiarrhea    = "diarrhea"
	KeyORS         = "ors"
	KeyFeeding     = "feeding"
	KeyFever       = "fever"
	KeyARI         = "ari"
)

// Keys lists every source key in load order.
func Keys() []string {
	return []string{KeyBirthweight, KeyDiarrhea, KeyORS, KeyFeeding, KeyFever, KeyARI}
}

// Tables holds the loaded source tables by key. Missing keys mean the source
// could not be loaded.
type Tables map[string]*table.Table

// Condition is the national prevalence of one illness and the share of sick
// children for whom advice or treatment was sought.
type Condition struct {
	Key        string
	Name       string
	Prevalence float64
	Treatment  float64
}

var conditionHeaders = []struct {
	key, name, prevalence, treatment string
}{
	{KeyDiarrhea, "Diarrhea",
		"Diarrhea in the 2 weeks before the survey|Yes",
		"Advice or treatment sought for diarrhea|Yes"},
	{KeyFever, "Fever",
		"Fever symptoms in the 2 weeks before the survey|Yes",
		"Advice or treatment sought for fever symptoms|Yes"},
	{KeyARI, "ARI symptoms",
		"ARI symptoms in the 2 weeks before the survey|Yes",
		"Advice or treatment sought for ARI symptoms|Yes"},
}

// Morbidity reads diarrhea, fever and ARI totals. Conditions whose table, Total
// row or headers are missing are left out and reported in the joined error.
func Morbidity(tables Tables) ([]Condition, error) {
	var out []Condition
	var errs []error
	for _, h := range conditionHeaders {
		t, ok := tables[h.key]
		if !ok || t == nil {
			errs = append(errs, fmt.Errorf("%s: table not loaded", h.key))
			continue
		}
		prev, err := resolve.TotalValue(t, h.prevalence)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s prevalence: %w", h.key, err))
			continue
		}
		treat, err := resolve.TotalValue(t, h.treatment)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s treatment: %w", h.key, err))
			continue
		}
		out = append(out, Condition{Key: h.key, Name: h.name, Prevalence: prev, Treatment: treat})
	}
	return out, errors.Join(errs...)
}

// FindCondition returns the condition with key from cs.
func FindCondition(cs []Condition, key string) (Condition, bool) {
	for _, c := range cs {
		if c.Key == key {
			return c, true
		}
	}
	return Condition{}, false
}

// Treatment groups drive bar colours in the treatment chart.
const (
	GroupCare  = "care"
	GroupORS   = "ors"
	GroupZinc  = "zinc"
	GroupORT   = "ort"
	GroupOther = "other"
)

// Measure is one named share read from a Total row.
type Measure struct {
	Label string
	Group string
	Value float64
}

var treatmentHeaders = []struct {
	label, group, column string
}{
	{"ORS (packet)", GroupORS, "Given oral rehydration salts for diarrhea|Yes"},
	{"Recommended home fluids", GroupORS, "Given recommended homemade fluids for diarrhea|Yes"},
	{"ORS or RHF", GroupORS, "Given either ORS or RHF for diarrhea|Yes"},
	{"Zinc", GroupZinc, "Given zinc for diarrhea|Yes"},
	{"Zinc and ORS", GroupORS, "Given zinc and ORS for diarrhea|Yes"},
	{"ORS or increased fluids", GroupORS, "Given ORS or increased fluids for diarrhea|Yes"},
	{"ORT or increased liquids", GroupORT, "Given oral rehydration treatment or increased liquids for diarrhea|Yes"},
	{"Antibiotics", GroupOther, "Given antibiotic drugs for diarrhea|Yes"},
	{"Home remedy/other", GroupOther, "Given home remedy or other treatment for diarrhea|Yes"},
	{"No treatment", GroupOther, "No treatment for diarrhea|Yes"},
}

// Treatments reads the diarrhea treatment shares from the ORS table Total row.
// When care is non-nil its treatment rate leads the list. Missing headers are
// skipped one by one.
func Treatments(ors *table.Table, care *Condition) ([]Measure, error) {
	var out []Measure
	if care != nil {
		out = append(out, Measure{Label: "Sought advice or treatment", Group: GroupCare, Value: care.Treatment})
	}
	if ors == nil {
		return out, fmt.Errorf("%s: table not loaded", KeyORS)
	}
	row, err := resolve.TotalRow(ors)
	if err != nil {
		return out, err
	}
	for _, h := range treatmentHeaders {
		if v, ok := ors.Value(row, h.column); ok {
			out = append(out, Measure{Label: h.label, Group: h.group, Value: v})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", ors.Name, resolve.ErrUnresolvedColumn)
	}
	return out, nil
}

// Level is an amount of liquids or food given during diarrhea relative to usual.
type Level int

const (
	More Level = iota
	Same
	SomewhatLess
	MuchLess
	None
	levelCount
)

var levelNames = [levelCount]string{"More", "Same", "Somewhat less", "Much less", "None"}

func (l Level) String() string {
	if l < 0 || l >= levelCount {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// Levels lists all feeding levels in display order.
func Levels() []Level { return []Level{More, Same, SomewhatLess, MuchLess, None} }

// Shares holds the percentage per feeding level. Missing levels are not Found.
type Shares struct {
	Values [levelCount]float64
	Found  [levelCount]bool
}

// Any reports whether at least one level was read.
func (s Shares) Any() bool {
	for _, f := range s.Found {
		if f {
			return true
		}
	}
	return false
}

// Feeding is the distribution of liquids and food given to children with diarrhea.
type Feeding struct {
	Liquids Shares
	Food    Shares
}

// ClassifyLevel maps the inner segment of a feeding header to a Level.
func ClassifyLevel(inner string) (Level, bool) {
	s := strings.ToLower(strings.TrimSpace(inner))
	switch {
	case strings.Contains(s, "much less"):
		return MuchLess, true
	case strings.Contains(s, "less"):
		return SomewhatLess, true
	case strings.Contains(s, "more"):
		return More, true
	case strings.Contains(s, "same"):
		return Same, true
	case strings.Contains(s, "none"), strings.Contains(s, "nothing"), strings.Contains(s, "never"):
		return None, true
	}
	return 0, false
}

// ExtractFeeding classifies every "subject|level" header of the feeding table
// Total row. The first column per subject and level wins.
func ExtractFeeding(t *table.Table) (*Feeding, error) {
	if t == nil {
		return nil, fmt.Errorf("%s: table not loaded", KeyFeeding)
	}
	row, err := resolve.TotalRow(t)
	if err != nil {
		return nil, err
	}
	var f Feeding
	for _, c := range t.Columns {
		outer, inner := c.Name, c.Name
		if i := strings.LastIndex(c.Name, "|"); i >= 0 {
			outer, inner = c.Name[:i], c.Name[i+1:]
		}
		o := strings.ToLower(outer)
		var dst *Shares
		switch {
		case strings.Contains(o, "liquid"), strings.Contains(o, "fluid"):
			dst = &f.Liquids
		case strings.Contains(o, "food"):
			dst = &f.Food
		default:
			continue
		}
		lvl, ok := ClassifyLevel(inner)
		if !ok || dst.Found[lvl] {
			continue
		}
		if v, ok := t.Value(row, c.Name); ok {
			dst.Values[lvl] = v
			dst.Found[lvl] = true
		}
	}
	if !f.Liquids.Any() && !f.Food.Any() {
		return nil, fmt.Errorf("%s: %w", t.Name, resolve.ErrUnresolvedColumn)
	}
	return &f, nil
}
