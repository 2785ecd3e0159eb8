package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/dhsreport-cli/internal/table"
)

// Dimension is a demographic breakdown found in DHS tables.
type Dimension int

const (
	Age Dimension = iota
	Sex
	Residence
	Wealth
	Education
	Region
	MaternalAge
)

var dimensionNames = []string{"age", "sex", "residence", "wealth", "education", "region", "maternal_age"}

func (d Dimension) String() string {
	if d < 0 || int(d) >= len(dimensionNames) {
		return fmt.Sprintf("dimension(%d)", int(d))
	}
	return dimensionNames[d]
}

// Dimensions lists every dimension in declaration order.
func Dimensions() []Dimension {
	return []Dimension{Age, Sex, Residence, Wealth, Education, Region, MaternalAge}
}

// ParseDimension maps a name such as "wealth" or "maternal_age" to its Dimension.
func ParseDimension(s string) (Dimension, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "-", "_")
	for i, n := range dimensionNames {
		if n == name {
			return Dimension(i), nil
		}
	}
	return 0, fmt.Errorf("unknown dimension %q (use %s)", s, strings.Join(dimensionNames, ", "))
}

// MatchMode selects how a Matcher compares cleaned labels with its tokens.
type MatchMode int

const (
	// MatchExact accepts labels equal to a token, ignoring case.
	MatchExact MatchMode = iota
	// MatchContains accepts labels containing a token or alias and rewrites
	// them to the canonical token.
	MatchContains
)

// Matcher binds a dimension to its canonical display order and match rule.
type Matcher struct {
	Mode      MatchMode
	Canonical []string
	// Aliases maps source spellings to a canonical token (MatchContains only).
	Aliases map[string]string
}

var matchers = map[Dimension]Matcher{
	Age:       {Mode: MatchExact, Canonical: []string{"<6", "6-11", "12-23", "24-35", "36-47", "48-59"}},
	Sex:       {Mode: MatchExact, Canonical: []string{"male", "female"}},
	Residence: {Mode: MatchExact, Canonical: []string{"urban", "rural"}},
	Wealth:    {Mode: MatchExact, Canonical: []string{"poorest", "poorer", "middle", "richer", "richest"}},
	Education: {Mode: MatchExact, Canonical: []string{"no education", "primary", "secondary", "higher"}},
	Region: {Mode: MatchExact, Canonical: []string{
		"adamawa", "centre (without yaounde)", "douala", "east",
		"far-north", "littoral (without douala)", "north",
		"north-west", "west", "south", "south-west", "yaounde",
	}},
	// Exports render "under 20" both as "< 20" and "<20".
	MaternalAge: {
		Mode:      MatchContains,
		Canonical: []string{"< 20", "20-34", "35-49"},
		Aliases:   map[string]string{"<20": "< 20"},
	},
}

// MatcherFor returns the matcher bound to d.
func MatcherFor(d Dimension) (Matcher, bool) {
	m, ok := matchers[d]
	return m, ok
}

// Match reports the display category and canonical rank for a cleaned label.
func (m Matcher) Match(label string) (string, int, bool) {
	switch m.Mode {
	case MatchExact:
		lower := strings.ToLower(label)
		for i, tok := range m.Canonical {
			if lower == strings.ToLower(tok) {
				return label, i, true
			}
		}
	case MatchContains:
		s := strings.TrimSpace(label)
		for i, tok := range m.Canonical {
			if strings.Contains(s, tok) {
				return tok, i, true
			}
		}
		// aliases are checked in canonical order so the result is deterministic
		for i, tok := range m.Canonical {
			for alias, canon := range m.Aliases {
				if canon == tok && strings.Contains(s, alias) {
					return tok, i, true
				}
			}
		}
	}
	return "", -1, false
}

// ResolvedRow is a data row matched to one canonical category of a dimension.
type ResolvedRow struct {
	CleanedRow
	Category string
	Rank     int
}

// Resolve returns the data rows of t that belong to dimension d, ordered by the
// dimension's canonical order. Rows that match no token are dropped; an empty
// result means the table has no breakdown for d.
func Resolve(t *table.Table, d Dimension) []ResolvedRow {
	m, ok := matchers[d]
	if !ok {
		return nil
	}
	var out []ResolvedRow
	for _, r := range Clean(t) {
		cat, rank, ok := m.Match(r.Label.Text)
		if !ok {
			continue
		}
		out = append(out, ResolvedRow{CleanedRow: r, Category: cat, Rank: rank})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}
