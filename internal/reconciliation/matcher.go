package reconciliation

import (
	"sort"
	"strings"

	"github.com/fortuna/portal/internal/store"
)

// Matcher maps the short school names printed by portal sites ("Alabama")
// to catalog team names ("Alabama Crimson Tide"). It only normalizes scraped
// input; catalog lookups elsewhere stay exact.
type Matcher struct {
	exact  map[string]string
	folded map[string]string
	bySlug map[string]string
	names  []string // sorted, for deterministic prefix matching
	slugs  map[string]string
}

// MatcherOption configures a Matcher
type MatcherOption func(*Matcher)

// WithSchoolSlugs supplies a school name to "school-mascot" slug table, as
// kept by the On3 scraper. It resolves schools whose name is a prefix of a
// different program, like "Ohio" and "Ohio State".
func WithSchoolSlugs(slugs map[string]string) MatcherOption {
	return func(m *Matcher) { m.slugs = slugs }
}

// NewMatcher indexes the catalog team names
func NewMatcher(teams []store.Team, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		exact:  make(map[string]string, len(teams)),
		folded: make(map[string]string, len(teams)),
		bySlug: make(map[string]string, len(teams)),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, team := range teams {
		m.exact[team.Name] = team.Name
		m.folded[strings.ToLower(team.Name)] = team.Name
		m.bySlug[Slugify(team.Name)] = team.Name
		m.names = append(m.names, team.Name)
	}
	sort.Strings(m.names)
	return m
}

// Resolve returns the catalog name for school. Unknown schools come back
// unchanged with ok == false.
func (m *Matcher) Resolve(school string) (name string, ok bool) {
	school = strings.TrimSpace(school)
	if school == "" {
		return "", false
	}

	if name, ok := m.exact[school]; ok {
		return name, true
	}

	lower := strings.ToLower(school)
	if name, ok := m.folded[lower]; ok {
		return name, true
	}

	if slug, ok := m.lookupSlug(school); ok {
		if name, ok := m.bySlug[slug]; ok {
			return name, true
		}
		// the slug table knows this school and it is not in the catalog;
		// a prefix match would pick a different program
		return school, false
	}

	if name, ok := m.uniquePrefix(lower); ok {
		return name, true
	}

	return school, false
}

func (m *Matcher) lookupSlug(school string) (string, bool) {
	if m.slugs == nil {
		return "", false
	}
	if slug, ok := m.slugs[school]; ok {
		return slug, true
	}
	for name, slug := range m.slugs {
		if strings.EqualFold(name, school) {
			return slug, true
		}
	}
	return "", false
}

// uniquePrefix matches "school <mascot>" when exactly one team qualifies
func (m *Matcher) uniquePrefix(lowerSchool string) (string, bool) {
	var match string
	for _, name := range m.names {
		if strings.HasPrefix(strings.ToLower(name), lowerSchool+" ") {
			if match != "" {
				return "", false
			}
			match = name
		}
	}
	return match, match != ""
}

var slugDrop = strings.NewReplacer("&", "", ".", "", "'", "", "(", "", ")", "")

// Slugify lowercases name and joins its words with dashes
func Slugify(name string) string {
	fields := strings.FieldsFunc(slugDrop.Replace(strings.ToLower(name)), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}
