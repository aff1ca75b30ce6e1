// Package on3 scrapes On3's per-team transfer portal wire.
package on3

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fortuna/portal/internal/ingest"
	"golang.org/x/net/html"
)

const (
	// SourceName identifies On3 in requests, CSVs and events
	SourceName = "on3"

	baseURL = "https://www.on3.com"
)

var (
	positionRe = regexp.MustCompile(`\b(QB|RB|WR|TE|OT|IOL|OL|EDGE|DL|LB|CB|S|ATH|K|P|LS)\b`)
	classRe    = regexp.MustCompile(`\b(RS-[A-Z]{2}|FR|SO|JR|SR)\b`)
	dateRe     = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`)
	ratingRe   = regexp.MustCompile(`\b(\d{2}\.\d{2})\b`)

	// checked in order; the first keyword found in the row wins
	statusKeywords = []string{"Entered", "Committed", "Withdrawn", "Signed", "Enrolled", "Expected"}
	statusRes      = compileStatusRes(statusKeywords)
)

func compileStatusRes(keywords []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(keywords))
	for i, k := range keywords {
		out[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(k))
	}
	return out
}

// Source implements ingest.Source for On3
type Source struct{}

func (Source) Name() string { return SourceName }

// Teams lists every program in the slug table, sorted
func (Source) Teams() []string {
	teams := make([]string, 0, len(slugs))
	for name := range slugs {
		teams = append(teams, name)
	}
	sort.Strings(teams)
	return teams
}

// Slug looks up the On3 slug for a program name
func Slug(team string) (string, bool) {
	slug, ok := slugs[team]
	return slug, ok
}

// URL builds the portal page url for team
func (Source) URL(team string, year int, status string) (string, error) {
	slug, ok := Slug(team)
	if !ok {
		return "", fmt.Errorf("unknown on3 team %q", team)
	}
	return BuildURL(slug, year, status), nil
}

// BuildURL formats the wire url; zero year and empty status are omitted
func BuildURL(slug string, year int, status string) string {
	u := fmt.Sprintf("%s/college/%s/transfer-portal/wire/football/", baseURL, slug)
	if year > 0 {
		u += fmt.Sprintf("%d/", year)
	}
	if status != "" {
		u += "?status=" + url.QueryEscape(status)
	}
	return u
}

func (Source) Parse(page, team string) ([]ingest.Entry, error) {
	return ParseEntries(page, team)
}

// ParseEntries extracts the players listed on a rendered On3 portal page.
// Rows without a player profile link are skipped.
func ParseEntries(page, team string) ([]ingest.Entry, error) {
	doc, err := ingest.ParseHTML(page)
	if err != nil {
		return nil, err
	}

	var entries []ingest.Entry
	doc.Find("ol > li").Each(func(_ int, item *goquery.Selection) {
		if e, ok := parseItem(item, team); ok {
			entries = append(entries, e)
		}
	})
	return ingest.Dedup(entries), nil
}

func parseItem(item *goquery.Selection, team string) (ingest.Entry, bool) {
	link := item.Find("a[href*='/rivals/']").First()
	href, ok := link.Attr("href")
	if !ok {
		return ingest.Entry{}, false
	}

	text := rowText(item)
	e := ingest.Entry{
		Source:     SourceName,
		Team:       team,
		Name:       strings.TrimSpace(link.Text()),
		ProfileURL: absoluteURL(href),
		Position:   firstGroup(positionRe, text),
		Class:      firstGroup(classRe, text),
		PortalDate: firstGroup(dateRe, text),
		Rating:     firstGroup(ratingRe, text),
		Status:     status(text),
		HighSchool: ingest.Text(item, "a[href*='/high-school/']"),
	}

	schools := avatarSchools(item)
	if len(schools) > 0 {
		e.FromSchool = schools[0]
	}
	if len(schools) > 1 {
		e.ToSchool = schools[1]
	}
	return e, true
}

// rowText joins every text node with single spaces, so that adjacent
// elements like <span>QB</span><span>JR</span> stay separate words
func rowText(item *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range item.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func status(text string) string {
	for i, re := range statusRes {
		if re.MatchString(text) {
			return statusKeywords[i]
		}
	}
	return ""
}

// avatarSchools reads school names from "<School> Avatar" image alts,
// origin first, skipping placeholder avatars
func avatarSchools(item *goquery.Selection) []string {
	var schools []string
	item.Find("img[alt]").Each(func(_ int, img *goquery.Selection) {
		alt := img.AttrOr("alt", "")
		if !strings.Contains(alt, "Avatar") || alt == "Default Avatar" {
			return
		}
		schools = append(schools, strings.TrimSpace(strings.ReplaceAll(alt, " Avatar", "")))
	})
	return schools
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return baseURL + href
}

// SchoolSlugs lets the scrape runner resolve schools through the slug table
func (Source) SchoolSlugs() map[string]string { return Slugs() }

// Slugs returns a copy of the program name to slug table
func Slugs() map[string]string {
	out := make(map[string]string, len(slugs))
	for name, slug := range slugs {
		out[name] = slug
	}
	return out
}
