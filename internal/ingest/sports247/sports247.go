// Package sports247 scrapes 247Sports team transfer portal pages.
package sports247

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fortuna/portal/internal/ingest"
)

// SourceName identifies 247Sports in requests, CSVs and events
const SourceName = "247"

const filledStarColor = "#FBD032"

// programs whose team page lives under the generic slug
var slugOverrides = map[string]string{
	"Connecticut":      "transfer-portal",
	"FIU":              "transfer-portal",
	"Miami (OH)":       "transfer-portal",
	"Middle Tennessee": "transfer-portal",
	"NC State":         "transfer-portal",
	"Sam Houston":      "transfer-portal",
	"Southern Miss":    "transfer-portal",
	"UAB":              "transfer-portal",
	"UCF":              "transfer-portal",
}

var slugReplacer = strings.NewReplacer(" ", "-", "(", "", ")", "", "&", "", ".", "")

// Slug derives the 247Sports URL slug for a program name
func Slug(team string) string {
	if slug, ok := slugOverrides[team]; ok {
		return slug
	}
	return slugReplacer.Replace(strings.ToLower(team))
}

// BuildURL formats a team's portal url for the given season
func BuildURL(team, institutionKey string, year int) string {
	return fmt.Sprintf("https://247sports.com/college/%s/season/%d-football/transferportal/?institutionkey=%s",
		Slug(team), year, url.QueryEscape(institutionKey))
}

// Source implements ingest.Source. 247Sports addresses teams by an
// institution key, so only teams with a known key can be scraped.
type Source struct {
	keys map[string]string
}

// NewSource builds a source from a team name to institution key table
func NewSource(keys map[string]string) *Source {
	copied := make(map[string]string, len(keys))
	for team, key := range keys {
		copied[team] = key
	}
	return &Source{keys: copied}
}

// LoadInstitutionKeys reads "team,institution_key" rows. A header row whose
// second column is not numeric is skipped.
func LoadInstitutionKeys(r io.Reader) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	keys := make(map[string]string)
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading institution keys: %w", err)
		}

		team, key := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if _, err := strconv.Atoi(key); err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("institution key for %q on line %d is not numeric: %q", team, line, key)
		}
		keys[team] = key
	}
	return keys, nil
}

func (s *Source) Name() string { return SourceName }

// Teams lists teams with a known institution key, sorted
func (s *Source) Teams() []string {
	teams := make([]string, 0, len(s.keys))
	for team := range s.keys {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// URL ignores status; 247Sports lists every status on one page
func (s *Source) URL(team string, year int, _ string) (string, error) {
	key, ok := s.keys[team]
	if !ok {
		return "", fmt.Errorf("no 247sports institution key for %q", team)
	}
	return BuildURL(team, key, year), nil
}

func (s *Source) Parse(page, team string) ([]ingest.Entry, error) {
	return ParseEntries(page, team)
}

// ParseEntries extracts the li.transfer-player rows of a team portal page
func ParseEntries(page, team string) ([]ingest.Entry, error) {
	doc, err := ingest.ParseHTML(page)
	if err != nil {
		return nil, err
	}

	var entries []ingest.Entry
	doc.Find("li.transfer-player").Each(func(_ int, li *goquery.Selection) {
		entries = append(entries, parsePlayer(li, team))
	})
	return entries, nil
}

func parsePlayer(li *goquery.Selection, team string) ingest.Entry {
	e := ingest.Entry{
		Source:   SourceName,
		Team:     team,
		Position: ingest.Text(li, "div.position"),
		Status:   ingest.Text(li, "div.status"),
	}

	heading := li.Find("h3").First()
	if link := heading.Find("a").First(); link.Length() > 0 {
		e.Name = strings.TrimSpace(link.Text())
		e.ProfileURL = link.AttrOr("href", "")
	} else {
		e.Name = strings.TrimSpace(heading.Text())
	}

	if bio := li.Find("div.bio").First(); bio.Length() > 0 {
		e.Height, e.Weight = parseBio(strings.TrimSpace(bio.Text()))
	}

	if stars := li.Find("div.starContainer").First(); stars.Length() > 0 {
		e.Stars = stars.Find("path[fill='" + filledStarColor + "']").Length()
		e.Rating = ingest.Text(li, "div.rating")
	}

	if prediction := li.Find("div.transfer-prediction").First(); prediction.Length() > 0 {
		e.FromSchool = strings.TrimSpace(prediction.Find("img.source").First().AttrOr("alt", ""))
		e.ToSchool = strings.TrimSpace(prediction.Find("li.destination img").First().AttrOr("alt", ""))
	}
	return e
}

// parseBio turns "6-2 / 215" into `6'2"` and "215 lbs". Anything without a
// slash is returned as the height.
func parseBio(bio string) (height, weight string) {
	parts := strings.Split(bio, "/")
	if len(parts) < 2 {
		return bio, ""
	}
	height = strings.ReplaceAll(strings.TrimSpace(parts[0]), "-", "'") + `"`
	weight = strings.TrimSpace(parts[1]) + " lbs"
	return height, weight
}
