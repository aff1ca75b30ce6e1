package on3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const portalPage = `<html><body>
<ol>
  <li>
    <div><a href="/rivals/marcus-johnson-123/">Marcus Johnson</a></div>
    <span>QB</span><span>JR</span>
    <span>Committed</span>
    <span>12/09/2025</span>
    <span>92.50</span>
    <img alt="USC Trojans Avatar" src="a.png">
    <img alt="Default Avatar" src="d.png">
    <img alt="Alabama Crimson Tide Avatar" src="b.png">
    <a href="/high-school/mater-dei-1/">Mater Dei</a>
  </li>
  <li>
    <div><a href="/rivals/marcus-johnson-123/">Marcus Johnson</a></div>
    <span>QB</span><span>JR</span><span>Committed</span><span>12/09/2025</span>
  </li>
  <li>
    <div><a href="https://www.on3.com/rivals/jay-smith-9/">Jay Smith</a></div>
    <span>EDGE</span><span>RS-SO</span><span>entered</span>
    <img alt="Alabama Crimson Tide Avatar" src="b.png">
  </li>
  <li><span>Advertisement</span></li>
</ol>
</body></html>`

func TestParseEntries(t *testing.T) {
	entries, err := ParseEntries(portalPage, "Alabama")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, SourceName, first.Source)
	assert.Equal(t, "Alabama", first.Team)
	assert.Equal(t, "Marcus Johnson", first.Name)
	assert.Equal(t, "https://www.on3.com/rivals/marcus-johnson-123/", first.ProfileURL)
	assert.Equal(t, "QB", first.Position)
	assert.Equal(t, "JR", first.Class)
	assert.Equal(t, "Committed", first.Status)
	assert.Equal(t, "12/09/2025", first.PortalDate)
	assert.Equal(t, "92.50", first.Rating)
	assert.Equal(t, "USC Trojans", first.FromSchool)
	assert.Equal(t, "Alabama Crimson Tide", first.ToSchool)
	assert.Equal(t, "Mater Dei", first.HighSchool)

	second := entries[1]
	assert.Equal(t, "Jay Smith", second.Name)
	assert.Equal(t, "https://www.on3.com/rivals/jay-smith-9/", second.ProfileURL)
	assert.Equal(t, "EDGE", second.Position)
	assert.Equal(t, "RS-SO", second.Class)
	assert.Equal(t, "Entered", second.Status)
	assert.Equal(t, "Alabama Crimson Tide", second.FromSchool)
	assert.Empty(t, second.ToSchool)
}

func TestParseEntries_NoRows(t *testing.T) {
	entries, err := ParseEntries(`<html><body><p>nothing</p></body></html>`, "Alabama")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t,
		"https://www.on3.com/college/alabama-crimson-tide/transfer-portal/wire/football/",
		BuildURL("alabama-crimson-tide", 0, ""))
	assert.Equal(t,
		"https://www.on3.com/college/alabama-crimson-tide/transfer-portal/wire/football/2026/?status=committed",
		BuildURL("alabama-crimson-tide", 2026, "committed"))
}

func TestSource(t *testing.T) {
	src := Source{}

	u, err := src.URL("South Florida", 2025, "")
	require.NoError(t, err)
	assert.Contains(t, u, "/college/usf-bulls/")

	_, err = src.URL("Hogwarts", 2025, "")
	assert.Error(t, err)

	teams := src.Teams()
	assert.Len(t, teams, len(slugs))
	assert.Equal(t, "Air Force", teams[0])
	assert.IsNonDecreasing(t, teams)
}

func TestSource_SchoolSlugs(t *testing.T) {
	got := Source{}.SchoolSlugs()
	assert.Equal(t, "ohio-bobcats", got["Ohio"])
	assert.Equal(t, "ohio-state-buckeyes", got["Ohio State"])

	got["Ohio"] = "changed"
	assert.Equal(t, "ohio-bobcats", Source{}.SchoolSlugs()["Ohio"])
}
