package sports247

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fortuna/portal/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamPage = `<html><body><ul>
<li class="transfer-player">
  <h3><a href="https://247sports.com/player/marcus-johnson-1/">Marcus Johnson</a></h3>
  <div class="position">QB</div>
  <div class="bio">6-3 / 215</div>
  <div class="starContainer">
    <svg><path fill="#FBD032"></path></svg>
    <svg><path fill="#FBD032"></path></svg>
    <svg><path fill="#FBD032"></path></svg>
    <svg><path fill="#FBD032"></path></svg>
    <svg><path fill="#C4C4C4"></path></svg>
  </div>
  <div class="rating">92</div>
  <div class="status">Committed</div>
  <div class="transfer-prediction">
    <img class="source" alt="USC" src="usc.png">
    <ul><li class="destination"><img alt="Alabama" src="bama.png"></li></ul>
  </div>
</li>
<li class="transfer-player">
  <h3>Walk On</h3>
  <div class="position">LS</div>
  <div class="bio">6-1</div>
  <div class="status">Entered</div>
</li>
</ul></body></html>`

func TestParseEntries(t *testing.T) {
	entries, err := ParseEntries(teamPage, "Alabama")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, ingest.Entry{
		Source:     SourceName,
		Team:       "Alabama",
		Name:       "Marcus Johnson",
		ProfileURL: "https://247sports.com/player/marcus-johnson-1/",
		Position:   "QB",
		Height:     `6'3"`,
		Weight:     "215 lbs",
		Stars:      4,
		Rating:     "92",
		Status:     "Committed",
		FromSchool: "USC",
		ToSchool:   "Alabama",
	}, entries[0])

	walkOn := entries[1]
	assert.Equal(t, "Walk On", walkOn.Name)
	assert.Empty(t, walkOn.ProfileURL)
	assert.Equal(t, "6-1", walkOn.Height)
	assert.Empty(t, walkOn.Weight)
	assert.Zero(t, walkOn.Stars)
	assert.Empty(t, walkOn.Rating)
	assert.Empty(t, walkOn.FromSchool)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "ohio-state", Slug("Ohio State"))
	assert.Equal(t, "texas-am", Slug("Texas A&M"))
	assert.Equal(t, "miami-oh", Slug("Miami OH"))
	assert.Equal(t, "transfer-portal", Slug("Miami (OH)"))
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t,
		"https://247sports.com/college/alabama/season/2026-football/transferportal/?institutionkey=1234",
		BuildURL("Alabama", "1234", 2026))
}

func TestLoadInstitutionKeys(t *testing.T) {
	in := "team,institution_key\nAlabama, 1234\n# retired\nTexas A&M,5678\n"

	keys, err := LoadInstitutionKeys(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Alabama": "1234", "Texas A&M": "5678"}, keys)

	_, err = LoadInstitutionKeys(strings.NewReader("Alabama,1234\nTexas,abc\n"))
	assert.Error(t, err)
}

func TestSource(t *testing.T) {
	src := NewSource(map[string]string{"Texas": "2", "Alabama": "1"})

	assert.Equal(t, []string{"Alabama", "Texas"}, src.Teams())

	u, err := src.URL("Texas", 2025, "committed")
	require.NoError(t, err)
	assert.Equal(t, "https://247sports.com/college/texas/season/2025-football/transferportal/?institutionkey=2", u)

	_, err = src.URL("Georgia", 2025, "")
	assert.Error(t, err)
}

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ingest.UserAgent, r.Header.Get("User-Agent"))
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(teamPage))
	}))
	defer srv.Close()

	c := NewClient(srv.Client())

	html, err := c.Fetch(context.Background(), srv.URL+"/team")
	require.NoError(t, err)
	assert.Equal(t, teamPage, html)

	_, err = c.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}
