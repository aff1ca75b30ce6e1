package reconciliation

import (
	"strings"
	"sync"
	"time"

	"github.com/fortuna/portal/internal/ingest"
)

// Strategy defines how conflicting fields from two sources are merged
type Strategy string

const (
	// PreferPrimary keeps every non-empty primary field
	PreferPrimary Strategy = "prefer_primary"

	// SmartMerge keeps the primary entry but takes the secondary status when
	// it is further along (default)
	SmartMerge Strategy = "smart_merge"
)

// statusRank orders portal statuses by how far along a transfer is
var statusRank = map[string]int{
	"entered":   1,
	"expected":  2,
	"withdrawn": 3,
	"committed": 4,
	"signed":    5,
	"enrolled":  6,
}

// Metrics tracks merge statistics
type Metrics struct {
	Merges        int       `json:"merges"`
	Conflicts     int       `json:"conflicts"`
	PrimaryOnly   int       `json:"primary_only"`
	SecondaryOnly int       `json:"secondary_only"`
	LastMerge     time.Time `json:"last_merge"`
}

// Engine merges the same players scraped from two sites
type Engine struct {
	strategy Strategy

	mu      sync.Mutex
	metrics Metrics
}

// NewEngine creates an engine; an empty strategy means SmartMerge
func NewEngine(strategy Strategy) *Engine {
	if strategy == "" {
		strategy = SmartMerge
	}
	return &Engine{strategy: strategy}
}

// Merge combines primary and secondary entries. Entries match on team and
// case-folded player name. Matched pairs are merged field by field, and
// unmatched entries from either side are kept, primary order first.
func (e *Engine) Merge(primary, secondary []ingest.Entry) []ingest.Entry {
	out, _ := e.MergeCounted(primary, secondary)
	return out
}

// MergeCounted is Merge that also returns the counts for this call alone.
// The engine's running totals are updated either way.
func (e *Engine) MergeCounted(primary, secondary []ingest.Entry) ([]ingest.Entry, Metrics) {
	index := make(map[string]int, len(secondary))
	for i, s := range secondary {
		index[entryKey(s)] = i
	}

	used := make([]bool, len(secondary))
	out := make([]ingest.Entry, 0, len(primary)+len(secondary))
	var stats Metrics

	for _, p := range primary {
		i, ok := index[entryKey(p)]
		if !ok || used[i] {
			stats.PrimaryOnly++
			out = append(out, p)
			continue
		}
		used[i] = true
		merged, conflicts := e.mergeEntry(p, secondary[i])
		stats.Merges++
		stats.Conflicts += conflicts
		out = append(out, merged)
	}

	for i, s := range secondary {
		if !used[i] {
			stats.SecondaryOnly++
			out = append(out, s)
		}
	}

	e.mu.Lock()
	e.metrics.Merges += stats.Merges
	e.metrics.Conflicts += stats.Conflicts
	e.metrics.PrimaryOnly += stats.PrimaryOnly
	e.metrics.SecondaryOnly += stats.SecondaryOnly
	e.metrics.LastMerge = time.Now()
	stats.LastMerge = e.metrics.LastMerge
	e.mu.Unlock()

	return out, stats
}

// Metrics returns a snapshot of the merge counters
func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics
}

func entryKey(e ingest.Entry) string {
	return strings.ToLower(e.Team) + "|" + strings.ToLower(strings.Join(strings.Fields(e.Name), " "))
}

func (e *Engine) mergeEntry(p, s ingest.Entry) (ingest.Entry, int) {
	conflicts := 0
	fill := func(dst *string, src string) {
		switch {
		case *dst == "":
			*dst = src
		case src != "" && !strings.EqualFold(*dst, src):
			conflicts++
		}
	}

	out := p
	fill(&out.ProfileURL, s.ProfileURL)
	fill(&out.Position, s.Position)
	fill(&out.Class, s.Class)
	fill(&out.Height, s.Height)
	fill(&out.Weight, s.Weight)
	fill(&out.Rating, s.Rating)
	fill(&out.PortalDate, s.PortalDate)
	fill(&out.FromSchool, s.FromSchool)
	fill(&out.ToSchool, s.ToSchool)
	fill(&out.HighSchool, s.HighSchool)
	if out.Stars == 0 {
		out.Stars = s.Stars
	}

	primaryStatus := out.Status
	fill(&out.Status, s.Status)
	if e.strategy == SmartMerge && primaryStatus != "" &&
		statusRank[strings.ToLower(s.Status)] > statusRank[strings.ToLower(primaryStatus)] {
		out.Status = s.Status
	}

	return out, conflicts
}
