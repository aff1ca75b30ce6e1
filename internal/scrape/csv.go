package scrape

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fortuna/portal/internal/ingest"
)

var csvHeader = []string{
	"source", "team", "name", "position", "class", "height", "weight", "stars",
	"rating", "status", "portal_date", "from_school", "to_school", "high_school", "profile_url",
}

// OutputFileName names the combined CSV for a run, e.g. portal_on3_2026_committed.csv
func OutputFileName(source string, year int, status string) string {
	name := "portal_" + source
	if year > 0 {
		name += "_" + strconv.Itoa(year)
	}
	if status != "" {
		name += "_" + status
	}
	return name + ".csv"
}

// WriteCSV writes entries to path, creating parent directories
func WriteCSV(path string, entries []ingest.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range entries {
		if err := w.Write(csvRecord(e)); err != nil {
			return fmt.Errorf("writing %s: %w", e.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}

func csvRecord(e ingest.Entry) []string {
	return []string{
		e.Source, e.Team, e.Name, e.Position, e.Class, e.Height, e.Weight, strconv.Itoa(e.Stars),
		e.Rating, e.Status, e.PortalDate, e.FromSchool, e.ToSchool, e.HighSchool, e.ProfileURL,
	}
}
