package scrape

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/fortuna/portal/internal/ingest"
	"github.com/fortuna/portal/internal/reconciliation"
	"github.com/fortuna/portal/internal/store"
)

const (
	scrapedIDPrefix = "scr-"
	footballSport   = "Football"
	isoDate         = "2006-01-02"
	portalDate      = "1/2/2006"
)

// toTransactions keeps entries that name both an origin and a destination
// school. Each player move becomes one transaction even when it was listed
// on both teams' pages.
func (r *Runner) toTransactions(entries []ingest.Entry, scrapedAt time.Time) []store.Transaction {
	seen := make(map[string]struct{})
	txns := make([]store.Transaction, 0, len(entries))

	for _, e := range entries {
		if strings.TrimSpace(e.FromSchool) == "" || strings.TrimSpace(e.ToSchool) == "" {
			continue
		}

		from, _ := r.matcher.Resolve(e.FromSchool)
		to, _ := r.matcher.Resolve(e.ToSchool)

		id := transactionID(e.Name, from, to)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		txns = append(txns, store.Transaction{
			ID:           id,
			PlayerID:     scrapedIDPrefix + reconciliation.Slugify(e.Name),
			PlayerName:   e.Name,
			Position:     e.Position,
			FromTeam:     from,
			FromTeamLogo: r.logos[from],
			ToTeam:       to,
			ToTeamLogo:   r.logos[to],
			StarRating:   e.Stars,
			Date:         transactionDate(e.PortalDate, scrapedAt),
			Sport:        footballSport,
		})
	}
	return txns
}

func transactionID(name, from, to string) string {
	key := strings.ToLower(strings.Join([]string{strings.Join(strings.Fields(name), " "), from, to}, "|"))
	sum := sha1.Sum([]byte(key))
	return scrapedIDPrefix + hex.EncodeToString(sum[:6])
}

// transactionDate converts the portal's M/D/YYYY date to ISO form, falling
// back to the scrape date
func transactionDate(raw string, scrapedAt time.Time) string {
	if t, err := time.Parse(portalDate, strings.TrimSpace(raw)); err == nil {
		return t.Format(isoDate)
	}
	return scrapedAt.Format(isoDate)
}
