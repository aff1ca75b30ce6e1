// Package ingest defines what a transfer portal scraper produces and the
// plumbing shared by the per-site scrapers under it.
package ingest

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// UserAgent is sent by every scraper
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Entry is one player row scraped from a team's portal page.
// Team is the program whose page was scraped; FromSchool and ToSchool are
// the school names as the site prints them.
type Entry struct {
	Source     string `json:"source"`
	Team       string `json:"team"`
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
	Position   string `json:"position"`
	Class      string `json:"class,omitempty"`
	Height     string `json:"height,omitempty"`
	Weight     string `json:"weight,omitempty"`
	Stars      int    `json:"stars"`
	Rating     string `json:"rating,omitempty"`
	Status     string `json:"status"`
	PortalDate string `json:"portal_date,omitempty"`
	FromSchool string `json:"from_school,omitempty"`
	ToSchool   string `json:"to_school,omitempty"`
	HighSchool string `json:"high_school,omitempty"`
}

// Source knows one site's team list, URL scheme and page layout
type Source interface {
	Name() string
	// Teams lists every team the site can be scraped for, sorted
	Teams() []string
	URL(team string, year int, status string) (string, error)
	Parse(html, team string) ([]Entry, error)
}

// Fetcher returns the rendered HTML at url
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, url string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// PageCache stores fetched pages; cache.RedisCache satisfies it
type PageCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedFetcher serves pages from cache when present and stores fresh
// fetches for ttl. Cache failures are logged and never fail a fetch.
type CachedFetcher struct {
	next   Fetcher
	cache  PageCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedFetcher wraps next with cache
func NewCachedFetcher(next Fetcher, cache PageCache, ttl time.Duration, logger *zap.Logger) *CachedFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFetcher{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (f *CachedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	key := PageCacheKey(url)

	if html, ok, err := f.cache.Get(ctx, key); err != nil {
		f.logger.Warn("page cache read failed", zap.String("url", url), zap.Error(err))
	} else if ok {
		f.logger.Debug("page cache hit", zap.String("url", url))
		return html, nil
	}

	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	if err := f.cache.Set(ctx, key, html, f.ttl); err != nil {
		f.logger.Warn("page cache write failed", zap.String("url", url), zap.Error(err))
	}
	return html, nil
}

// PageCacheKey is the cache key for a page url
func PageCacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return "portal:page:" + hex.EncodeToString(sum[:])
}

// ParseHTML converts raw HTML to a goquery Document
func ParseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Dedup drops repeated entries, keyed on name, status and portal date.
// "Load more" pagination can render the same row twice.
func Dedup(entries []Entry) []Entry {
	type key struct{ name, status, date string }
	seen := make(map[key]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		k := key{e.Name, e.Status, e.PortalDate}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Text returns the trimmed text of the first match of selector in s
func Text(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}
