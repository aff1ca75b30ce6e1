package on3

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/fortuna/portal/internal/ingest"
	"go.uber.org/zap"
)

const (
	pageTimeout   = 2 * time.Minute
	settleDelay   = 3 * time.Second
	loadMoreWait  = 15 * time.Second
	loadMorePause = 800 * time.Millisecond
	pollInterval  = 250 * time.Millisecond

	// caps pagination on teams with very long portal lists
	maxLoadMoreClicks = 50
)

// clickLoadMoreJS clicks a visible "Load More" control and returns the row
// count before the click, or -1 when there is nothing left to load
const clickLoadMoreJS = `(() => {
	const btn = [...document.querySelectorAll('button, a')]
		.find(el => /load more/i.test(el.textContent) && el.offsetParent !== null);
	if (!btn) return -1;
	const before = document.querySelectorAll('ol > li').length;
	btn.scrollIntoView();
	btn.click();
	return before;
})()`

const rowCountJS = `document.querySelectorAll('ol > li').length`

// Client renders On3 pages in headless Chrome. On3 builds its portal list
// client-side and paginates behind a "Load More" button, so a plain HTTP
// fetch sees no rows.
type Client struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	logger   *zap.Logger
}

// NewClient starts a Chrome allocator; a false headless shows the browser
func NewClient(headless bool, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(ingest.UserAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{allocCtx: allocCtx, cancel: cancel, logger: logger}
}

// Close shuts the browser down
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Fetch loads url in a fresh tab, expands the list and returns the page HTML
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(c.allocCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, pageTimeout)
	defer cancelTimeout()

	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
	)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", url, err)
	}

	clicks, err := c.expand(tabCtx)
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", url, err)
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML(`html`, &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	if html == "" {
		return "", fmt.Errorf("empty HTML content returned for %s", url)
	}

	c.logger.Debug("rendered on3 page", zap.String("url", url), zap.Int("load_more_clicks", clicks))
	return html, nil
}

// expand keeps clicking "Load More" until it disappears or stops adding rows
func (c *Client) expand(ctx context.Context) (int, error) {
	clicks := 0
	for clicks < maxLoadMoreClicks {
		var before int
		if err := chromedp.Run(ctx, chromedp.Evaluate(clickLoadMoreJS, &before)); err != nil {
			return clicks, err
		}
		if before < 0 {
			return clicks, nil
		}
		clicks++

		grew, err := waitForRows(ctx, before)
		if err != nil {
			return clicks, err
		}
		if !grew {
			return clicks, nil
		}
		if err := chromedp.Run(ctx, chromedp.Sleep(loadMorePause)); err != nil {
			return clicks, err
		}
	}
	return clicks, nil
}

func waitForRows(ctx context.Context, before int) (bool, error) {
	deadline := time.Now().Add(loadMoreWait)
	for time.Now().Before(deadline) {
		var count int
		if err := chromedp.Run(ctx, chromedp.Evaluate(rowCountJS, &count)); err != nil {
			return false, err
		}
		if count > before {
			return true, nil
		}
		if err := chromedp.Run(ctx, chromedp.Sleep(pollInterval)); err != nil {
			return false, err
		}
	}
	return false, nil
}
