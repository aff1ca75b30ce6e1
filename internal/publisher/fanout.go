package publisher

import (
	"context"

	"github.com/fortuna/portal/internal/store"
	"go.uber.org/multierr"
)

// Publisher is anything that can announce scrape output
type Publisher interface {
	PublishTransaction(ctx context.Context, txn store.Transaction) error
	PublishScrapeCompleted(ctx context.Context, event ScrapeCompleted) error
}

// Fanout delivers every event to each publisher in turn. A failing
// publisher does not stop delivery to the rest; errors are combined.
type Fanout []Publisher

// NewFanout drops nil publishers
func NewFanout(pubs ...Publisher) Fanout {
	out := make(Fanout, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (f Fanout) PublishTransaction(ctx context.Context, txn store.Transaction) error {
	var err error
	for _, p := range f {
		err = multierr.Append(err, p.PublishTransaction(ctx, txn))
	}
	return err
}

func (f Fanout) PublishScrapeCompleted(ctx context.Context, event ScrapeCompleted) error {
	var err error
	for _, p := range f {
		err = multierr.Append(err, p.PublishScrapeCompleted(ctx, event))
	}
	return err
}
