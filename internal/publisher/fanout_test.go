package publisher

import (
	"context"
	"fmt"
	"testing"

	"github.com/fortuna/portal/internal/store"
	"github.com/stretchr/testify/assert"
)

type recordingPublisher struct {
	fail   bool
	txns   []string
	events []string
}

func (p *recordingPublisher) PublishTransaction(_ context.Context, txn store.Transaction) error {
	p.txns = append(p.txns, txn.ID)
	if p.fail {
		return fmt.Errorf("publish %s failed", txn.ID)
	}
	return nil
}

func (p *recordingPublisher) PublishScrapeCompleted(_ context.Context, event ScrapeCompleted) error {
	p.events = append(p.events, event.JobID)
	if p.fail {
		return fmt.Errorf("publish %s failed", event.JobID)
	}
	return nil
}

func TestFanout(t *testing.T) {
	broken := &recordingPublisher{fail: true}
	healthy := &recordingPublisher{}
	f := NewFanout(broken, nil, healthy)

	assert.Len(t, f, 2)

	err := f.PublishTransaction(context.Background(), store.Transaction{ID: "scr-1"})
	assert.EqualError(t, err, "publish scr-1 failed")
	assert.Equal(t, []string{"scr-1"}, healthy.txns)

	err = f.PublishScrapeCompleted(context.Background(), ScrapeCompleted{JobID: "job-1"})
	assert.Error(t, err)
	assert.Equal(t, []string{"job-1"}, broken.events)
	assert.Equal(t, []string{"job-1"}, healthy.events)
}

func TestFanout_Empty(t *testing.T) {
	assert.NoError(t, NewFanout().PublishTransaction(context.Background(), store.Transaction{}))
}
