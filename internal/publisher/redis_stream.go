// Package publisher emits portal events onto Redis streams.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fortuna/portal/internal/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// TransactionStream carries one entry per scraped portal transaction
	TransactionStream = "portal.transactions.football"
	// ScrapeStream carries scrape job lifecycle events
	ScrapeStream = "portal.scrape.events"

	// streams are capped so an idle consumer cannot grow Redis unbounded
	defaultMaxLen = 10000
)

// ScrapeCompleted is published once per finished scrape job
type ScrapeCompleted struct {
	JobID        string    `json:"job_id"`
	Source       string    `json:"source"`
	Year         int       `json:"year"`
	Teams        []string  `json:"teams"`
	Entries      int       `json:"entries"`
	Transactions int       `json:"transactions"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	CompletedAt  time.Time `json:"completed_at"`
}

// RedisPublisher publishes events to Redis streams
type RedisPublisher struct {
	client *redis.Client
	logger *zap.Logger
	maxLen int64
	now    func() time.Time
}

// NewRedisPublisher creates a publisher from an existing client
func NewRedisPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{
		client: client,
		logger: logger,
		maxLen: defaultMaxLen,
		now:    time.Now,
	}
}

// PublishTransaction publishes a transaction to TransactionStream
func (rp *RedisPublisher) PublishTransaction(ctx context.Context, txn store.Transaction) error {
	return rp.publish(ctx, TransactionStream, "transaction", txn)
}

// PublishScrapeCompleted publishes a job summary to ScrapeStream
func (rp *RedisPublisher) PublishScrapeCompleted(ctx context.Context, event ScrapeCompleted) error {
	if err := rp.publish(ctx, ScrapeStream, "scrape.completed", event); err != nil {
		return err
	}
	rp.logger.Info("published scrape event",
		zap.String("job_id", event.JobID),
		zap.String("status", event.Status),
		zap.Int("transactions", event.Transactions),
	)
	return nil
}

func (rp *RedisPublisher) publish(ctx context.Context, stream, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	err = rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: rp.maxLen,
		Approx: true,
		Values: streamValues(eventType, data, rp.now()),
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", stream, err)
	}
	return nil
}

func streamValues(eventType string, data []byte, at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"type":      eventType,
		"data":      string(data),
		"timestamp": at.Unix(),
	}
}
