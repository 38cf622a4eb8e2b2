// Package consumer reads crawled pages from Kafka, validates and stores
// them, and notifies searchers when enough new material has accumulated
// to warrant an index rebuild.
package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AKNosov/InfSearch/internal/ingestion"
	"github.com/AKNosov/InfSearch/internal/ingestion/store"
	"github.com/AKNosov/InfSearch/pkg/kafka"
	"github.com/AKNosov/InfSearch/pkg/metrics"
)

// RefreshEvent is published on the index-refresh topic after a batch of
// new pages has been stored.
type RefreshEvent struct {
	Pages int       `json:"pages"`
	At    time.Time `json:"at"`
}

// PageConsumer drives the Kafka→Postgres page pipeline.
type PageConsumer struct {
	consumer    *kafka.Consumer
	notifier    *kafka.Producer
	store       *store.Store
	metrics     *metrics.Metrics
	notifyEvery int
	accepted    int
	sinceNotify int
	logger      *slog.Logger
}

// New wires a page consumer. notifier may be nil to disable refresh
// events; notifyEvery below 1 defaults to 1000.
func New(newConsumer func(kafka.MessageHandler) *kafka.Consumer, notifier *kafka.Producer, st *store.Store, m *metrics.Metrics, notifyEvery int) *PageConsumer {
	if notifyEvery < 1 {
		notifyEvery = 1000
	}
	pc := &PageConsumer{
		notifier:    notifier,
		store:       st,
		metrics:     m,
		notifyEvery: notifyEvery,
		logger:      slog.Default().With("component", "page-consumer"),
	}
	pc.consumer = newConsumer(pc.handle)
	return pc
}

// Start consumes until ctx is cancelled, then emits a final refresh
// notification for any stored pages not yet announced.
func (pc *PageConsumer) Start(ctx context.Context) error {
	err := pc.consumer.Start(ctx)
	if pc.sinceNotify > 0 {
		pc.notify(context.Background())
	}
	pc.logger.Info("page consumer stopped", "pages_accepted", pc.accepted)
	return err
}

// handle processes one Kafka message: decode, validate, store, and
// notify when the batch threshold is reached. Invalid pages are dropped
// with a counter bump. Store failures are returned to the Kafka consumer,
// which logs them and moves on without committing the message; it is not
// fetched again, and a later commit on the same partition moves the group
// offset past it.
func (pc *PageConsumer) handle(ctx context.Context, key, value []byte) error {
	page, err := kafka.DecodeJSON[ingestion.Page](value)
	if err != nil {
		pc.metrics.PagesConsumedTotal.WithLabelValues("invalid").Inc()
		pc.logger.Warn("dropping undecodable page", "key", string(key), "error", err)
		return nil
	}
	if err := page.Validate(); err != nil {
		pc.metrics.PagesConsumedTotal.WithLabelValues("invalid").Inc()
		pc.logger.Warn("dropping invalid page", "url", page.URL, "error", err)
		return nil
	}

	if err := pc.store.Upsert(ctx, page); err != nil {
		pc.metrics.PagesConsumedTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("storing page: %w", err)
	}
	pc.metrics.PagesConsumedTotal.WithLabelValues("stored").Inc()
	pc.accepted++
	pc.sinceNotify++

	if pc.sinceNotify >= pc.notifyEvery {
		pc.notify(ctx)
	}
	return nil
}

func (pc *PageConsumer) notify(ctx context.Context) {
	if pc.notifier == nil {
		pc.sinceNotify = 0
		return
	}
	event := RefreshEvent{Pages: pc.sinceNotify, At: time.Now().UTC()}
	if err := pc.notifier.Publish(ctx, kafka.Event{Key: "refresh", Value: event}); err != nil {
		pc.logger.Error("failed to publish refresh event", "error", err)
		return
	}
	pc.logger.Info("refresh event published", "pages", pc.sinceNotify)
	pc.sinceNotify = 0
}
