package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swifttrack/tracking-service/pkg/logging"
	"github.com/swifttrack/tracking-service/pkg/metrics"
)

const (
	watcherReconnectInitialDelay = 1 * time.Second
	watcherReconnectMaxDelay     = 30 * time.Second
)

// Watcher tails the shipments change stream and republishes the full
// collection snapshot through the hub whenever anything changes.
type Watcher struct {
	collection *mongo.Collection
	repo       *ShipmentRepository
	hub        *Hub
	metrics    *metrics.Metrics
	logger     *logging.Logger
}

func NewWatcher(db *mongo.Database, repo *ShipmentRepository, hub *Hub, m *metrics.Metrics, logger *logging.Logger) *Watcher {
	return &Watcher{
		collection: db.Collection(shipmentsCollection),
		repo:       repo,
		hub:        hub,
		metrics:    m,
		logger:     logger,
	}
}

// Run publishes an initial snapshot then blocks tailing the change
// stream until ctx is cancelled. Stream failures trigger a reconnect
// with exponential backoff.
func (w *Watcher) Run(ctx context.Context) {
	if err := w.publishSnapshot(ctx); err != nil {
		w.logger.WithError(err).Warn("Initial snapshot failed")
	}

	backoff := newReconnectBackoff()
	for {
		if ctx.Err() != nil {
			return
		}

		opened, err := w.watch(ctx)
		if ctx.Err() != nil {
			return
		}
		if opened {
			// A healthy session clears the accrued backoff.
			backoff.reset()
		}
		if err != nil {
			w.logger.WithError(err).Warn("Change stream interrupted, reconnecting", "delay", backoff.delay.String())
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff.next()):
		}
	}
}

// reconnectBackoff doubles the wait between reconnect attempts up to a
// cap, and is reset whenever a stream session opens.
type reconnectBackoff struct {
	delay time.Duration
}

func newReconnectBackoff() *reconnectBackoff {
	return &reconnectBackoff{delay: watcherReconnectInitialDelay}
}

func (b *reconnectBackoff) next() time.Duration {
	current := b.delay
	b.delay *= 2
	if b.delay > watcherReconnectMaxDelay {
		b.delay = watcherReconnectMaxDelay
	}
	return current
}

func (b *reconnectBackoff) reset() {
	b.delay = watcherReconnectInitialDelay
}

// watch reports whether the stream opened, so the caller can reset its
// reconnect backoff after a healthy session.
func (w *Watcher) watch(ctx context.Context) (bool, error) {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := w.collection.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return false, err
	}
	defer stream.Close(ctx)

	// Republish on resume so state missed during the outage is not lost.
	if err := w.publishSnapshot(ctx); err != nil {
		w.logger.WithError(err).Warn("Snapshot after stream open failed")
	}

	for stream.Next(ctx) {
		var change bson.M
		if err := stream.Decode(&change); err != nil {
			w.logger.WithError(err).Warn("Failed to decode change event")
			continue
		}
		if err := w.publishSnapshot(ctx); err != nil {
			w.logger.WithError(err).Warn("Snapshot publish failed")
		}
	}
	return true, stream.Err()
}

func (w *Watcher) publishSnapshot(ctx context.Context) error {
	start := time.Now()
	shipments, err := w.repo.FindAll(ctx)
	if err != nil {
		return err
	}

	subscribers := w.hub.Publish(shipments)
	if w.metrics != nil {
		w.metrics.RecordSnapshotPublished()
	}
	w.logger.SnapshotPublish(ctx, len(shipments), subscribers, time.Since(start))
	return nil
}
