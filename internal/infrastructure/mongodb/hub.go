package mongodb

import (
	"sync"

	"github.com/swifttrack/tracking-service/internal/domain"
	"github.com/swifttrack/tracking-service/pkg/metrics"
)

// Snapshot is the full shipment mapping at a point in time.
type Snapshot map[string]domain.Shipment

// Hub fans snapshots out to stream subscribers. Each subscriber channel
// holds at most one snapshot; a newer snapshot replaces an undelivered
// older one so slow consumers only ever see the latest state.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan Snapshot]struct{}
	latest      Snapshot
	hasLatest   bool
	metrics     *metrics.Metrics
}

func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		subscribers: make(map[chan Snapshot]struct{}),
		metrics:     m,
	}
}

// Subscribe registers a new subscriber. If a snapshot has already been
// published the subscriber receives it immediately.
func (h *Hub) Subscribe() chan Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Snapshot, 1)
	h.subscribers[ch] = struct{}{}
	if h.hasLatest {
		ch <- h.latest
	}
	h.updateGauge()
	return ch
}

func (h *Hub) Unsubscribe(ch chan Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[ch]; !ok {
		return
	}
	delete(h.subscribers, ch)
	close(ch)
	h.updateGauge()
}

// Publish replaces the current snapshot and delivers it to every
// subscriber, displacing any undelivered older snapshot.
func (h *Hub) Publish(snapshot Snapshot) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = snapshot
	h.hasLatest = true

	for ch := range h.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Drop the stale snapshot and replace it with the new one.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
	return len(h.subscribers)
}

// Latest returns the most recent snapshot, if any.
func (h *Hub) Latest() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.hasLatest
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) updateGauge() {
	if h.metrics != nil {
		h.metrics.SetStreamSubscribers(len(h.subscribers))
	}
}
