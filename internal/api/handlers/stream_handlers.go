package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/swifttrack/tracking-service/internal/application"
	"github.com/swifttrack/tracking-service/internal/infrastructure/mongodb"
	"github.com/swifttrack/tracking-service/pkg/logging"
)

// SnapshotSource is the live subscription surface the stream handler
// consumes. *mongodb.Hub satisfies it.
type SnapshotSource interface {
	Subscribe() chan mongodb.Snapshot
	Unsubscribe(ch chan mongodb.Snapshot)
}

// StreamHandlers serves the shipment mapping over server-sent events
type StreamHandlers struct {
	source SnapshotSource
	logger *logging.Logger
}

// NewStreamHandlers creates a new StreamHandlers
func NewStreamHandlers(source SnapshotSource, logger *logging.Logger) *StreamHandlers {
	return &StreamHandlers{
		source: source,
		logger: logger,
	}
}

// RegisterRoutes registers the stream route on the router
func (h *StreamHandlers) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/shipments/stream", h.StreamShipments)
}

// StreamShipments pushes the full shipment mapping to the client on
// subscribe and again on every collection change. Snapshots are always
// complete replacements, never deltas.
func (h *StreamHandlers) StreamShipments(c *gin.Context) {
	ch := h.source.Subscribe()
	defer h.source.Unsubscribe(ch)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case snapshot, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", application.ToShipmentDTOMap(snapshot))
			return true
		}
	})
}
