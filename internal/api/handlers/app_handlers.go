package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swifttrack/tracking-service/internal/infrastructure/mongodb"
	"github.com/swifttrack/tracking-service/internal/ui"
	"github.com/swifttrack/tracking-service/pkg/logging"
)

// SnapshotReader exposes the latest published shipment mapping
type SnapshotReader interface {
	Latest() (mongodb.Snapshot, bool)
}

// AppHandlers drives a single server-held UI controller over HTTP,
// mirroring one browser session, plus a stateless view renderer.
type AppHandlers struct {
	controller *ui.Controller
	snapshots  SnapshotReader
	logger     *logging.Logger
}

// NewAppHandlers creates a new AppHandlers
func NewAppHandlers(controller *ui.Controller, snapshots SnapshotReader, logger *logging.Logger) *AppHandlers {
	return &AppHandlers{
		controller: controller,
		snapshots:  snapshots,
		logger:     logger,
	}
}

// RegisterRoutes registers the view and app routes
func (h *AppHandlers) RegisterRoutes(api *gin.RouterGroup, app *gin.RouterGroup) {
	api.GET("/view", h.RenderFragment)

	app.GET("/state", h.GetViewModel)
	app.POST("/navigate", h.Navigate)
	app.POST("/form", h.SetFormField)
	app.POST("/create", h.SubmitCreate)
	app.POST("/shipments/:trackingId/field", h.UpdateShipmentField)
	app.POST("/shipments/:trackingId/events", h.AddCustomEvent)
}

// RenderFragment renders a fragment statelessly against the latest
// snapshot, starting from the home route.
func (h *AppHandlers) RenderFragment(c *gin.Context) {
	fragment := c.Query("fragment")
	route := ui.Resolve(ui.InitialRoute(), fragment)

	snapshot, _ := h.snapshots.Latest()
	state := ui.State{Route: route, Shipments: snapshot}

	c.JSON(http.StatusOK, ui.Render(state))
}

// GetViewModel renders the controller's current state
func (h *AppHandlers) GetViewModel(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Render())
}

// Navigate applies a fragment change to the controller
func (h *AppHandlers) Navigate(c *gin.Context) {
	var req struct {
		Fragment string `json:"fragment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route := h.controller.HandleFragment(req.Fragment)
	c.JSON(http.StatusOK, route)
}

// SetFormField updates one creation form field
func (h *AppHandlers) SetFormField(c *gin.Context) {
	var req struct {
		Field string `json:"field" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.controller.SetFormField(req.Field, req.Value)
	c.Status(http.StatusNoContent)
}

// SubmitCreate submits the creation form. Success navigates to the
// receipt; failure leaves the route alone with a notice set. Either way
// the fresh view model is returned.
func (h *AppHandlers) SubmitCreate(c *gin.Context) {
	if _, err := h.controller.SubmitCreate(c.Request.Context()); err != nil {
		h.logger.WithError(err).Warn("Shipment creation failed")
	}
	c.JSON(http.StatusOK, h.controller.Render())
}

// UpdateShipmentField issues a fire-and-forget single-field update
func (h *AppHandlers) UpdateShipmentField(c *gin.Context) {
	var req struct {
		Field string      `json:"field" binding:"required"`
		Value interface{} `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.controller.UpdateShipmentField(c.Request.Context(), c.Param("trackingId"), req.Field, req.Value)
	c.Status(http.StatusAccepted)
}

// AddCustomEvent appends the default custom event to the shipment
func (h *AppHandlers) AddCustomEvent(c *gin.Context) {
	h.controller.AddCustomEvent(c.Request.Context(), c.Param("trackingId"))
	c.Status(http.StatusAccepted)
}
