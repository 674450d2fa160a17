package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swifttrack/tracking-service/internal/application"
	"github.com/swifttrack/tracking-service/pkg/errors"
	"github.com/swifttrack/tracking-service/pkg/logging"
	"github.com/swifttrack/tracking-service/pkg/middleware"
)

// TrackingService is the application surface the handlers depend on
type TrackingService interface {
	CreateShipment(ctx context.Context, cmd application.CreateShipmentCommand) (*application.ShipmentDTO, error)
	GetShipment(ctx context.Context, query application.GetShipmentQuery) (*application.ShipmentDTO, error)
	ListShipments(ctx context.Context) (map[string]application.ShipmentDTO, error)
	UpdateShipment(ctx context.Context, cmd application.UpdateShipmentCommand) error
	AddTrackingEvent(ctx context.Context, cmd application.AddTrackingEventCommand) error
	AdminSummary(ctx context.Context) (*application.AdminSummaryDTO, error)
}

// ShipmentHandlers contains handlers for shipment operations
type ShipmentHandlers struct {
	service TrackingService
	logger  *logging.Logger
}

// NewShipmentHandlers creates a new ShipmentHandlers
func NewShipmentHandlers(service TrackingService, logger *logging.Logger) *ShipmentHandlers {
	return &ShipmentHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers shipment routes on the router
func (h *ShipmentHandlers) RegisterRoutes(router *gin.RouterGroup) {
	shipments := router.Group("/shipments")
	{
		shipments.POST("", h.CreateShipment)
		shipments.GET("", h.ListShipments)
		shipments.GET("/:trackingId", h.GetShipment)
		shipments.PATCH("/:trackingId", h.UpdateShipment)
		shipments.POST("/:trackingId/events", h.AddTrackingEvent)
	}
	router.GET("/admin/summary", h.AdminSummary)
}

// CreateShipment handles shipment creation
func (h *ShipmentHandlers) CreateShipment(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		Sender      string  `json:"sender" binding:"required,safe_string"`
		Recipient   string  `json:"recipient" binding:"required,safe_string"`
		Origin      string  `json:"origin" binding:"omitempty,safe_string"`
		Destination string  `json:"destination" binding:"omitempty,safe_string"`
		Description string  `json:"description" binding:"omitempty,safe_string"`
		WeightKg    float64 `json:"weightKg" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.CreateShipmentCommand{
		Sender:      req.Sender,
		Recipient:   req.Recipient,
		Origin:      req.Origin,
		Destination: req.Destination,
		Description: req.Description,
		WeightKg:    req.WeightKg,
	}

	shipment, err := h.service.CreateShipment(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusCreated, shipment)
}

// GetShipment handles getting a shipment by tracking ID
func (h *ShipmentHandlers) GetShipment(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	trackingID := c.Param("trackingId")
	query := application.GetShipmentQuery{TrackingID: trackingID}

	shipment, err := h.service.GetShipment(c.Request.Context(), query)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, shipment)
}

// ListShipments handles listing the full shipment mapping
func (h *ShipmentHandlers) ListShipments(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	shipments, err := h.service.ListShipments(c.Request.Context())
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, shipments)
}

// UpdateShipment handles a partial update. The patch sent onward contains
// exactly the fields present in the request body.
func (h *ShipmentHandlers) UpdateShipment(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	trackingID := c.Param("trackingId")

	var req struct {
		Status            *string `json:"status" binding:"omitempty,shipment_status"`
		CurrentLocation   *string `json:"currentLocation" binding:"omitempty,safe_string"`
		EstimatedDelivery *string `json:"estimatedDelivery" binding:"omitempty,datetime=2006-01-02"`
		Notes             *string `json:"notes" binding:"omitempty,safe_string"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := make(map[string]interface{})
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.CurrentLocation != nil {
		fields["currentLocation"] = *req.CurrentLocation
	}
	if req.EstimatedDelivery != nil {
		fields["estimatedDelivery"] = *req.EstimatedDelivery
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	cmd := application.UpdateShipmentCommand{
		TrackingID: trackingID,
		Fields:     fields,
	}

	if err := h.service.UpdateShipment(c.Request.Context(), cmd); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// AddTrackingEvent handles appending a tracking event
func (h *ShipmentHandlers) AddTrackingEvent(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	trackingID := c.Param("trackingId")

	// An empty body appends the default event dated today
	var req struct {
		Date        string `json:"date" binding:"omitempty,datetime=2006-01-02"`
		Description string `json:"description" binding:"omitempty,safe_string"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	cmd := application.AddTrackingEventCommand{
		TrackingID:  trackingID,
		Date:        req.Date,
		Description: req.Description,
	}

	if err := h.service.AddTrackingEvent(c.Request.Context(), cmd); err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// AdminSummary handles the admin aggregate view
func (h *ShipmentHandlers) AdminSummary(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	summary, err := h.service.AdminSummary(c.Request.Context())
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
