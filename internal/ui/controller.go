package ui

import (
	"context"
	"strconv"
	"sync"

	"github.com/swifttrack/tracking-service/internal/application"
	"github.com/swifttrack/tracking-service/internal/domain"
	"github.com/swifttrack/tracking-service/pkg/logging"
)

// FormValues holds the creation form's current input
type FormValues struct {
	Sender      string `json:"sender"`
	Recipient   string `json:"recipient"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Description string `json:"description"`
	Weight      string `json:"weight"`
}

// CanSubmit reports whether the creation form is complete enough to
// proceed: sender, recipient and a positive weight are required.
func (f FormValues) CanSubmit() bool {
	if f.Sender == "" || f.Recipient == "" || f.Weight == "" {
		return false
	}
	w, err := strconv.ParseFloat(f.Weight, 64)
	return err == nil && w > 0
}

// State is the whole application state: the active route, the creation
// form, the latest full shipment mapping and an optional user notice.
type State struct {
	Route     Route
	Form      FormValues
	Shipments map[string]domain.Shipment
	Notice    string
}

// Controller owns the application state and applies every update through
// a single serialized path.
type Controller struct {
	mu      sync.Mutex
	state   State
	service *application.TrackingApplicationService
	logger  *logging.Logger
}

func NewController(service *application.TrackingApplicationService, logger *logging.Logger) *Controller {
	return &Controller{
		state: State{
			Route:     InitialRoute(),
			Shipments: make(map[string]domain.Shipment),
		},
		service: service,
		logger:  logger,
	}
}

// State returns a copy of the current application state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	shipments := make(map[string]domain.Shipment, len(c.state.Shipments))
	for id, shipment := range c.state.Shipments {
		shipments[id] = shipment
	}
	s.Shipments = shipments
	return s
}

// HandleFragment resolves a fragment change against the current route
func (c *Controller) HandleFragment(fragment string) Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Route = Resolve(c.state.Route, fragment)
	return c.state.Route
}

// ApplySnapshot replaces the entire local shipment mapping. No merging
// happens on this side; the pushed mapping is the new truth.
func (c *Controller) ApplySnapshot(shipments map[string]domain.Shipment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	replaced := make(map[string]domain.Shipment, len(shipments))
	for id, s := range shipments {
		replaced[id] = s
	}
	c.state.Shipments = replaced
}

// SetFormField updates one creation form field
func (c *Controller) SetFormField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch name {
	case "sender":
		c.state.Form.Sender = value
	case "recipient":
		c.state.Form.Recipient = value
	case "origin":
		c.state.Form.Origin = value
	case "destination":
		c.state.Form.Destination = value
	case "description":
		c.state.Form.Description = value
	case "weight":
		c.state.Form.Weight = value
	}
}

// SubmitCreate builds a shipment from the form and persists it. On
// success the route moves to the receipt view; on failure a notice is
// set and the route stays where it is.
func (c *Controller) SubmitCreate(ctx context.Context) (Route, error) {
	c.mu.Lock()
	form := c.state.Form
	c.mu.Unlock()

	weight, err := strconv.ParseFloat(form.Weight, 64)
	if err != nil {
		weight = 0
	}

	dto, err := c.service.CreateShipment(ctx, application.CreateShipmentCommand{
		Sender:      form.Sender,
		Recipient:   form.Recipient,
		Origin:      form.Origin,
		Destination: form.Destination,
		Description: form.Description,
		WeightKg:    weight,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Notice = "Failed to create shipment: " + err.Error()
		return c.state.Route, err
	}

	c.state.Notice = ""
	c.state.Form = FormValues{}
	c.state.Route = Route{View: ViewReceipt, TrackingID: dto.ID}
	return c.state.Route, nil
}

// UpdateShipmentField issues a single-field partial update. Failures are
// logged and otherwise dropped; the subscription push is the only
// confirmation the caller sees.
func (c *Controller) UpdateShipmentField(ctx context.Context, trackingID, field string, value interface{}) {
	err := c.service.UpdateShipment(ctx, application.UpdateShipmentCommand{
		TrackingID: trackingID,
		Fields:     map[string]interface{}{field: value},
	})
	if err != nil {
		c.logger.WithError(err).Warn("Shipment field update failed",
			"tracking_id", trackingID,
			"field", field)
	}
}

// AddCustomEvent appends a dated default event to the shipment's history
func (c *Controller) AddCustomEvent(ctx context.Context, trackingID string) {
	err := c.service.AddTrackingEvent(ctx, application.AddTrackingEventCommand{
		TrackingID: trackingID,
	})
	if err != nil {
		c.logger.WithError(err).Warn("Custom event append failed",
			"tracking_id", trackingID)
	}
}

// ClearNotice dismisses the current user notice
func (c *Controller) ClearNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Notice = ""
}

// Render produces the view model for the current state
func (c *Controller) Render() ViewModel {
	return Render(c.State())
}
