package cloudevents

import (
	"time"
)

// EventType constants for tracking domain events
const (
	ShipmentCreated       = "swifttrack.tracking.shipment-created"
	ShipmentFieldsUpdated = "swifttrack.tracking.fields-updated"
	TrackingEventAdded    = "swifttrack.tracking.event-added"
)

// Source constants for event sources
const (
	SourceTracking = "/swifttrack/tracking-service"
)

// TrackingCloudEvent represents a CloudEvents v1.0 compliant event
type TrackingCloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// Extensions
	CorrelationID string `json:"swifttrackcorrelationid,omitempty"`
}

// ShipmentCreatedData represents the data payload for ShipmentCreated event
type ShipmentCreatedData struct {
	TrackingID        string  `json:"trackingId"`
	Sender            string  `json:"sender"`
	Recipient         string  `json:"recipient"`
	Origin            string  `json:"origin"`
	Destination       string  `json:"destination"`
	WeightKg          float64 `json:"weightKg"`
	Cost              float64 `json:"cost"`
	Carrier           string  `json:"carrier"`
	Status            string  `json:"status"`
	CurrentLocation   string  `json:"currentLocation"`
	EstimatedDelivery string  `json:"estimatedDelivery"`
}

// ShipmentFieldsUpdatedData represents the data payload for ShipmentFieldsUpdated event
type ShipmentFieldsUpdatedData struct {
	TrackingID string                 `json:"trackingId"`
	Fields     map[string]interface{} `json:"fields"`
}

// TrackingEventAddedData represents the data payload for TrackingEventAdded event
type TrackingEventAddedData struct {
	TrackingID  string `json:"trackingId"`
	Date        string `json:"date"`
	Description string `json:"description"`
}
