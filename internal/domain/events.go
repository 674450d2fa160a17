package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// ShipmentCreatedEvent is published when a shipment is created
type ShipmentCreatedEvent struct {
	TrackingID        string    `json:"trackingId"`
	Sender            string    `json:"sender"`
	Recipient         string    `json:"recipient"`
	Origin            string    `json:"origin"`
	Destination       string    `json:"destination"`
	WeightKg          float64   `json:"weightKg"`
	Cost              float64   `json:"cost"`
	Carrier           string    `json:"carrier"`
	Status            string    `json:"status"`
	CurrentLocation   string    `json:"currentLocation"`
	EstimatedDelivery string    `json:"estimatedDelivery"`
	CreatedAt         time.Time `json:"createdAt"`
}

func (e *ShipmentCreatedEvent) EventType() string     { return "swifttrack.tracking.shipment-created" }
func (e *ShipmentCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// ShipmentFieldsUpdatedEvent is published when a partial update is applied
type ShipmentFieldsUpdatedEvent struct {
	TrackingID string                 `json:"trackingId"`
	Fields     map[string]interface{} `json:"fields"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

func (e *ShipmentFieldsUpdatedEvent) EventType() string     { return "swifttrack.tracking.fields-updated" }
func (e *ShipmentFieldsUpdatedEvent) OccurredAt() time.Time { return e.UpdatedAt }

// TrackingEventAddedEvent is published when a tracking event is appended
type TrackingEventAddedEvent struct {
	TrackingID  string    `json:"trackingId"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	AddedAt     time.Time `json:"addedAt"`
}

func (e *TrackingEventAddedEvent) EventType() string     { return "swifttrack.tracking.event-added" }
func (e *TrackingEventAddedEvent) OccurredAt() time.Time { return e.AddedAt }
