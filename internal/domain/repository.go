package domain

import "context"

// ShipmentRepository defines the interface for shipment persistence
type ShipmentRepository interface {
	Insert(ctx context.Context, shipment *Shipment) error
	FindByID(ctx context.Context, trackingID string) (*Shipment, error)
	FindAll(ctx context.Context) (map[string]Shipment, error)
	UpdateFields(ctx context.Context, trackingID string, fields map[string]interface{}) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	PublishAll(ctx context.Context, events []DomainEvent) error
}
