package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventFactory creates CloudEvents for tracking domain events
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// CreateEvent creates a new TrackingCloudEvent with the given parameters
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *TrackingCloudEvent {
	return &TrackingCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}
}

// CreateEventWithCorrelation creates an event with correlation tracking
func (f *EventFactory) CreateEventWithCorrelation(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
	correlationID string,
) *TrackingCloudEvent {
	event := f.CreateEvent(ctx, eventType, subject, data)
	event.CorrelationID = correlationID
	return event
}

// CreateShipmentCreatedEvent creates a ShipmentCreated event
func (f *EventFactory) CreateShipmentCreatedEvent(
	ctx context.Context,
	data ShipmentCreatedData,
) *TrackingCloudEvent {
	return f.CreateEvent(ctx, ShipmentCreated, "shipment/"+data.TrackingID, data)
}

// CreateShipmentFieldsUpdatedEvent creates a ShipmentFieldsUpdated event
func (f *EventFactory) CreateShipmentFieldsUpdatedEvent(
	ctx context.Context,
	trackingID string,
	fields map[string]interface{},
) *TrackingCloudEvent {
	data := ShipmentFieldsUpdatedData{
		TrackingID: trackingID,
		Fields:     fields,
	}
	return f.CreateEvent(ctx, ShipmentFieldsUpdated, "shipment/"+trackingID, data)
}

// CreateTrackingEventAddedEvent creates a TrackingEventAdded event
func (f *EventFactory) CreateTrackingEventAddedEvent(
	ctx context.Context,
	trackingID string,
	date string,
	description string,
) *TrackingCloudEvent {
	data := TrackingEventAddedData{
		TrackingID:  trackingID,
		Date:        date,
		Description: description,
	}
	return f.CreateEvent(ctx, TrackingEventAdded, "shipment/"+trackingID, data)
}
