package events

import (
	"context"
	"fmt"

	"github.com/swifttrack/tracking-service/internal/domain"
	"github.com/swifttrack/tracking-service/pkg/cloudevents"
	"github.com/swifttrack/tracking-service/pkg/kafka"
	"github.com/swifttrack/tracking-service/pkg/logging"
)

// KafkaEventPublisher publishes domain events to Kafka as CloudEvents.
type KafkaEventPublisher struct {
	producer *kafka.CircuitBreakerProducer
	factory  *cloudevents.EventFactory
	topic    string
	logger   *logging.Logger
}

func NewKafkaEventPublisher(producer *kafka.CircuitBreakerProducer, factory *cloudevents.EventFactory, logger *logging.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		factory:  factory,
		topic:    kafka.Topics.ShipmentEvents,
		logger:   logger,
	}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	cloudEvent, err := p.toCloudEvent(ctx, event)
	if err != nil {
		return err
	}

	p.producer.PublishEventAsync(ctx, p.topic, cloudEvent, func(err error) {
		if err != nil {
			p.logger.WithError(err).Error("Failed to publish domain event",
				"event_type", event.EventType())
		}
	})
	return nil
}

func (p *KafkaEventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (p *KafkaEventPublisher) toCloudEvent(ctx context.Context, event domain.DomainEvent) (*cloudevents.TrackingCloudEvent, error) {
	switch e := event.(type) {
	case *domain.ShipmentCreatedEvent:
		return p.factory.CreateShipmentCreatedEvent(ctx, cloudevents.ShipmentCreatedData{
			TrackingID:        e.TrackingID,
			Sender:            e.Sender,
			Recipient:         e.Recipient,
			Origin:            e.Origin,
			Destination:       e.Destination,
			WeightKg:          e.WeightKg,
			Cost:              e.Cost,
			Carrier:           e.Carrier,
			Status:            e.Status,
			CurrentLocation:   e.CurrentLocation,
			EstimatedDelivery: e.EstimatedDelivery,
		}), nil
	case *domain.ShipmentFieldsUpdatedEvent:
		return p.factory.CreateShipmentFieldsUpdatedEvent(ctx, e.TrackingID, e.Fields), nil
	case *domain.TrackingEventAddedEvent:
		return p.factory.CreateTrackingEventAddedEvent(ctx, e.TrackingID, e.Date, e.Description), nil
	default:
		return nil, fmt.Errorf("unknown domain event type: %s", event.EventType())
	}
}
