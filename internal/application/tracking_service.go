package application

import (
	"context"
	"fmt"
	"time"

	"github.com/swifttrack/tracking-service/internal/domain"
	"github.com/swifttrack/tracking-service/pkg/errors"
	"github.com/swifttrack/tracking-service/pkg/logging"
	"github.com/swifttrack/tracking-service/pkg/metrics"
)

// TrackingApplicationService handles shipment tracking use cases
type TrackingApplicationService struct {
	repo      domain.ShipmentRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	logger    *logging.Logger
	now       func() time.Time
}

// NewTrackingApplicationService creates a new TrackingApplicationService
func NewTrackingApplicationService(
	repo domain.ShipmentRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	logger *logging.Logger,
) *TrackingApplicationService {
	return &TrackingApplicationService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the service clock, for tests
func (s *TrackingApplicationService) WithClock(now func() time.Time) *TrackingApplicationService {
	s.now = now
	return s
}

// CreateShipment creates a new shipment
func (s *TrackingApplicationService) CreateShipment(ctx context.Context, cmd CreateShipmentCommand) (*ShipmentDTO, error) {
	shipment, err := domain.NewShipment(cmd.Sender, cmd.Recipient, cmd.Origin, cmd.Destination, cmd.Description, cmd.WeightKg, s.now())
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.repo.Insert(ctx, shipment); err != nil {
		s.logger.WithError(err).Error("Failed to create shipment", "trackingId", shipment.ID)
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	s.publishEvents(ctx, shipment.GetDomainEvents())
	shipment.ClearDomainEvents()

	if s.metrics != nil {
		s.metrics.RecordShipmentCreated(shipment.Carrier)
	}

	s.logger.Info("Created shipment", "trackingId", shipment.ID, "destination", shipment.Destination)
	return ToShipmentDTO(shipment), nil
}

// GetShipment retrieves a shipment by tracking ID
func (s *TrackingApplicationService) GetShipment(ctx context.Context, query GetShipmentQuery) (*ShipmentDTO, error) {
	shipment, err := s.repo.FindByID(ctx, query.TrackingID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get shipment", "trackingId", query.TrackingID)
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}

	if shipment == nil {
		return nil, errors.ErrNotFound("shipment")
	}

	return ToShipmentDTO(shipment), nil
}

// ListShipments returns the full shipment mapping keyed by tracking ID
func (s *TrackingApplicationService) ListShipments(ctx context.Context) (map[string]ShipmentDTO, error) {
	shipments, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list shipments")
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}

	return ToShipmentDTOMap(shipments), nil
}

// UpdateShipment applies a partial update containing exactly the given fields
func (s *TrackingApplicationService) UpdateShipment(ctx context.Context, cmd UpdateShipmentCommand) error {
	if err := domain.ValidateFieldUpdates(cmd.Fields); err != nil {
		return errors.ErrValidation(err.Error())
	}

	shipment, err := s.repo.FindByID(ctx, cmd.TrackingID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get shipment", "trackingId", cmd.TrackingID)
		return fmt.Errorf("failed to get shipment: %w", err)
	}
	if shipment == nil {
		return errors.ErrNotFound("shipment")
	}

	if err := s.repo.UpdateFields(ctx, cmd.TrackingID, cmd.Fields); err != nil {
		s.logger.WithError(err).Error("Failed to update shipment", "trackingId", cmd.TrackingID)
		return fmt.Errorf("failed to update shipment: %w", err)
	}

	s.publishEvents(ctx, []domain.DomainEvent{
		&domain.ShipmentFieldsUpdatedEvent{
			TrackingID: cmd.TrackingID,
			Fields:     cmd.Fields,
			UpdatedAt:  s.now().UTC(),
		},
	})

	if s.metrics != nil {
		for field := range cmd.Fields {
			s.metrics.RecordShipmentFieldUpdate(field)
		}
	}

	s.logger.Info("Updated shipment", "trackingId", cmd.TrackingID, "fields", len(cmd.Fields))
	return nil
}

// AddTrackingEvent appends a tracking event to a shipment's history
func (s *TrackingApplicationService) AddTrackingEvent(ctx context.Context, cmd AddTrackingEventCommand) error {
	event, err := domain.NewTrackingEvent(cmd.Date, cmd.Description, s.now())
	if err != nil {
		return errors.ErrValidation(err.Error())
	}

	shipment, err := s.repo.FindByID(ctx, cmd.TrackingID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get shipment", "trackingId", cmd.TrackingID)
		return fmt.Errorf("failed to get shipment: %w", err)
	}
	if shipment == nil {
		return errors.ErrNotFound("shipment")
	}

	// The history is replaced wholesale with the appended copy, keeping the
	// write an exact single-field patch.
	events := shipment.WithEvent(event)
	if err := s.repo.UpdateFields(ctx, cmd.TrackingID, map[string]interface{}{"events": events}); err != nil {
		s.logger.WithError(err).Error("Failed to append tracking event", "trackingId", cmd.TrackingID)
		return fmt.Errorf("failed to append tracking event: %w", err)
	}

	s.publishEvents(ctx, []domain.DomainEvent{
		&domain.TrackingEventAddedEvent{
			TrackingID:  cmd.TrackingID,
			Date:        event.Date,
			Description: event.Description,
			AddedAt:     s.now().UTC(),
		},
	})

	if s.metrics != nil {
		s.metrics.RecordTrackingEventAdded()
	}

	s.logger.Info("Added tracking event", "trackingId", cmd.TrackingID, "date", event.Date)
	return nil
}

// AdminSummary aggregates all shipments for the admin view
func (s *TrackingApplicationService) AdminSummary(ctx context.Context) (*AdminSummaryDTO, error) {
	shipments, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build admin summary")
		return nil, fmt.Errorf("failed to build admin summary: %w", err)
	}

	return ToAdminSummaryDTO(shipments), nil
}

// publishEvents publishes domain events, logging failures without failing the
// request
func (s *TrackingApplicationService) publishEvents(ctx context.Context, events []domain.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}

	if err := s.publisher.PublishAll(ctx, events); err != nil {
		s.logger.WithError(err).Warn("Failed to publish domain events", "count", len(events))
	}
}
