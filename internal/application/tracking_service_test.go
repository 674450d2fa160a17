package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifttrack/tracking-service/internal/domain"
	apperrors "github.com/swifttrack/tracking-service/pkg/errors"
	"github.com/swifttrack/tracking-service/pkg/logging"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// mockRepository implements domain.ShipmentRepository for tests
type mockRepository struct {
	insertFn       func(ctx context.Context, shipment *domain.Shipment) error
	findByIDFn     func(ctx context.Context, trackingID string) (*domain.Shipment, error)
	findAllFn      func(ctx context.Context) (map[string]domain.Shipment, error)
	updateFieldsFn func(ctx context.Context, trackingID string, fields map[string]interface{}) error
}

func (m *mockRepository) Insert(ctx context.Context, shipment *domain.Shipment) error {
	if m.insertFn == nil {
		panic("unexpected call to Insert")
	}
	return m.insertFn(ctx, shipment)
}

func (m *mockRepository) FindByID(ctx context.Context, trackingID string) (*domain.Shipment, error) {
	if m.findByIDFn == nil {
		panic("unexpected call to FindByID")
	}
	return m.findByIDFn(ctx, trackingID)
}

func (m *mockRepository) FindAll(ctx context.Context) (map[string]domain.Shipment, error) {
	if m.findAllFn == nil {
		panic("unexpected call to FindAll")
	}
	return m.findAllFn(ctx)
}

func (m *mockRepository) UpdateFields(ctx context.Context, trackingID string, fields map[string]interface{}) error {
	if m.updateFieldsFn == nil {
		panic("unexpected call to UpdateFields")
	}
	return m.updateFieldsFn(ctx, trackingID, fields)
}

// mockPublisher implements domain.EventPublisher for tests
type mockPublisher struct {
	published []domain.DomainEvent
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, event)
	return nil
}

func (m *mockPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, events...)
	return nil
}

func newTestService(repo *mockRepository, publisher *mockPublisher) *TrackingApplicationService {
	logger := logging.New(logging.DefaultConfig("tracking-service-test"))
	svc := NewTrackingApplicationService(repo, publisher, nil, logger)
	return svc.WithClock(func() time.Time { return testNow })
}

func existingShipment(t *testing.T) *domain.Shipment {
	t.Helper()
	s, err := domain.NewShipment("Acme Corp", "John Doe", "Hamburg", "Berlin", "", 2.5, testNow)
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func TestCreateShipment(t *testing.T) {
	var saved *domain.Shipment
	repo := &mockRepository{
		insertFn: func(ctx context.Context, shipment *domain.Shipment) error {
			saved = shipment
			return nil
		},
	}
	publisher := &mockPublisher{}
	svc := newTestService(repo, publisher)

	dto, err := svc.CreateShipment(context.Background(), CreateShipmentCommand{
		Sender:      "Acme Corp",
		Recipient:   "John Doe",
		Origin:      "Hamburg",
		Destination: "Berlin",
		WeightKg:    2.5,
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, saved.ID, dto.ID)
	assert.Regexp(t, `^SWIF\d{6}$`, dto.ID)
	assert.Equal(t, 150.0, dto.Cost)
	assert.Equal(t, domain.CarrierName, dto.Carrier)
	assert.Equal(t, "created", dto.Status)
	assert.Equal(t, "Hamburg", dto.CurrentLocation)
	assert.Equal(t, "2024-03-22", dto.EstimatedDelivery)
	require.Len(t, dto.Events, 1)
	assert.Equal(t, domain.SeedEventDescription, dto.Events[0].Description)

	// One ShipmentCreated domain event published
	require.Len(t, publisher.published, 1)
	created, ok := publisher.published[0].(*domain.ShipmentCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, dto.ID, created.TrackingID)
}

func TestCreateShipmentValidation(t *testing.T) {
	svc := newTestService(&mockRepository{}, &mockPublisher{})

	_, err := svc.CreateShipment(context.Background(), CreateShipmentCommand{
		Sender:      "",
		Recipient:   "John Doe",
		Destination: "Berlin",
		WeightKg:    2.5,
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationError, appErr.Code)
}

func TestCreateShipmentInsertFailure(t *testing.T) {
	repo := &mockRepository{
		insertFn: func(ctx context.Context, shipment *domain.Shipment) error {
			return errors.New("duplicate key error")
		},
	}
	publisher := &mockPublisher{}
	svc := newTestService(repo, publisher)

	_, err := svc.CreateShipment(context.Background(), CreateShipmentCommand{
		Sender:      "Acme Corp",
		Recipient:   "John Doe",
		Destination: "Berlin",
		WeightKg:    2.5,
	})

	require.Error(t, err)
	assert.Empty(t, publisher.published)
}

func TestGetShipment(t *testing.T) {
	shipment := existingShipment(t)
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, trackingID string) (*domain.Shipment, error) {
			assert.Equal(t, shipment.ID, trackingID)
			return shipment, nil
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	dto, err := svc.GetShipment(context.Background(), GetShipmentQuery{TrackingID: shipment.ID})

	require.NoError(t, err)
	assert.Equal(t, shipment.ID, dto.ID)
	assert.Equal(t, shipment.Sender, dto.Sender)
}

func TestGetShipmentNotFound(t *testing.T) {
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, trackingID string) (*domain.Shipment, error) {
			return nil, nil
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	_, err := svc.GetShipment(context.Background(), GetShipmentQuery{TrackingID: "SWIF000000"})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestListShipments(t *testing.T) {
	a := existingShipment(t)
	b := existingShipment(t)
	repo := &mockRepository{
		findAllFn: func(ctx context.Context) (map[string]domain.Shipment, error) {
			return map[string]domain.Shipment{a.ID: *a, b.ID: *b}, nil
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	dtos, err := svc.ListShipments(context.Background())

	require.NoError(t, err)
	assert.Len(t, dtos, 2)
	assert.Contains(t, dtos, a.ID)
	assert.Contains(t, dtos, b.ID)
}

func TestUpdateShipment(t *testing.T) {
	shipment := existingShipment(t)

	var patched map[string]interface{}
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, trackingID string) (*domain.Shipment, error) {
			return shipment, nil
		},
		updateFieldsFn: func(ctx context.Context, trackingID string, fields map[string]interface{}) error {
			patched = fields
			return nil
		},
	}
	publisher := &mockPublisher{}
	svc := newTestService(repo, publisher)

	err := svc.UpdateShipment(context.Background(), UpdateShipmentCommand{
		TrackingID: shipment.ID,
		Fields:     map[string]interface{}{"status": "delivered"},
	})

	require.NoError(t, err)

	// The patch carries exactly the requested fields
	assert.Equal(t, map[string]interface{}{"status": "delivered"}, patched)

	require.Len(t, publisher.published, 1)
	updated, ok := publisher.published[0].(*domain.ShipmentFieldsUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, shipment.ID, updated.TrackingID)
}

func TestUpdateShipmentRejectsUnknownField(t *testing.T) {
	svc := newTestService(&mockRepository{}, &mockPublisher{})

	err := svc.UpdateShipment(context.Background(), UpdateShipmentCommand{
		TrackingID: "SWIF123456",
		Fields:     map[string]interface{}{"cost": 10.0},
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationError, appErr.Code)
}

func TestUpdateShipmentNotFound(t *testing.T) {
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, trackingID string) (*domain.Shipment, error) {
			return nil, nil
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	err := svc.UpdateShipment(context.Background(), UpdateShipmentCommand{
		TrackingID: "SWIF000000",
		Fields:     map[string]interface{}{"status": "held"},
	})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestAddTrackingEvent(t *testing.T) {
	shipment := existingShipment(t)

	var patched map[string]interface{}
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, trackingID string) (*domain.Shipment, error) {
			return shipment, nil
		},
		updateFieldsFn: func(ctx context.Context, trackingID string, fields map[string]interface{}) error {
			patched = fields
			return nil
		},
	}
	publisher := &mockPublisher{}
	svc := newTestService(repo, publisher)

	err := svc.AddTrackingEvent(context.Background(), AddTrackingEventCommand{
		TrackingID:  shipment.ID,
		Date:        "2024-03-16",
		Description: "Departed facility",
	})

	require.NoError(t, err)

	// Patch replaces the whole history with the appended copy
	require.Contains(t, patched, "events")
	events, ok := patched["events"].([]domain.TrackingEvent)
	require.True(t, ok)
	require.Len(t, events, 2)
	assert.Equal(t, domain.SeedEventDescription, events[0].Description)
	assert.Equal(t, "Departed facility", events[1].Description)

	require.Len(t, publisher.published, 1)
	added, ok := publisher.published[0].(*domain.TrackingEventAddedEvent)
	require.True(t, ok)
	assert.Equal(t, "2024-03-16", added.Date)
}

func TestAddTrackingEventDefaults(t *testing.T) {
	shipment := existingShipment(t)

	var patched map[string]interface{}
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, trackingID string) (*domain.Shipment, error) {
			return shipment, nil
		},
		updateFieldsFn: func(ctx context.Context, trackingID string, fields map[string]interface{}) error {
			patched = fields
			return nil
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	err := svc.AddTrackingEvent(context.Background(), AddTrackingEventCommand{
		TrackingID: shipment.ID,
	})

	require.NoError(t, err)
	events := patched["events"].([]domain.TrackingEvent)
	require.Len(t, events, 2)
	assert.Equal(t, "2024-03-15", events[1].Date)
	assert.Equal(t, domain.DefaultEventDescription, events[1].Description)
}

func TestAddTrackingEventPublishFailureDoesNotFail(t *testing.T) {
	shipment := existingShipment(t)
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, trackingID string) (*domain.Shipment, error) {
			return shipment, nil
		},
		updateFieldsFn: func(ctx context.Context, trackingID string, fields map[string]interface{}) error {
			return nil
		},
	}
	publisher := &mockPublisher{err: errors.New("broker unavailable")}
	svc := newTestService(repo, publisher)

	err := svc.AddTrackingEvent(context.Background(), AddTrackingEventCommand{
		TrackingID: shipment.ID,
		Date:       "2024-03-16",
	})

	assert.NoError(t, err)
}

func TestAdminSummary(t *testing.T) {
	a := existingShipment(t)
	b := existingShipment(t)
	repo := &mockRepository{
		findAllFn: func(ctx context.Context) (map[string]domain.Shipment, error) {
			return map[string]domain.Shipment{a.ID: *a, b.ID: *b}, nil
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	summary, err := svc.AdminSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalShipments)
	assert.Equal(t, 5.0, summary.TotalWeightKg)
	assert.Equal(t, 300.0, summary.TotalCost)
	require.Len(t, summary.Rows, 2)

	// Rows sorted by tracking ID
	assert.LessOrEqual(t, summary.Rows[0].ID, summary.Rows[1].ID)
}

func TestAdminSummaryEmpty(t *testing.T) {
	repo := &mockRepository{
		findAllFn: func(ctx context.Context) (map[string]domain.Shipment, error) {
			return map[string]domain.Shipment{}, nil
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	summary, err := svc.AdminSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalShipments)
	assert.Zero(t, summary.TotalWeightKg)
	assert.Zero(t, summary.TotalCost)
	assert.Empty(t, summary.Rows)
}
