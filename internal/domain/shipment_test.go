package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// Test fixtures
func createTestShipment(t *testing.T) *Shipment {
	t.Helper()
	s, err := NewShipment("Acme Corp", "John Doe", "Hamburg", "Berlin", "Spare parts", 2.5, testNow)
	require.NoError(t, err)
	return s
}

func TestNewShipment(t *testing.T) {
	shipment := createTestShipment(t)

	assert.Regexp(t, `^SWIF\d{6}$`, shipment.ID)
	assert.Equal(t, "Acme Corp", shipment.Sender)
	assert.Equal(t, "John Doe", shipment.Recipient)
	assert.Equal(t, "Hamburg", shipment.Origin)
	assert.Equal(t, "Berlin", shipment.Destination)
	assert.Equal(t, 2.5, shipment.WeightKg)
	assert.Equal(t, 150.0, shipment.Cost)
	assert.Equal(t, CarrierName, shipment.Carrier)
	assert.Equal(t, StatusCreated, shipment.Status)
	assert.Equal(t, "Hamburg", shipment.CurrentLocation)
	assert.Equal(t, "2024-03-22", shipment.EstimatedDelivery)
	assert.Empty(t, shipment.Notes)
	assert.NotZero(t, shipment.CreatedAt)

	// Seed tracking event
	require.Len(t, shipment.Events, 1)
	assert.Equal(t, "2024-03-15", shipment.Events[0].Date)
	assert.Equal(t, SeedEventDescription, shipment.Events[0].Description)

	// Check domain event
	events := shipment.GetDomainEvents()
	require.Len(t, events, 1)
	event, ok := events[0].(*ShipmentCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, shipment.ID, event.TrackingID)
	assert.Equal(t, 150.0, event.Cost)
}

func TestNewShipmentValidation(t *testing.T) {
	tests := []struct {
		name      string
		sender    string
		recipient string
		weight    float64
		wantErr   error
	}{
		{"missing sender", "", "John Doe", 2.5, ErrMissingSender},
		{"missing recipient", "Acme Corp", "", 2.5, ErrMissingRecipient},
		{"zero weight", "Acme Corp", "John Doe", 0, ErrInvalidWeight},
		{"negative weight", "Acme Corp", "John Doe", -1, ErrInvalidWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShipment(tt.sender, tt.recipient, "Hamburg", "Berlin", "", tt.weight, testNow)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewTrackingID(t *testing.T) {
	pattern := regexp.MustCompile(`^SWIF\d{6}$`)
	for i := 0; i < 100; i++ {
		id := NewTrackingID()
		assert.True(t, pattern.MatchString(id), "unexpected tracking ID %q", id)
	}
}

func TestNewTransactionID(t *testing.T) {
	pattern := regexp.MustCompile(`^TXN\d{8}$`)
	for i := 0; i < 100; i++ {
		id := NewTransactionID()
		assert.True(t, pattern.MatchString(id), "unexpected transaction ID %q", id)
	}
}

func TestComputeCost(t *testing.T) {
	tests := []struct {
		name     string
		weightKg float64
		want     float64
	}{
		{"one kilogram", 1, 60},
		{"fractional weight", 2.5, 150},
		{"heavy package", 10, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeCost(tt.weightKg))
		})
	}
}

func TestEstimateDelivery(t *testing.T) {
	assert.Equal(t, "2024-03-22", EstimateDelivery(testNow))

	// Month rollover
	endOfMonth := time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-04", EstimateDelivery(endOfMonth))
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range AllStatuses {
		assert.True(t, IsValidStatus(string(status)))
	}
	assert.False(t, IsValidStatus("lost"))
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("Delivered"))
}

func TestValidateFieldUpdates(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]interface{}
		wantErr error
	}{
		{
			name:    "valid status update",
			fields:  map[string]interface{}{"status": "delivered"},
			wantErr: nil,
		},
		{
			name:    "valid delivery estimate update",
			fields:  map[string]interface{}{"estimatedDelivery": "2024-04-01"},
			wantErr: nil,
		},
		{
			name:    "valid multi-field update",
			fields:  map[string]interface{}{"status": "held", "currentLocation": "Munich"},
			wantErr: nil,
		},
		{
			name:    "valid notes update",
			fields:  map[string]interface{}{"notes": "Fragile, handle with care"},
			wantErr: nil,
		},
		{
			name:    "empty update",
			fields:  map[string]interface{}{},
			wantErr: ErrEmptyUpdate,
		},
		{
			name:    "unknown field",
			fields:  map[string]interface{}{"cost": 99.0},
			wantErr: ErrFieldNotUpdatable,
		},
		{
			name:    "destination not updatable",
			fields:  map[string]interface{}{"destination": "Munich"},
			wantErr: ErrFieldNotUpdatable,
		},
		{
			name:    "events not updatable directly",
			fields:  map[string]interface{}{"events": []TrackingEvent{}},
			wantErr: ErrFieldNotUpdatable,
		},
		{
			name:    "invalid status value",
			fields:  map[string]interface{}{"status": "lost"},
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "status not a string",
			fields:  map[string]interface{}{"status": 42},
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "malformed delivery date",
			fields:  map[string]interface{}{"estimatedDelivery": "04/01/2024"},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldUpdates(tt.fields)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestWithEvent(t *testing.T) {
	shipment := createTestShipment(t)
	original := len(shipment.Events)

	event := TrackingEvent{Date: "2024-03-16", Description: "Departed facility"}
	events := shipment.WithEvent(event)

	require.Len(t, events, original+1)
	assert.Equal(t, event, events[len(events)-1])

	// Original history untouched
	assert.Len(t, shipment.Events, original)
}

func TestNewTrackingEvent(t *testing.T) {
	tests := []struct {
		name        string
		date        string
		description string
		want        TrackingEvent
		wantErr     error
	}{
		{
			name:        "explicit values",
			date:        "2024-03-16",
			description: "Departed facility",
			want:        TrackingEvent{Date: "2024-03-16", Description: "Departed facility"},
		},
		{
			name: "defaults applied",
			want: TrackingEvent{Date: "2024-03-15", Description: DefaultEventDescription},
		},
		{
			name:        "default description only",
			date:        "2024-03-17",
			description: "",
			want:        TrackingEvent{Date: "2024-03-17", Description: DefaultEventDescription},
		},
		{
			name:    "malformed date",
			date:    "16-03-2024",
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := NewTrackingEvent(tt.date, tt.description, testNow)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, event)
		})
	}
}

func TestDomainEventLifecycle(t *testing.T) {
	shipment := createTestShipment(t)
	require.Len(t, shipment.GetDomainEvents(), 1)

	shipment.AddDomainEvent(&TrackingEventAddedEvent{
		TrackingID:  shipment.ID,
		Date:        "2024-03-16",
		Description: "Departed facility",
		AddedAt:     testNow,
	})
	assert.Len(t, shipment.GetDomainEvents(), 2)

	shipment.ClearDomainEvents()
	assert.Empty(t, shipment.GetDomainEvents())
}

func BenchmarkNewShipment(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = NewShipment("Acme Corp", "John Doe", "Hamburg", "Berlin", "", 2.5, testNow)
	}
}

func BenchmarkWithEvent(b *testing.B) {
	s, _ := NewShipment("Acme Corp", "John Doe", "Hamburg", "Berlin", "", 2.5, testNow)
	event := TrackingEvent{Date: "2024-03-16", Description: "Departed facility"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.WithEvent(event)
	}
}
