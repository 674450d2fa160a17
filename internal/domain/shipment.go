package domain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Errors
var (
	ErrMissingSender      = errors.New("sender is required")
	ErrMissingRecipient   = errors.New("recipient is required")
	ErrInvalidWeight      = errors.New("weight must be greater than zero")
	ErrInvalidStatus      = errors.New("invalid shipment status")
	ErrFieldNotUpdatable  = errors.New("field is not updatable")
	ErrEmptyUpdate        = errors.New("update must contain at least one field")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
)

// ShipmentStatus represents the status of a shipment
type ShipmentStatus string

const (
	StatusCreated   ShipmentStatus = "created"
	StatusInTransit ShipmentStatus = "in-transit"
	StatusDelayed   ShipmentStatus = "delayed"
	StatusHeld      ShipmentStatus = "held"
	StatusDelivered ShipmentStatus = "delivered"
)

// AllStatuses lists every valid shipment status
var AllStatuses = []ShipmentStatus{
	StatusCreated,
	StatusInTransit,
	StatusDelayed,
	StatusHeld,
	StatusDelivered,
}

// IsValidStatus reports whether s is a known shipment status
func IsValidStatus(s string) bool {
	for _, status := range AllStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}

// Business constants
const (
	CarrierName = "SwiftTrack Express"
	CostPerKg   = 60.0

	// DateLayout is the wire format for all shipment dates
	DateLayout = "2006-01-02"

	// DeliveryLeadDays is the default delivery estimate from creation
	DeliveryLeadDays = 7
)

// Event descriptions
const (
	SeedEventDescription    = "Shipment created"
	DefaultEventDescription = "Custom event added"
)

// TrackingEvent is a single entry in a shipment's tracking history
type TrackingEvent struct {
	Date        string `bson:"date" json:"date"`
	Description string `bson:"description" json:"description"`
}

// Shipment is the aggregate root for the tracking bounded context.
// The tracking ID doubles as the document ID.
type Shipment struct {
	ID                string          `bson:"_id" json:"id"`
	Sender            string          `bson:"sender" json:"sender"`
	Recipient         string          `bson:"recipient" json:"recipient"`
	Origin            string          `bson:"origin" json:"origin"`
	Destination       string          `bson:"destination" json:"destination"`
	Description       string          `bson:"description,omitempty" json:"description,omitempty"`
	WeightKg          float64         `bson:"weightKg" json:"weightKg"`
	Cost              float64         `bson:"cost" json:"cost"`
	Carrier           string          `bson:"carrier" json:"carrier"`
	Status            ShipmentStatus  `bson:"status" json:"status"`
	CurrentLocation   string          `bson:"currentLocation" json:"currentLocation"`
	EstimatedDelivery string          `bson:"estimatedDelivery" json:"estimatedDelivery"`
	Notes             string          `bson:"notes" json:"notes"`
	Events            []TrackingEvent `bson:"events" json:"events"`
	CreatedAt         time.Time       `bson:"createdAt" json:"createdAt"`
	DomainEvents      []DomainEvent   `bson:"-" json:"-"`
}

// NewTrackingID generates a tracking ID of the form SWIF followed by six digits
func NewTrackingID() string {
	return fmt.Sprintf("SWIF%d", 100000+rand.IntN(900000))
}

// NewTransactionID generates a receipt transaction number of the form TXN
// followed by eight digits
func NewTransactionID() string {
	return fmt.Sprintf("TXN%d", 10000000+rand.IntN(90000000))
}

// ComputeCost derives the shipping cost from the package weight
func ComputeCost(weightKg float64) float64 {
	return weightKg * CostPerKg
}

// EstimateDelivery returns the default delivery estimate for a shipment
// created at the given time
func EstimateDelivery(now time.Time) string {
	return now.AddDate(0, 0, DeliveryLeadDays).Format(DateLayout)
}

// NewShipment creates a new Shipment aggregate with a fresh tracking ID,
// derived cost, default carrier and a seed tracking event. The current
// location starts at the origin.
func NewShipment(sender, recipient, origin, destination, description string, weightKg float64, now time.Time) (*Shipment, error) {
	if sender == "" {
		return nil, ErrMissingSender
	}
	if recipient == "" {
		return nil, ErrMissingRecipient
	}
	if weightKg <= 0 {
		return nil, ErrInvalidWeight
	}

	id := NewTrackingID()
	s := &Shipment{
		ID:                id,
		Sender:            sender,
		Recipient:         recipient,
		Origin:            origin,
		Destination:       destination,
		Description:       description,
		WeightKg:          weightKg,
		Cost:              ComputeCost(weightKg),
		Carrier:           CarrierName,
		Status:            StatusCreated,
		CurrentLocation:   origin,
		EstimatedDelivery: EstimateDelivery(now),
		Notes:             "",
		Events: []TrackingEvent{
			{Date: now.Format(DateLayout), Description: SeedEventDescription},
		},
		CreatedAt:    now.UTC(),
		DomainEvents: make([]DomainEvent, 0),
	}

	s.AddDomainEvent(&ShipmentCreatedEvent{
		TrackingID:        id,
		Sender:            sender,
		Recipient:         recipient,
		Origin:            origin,
		Destination:       destination,
		WeightKg:          weightKg,
		Cost:              s.Cost,
		Carrier:           s.Carrier,
		Status:            string(s.Status),
		CurrentLocation:   s.CurrentLocation,
		EstimatedDelivery: s.EstimatedDelivery,
		CreatedAt:         s.CreatedAt,
	})

	return s, nil
}

// updatableFields are the shipment fields a partial update may touch
var updatableFields = map[string]bool{
	"status":            true,
	"currentLocation":   true,
	"estimatedDelivery": true,
	"notes":             true,
}

// ValidateFieldUpdates checks a partial update against the set of updatable
// fields and the status enum. The patch is applied as-is; no fields are added
// or rewritten.
func ValidateFieldUpdates(fields map[string]interface{}) error {
	if len(fields) == 0 {
		return ErrEmptyUpdate
	}

	for name, value := range fields {
		if !updatableFields[name] {
			return fmt.Errorf("%w: %s", ErrFieldNotUpdatable, name)
		}

		switch name {
		case "status":
			s, ok := value.(string)
			if !ok || !IsValidStatus(s) {
				return ErrInvalidStatus
			}
		case "estimatedDelivery":
			s, ok := value.(string)
			if !ok {
				return ErrInvalidDate
			}
			if _, err := time.Parse(DateLayout, s); err != nil {
				return ErrInvalidDate
			}
		}
	}

	return nil
}

// WithEvent returns a copy of the shipment's tracking history with the given
// event appended. The original slice is not modified.
func (s *Shipment) WithEvent(event TrackingEvent) []TrackingEvent {
	events := make([]TrackingEvent, 0, len(s.Events)+1)
	events = append(events, s.Events...)
	events = append(events, event)
	return events
}

// NewTrackingEvent builds a tracking event, defaulting the description when
// none is provided
func NewTrackingEvent(date string, description string, now time.Time) (TrackingEvent, error) {
	if date == "" {
		date = now.Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, date); err != nil {
		return TrackingEvent{}, ErrInvalidDate
	}

	if description == "" {
		description = DefaultEventDescription
	}

	return TrackingEvent{Date: date, Description: description}, nil
}

// AddDomainEvent adds a domain event to the aggregate
func (s *Shipment) AddDomainEvent(event DomainEvent) {
	s.DomainEvents = append(s.DomainEvents, event)
}

// ClearDomainEvents clears all domain events
func (s *Shipment) ClearDomainEvents() {
	s.DomainEvents = make([]DomainEvent, 0)
}

// GetDomainEvents returns all domain events
func (s *Shipment) GetDomainEvents() []DomainEvent {
	return s.DomainEvents
}
