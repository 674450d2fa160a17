package application

import "time"

// ShipmentDTO represents a shipment in responses
type ShipmentDTO struct {
	ID                string             `json:"id"`
	Sender            string             `json:"sender"`
	Recipient         string             `json:"recipient"`
	Origin            string             `json:"origin"`
	Destination       string             `json:"destination"`
	Description       string             `json:"description,omitempty"`
	WeightKg          float64            `json:"weightKg"`
	Cost              float64            `json:"cost"`
	Carrier           string             `json:"carrier"`
	Status            string             `json:"status"`
	CurrentLocation   string             `json:"currentLocation"`
	EstimatedDelivery string             `json:"estimatedDelivery"`
	Notes             string             `json:"notes"`
	Events            []TrackingEventDTO `json:"events"`
	CreatedAt         time.Time          `json:"createdAt"`
}

// TrackingEventDTO represents a tracking history entry
type TrackingEventDTO struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// AdminRowDTO represents one shipment row in the admin summary
type AdminRowDTO struct {
	ID                string  `json:"id"`
	Sender            string  `json:"sender"`
	Recipient         string  `json:"recipient"`
	Origin            string  `json:"origin"`
	Destination       string  `json:"destination"`
	WeightKg          float64 `json:"weightKg"`
	Cost              float64 `json:"cost"`
	Status            string  `json:"status"`
	EstimatedDelivery string  `json:"estimatedDelivery"`
}

// AdminSummaryDTO aggregates all shipments for the admin view
type AdminSummaryDTO struct {
	TotalShipments int           `json:"totalShipments"`
	TotalWeightKg  float64       `json:"totalWeightKg"`
	TotalCost      float64       `json:"totalCost"`
	Rows           []AdminRowDTO `json:"rows"`
}
