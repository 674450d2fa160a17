package application

import (
	"sort"

	"github.com/swifttrack/tracking-service/internal/domain"
)

// ToShipmentDTO converts a domain Shipment to ShipmentDTO
func ToShipmentDTO(shipment *domain.Shipment) *ShipmentDTO {
	if shipment == nil {
		return nil
	}

	events := make([]TrackingEventDTO, 0, len(shipment.Events))
	for _, e := range shipment.Events {
		events = append(events, TrackingEventDTO{Date: e.Date, Description: e.Description})
	}

	return &ShipmentDTO{
		ID:                shipment.ID,
		Sender:            shipment.Sender,
		Recipient:         shipment.Recipient,
		Origin:            shipment.Origin,
		Destination:       shipment.Destination,
		Description:       shipment.Description,
		WeightKg:          shipment.WeightKg,
		Cost:              shipment.Cost,
		Carrier:           shipment.Carrier,
		Status:            string(shipment.Status),
		CurrentLocation:   shipment.CurrentLocation,
		EstimatedDelivery: shipment.EstimatedDelivery,
		Notes:             shipment.Notes,
		Events:            events,
		CreatedAt:         shipment.CreatedAt,
	}
}

// ToShipmentDTOMap converts a shipment mapping to a DTO mapping keyed by tracking ID
func ToShipmentDTOMap(shipments map[string]domain.Shipment) map[string]ShipmentDTO {
	dtos := make(map[string]ShipmentDTO, len(shipments))
	for id, s := range shipments {
		shipment := s
		dtos[id] = *ToShipmentDTO(&shipment)
	}
	return dtos
}

// ToAdminSummaryDTO aggregates a shipment mapping into the admin summary.
// Rows are sorted by tracking ID so repeated calls produce identical output.
func ToAdminSummaryDTO(shipments map[string]domain.Shipment) *AdminSummaryDTO {
	summary := &AdminSummaryDTO{
		TotalShipments: len(shipments),
		Rows:           make([]AdminRowDTO, 0, len(shipments)),
	}

	for _, s := range shipments {
		summary.TotalWeightKg += s.WeightKg
		summary.TotalCost += s.Cost
		summary.Rows = append(summary.Rows, AdminRowDTO{
			ID:                s.ID,
			Sender:            s.Sender,
			Recipient:         s.Recipient,
			Origin:            s.Origin,
			Destination:       s.Destination,
			WeightKg:          s.WeightKg,
			Cost:              s.Cost,
			Status:            string(s.Status),
			EstimatedDelivery: s.EstimatedDelivery,
		})
	}

	sort.Slice(summary.Rows, func(i, j int) bool {
		return summary.Rows[i].ID < summary.Rows[j].ID
	})

	return summary
}
