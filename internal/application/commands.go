package application

// CreateShipmentCommand represents the command to create a new shipment
type CreateShipmentCommand struct {
	Sender      string
	Recipient   string
	Origin      string
	Destination string
	Description string
	WeightKg    float64
}

// UpdateShipmentCommand represents a partial update to a shipment.
// Fields holds exactly the fields to change; nothing else is written.
type UpdateShipmentCommand struct {
	TrackingID string
	Fields     map[string]interface{}
}

// AddTrackingEventCommand represents the command to append a tracking event
type AddTrackingEventCommand struct {
	TrackingID  string
	Date        string
	Description string
}

// GetShipmentQuery represents the query to get a shipment by tracking ID
type GetShipmentQuery struct {
	TrackingID string
}
