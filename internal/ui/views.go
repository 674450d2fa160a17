package ui

import (
	"fmt"
	"sort"

	"github.com/swifttrack/tracking-service/internal/domain"
)

const invalidTrackingMessage = "Invalid tracking ID"

// ViewModel is the full UI description for one render. Exactly one of
// the per-view fields is set, matching the View.
type ViewModel struct {
	View      View                `json:"view"`
	Notice    string              `json:"notice,omitempty"`
	Home      *HomeViewModel      `json:"home,omitempty"`
	Create    *CreateViewModel    `json:"create,omitempty"`
	Receipt   *ReceiptViewModel   `json:"receipt,omitempty"`
	Dashboard *DashboardViewModel `json:"dashboard,omitempty"`
	Track     *TrackViewModel     `json:"track,omitempty"`
	Admin     *AdminViewModel     `json:"admin,omitempty"`
}

// HomeViewModel is the landing screen: a tracking search box plus the
// creation form.
type HomeViewModel struct {
	Form      FormValues `json:"form"`
	CanSubmit bool       `json:"canSubmit"`
}

// CreateViewModel is the standalone creation screen
type CreateViewModel struct {
	Form      FormValues `json:"form"`
	CanSubmit bool       `json:"canSubmit"`
}

// ReceiptViewModel shows the post-payment summary. When the shipment is
// not in the mapping the screen stays empty rather than erroring.
type ReceiptViewModel struct {
	Found         bool   `json:"found"`
	TransactionID string `json:"transactionId,omitempty"`
	TrackingID    string `json:"trackingId,omitempty"`
	Carrier       string `json:"carrier,omitempty"`
	Cost          string `json:"cost,omitempty"`
	TrackHref     string `json:"trackHref,omitempty"`
	DashboardHref string `json:"dashboardHref,omitempty"`
}

// DashboardViewModel is the unauthenticated management screen
type DashboardViewModel struct {
	Found             bool                   `json:"found"`
	Message           string                 `json:"message,omitempty"`
	TrackingID        string                 `json:"trackingId,omitempty"`
	Status            string                 `json:"status,omitempty"`
	StatusOptions     []string               `json:"statusOptions,omitempty"`
	CurrentLocation   string                 `json:"currentLocation,omitempty"`
	EstimatedDelivery string                 `json:"estimatedDelivery,omitempty"`
	Notes             string                 `json:"notes,omitempty"`
	Events            []domain.TrackingEvent `json:"events,omitempty"`
}

// TrackViewModel is the read-only tracking screen
type TrackViewModel struct {
	Found             bool                   `json:"found"`
	Message           string                 `json:"message,omitempty"`
	TrackingID        string                 `json:"trackingId,omitempty"`
	Carrier           string                 `json:"carrier,omitempty"`
	Status            string                 `json:"status,omitempty"`
	CurrentLocation   string                 `json:"currentLocation,omitempty"`
	EstimatedDelivery string                 `json:"estimatedDelivery,omitempty"`
	Events            []domain.TrackingEvent `json:"events,omitempty"`
}

// AdminRow is one shipment line in the admin table. The destination
// appears in two columns, mirroring the production layout.
type AdminRow struct {
	TrackingID       string `json:"trackingId"`
	Status           string `json:"status"`
	Origin           string `json:"origin"`
	Destination      string `json:"destination"`
	DestinationAgain string `json:"destinationAgain"`
}

// AdminViewModel lists every shipment with revenue totals
type AdminViewModel struct {
	Rows           []AdminRow `json:"rows"`
	TotalShipments int        `json:"totalShipments"`
	TotalRevenue   float64    `json:"totalRevenue"`
}

// Render is a pure function from state to view model: identical state
// yields an identical description, except the receipt's transaction ID
// which is regenerated on every render and never persisted.
func Render(state State) ViewModel {
	vm := ViewModel{View: state.Route.View, Notice: state.Notice}

	switch state.Route.View {
	case ViewCreate:
		vm.Create = &CreateViewModel{Form: state.Form, CanSubmit: state.Form.CanSubmit()}
	case ViewReceipt:
		vm.Receipt = renderReceipt(state)
	case ViewDashboard:
		vm.Dashboard = renderDashboard(state)
	case ViewTrack:
		vm.Track = renderTrack(state)
	case ViewAdmin:
		vm.Admin = renderAdmin(state)
	case ViewHome:
		vm.Home = &HomeViewModel{Form: state.Form, CanSubmit: state.Form.CanSubmit()}
	default:
		// Unknown view names fall back to home
		vm.View = ViewHome
		vm.Home = &HomeViewModel{Form: state.Form, CanSubmit: state.Form.CanSubmit()}
	}

	return vm
}

func renderReceipt(state State) *ReceiptViewModel {
	s, ok := state.Shipments[state.Route.TrackingID]
	if !ok {
		return &ReceiptViewModel{Found: false}
	}

	return &ReceiptViewModel{
		Found:         true,
		TransactionID: domain.NewTransactionID(),
		TrackingID:    s.ID,
		Carrier:       s.Carrier,
		Cost:          fmt.Sprintf("%.2f", s.Cost),
		TrackHref:     "#/track/" + s.ID,
		DashboardHref: "#/dashboard/" + s.ID,
	}
}

func renderDashboard(state State) *DashboardViewModel {
	s, ok := state.Shipments[state.Route.TrackingID]
	if !ok {
		return &DashboardViewModel{Found: false, Message: invalidTrackingMessage}
	}

	options := make([]string, 0, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		options = append(options, string(status))
	}

	return &DashboardViewModel{
		Found:             true,
		TrackingID:        s.ID,
		Status:            string(s.Status),
		StatusOptions:     options,
		CurrentLocation:   s.CurrentLocation,
		EstimatedDelivery: s.EstimatedDelivery,
		Notes:             s.Notes,
		Events:            s.Events,
	}
}

func renderTrack(state State) *TrackViewModel {
	s, ok := state.Shipments[state.Route.TrackingID]
	if !ok {
		return &TrackViewModel{Found: false, Message: invalidTrackingMessage}
	}

	return &TrackViewModel{
		Found:             true,
		TrackingID:        s.ID,
		Carrier:           s.Carrier,
		Status:            string(s.Status),
		CurrentLocation:   s.CurrentLocation,
		EstimatedDelivery: s.EstimatedDelivery,
		Events:            s.Events,
	}
}

func renderAdmin(state State) *AdminViewModel {
	vm := &AdminViewModel{
		Rows:           make([]AdminRow, 0, len(state.Shipments)),
		TotalShipments: len(state.Shipments),
	}

	for _, s := range state.Shipments {
		vm.TotalRevenue += s.Cost
		vm.Rows = append(vm.Rows, AdminRow{
			TrackingID:       s.ID,
			Status:           string(s.Status),
			Origin:           s.Origin,
			Destination:      s.Destination,
			DestinationAgain: s.Destination,
		})
	}

	// Deterministic row order across renders
	sort.Slice(vm.Rows, func(i, j int) bool {
		return vm.Rows[i].TrackingID < vm.Rows[j].TrackingID
	})

	return vm
}
