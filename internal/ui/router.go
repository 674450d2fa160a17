package ui

import "strings"

// View identifies one of the application's screens
type View string

const (
	ViewHome      View = "home"
	ViewCreate    View = "create"
	ViewDashboard View = "dashboard"
	ViewTrack     View = "track"
	ViewReceipt   View = "receipt"
	ViewAdmin     View = "admin"
)

// Route is the resolved navigation state: the active view and, for the
// per-shipment views, the tracking ID argument.
type Route struct {
	View       View   `json:"view"`
	TrackingID string `json:"trackingId,omitempty"`
}

// InitialRoute is where the application starts
func InitialRoute() Route {
	return Route{View: ViewHome}
}

// Resolve maps a location fragment onto a route. Unrecognized fragments
// leave the current route unchanged.
func Resolve(current Route, fragment string) Route {
	switch {
	case fragment == "":
		return Route{View: ViewHome}
	case strings.HasPrefix(fragment, "/create"):
		return Route{View: ViewCreate}
	case strings.HasPrefix(fragment, "/dashboard/"):
		return Route{View: ViewDashboard, TrackingID: argAfter(fragment, "/dashboard/")}
	case strings.HasPrefix(fragment, "/track/"):
		return Route{View: ViewTrack, TrackingID: argAfter(fragment, "/track/")}
	case strings.HasPrefix(fragment, "/receipt/"):
		return Route{View: ViewReceipt, TrackingID: argAfter(fragment, "/receipt/")}
	case fragment == "/admin":
		return Route{View: ViewAdmin}
	default:
		return current
	}
}

// argAfter returns the substring following the first occurrence of marker
func argAfter(fragment, marker string) string {
	idx := strings.Index(fragment, marker)
	return fragment[idx+len(marker):]
}
