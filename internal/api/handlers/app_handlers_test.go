package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/swifttrack/tracking-service/internal/application"
	"github.com/swifttrack/tracking-service/internal/domain"
	"github.com/swifttrack/tracking-service/internal/infrastructure/mongodb"
	"github.com/swifttrack/tracking-service/internal/ui"
	"github.com/swifttrack/tracking-service/pkg/logging"
)

type fakeRepository struct {
	mu        sync.Mutex
	shipments map[string]domain.Shipment
	patches   []map[string]interface{}
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{shipments: make(map[string]domain.Shipment)}
}

func (r *fakeRepository) Insert(ctx context.Context, s *domain.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shipments[s.ID] = *s
	return nil
}

func (r *fakeRepository) FindByID(ctx context.Context, id string) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shipments[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeRepository) FindAll(ctx context.Context) (map[string]domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make(map[string]domain.Shipment, len(r.shipments))
	for id, s := range r.shipments {
		all[id] = s
	}
	return all, nil
}

func (r *fakeRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patches = append(r.patches, fields)
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, event domain.DomainEvent) error { return nil }
func (nopPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	return nil
}

type staticSnapshots struct {
	snapshot mongodb.Snapshot
	ok       bool
}

func (s *staticSnapshots) Latest() (mongodb.Snapshot, bool) { return s.snapshot, s.ok }

func newAppTestRouter(repo *fakeRepository, snapshots SnapshotReader) (*gin.Engine, *ui.Controller) {
	gin.SetMode(gin.TestMode)
	logger := logging.New(logging.DefaultConfig("test"))
	service := application.NewTrackingApplicationService(repo, nopPublisher{}, nil, logger)
	controller := ui.NewController(service, logger)

	router := gin.New()
	handlers := NewAppHandlers(controller, snapshots, logger)
	handlers.RegisterRoutes(router.Group("/api/v1"), router.Group("/app"))
	return router, controller
}

func TestAppHandlers_RenderFragment(t *testing.T) {
	snapshots := &staticSnapshots{
		snapshot: mongodb.Snapshot{
			"SWIF100001": {ID: "SWIF100001", Status: domain.StatusCreated, Cost: 600},
		},
		ok: true,
	}
	router, _ := newAppTestRouter(newFakeRepository(), snapshots)

	rec := performRequest(router, http.MethodGet, "/api/v1/view?fragment=/track/SWIF100001", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"view":"track"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"found":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAppHandlers_RenderFragmentUnknownGoesHome(t *testing.T) {
	router, _ := newAppTestRouter(newFakeRepository(), &staticSnapshots{})

	rec := performRequest(router, http.MethodGet, "/api/v1/view?fragment=/foo", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"view":"home"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAppHandlers_Navigate(t *testing.T) {
	router, controller := newAppTestRouter(newFakeRepository(), &staticSnapshots{})

	rec := performRequest(router, http.MethodPost, "/app/navigate", `{"fragment":"/admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if controller.State().Route.View != ui.ViewAdmin {
		t.Fatalf("route = %+v", controller.State().Route)
	}
}

func TestAppHandlers_CreateFlow(t *testing.T) {
	repo := newFakeRepository()
	router, controller := newAppTestRouter(repo, &staticSnapshots{})

	for field, value := range map[string]string{
		"sender":    "Alice",
		"recipient": "Bob",
		"origin":    "NYC",
		"weight":    "10",
	} {
		body := `{"field":"` + field + `","value":"` + value + `"}`
		rec := performRequest(router, http.MethodPost, "/app/form", body)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("form set %s: status = %d", field, rec.Code)
		}
	}

	rec := performRequest(router, http.MethodPost, "/app/create", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"view":"receipt"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	route := controller.State().Route
	if route.View != ui.ViewReceipt || route.TrackingID == "" {
		t.Fatalf("route = %+v", route)
	}
	if _, ok := repo.shipments[route.TrackingID]; !ok {
		t.Fatalf("shipment %s not persisted", route.TrackingID)
	}
}

func TestAppHandlers_UpdateShipmentField(t *testing.T) {
	repo := newFakeRepository()
	repo.shipments["SWIF100001"] = domain.Shipment{ID: "SWIF100001", Status: domain.StatusCreated}
	router, _ := newAppTestRouter(repo, &staticSnapshots{})

	rec := performRequest(router, http.MethodPost, "/app/shipments/SWIF100001/field", `{"field":"status","value":"delivered"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}

	if len(repo.patches) != 1 {
		t.Fatalf("patches = %+v", repo.patches)
	}
	if repo.patches[0]["status"] != "delivered" || len(repo.patches[0]) != 1 {
		t.Fatalf("patch = %+v", repo.patches[0])
	}
}

func TestAppHandlers_AddCustomEvent(t *testing.T) {
	repo := newFakeRepository()
	repo.shipments["SWIF100001"] = domain.Shipment{
		ID:     "SWIF100001",
		Events: []domain.TrackingEvent{{Date: "2024-03-15", Description: domain.SeedEventDescription}},
	}
	router, _ := newAppTestRouter(repo, &staticSnapshots{})

	rec := performRequest(router, http.MethodPost, "/app/shipments/SWIF100001/events", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}

	if len(repo.patches) != 1 {
		t.Fatalf("patches = %+v", repo.patches)
	}
	events, ok := repo.patches[0]["events"].([]domain.TrackingEvent)
	if !ok || len(events) != 2 {
		t.Fatalf("patch = %+v", repo.patches[0])
	}
	if events[1].Description != domain.DefaultEventDescription {
		t.Fatalf("appended event = %+v", events[1])
	}
}
