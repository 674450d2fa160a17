package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/swifttrack/tracking-service/internal/domain"
	mongoRepo "github.com/swifttrack/tracking-service/internal/infrastructure/mongodb"
	"github.com/swifttrack/tracking-service/pkg/logging"
	pkgtesting "github.com/swifttrack/tracking-service/pkg/testing"
)

func setupDatabase(t *testing.T) (*mongo.Database, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := pkgtesting.NewMongoDBContainer(ctx)
	require.NoError(t, err)

	client, err := container.GetClient(ctx)
	require.NoError(t, err)

	db := client.Database("swifttrack_test")
	cleanup := func() {
		_ = client.Disconnect(ctx)
		_ = container.Close(ctx)
	}
	return db, cleanup
}

func newRepository(db *mongo.Database) *mongoRepo.ShipmentRepository {
	logger := logging.New(logging.DefaultConfig("integration-test"))
	return mongoRepo.NewShipmentRepository(db, nil, logger)
}

func newShipment(t *testing.T) *domain.Shipment {
	t.Helper()
	s, err := domain.NewShipment("Alice", "Bob", "NYC", "LA", "", 10, time.Now())
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func TestShipmentRepositoryRoundTrip(t *testing.T) {
	db, cleanup := setupDatabase(t)
	defer cleanup()
	ctx := context.Background()
	repo := newRepository(db)

	shipment := newShipment(t)
	require.NoError(t, repo.Insert(ctx, shipment))

	found, err := repo.FindByID(ctx, shipment.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, shipment.ID, found.ID)
	assert.Equal(t, "Alice", found.Sender)
	assert.Equal(t, "NYC", found.Origin)
	assert.Equal(t, "NYC", found.CurrentLocation)
	assert.Equal(t, 600.0, found.Cost)
	assert.Equal(t, domain.StatusCreated, found.Status)
	require.Len(t, found.Events, 1)
	assert.Equal(t, domain.SeedEventDescription, found.Events[0].Description)
}

func TestShipmentRepositoryFindByIDMiss(t *testing.T) {
	db, cleanup := setupDatabase(t)
	defer cleanup()
	repo := newRepository(db)

	found, err := repo.FindByID(context.Background(), "SWIF000000")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestShipmentRepositoryDuplicateInsert(t *testing.T) {
	db, cleanup := setupDatabase(t)
	defer cleanup()
	ctx := context.Background()
	repo := newRepository(db)

	shipment := newShipment(t)
	require.NoError(t, repo.Insert(ctx, shipment))

	err := repo.Insert(ctx, shipment)
	require.Error(t, err)
}

func TestShipmentRepositoryFindAll(t *testing.T) {
	db, cleanup := setupDatabase(t)
	defer cleanup()
	ctx := context.Background()
	repo := newRepository(db)

	a := newShipment(t)
	b := newShipment(t)
	require.NoError(t, repo.Insert(ctx, a))
	require.NoError(t, repo.Insert(ctx, b))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Contains(t, all, a.ID)
	assert.Contains(t, all, b.ID)
}

func TestShipmentRepositoryUpdateFieldsPatchesOnlyNamedFields(t *testing.T) {
	db, cleanup := setupDatabase(t)
	defer cleanup()
	ctx := context.Background()
	repo := newRepository(db)

	shipment := newShipment(t)
	require.NoError(t, repo.Insert(ctx, shipment))

	err := repo.UpdateFields(ctx, shipment.ID, map[string]interface{}{"status": "delivered"})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, shipment.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, domain.StatusDelivered, found.Status)

	// Everything else untouched
	assert.Equal(t, shipment.Sender, found.Sender)
	assert.Equal(t, shipment.CurrentLocation, found.CurrentLocation)
	assert.Equal(t, shipment.EstimatedDelivery, found.EstimatedDelivery)
	assert.Equal(t, len(shipment.Events), len(found.Events))
}

func TestShipmentRepositoryUpdateFieldsUnknownShipment(t *testing.T) {
	db, cleanup := setupDatabase(t)
	defer cleanup()
	repo := newRepository(db)

	err := repo.UpdateFields(context.Background(), "SWIF000000", map[string]interface{}{"status": "held"})
	require.Error(t, err)
}

func TestShipmentRepositoryEventsReplacement(t *testing.T) {
	db, cleanup := setupDatabase(t)
	defer cleanup()
	ctx := context.Background()
	repo := newRepository(db)

	shipment := newShipment(t)
	require.NoError(t, repo.Insert(ctx, shipment))

	appended := shipment.WithEvent(domain.TrackingEvent{
		Date:        "2024-03-16",
		Description: domain.DefaultEventDescription,
	})
	err := repo.UpdateFields(ctx, shipment.ID, map[string]interface{}{"events": appended})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, shipment.ID)
	require.NoError(t, err)
	require.Len(t, found.Events, 2)
	assert.Equal(t, domain.SeedEventDescription, found.Events[0].Description)
	assert.Equal(t, domain.DefaultEventDescription, found.Events[1].Description)
}

func TestWatcherPublishesSnapshotsOnChange(t *testing.T) {
	db, cleanup := setupDatabase(t)
	defer cleanup()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := logging.New(logging.DefaultConfig("integration-test"))
	repo := mongoRepo.NewShipmentRepository(db, nil, logger)
	hub := mongoRepo.NewHub(nil)
	watcher := mongoRepo.NewWatcher(db, repo, hub, nil, logger)

	go watcher.Run(ctx)

	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	// The initial snapshot arrives even with an empty collection
	select {
	case snapshot := <-ch:
		assert.Empty(t, snapshot)
	case <-time.After(30 * time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	shipment := newShipment(t)
	require.NoError(t, repo.Insert(ctx, shipment))

	deadline := time.After(30 * time.Second)
	for {
		select {
		case snapshot := <-ch:
			if len(snapshot) == 1 {
				assert.Contains(t, snapshot, shipment.ID)
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for change snapshot")
		}
	}
}
