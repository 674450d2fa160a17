package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swifttrack/tracking-service/internal/domain"
	"github.com/swifttrack/tracking-service/pkg/logging"
	"github.com/swifttrack/tracking-service/pkg/metrics"
	sharedmongo "github.com/swifttrack/tracking-service/pkg/mongodb"
)

const shipmentsCollection = "shipments"

type ShipmentRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
	logger     *logging.Logger
}

func NewShipmentRepository(db *mongo.Database, m *metrics.Metrics, logger *logging.Logger) *ShipmentRepository {
	repo := &ShipmentRepository{
		collection: db.Collection(shipmentsCollection),
		metrics:    m,
		logger:     logger,
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ShipmentRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	}
	r.collection.Indexes().CreateMany(ctx, indexes)
}

func (r *ShipmentRepository) Insert(ctx context.Context, shipment *domain.Shipment) error {
	start := time.Now()
	_, err := r.collection.InsertOne(ctx, shipment)
	r.observe(ctx, "insert", start, err, 1)
	if err != nil {
		return fmt.Errorf("failed to insert shipment: %w", err)
	}
	return nil
}

func (r *ShipmentRepository) FindByID(ctx context.Context, trackingID string) (*domain.Shipment, error) {
	start := time.Now()
	var s domain.Shipment
	err := r.collection.FindOne(ctx, bson.M{"_id": trackingID}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		r.observe(ctx, "findOne", start, nil, 0)
		return nil, nil
	}
	r.observe(ctx, "findOne", start, err, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to find shipment: %w", err)
	}
	return &s, nil
}

// FindAll returns every shipment keyed by tracking ID.
func (r *ShipmentRepository) FindAll(ctx context.Context) (map[string]domain.Shipment, error) {
	start := time.Now()
	opts := options.Find().SetSort(sharedmongo.SortAscending("_id"))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.observe(ctx, "find", start, err, 0)
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}
	defer cursor.Close(ctx)

	var shipments []domain.Shipment
	if err := cursor.All(ctx, &shipments); err != nil {
		r.observe(ctx, "find", start, err, 0)
		return nil, fmt.Errorf("failed to decode shipments: %w", err)
	}
	r.observe(ctx, "find", start, nil, int64(len(shipments)))

	result := make(map[string]domain.Shipment, len(shipments))
	for _, s := range shipments {
		result[s.ID] = s
	}
	return result, nil
}

// UpdateFields sets exactly the given fields on the shipment document.
func (r *ShipmentRepository) UpdateFields(ctx context.Context, trackingID string, fields map[string]interface{}) error {
	start := time.Now()
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": trackingID}, sharedmongo.BuildUpdate(set))
	if err != nil {
		r.observe(ctx, "updateOne", start, err, 0)
		return fmt.Errorf("failed to update shipment: %w", err)
	}
	r.observe(ctx, "updateOne", start, nil, res.ModifiedCount)
	if res.MatchedCount == 0 {
		return fmt.Errorf("shipment %s not found", trackingID)
	}
	return nil
}

func (r *ShipmentRepository) observe(ctx context.Context, operation string, start time.Time, err error, rows int64) {
	duration := time.Since(start)
	if r.metrics != nil {
		r.metrics.RecordMongoDBOperation(shipmentsCollection, operation, err == nil, duration)
	}
	if r.logger != nil {
		r.logger.DatabaseQuery(ctx, shipmentsCollection, operation, duration, err == nil, rows)
	}
}
