package database

import (
	"context"
	"fmt"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CheckRepository handles check record history operations. Records are
// append-only: they are written by the check runner via
// MonitoringRepository.CommitCheck and only ever read here.
type CheckRepository struct {
	collection *mongo.Collection
}

// NewCheckRepository creates a new check repository
func NewCheckRepository(db *MongoDB) *CheckRepository {
	return &CheckRepository{
		collection: db.GetCollection(CollectionMonitoringChecks),
	}
}

// ListByMonitoring retrieves the check history of one monitoring,
// newest first, with pagination
func (r *CheckRepository) ListByMonitoring(ctx context.Context, monitoringID primitive.ObjectID, page, limit int) ([]model.CheckRecord, int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"monitoring_id": monitoringID}

	total, err := r.collection.CountDocuments(ctxTimeout, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count checks: %w", err)
	}

	skip := (page - 1) * limit
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "checked_at", Value: -1}})

	cursor, err := r.collection.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list checks: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var records []model.CheckRecord
	if err := cursor.All(ctxTimeout, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode checks: %w", err)
	}

	return records, total, nil
}

// LatencySeries retrieves the request-duration series of one monitoring
// in chronological order, for latency graphs
func (r *CheckRepository) LatencySeries(ctx context.Context, monitoringID primitive.ObjectID, since time.Time) ([]model.LatencyPoint, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"monitoring_id": monitoringID}
	if !since.IsZero() {
		filter["checked_at"] = bson.M{"$gte": since}
	}

	opts := options.Find().SetSort(bson.D{{Key: "checked_at", Value: 1}})

	cursor, err := r.collection.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load latency series: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var records []model.CheckRecord
	if err := cursor.All(ctxTimeout, &records); err != nil {
		return nil, fmt.Errorf("failed to decode latency series: %w", err)
	}

	points := make([]model.LatencyPoint, 0, len(records))
	for i := range records {
		points = append(points, records[i].ToLatencyPoint())
	}

	return points, nil
}
