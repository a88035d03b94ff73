package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrMonitoringNotFound is returned when a monitoring does not exist.
var ErrMonitoringNotFound = errors.New("monitoring not found")

// MonitoringRepository handles monitoring configuration and state operations
type MonitoringRepository struct {
	db         *MongoDB
	collection *mongo.Collection
	checks     *mongo.Collection
}

// NewMonitoringRepository creates a new monitoring repository
func NewMonitoringRepository(db *MongoDB) *MonitoringRepository {
	return &MonitoringRepository{
		db:         db,
		collection: db.GetCollection(CollectionMonitorings),
		checks:     db.GetCollection(CollectionMonitoringChecks),
	}
}

// Create inserts a new monitoring
func (r *MonitoringRepository) Create(ctx context.Context, m *model.Monitoring) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctxTimeout, m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("monitoring with name '%s' already exists", m.Name)
		}
		return fmt.Errorf("failed to create monitoring: %w", err)
	}

	return nil
}

// GetByID retrieves a monitoring by ID
func (r *MonitoringRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Monitoring, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var m model.Monitoring
	err := r.collection.FindOne(ctxTimeout, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMonitoringNotFound
		}
		return nil, fmt.Errorf("failed to get monitoring: %w", err)
	}

	return &m, nil
}

// ListAll retrieves all monitorings, ordered by name ascending
func (r *MonitoringRepository) ListAll(ctx context.Context) ([]model.Monitoring, error) {
	return r.list(ctx, bson.M{})
}

// ListActive retrieves all active monitorings, ordered by name ascending
func (r *MonitoringRepository) ListActive(ctx context.Context) ([]model.Monitoring, error) {
	return r.list(ctx, bson.M{"is_active": true})
}

// ListVisible retrieves the active monitorings visible on the public
// surface, ordered by name ascending. Unauthenticated consumers only see
// public monitorings.
func (r *MonitoringRepository) ListVisible(ctx context.Context, publicOnly bool) ([]model.Monitoring, error) {
	filter := bson.M{"is_active": true}
	if publicOnly {
		filter["is_public"] = true
	}
	return r.list(ctx, filter)
}

func (r *MonitoringRepository) list(ctx context.Context, filter bson.M) ([]model.Monitoring, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctxTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list monitorings: %w", err)
	}
	defer cursor.Close(ctxTimeout)

	var monitorings []model.Monitoring
	if err := cursor.All(ctxTimeout, &monitorings); err != nil {
		return nil, fmt.Errorf("failed to decode monitorings: %w", err)
	}

	return monitorings, nil
}

// Update replaces the configuration fields of an existing monitoring.
// The runtime state fields (status, last_checked_at,
// last_status_change_at, last_down_reason) are owned by the check runner
// and are deliberately left untouched.
func (r *MonitoringRepository) Update(ctx context.Context, id primitive.ObjectID, m *model.Monitoring) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"name":               m.Name,
			"is_active":          m.IsActive,
			"is_public":          m.IsPublic,
			"url":                m.URL,
			"http_method":        m.HTTPMethod,
			"http_headers":       m.HTTPHeaders,
			"http_body_regex":    m.HTTPBodyRegex,
			"verify_https_cert":  m.VerifyHTTPSCert,
			"check_interval":     m.CheckInterval,
			"timeout":            m.Timeout,
			"ignore_http_errors": m.IgnoreHTTPErrors,
			"email_recipients":   m.EmailRecipients,
			"sms_recipients":     m.SMSRecipients,
		},
	}

	result, err := r.collection.UpdateOne(ctxTimeout, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("monitoring with name '%s' already exists", m.Name)
		}
		return fmt.Errorf("failed to update monitoring: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrMonitoringNotFound
	}

	return nil
}

// Delete deletes a monitoring and cascades to its check records
func (r *MonitoringRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctxTimeout, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete monitoring: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrMonitoringNotFound
	}

	// Cascade: a check record belongs to exactly one monitoring.
	if _, err := r.checks.DeleteMany(ctxTimeout, bson.M{"monitoring_id": id}); err != nil {
		return fmt.Errorf("failed to delete monitoring checks: %w", err)
	}

	return nil
}

// CommitCheck persists the outcome of one probe: the updated runtime
// state of the monitoring and its new check record, together. Both
// writes happen inside one session transaction so that a crash cannot
// leave a record without the matching state update, or vice versa.
func (r *MonitoringRepository) CommitCheck(ctx context.Context, m *model.Monitoring, record *model.CheckRecord) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}

	stateUpdate := bson.M{
		"$set": bson.M{
			"status":                m.Status,
			"last_checked_at":       m.LastCheckedAt,
			"last_status_change_at": m.LastStatusChangeAt,
			"last_down_reason":      m.LastDownReason,
		},
	}

	session, err := r.db.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctxTimeout)

	_, err = session.WithTransaction(ctxTimeout, func(sc mongo.SessionContext) (interface{}, error) {
		result, err := r.collection.UpdateOne(sc, bson.M{"_id": m.ID}, stateUpdate)
		if err != nil {
			return nil, fmt.Errorf("failed to update monitoring state: %w", err)
		}
		if result.MatchedCount == 0 {
			return nil, ErrMonitoringNotFound
		}

		if _, err := r.checks.InsertOne(sc, record); err != nil {
			return nil, fmt.Errorf("failed to append check record: %w", err)
		}

		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit check: %w", err)
	}

	return nil
}
