package database

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIndexes creates all necessary indexes for the collections
func CreateIndexes(ctx context.Context, db *MongoDB) error {
	slog.Info("Creating MongoDB indexes")

	if err := createMonitoringIndexes(ctx, db); err != nil {
		return err
	}

	if err := createCheckIndexes(ctx, db); err != nil {
		return err
	}

	slog.Info("Successfully created all MongoDB indexes")
	return nil
}

func createMonitoringIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionMonitorings)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_name_unique"),
		},
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "name", Value: 1},
			},
			Options: options.Index().SetName("idx_active_name"),
		},
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "is_public", Value: 1},
				{Key: "name", Value: 1},
			},
			Options: options.Index().SetName("idx_active_public_name"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created monitorings indexes")
	return nil
}

func createCheckIndexes(ctx context.Context, db *MongoDB) error {
	collection := db.GetCollection(CollectionMonitoringChecks)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "monitoring_id", Value: 1},
				{Key: "checked_at", Value: -1},
			},
			Options: options.Index().SetName("idx_monitoring_id_checked_at"),
		},
		{
			Keys:    bson.D{{Key: "checked_at", Value: -1}},
			Options: options.Index().SetName("idx_checked_at"),
		},
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctxTimeout, indexes)
	if err != nil {
		return err
	}

	slog.Info("Created monitoring_checks indexes")
	return nil
}
