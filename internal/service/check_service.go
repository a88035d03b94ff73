package service

import (
	"context"
	"fmt"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/database"
	"github.com/EpocDotFr/server-patrol/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckService handles check history queries
type CheckService struct {
	repo *database.CheckRepository
}

// NewCheckService creates a new check service
func NewCheckService(repo *database.CheckRepository) *CheckService {
	return &CheckService{
		repo: repo,
	}
}

// History retrieves the check records of one monitoring, newest first
func (s *CheckService) History(ctx context.Context, monitoringID string, page, limit int) ([]model.CheckRecord, int64, error) {
	objID, err := primitive.ObjectIDFromHex(monitoringID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid ID format: %w", err)
	}

	return s.repo.ListByMonitoring(ctx, objID, page, limit)
}

// LatencySeries retrieves the request-duration graph data of one
// monitoring, oldest first
func (s *CheckService) LatencySeries(ctx context.Context, monitoringID string, since time.Time) ([]model.LatencyPoint, error) {
	objID, err := primitive.ObjectIDFromHex(monitoringID)
	if err != nil {
		return nil, fmt.Errorf("invalid ID format: %w", err)
	}

	return s.repo.LatencySeries(ctx, objID, since)
}
