package service

import (
	"context"
	"fmt"
	"time"

	"github.com/EpocDotFr/server-patrol/internal/database"
	"github.com/EpocDotFr/server-patrol/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MonitoringService handles monitoring configuration management
type MonitoringService struct {
	repo *database.MonitoringRepository
}

// NewMonitoringService creates a new monitoring service
func NewMonitoringService(repo *database.MonitoringRepository) *MonitoringService {
	return &MonitoringService{
		repo: repo,
	}
}

// Create creates a new monitoring. A freshly created monitoring always
// starts in the unknown state; whatever the caller sent as runtime
// state is discarded.
func (s *MonitoringService) Create(ctx context.Context, m *model.Monitoring) error {
	m.Status = model.StatusUnknown
	m.LastCheckedAt = time.Time{}
	m.LastStatusChangeAt = time.Time{}
	m.LastDownReason = ""

	if err := m.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return s.repo.Create(ctx, m)
}

// GetByID retrieves a monitoring by ID
func (s *MonitoringService) GetByID(ctx context.Context, id string) (*model.Monitoring, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid ID format: %w", err)
	}

	return s.repo.GetByID(ctx, objID)
}

// List retrieves all monitorings, ordered by name ascending
func (s *MonitoringService) List(ctx context.Context) ([]model.MonitoringListItem, error) {
	monitorings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]model.MonitoringListItem, len(monitorings))
	for i := range monitorings {
		items[i] = monitorings[i].ToListItem()
	}

	return items, nil
}

// ListVisible retrieves the active monitorings for the public status
// surface, restricted to public ones for unauthenticated consumers
func (s *MonitoringService) ListVisible(ctx context.Context, authenticated bool) ([]model.Monitoring, error) {
	return s.repo.ListVisible(ctx, !authenticated)
}

// Update updates the configuration of an existing monitoring. Runtime
// state fields are owned by the check runner and are not touched.
func (s *MonitoringService) Update(ctx context.Context, id string, m *model.Monitoring) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}

	if err := m.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return s.repo.Update(ctx, objID, m)
}

// Delete deletes a monitoring together with its check history
func (s *MonitoringService) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}

	return s.repo.Delete(ctx, objID)
}
