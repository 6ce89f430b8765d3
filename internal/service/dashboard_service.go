package service

import (
	"context"

	"github.com/openbilling/invoiceledger/internal/models"
	"github.com/openbilling/invoiceledger/internal/storage"
)

// recentActivityLimit caps the activity feed on the dashboard.
const recentActivityLimit = 5

// Dashboard bundles the seller's summary numbers with their most recent
// activity records.
type Dashboard struct {
	Stats  *models.DashboardStats
	Recent []*models.Activity
}

// DashboardService aggregates read-only summary views for a seller.
type DashboardService struct {
	store storage.Store
}

// NewDashboardService creates a new DashboardService with the given storage backend.
func NewDashboardService(store storage.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Overview returns the seller's dashboard: ledger counts, revenue
// collected vs due, and the five most recent activities.
func (s *DashboardService) Overview(ctx context.Context, actor models.Identity) (*Dashboard, error) {
	stats, err := s.store.Stats(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.RecentActivities(ctx, actor.ID, recentActivityLimit)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Stats: stats, Recent: recent}, nil
}
