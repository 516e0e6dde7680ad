package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

// Ensure StatsStore implements store.StatsStore
var _ store.StatsStore = (*StatsStore)(nil)

// StatsStore implements store.StatsStore using GORM
type StatsStore struct {
	db *gorm.DB
}

// NewStatsStore creates a new StatsStore
func NewStatsStore(db *gorm.DB) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) Dashboard() (*store.DashboardStats, error) {
	stats := &store.DashboardStats{}
	now := time.Now().UTC()

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalVaults, s.db.Model(&model.Vault{})},
		{&stats.TotalItems, s.db.Model(&model.Item{})},
		{&stats.TotalUsers, s.db.Model(&model.User{})},
		{&stats.CheckedOutItems, s.db.Model(&model.Item{}).Where("checked_out_by <> ''")},
		{&stats.PendingJITRequests, s.db.Model(&model.JITRequest{}).Where("status = ?", model.RequestPending)},
		{&stats.PendingEmergencies, s.db.Model(&model.BreakGlassRequest{}).Where("status = ?", model.RequestPending)},
		{&stats.HighCriticalityItems, s.db.Model(&model.Item{}).Where("criticality = ?", model.CriticalityHigh)},
		{&stats.ExpiringSoonItems, s.db.Model(&model.Item{}).
			Where("expires_at IS NOT NULL AND expires_at >= ? AND expires_at <= ?", now, now.Add(7*24*time.Hour))},
	}
	for _, c := range counts {
		if tx := c.query.Count(c.dest); tx.Error != nil {
			return nil, tx.Error
		}
	}
	return stats, nil
}

func (s *StatsStore) RecentActivity(limit int) ([]model.AuditLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []model.AuditLog
	tx := s.db.Order("timestamp desc").Limit(limit).Find(&entries)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return entries, nil
}
