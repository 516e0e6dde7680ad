package store

import "github.com/keyhaven/keyhaven/pkg/model"

// DashboardStats are the aggregates shown on the dashboard.
type DashboardStats struct {
	TotalVaults          int64 `json:"total_vaults"`
	TotalItems           int64 `json:"total_items"`
	TotalUsers           int64 `json:"total_users"`
	CheckedOutItems      int64 `json:"checked_out_items"`
	PendingJITRequests   int64 `json:"pending_jit_requests"`
	PendingEmergencies   int64 `json:"pending_emergencies"`
	HighCriticalityItems int64 `json:"high_criticality_items"`
	ExpiringSoonItems    int64 `json:"expiring_soon_items"`
}

// StatsStore abstracts dashboard aggregate queries
type StatsStore interface {
	// Dashboard returns the current aggregate counts.
	Dashboard() (*DashboardStats, error)

	// RecentActivity returns the newest audit rows for the dashboard feed.
	RecentActivity(limit int) ([]model.AuditLog, error)
}
