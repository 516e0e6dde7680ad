package store

import "github.com/keyhaven/keyhaven/pkg/model"

// AuditFilter narrows audit log queries. Zero fields are ignored.
type AuditFilter struct {
	EventType string
	UserID    string
	ItemID    string
	VaultID   string
	Limit     int
	Offset    int
}

// AuditStore abstracts the append-only audit trail. There is no update or
// delete path.
type AuditStore interface {
	// SaveAuditLog appends an audit row.
	SaveAuditLog(entry model.AuditLog) error

	// ListAuditLogs returns audit rows matching the filter, newest first.
	ListAuditLogs(filter AuditFilter) ([]model.AuditLog, error)

	// CountAuditLogs returns the number of rows matching the filter.
	CountAuditLogs(filter AuditFilter) (int64, error)
}
