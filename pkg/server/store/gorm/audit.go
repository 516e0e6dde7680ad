package gorm

import (
	"gorm.io/gorm"

	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

// Ensure AuditStore implements store.AuditStore
var _ store.AuditStore = (*AuditStore)(nil)

// AuditStore implements store.AuditStore using GORM. Rows are append-only;
// no update or delete method exists.
type AuditStore struct {
	db *gorm.DB
}

// NewAuditStore creates a new AuditStore
func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) SaveAuditLog(entry model.AuditLog) error {
	return s.db.Create(&entry).Error
}

func (s *AuditStore) ListAuditLogs(filter store.AuditFilter) ([]model.AuditLog, error) {
	query := s.auditQuery(filter).Order("timestamp desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var entries []model.AuditLog
	if tx := query.Find(&entries); tx.Error != nil {
		return nil, tx.Error
	}
	return entries, nil
}

func (s *AuditStore) CountAuditLogs(filter store.AuditFilter) (int64, error) {
	var count int64
	tx := s.auditQuery(filter).Count(&count)
	return count, tx.Error
}

func (s *AuditStore) auditQuery(filter store.AuditFilter) *gorm.DB {
	query := s.db.Model(&model.AuditLog{})
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ItemID != "" {
		query = query.Where("item_id = ?", filter.ItemID)
	}
	if filter.VaultID != "" {
		query = query.Where("vault_id = ?", filter.VaultID)
	}
	return query
}
