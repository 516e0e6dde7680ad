package model

import "time"

// AuditLog is an append-only record of a security-relevant action.
// Rows are never updated or deleted; human-readable names are joined in at
// read time only, never written back.
type AuditLog struct {
	ID        string  `gorm:"column:id;primaryKey" json:"id"`
	EventType string  `gorm:"column:event_type" json:"event_type"`
	UserID    string  `gorm:"column:user_id" json:"user_id"`
	UserEmail string  `gorm:"column:user_email" json:"user_email"`
	ItemID    string  `gorm:"column:item_id" json:"item_id"`
	VaultID   string  `gorm:"column:vault_id" json:"vault_id"`
	IPAddress string  `gorm:"column:ip_address" json:"ip_address"`
	UserAgent string  `gorm:"column:user_agent" json:"user_agent"`
	Details   JSONMap `gorm:"column:details;type:jsonb" json:"details"`

	Timestamp time.Time `gorm:"column:timestamp" json:"timestamp"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
