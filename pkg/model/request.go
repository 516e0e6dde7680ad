package model

import "time"

// Request statuses shared by the JIT and break-glass state machines.
// pending is the only state approve/deny may act on.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestDenied   = "denied"
	RequestExpired  = "expired"
)

// JITRequest is a time-boxed access request. On approval,
// expires_at = approved_at + requested_duration_hours. Expiry is applied
// lazily: readers sweep approved-but-elapsed rows to expired before listing.
type JITRequest struct {
	ID          string `gorm:"column:id;primaryKey" json:"id"`
	RequesterID string `gorm:"column:requester_id" json:"requester_id"`
	ItemID      string `gorm:"column:item_id" json:"item_id"`
	VaultID     string `gorm:"column:vault_id" json:"vault_id"`
	Reason      string `gorm:"column:reason" json:"reason"`

	RequestedDurationHours int    `gorm:"column:requested_duration_hours" json:"requested_duration_hours"`
	Status                 string `gorm:"column:status" json:"status"`

	ApprovedBy string     `gorm:"column:approved_by" json:"approved_by"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at"`
	ExpiresAt  *time.Time `gorm:"column:expires_at" json:"expires_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (JITRequest) TableName() string {
	return "jit_requests"
}

// Elapsed reports whether an approved grant has passed its expiry at now.
func (r *JITRequest) Elapsed(now time.Time) bool {
	return r.Status == RequestApproved && r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// BreakGlassRequest is an emergency access request. The grant policy is
// single-control: one admin or manager approval completes the request.
type BreakGlassRequest struct {
	ID          string `gorm:"column:id;primaryKey" json:"id"`
	RequesterID string `gorm:"column:requester_id" json:"requester_id"`
	ItemID      string `gorm:"column:item_id" json:"item_id"`
	VaultID     string `gorm:"column:vault_id" json:"vault_id"`
	Reason      string `gorm:"column:reason" json:"reason"`

	Status      string     `gorm:"column:status" json:"status"`
	ApproverID  string     `gorm:"column:approver_id" json:"approver_id"`
	ApprovedAt  *time.Time `gorm:"column:approved_at" json:"approved_at"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (BreakGlassRequest) TableName() string {
	return "breakglass_requests"
}
