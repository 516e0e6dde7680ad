package model

import "time"

// Roles, ordered admin > manager > contributor > client. Client is reserved
// for vault-scoped external submitters and carries no general capabilities.
const (
	RoleAdmin       = "admin"
	RoleManager     = "manager"
	RoleContributor = "contributor"
	RoleClient      = "client"
)

const (
	StatusActive   = "active"
	StatusPending  = "pending"
	StatusInactive = "inactive"
)

// User represents a principal. Users are created on first external-identity
// login or by admin invite, and are never hard-deleted.
type User struct {
	ID         string `gorm:"column:id;primaryKey" json:"id"`
	Email      string `gorm:"column:email" json:"email"`
	Name       string `gorm:"column:name" json:"name"`
	AvatarURL  string `gorm:"column:avatar_url" json:"avatar_url"`
	Role       string `gorm:"column:role" json:"role"`
	ExternalID string `gorm:"column:external_id" json:"-"`
	Status     string `gorm:"column:status" json:"status"`
	MFAEnabled bool   `gorm:"column:mfa_enabled" json:"mfa_enabled"`

	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastLogin *time.Time `gorm:"column:last_login" json:"last_login"`
}

func (User) TableName() string {
	return "users"
}

// ValidRole reports whether role is one of the four known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleContributor, RoleClient:
		return true
	}
	return false
}

// ValidUserStatus reports whether status is a known user status.
func ValidUserStatus(status string) bool {
	switch status {
	case StatusActive, StatusPending, StatusInactive:
		return true
	}
	return false
}
