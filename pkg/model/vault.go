package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// PathSeparator joins ancestor vault names into a materialized path.
const PathSeparator = " > "

const (
	VaultTypeClient  = "client"
	VaultTypeProduct = "product"
	VaultTypeSquad   = "squad"
)

// FullPermissions is the permission set granted to a vault's creator.
var FullPermissions = []string{"view", "create", "edit", "delete", "reveal", "export"}

// ACLEntry grants a user a permission set on a vault.
type ACLEntry struct {
	UserID      string   `json:"user_id"`
	Permissions []string `json:"permissions"`
}

// ACL is a list of ACL entries persisted as jsonb.
type ACL []ACLEntry

func (a ACL) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	return string(b), err
}

func (a *ACL) Scan(src interface{}) error {
	return scanJSON(src, a)
}

// Vault is a node in the vault forest. Path is the materialized join of
// ancestor names; it is recomputed (and cascaded to descendants) whenever
// name or parent changes.
type Vault struct {
	ID       string    `gorm:"column:id;primaryKey" json:"id"`
	Name     string    `gorm:"column:name" json:"name"`
	Type     string    `gorm:"column:type" json:"type"`
	ParentID string    `gorm:"column:parent_id" json:"parent_id"`
	Path     string    `gorm:"column:path" json:"path"`
	OwnerID  string    `gorm:"column:owner_id" json:"owner_id"`
	ACL      ACL       `gorm:"column:acl;type:jsonb" json:"acl"`
	Tags     StringMap `gorm:"column:tags;type:jsonb" json:"tags"`

	// Public share link for unauthenticated client item submission.
	// The token is only honored while ShareEnabled is true.
	ShareToken   string `gorm:"column:share_token" json:"-"`
	ShareEnabled bool   `gorm:"column:share_enabled" json:"share_enabled"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Vault) TableName() string {
	return "vaults"
}

// ChildPath materializes the path of a child named name under this vault.
func (v *Vault) ChildPath(name string) string {
	return v.Path + PathSeparator + name
}

// ValidVaultType reports whether t is a known vault type.
func ValidVaultType(t string) bool {
	switch t {
	case VaultTypeClient, VaultTypeProduct, VaultTypeSquad:
		return true
	}
	return false
}
