package model

import "time"

const (
	EnvironmentProd  = "prod"
	EnvironmentStage = "stage"
)

const (
	CriticalityHigh   = "high"
	CriticalityMedium = "medium"
	CriticalityLow    = "low"
)

// ClientSubmittedOwner is the synthetic owner marker for items created by
// unauthenticated submitters through a vault share link.
const ClientSubmittedOwner = "client-submitted"

// Item is a single secret record. PasswordEncrypted and NotesEncrypted hold
// only keybox ciphertext tokens bound to the item id.
type Item struct {
	ID      string `gorm:"column:id;primaryKey" json:"id"`
	VaultID string `gorm:"column:vault_id" json:"vault_id"`
	Type    string `gorm:"column:type" json:"type"`
	Title   string `gorm:"column:title" json:"title"`
	Login   string `gorm:"column:login" json:"login"`

	PasswordEncrypted string `gorm:"column:password_encrypted" json:"-"`
	NotesEncrypted    string `gorm:"column:notes_encrypted" json:"-"`

	LoginURL          string  `gorm:"column:login_url" json:"login_url"`
	LoginInstructions string  `gorm:"column:login_instructions" json:"login_instructions"`
	Metadata          JSONMap `gorm:"column:metadata;type:jsonb" json:"metadata"`

	OwnerID     string     `gorm:"column:owner_id" json:"owner_id"`
	Environment string     `gorm:"column:environment" json:"environment"`
	Criticality string     `gorm:"column:criticality" json:"criticality"`
	ExpiresAt   *time.Time `gorm:"column:expires_at" json:"expires_at"`
	Tags        StringMap  `gorm:"column:tags;type:jsonb" json:"tags"`

	NoCopy           bool       `gorm:"column:no_copy" json:"no_copy"`
	RequiresCheckout bool       `gorm:"column:requires_checkout" json:"requires_checkout"`
	CheckedOutBy     string     `gorm:"column:checked_out_by" json:"checked_out_by"`
	CheckedOutAt     *time.Time `gorm:"column:checked_out_at" json:"checked_out_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	CreatedBy string    `gorm:"column:created_by" json:"created_by"`
	UpdatedBy string    `gorm:"column:updated_by" json:"updated_by"`
}

func (Item) TableName() string {
	return "items"
}

// CheckedOut reports whether the item currently has an exclusive holder.
func (i *Item) CheckedOut() bool {
	return i.CheckedOutBy != ""
}

// ValidEnvironment reports whether env is a known environment.
func ValidEnvironment(env string) bool {
	return env == EnvironmentProd || env == EnvironmentStage
}

// ValidCriticality reports whether c is a known criticality.
func ValidCriticality(c string) bool {
	switch c {
	case CriticalityHigh, CriticalityMedium, CriticalityLow:
		return true
	}
	return false
}
