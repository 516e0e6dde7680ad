package audit

import (
	"fmt"

	"github.com/keyhaven/keyhaven/pkg/model"
)

// VaultCreatedEvent is recorded when a vault node is created.
type VaultCreatedEvent struct {
	Base
	Name string
}

func (e VaultCreatedEvent) MessageID() string { return "vault_created" }

func (e VaultCreatedEvent) Message() string {
	return fmt.Sprintf("%s created vault %q", e.UserEmail, e.Name)
}

func (e VaultCreatedEvent) Severity() Severity { return SeverityInfo }

func (e VaultCreatedEvent) StructuredData() map[string]map[string]string {
	return e.sd("vault-create")
}

func (e VaultCreatedEvent) Record() model.AuditLog { return e.record("vault_created") }

// VaultUpdatedEvent is recorded on rename/retag.
type VaultUpdatedEvent struct {
	Base
	Name string
}

func (e VaultUpdatedEvent) MessageID() string { return "vault_updated" }

func (e VaultUpdatedEvent) Message() string {
	return fmt.Sprintf("%s updated vault %q", e.UserEmail, e.Name)
}

func (e VaultUpdatedEvent) Severity() Severity { return SeverityInfo }

func (e VaultUpdatedEvent) StructuredData() map[string]map[string]string {
	return e.sd("vault-update")
}

func (e VaultUpdatedEvent) Record() model.AuditLog { return e.record("vault_updated") }

// VaultDeletedEvent is recorded when a vault and its items are deleted.
type VaultDeletedEvent struct {
	Base
	Name string
}

func (e VaultDeletedEvent) MessageID() string { return "vault_deleted" }

func (e VaultDeletedEvent) Message() string {
	return fmt.Sprintf("%s deleted vault %q", e.UserEmail, e.Name)
}

func (e VaultDeletedEvent) Severity() Severity { return SeverityNotice }

func (e VaultDeletedEvent) StructuredData() map[string]map[string]string {
	return e.sd("vault-delete")
}

func (e VaultDeletedEvent) Record() model.AuditLog { return e.record("vault_deleted") }

// ShareLinkGeneratedEvent is recorded when a client share link is issued.
type ShareLinkGeneratedEvent struct {
	Base
	Name string
}

func (e ShareLinkGeneratedEvent) MessageID() string { return "share_link_generated" }

func (e ShareLinkGeneratedEvent) Message() string {
	return fmt.Sprintf("%s generated a share link for vault %q", e.UserEmail, e.Name)
}

func (e ShareLinkGeneratedEvent) Severity() Severity { return SeverityNotice }

func (e ShareLinkGeneratedEvent) StructuredData() map[string]map[string]string {
	return e.sd("share-link")
}

func (e ShareLinkGeneratedEvent) Record() model.AuditLog { return e.record("share_link_generated") }
