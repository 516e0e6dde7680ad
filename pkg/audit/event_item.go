package audit

import (
	"fmt"

	"github.com/keyhaven/keyhaven/pkg/model"
)

// ItemCreatedEvent is recorded when a secret item is created.
type ItemCreatedEvent struct {
	Base
	Title string
}

func (e ItemCreatedEvent) MessageID() string { return "item_created" }

func (e ItemCreatedEvent) Message() string {
	return fmt.Sprintf("%s created item %q", e.UserEmail, e.Title)
}

func (e ItemCreatedEvent) Severity() Severity { return SeverityInfo }

func (e ItemCreatedEvent) StructuredData() map[string]map[string]string {
	return e.sd("item-create")
}

func (e ItemCreatedEvent) Record() model.AuditLog { return e.record("item_created") }

// ItemUpdatedEvent is recorded on any item field update.
type ItemUpdatedEvent struct {
	Base
	Title string
}

func (e ItemUpdatedEvent) MessageID() string { return "item_updated" }

func (e ItemUpdatedEvent) Message() string {
	return fmt.Sprintf("%s updated item %q", e.UserEmail, e.Title)
}

func (e ItemUpdatedEvent) Severity() Severity { return SeverityInfo }

func (e ItemUpdatedEvent) StructuredData() map[string]map[string]string {
	return e.sd("item-update")
}

func (e ItemUpdatedEvent) Record() model.AuditLog { return e.record("item_updated") }

// ItemDeletedEvent is recorded on item hard delete.
type ItemDeletedEvent struct {
	Base
	Title string
}

func (e ItemDeletedEvent) MessageID() string { return "item_deleted" }

func (e ItemDeletedEvent) Message() string {
	return fmt.Sprintf("%s deleted item %q", e.UserEmail, e.Title)
}

func (e ItemDeletedEvent) Severity() Severity { return SeverityNotice }

func (e ItemDeletedEvent) StructuredData() map[string]map[string]string {
	return e.sd("item-delete")
}

func (e ItemDeletedEvent) Record() model.AuditLog { return e.record("item_deleted") }

// ItemRevealedEvent is recorded unconditionally whenever secret fields are
// decrypted and returned to a caller.
type ItemRevealedEvent struct {
	Base
	Title string
}

func (e ItemRevealedEvent) MessageID() string { return "item_revealed" }

func (e ItemRevealedEvent) Message() string {
	return fmt.Sprintf("%s revealed item %q", e.UserEmail, e.Title)
}

func (e ItemRevealedEvent) Severity() Severity { return SeverityNotice }

func (e ItemRevealedEvent) StructuredData() map[string]map[string]string {
	return e.sd("reveal")
}

func (e ItemRevealedEvent) Record() model.AuditLog { return e.record("item_revealed") }

// ClientItemSubmittedEvent is recorded for unauthenticated share-link
// submissions. There is no session identity; the actor is synthetic.
type ClientItemSubmittedEvent struct {
	Base
	Title string
}

func (e ClientItemSubmittedEvent) MessageID() string { return "client_item_submitted" }

func (e ClientItemSubmittedEvent) Message() string {
	return fmt.Sprintf("client submitted item %q via share link", e.Title)
}

func (e ClientItemSubmittedEvent) Severity() Severity { return SeverityNotice }

func (e ClientItemSubmittedEvent) StructuredData() map[string]map[string]string {
	return e.sd("client-submit")
}

func (e ClientItemSubmittedEvent) Record() model.AuditLog { return e.record("client_item_submitted") }

// ImportCompletedEvent summarizes a bulk import run.
type ImportCompletedEvent struct {
	Base
	Imported int
	Errors   int
}

func (e ImportCompletedEvent) MessageID() string { return "import_completed" }

func (e ImportCompletedEvent) Message() string {
	return fmt.Sprintf("%s imported %d items (%d errors)", e.UserEmail, e.Imported, e.Errors)
}

func (e ImportCompletedEvent) Severity() Severity { return SeverityInfo }

func (e ImportCompletedEvent) StructuredData() map[string]map[string]string {
	return e.sd("import")
}

func (e ImportCompletedEvent) Record() model.AuditLog { return e.record("import_completed") }
