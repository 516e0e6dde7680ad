package audit

import (
	"fmt"

	"github.com/keyhaven/keyhaven/pkg/model"
)

// ItemCheckedOutEvent is recorded when an exclusive checkout lock is taken.
type ItemCheckedOutEvent struct {
	Base
	Title string
}

func (e ItemCheckedOutEvent) MessageID() string { return "item_checked_out" }

func (e ItemCheckedOutEvent) Message() string {
	return fmt.Sprintf("%s checked out item %q", e.UserEmail, e.Title)
}

func (e ItemCheckedOutEvent) Severity() Severity { return SeverityInfo }

func (e ItemCheckedOutEvent) StructuredData() map[string]map[string]string {
	return e.sd("checkout")
}

func (e ItemCheckedOutEvent) Record() model.AuditLog { return e.record("item_checked_out") }

// ItemCheckedInEvent is recorded when the lock is released, by the holder or
// by an admin/manager override.
type ItemCheckedInEvent struct {
	Base
	Title string
}

func (e ItemCheckedInEvent) MessageID() string { return "item_checked_in" }

func (e ItemCheckedInEvent) Message() string {
	return fmt.Sprintf("%s checked in item %q", e.UserEmail, e.Title)
}

func (e ItemCheckedInEvent) Severity() Severity { return SeverityInfo }

func (e ItemCheckedInEvent) StructuredData() map[string]map[string]string {
	return e.sd("checkin")
}

func (e ItemCheckedInEvent) Record() model.AuditLog { return e.record("item_checked_in") }
