package audit

import (
	"fmt"

	"github.com/keyhaven/keyhaven/pkg/model"
)

type UserInvitedEvent struct {
	Base
	InvitedEmail string
	Role         string
}

func (e UserInvitedEvent) MessageID() string { return "user_invited" }

func (e UserInvitedEvent) Message() string {
	return fmt.Sprintf("%s invited %s as %s", e.UserEmail, e.InvitedEmail, e.Role)
}

func (e UserInvitedEvent) Severity() Severity { return SeverityInfo }

func (e UserInvitedEvent) StructuredData() map[string]map[string]string {
	return e.sd("user-invite")
}

func (e UserInvitedEvent) Record() model.AuditLog { return e.record("user_invited") }

type UserRoleUpdatedEvent struct {
	Base
	TargetEmail string
	NewRole     string
}

func (e UserRoleUpdatedEvent) MessageID() string { return "user_role_updated" }

func (e UserRoleUpdatedEvent) Message() string {
	return fmt.Sprintf("%s changed role of %s to %s", e.UserEmail, e.TargetEmail, e.NewRole)
}

func (e UserRoleUpdatedEvent) Severity() Severity { return SeverityNotice }

func (e UserRoleUpdatedEvent) StructuredData() map[string]map[string]string {
	return e.sd("user-role")
}

func (e UserRoleUpdatedEvent) Record() model.AuditLog { return e.record("user_role_updated") }

type UserStatusUpdatedEvent struct {
	Base
	TargetEmail string
	NewStatus   string
}

func (e UserStatusUpdatedEvent) MessageID() string { return "user_status_updated" }

func (e UserStatusUpdatedEvent) Message() string {
	return fmt.Sprintf("%s changed status of %s to %s", e.UserEmail, e.TargetEmail, e.NewStatus)
}

func (e UserStatusUpdatedEvent) Severity() Severity { return SeverityNotice }

func (e UserStatusUpdatedEvent) StructuredData() map[string]map[string]string {
	return e.sd("user-status")
}

func (e UserStatusUpdatedEvent) Record() model.AuditLog { return e.record("user_status_updated") }
