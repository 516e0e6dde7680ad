package audit

import (
	"fmt"

	"github.com/keyhaven/keyhaven/pkg/model"
)

// LoginEvent is recorded on every successful external-identity login.
type LoginEvent struct {
	Base
}

func (e LoginEvent) MessageID() string { return "login" }

func (e LoginEvent) Message() string {
	return fmt.Sprintf("%s logged in", e.UserEmail)
}

func (e LoginEvent) Severity() Severity { return SeverityInfo }

func (e LoginEvent) Facility() int { return FacilityAuth }

func (e LoginEvent) StructuredData() map[string]map[string]string {
	return e.sd("login")
}

func (e LoginEvent) Record() model.AuditLog { return e.record("login") }

// LogoutEvent is recorded when a user ends their session.
type LogoutEvent struct {
	Base
}

func (e LogoutEvent) MessageID() string { return "logout" }

func (e LogoutEvent) Message() string {
	return fmt.Sprintf("%s logged out", e.UserEmail)
}

func (e LogoutEvent) Severity() Severity { return SeverityInfo }

func (e LogoutEvent) Facility() int { return FacilityAuth }

func (e LogoutEvent) StructuredData() map[string]map[string]string {
	return e.sd("logout")
}

func (e LogoutEvent) Record() model.AuditLog { return e.record("logout") }
