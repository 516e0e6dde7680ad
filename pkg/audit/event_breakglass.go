package audit

import (
	"fmt"

	"github.com/keyhaven/keyhaven/pkg/model"
)

// BreakGlassRequestedEvent is recorded when an emergency access request is
// filed. It carries a higher severity so syslog collectors can page on it.
type BreakGlassRequestedEvent struct {
	Base
	Reason string
}

func (e BreakGlassRequestedEvent) MessageID() string { return "breakglass_requested" }

func (e BreakGlassRequestedEvent) Message() string {
	return fmt.Sprintf("%s requested emergency access: %s", e.UserEmail, e.Reason)
}

func (e BreakGlassRequestedEvent) Severity() Severity { return SeverityCritical }

func (e BreakGlassRequestedEvent) StructuredData() map[string]map[string]string {
	return e.sd("breakglass-request")
}

func (e BreakGlassRequestedEvent) Record() model.AuditLog {
	return e.record("breakglass_requested")
}

type BreakGlassApprovedEvent struct {
	Base
	RequestID string
}

func (e BreakGlassApprovedEvent) MessageID() string { return "breakglass_approved" }

func (e BreakGlassApprovedEvent) Message() string {
	return fmt.Sprintf("%s approved emergency request %s", e.UserEmail, e.RequestID)
}

func (e BreakGlassApprovedEvent) Severity() Severity { return SeverityWarning }

func (e BreakGlassApprovedEvent) StructuredData() map[string]map[string]string {
	return e.sd("breakglass-approve")
}

func (e BreakGlassApprovedEvent) Record() model.AuditLog {
	return e.record("breakglass_approved")
}

type BreakGlassDeniedEvent struct {
	Base
	RequestID string
}

func (e BreakGlassDeniedEvent) MessageID() string { return "breakglass_denied" }

func (e BreakGlassDeniedEvent) Message() string {
	return fmt.Sprintf("%s denied emergency request %s", e.UserEmail, e.RequestID)
}

func (e BreakGlassDeniedEvent) Severity() Severity { return SeverityNotice }

func (e BreakGlassDeniedEvent) StructuredData() map[string]map[string]string {
	return e.sd("breakglass-deny")
}

func (e BreakGlassDeniedEvent) Record() model.AuditLog {
	return e.record("breakglass_denied")
}
