package audit

import (
	"fmt"

	"github.com/keyhaven/keyhaven/pkg/model"
)

// JITRequestedEvent is recorded when a time-boxed access request is filed.
type JITRequestedEvent struct {
	Base
	Reason string
}

func (e JITRequestedEvent) MessageID() string { return "jit_requested" }

func (e JITRequestedEvent) Message() string {
	return fmt.Sprintf("%s requested JIT access: %s", e.UserEmail, e.Reason)
}

func (e JITRequestedEvent) Severity() Severity { return SeverityInfo }

func (e JITRequestedEvent) StructuredData() map[string]map[string]string {
	return e.sd("jit-request")
}

func (e JITRequestedEvent) Record() model.AuditLog { return e.record("jit_requested") }

// JITApprovedEvent is recorded on approval, which sets the grant expiry.
type JITApprovedEvent struct {
	Base
	RequestID string
}

func (e JITApprovedEvent) MessageID() string { return "jit_approved" }

func (e JITApprovedEvent) Message() string {
	return fmt.Sprintf("%s approved JIT request %s", e.UserEmail, e.RequestID)
}

func (e JITApprovedEvent) Severity() Severity { return SeverityNotice }

func (e JITApprovedEvent) StructuredData() map[string]map[string]string {
	return e.sd("jit-approve")
}

func (e JITApprovedEvent) Record() model.AuditLog { return e.record("jit_approved") }

// JITDeniedEvent is recorded on denial.
type JITDeniedEvent struct {
	Base
	RequestID string
}

func (e JITDeniedEvent) MessageID() string { return "jit_denied" }

func (e JITDeniedEvent) Message() string {
	return fmt.Sprintf("%s denied JIT request %s", e.UserEmail, e.RequestID)
}

func (e JITDeniedEvent) Severity() Severity { return SeverityNotice }

func (e JITDeniedEvent) StructuredData() map[string]map[string]string {
	return e.sd("jit-deny")
}

func (e JITDeniedEvent) Record() model.AuditLog { return e.record("jit_denied") }
