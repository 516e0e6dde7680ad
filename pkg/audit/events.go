package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/keyhaven/keyhaven/pkg/identity"
	"github.com/keyhaven/keyhaven/pkg/model"
)

// Actor identifies who performed an audited action and from where.
type Actor struct {
	UserID    string
	UserEmail string
	ClientIP  string
	UserAgent string
}

// ActorFrom builds an Actor from the request identity.
func ActorFrom(id *identity.Identity) Actor {
	return Actor{
		UserID:    id.UserID,
		UserEmail: id.Email,
		ClientIP:  id.RemoteIP,
		UserAgent: id.UserAgent,
	}
}

// Base carries the fields shared by all events. Concrete event types embed
// it and provide MessageID/Message/Severity.
type Base struct {
	Actor
	ItemID  string
	VaultID string
	Details model.JSONMap
}

func (b Base) Facility() int {
	return FacilityAuthPriv
}

// sd assembles the common structured data for an operation.
func (b Base) sd(operation string) map[string]map[string]string {
	out := map[string]map[string]string{
		SDIDAuth: {
			"user":  b.UserID,
			"email": b.UserEmail,
		},
		SDIDAction: {
			"operation": operation,
		},
		SDIDClient: {
			"ip": b.ClientIP,
		},
	}
	subject := map[string]string{}
	if b.ItemID != "" {
		subject["item"] = b.ItemID
	}
	if b.VaultID != "" {
		subject["vault"] = b.VaultID
	}
	if len(subject) > 0 {
		out[SDIDSubject] = subject
	}
	return out
}

// record builds the append-only row for an event type.
func (b Base) record(eventType string) model.AuditLog {
	return model.AuditLog{
		ID:        uuid.NewString(),
		EventType: eventType,
		UserID:    b.UserID,
		UserEmail: b.UserEmail,
		ItemID:    b.ItemID,
		VaultID:   b.VaultID,
		IPAddress: b.ClientIP,
		UserAgent: b.UserAgent,
		Details:   b.Details,
		Timestamp: time.Now().UTC(),
	}
}
