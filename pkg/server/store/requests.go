package store

import (
	"time"

	"github.com/keyhaven/keyhaven/pkg/model"
)

// RequestFilter narrows request listings. Zero fields are ignored.
type RequestFilter struct {
	Status string
	UserID string
	ItemID string
}

// RequestsStore abstracts the JIT and emergency request lifecycles.
//
// Approved JIT grants expire passively: ExpireOverdue flips overdue rows and
// is called before any read so expiry never depends on a background worker.
type RequestsStore interface {
	// CreateJIT stores a new pending JIT request.
	CreateJIT(request *model.JITRequest) error

	// FindJITByID returns a JIT request, or ErrRequestNotFound.
	FindJITByID(id string) (*model.JITRequest, error)

	// ListJIT returns JIT requests matching the filter, newest first.
	ListJIT(filter RequestFilter) ([]model.JITRequest, error)

	// ApproveJIT transitions a pending request to approved. approved_at and
	// expires_at are derived from one instant, so
	// expires_at == approved_at + duration exactly. ErrInvalidState when the
	// request is not pending.
	ApproveJIT(id, approverID string, duration time.Duration) (*model.JITRequest, error)

	// DenyJIT transitions a pending request to denied.
	DenyJIT(id, approverID string) (*model.JITRequest, error)

	// ExpireOverdue flips approved requests whose grant has lapsed.
	ExpireOverdue(now time.Time) error

	// HasActiveGrant reports whether the user holds an unexpired approved
	// grant for the item.
	HasActiveGrant(userID, itemID string, now time.Time) (bool, error)

	// CreateBreakGlass stores a new pending emergency request.
	CreateBreakGlass(request *model.BreakGlassRequest) error

	// FindBreakGlassByID returns an emergency request, or ErrRequestNotFound.
	FindBreakGlassByID(id string) (*model.BreakGlassRequest, error)

	// ListBreakGlass returns emergency requests matching the filter.
	ListBreakGlass(filter RequestFilter) ([]model.BreakGlassRequest, error)

	// ApproveBreakGlass transitions a pending emergency request to
	// approved. ErrInvalidState when the request is not pending.
	ApproveBreakGlass(id, approverID string) (*model.BreakGlassRequest, error)

	// DenyBreakGlass transitions a pending emergency request to denied.
	DenyBreakGlass(id, approverID string) (*model.BreakGlassRequest, error)
}
