package endpoints

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/keyhaven/keyhaven/pkg/audit"
	"github.com/keyhaven/keyhaven/pkg/identity"
	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/notify"
	"github.com/keyhaven/keyhaven/pkg/policy"
	"github.com/keyhaven/keyhaven/pkg/server"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

// RegisterJITEndpoints registers the time-boxed access request endpoints.
func RegisterJITEndpoints(s *server.Server) {
	jitRouter := s.Router.PathPrefix("/jit-requests").Subrouter()
	jitRouter.Use(s.SessionMiddleware.Middleware)

	// POST /jit-requests - file a request
	jitRouter.HandleFunc("", handleCreateJITRequest(s)).Methods("POST")

	// GET /jit-requests - list; overdue grants are swept first
	jitRouter.HandleFunc("", handleListJITRequests(s)).Methods("GET")

	// GET /jit-requests/{id} - fetch one request
	jitRouter.HandleFunc("/{id}", handleGetJITRequest(s)).Methods("GET")

	// POST /jit-requests/{id}/approve - approve, stamping the grant expiry
	jitRouter.HandleFunc("/{id}/approve", handleApproveJITRequest(s)).Methods("POST")

	// POST /jit-requests/{id}/deny - deny
	jitRouter.HandleFunc("/{id}/deny", handleDenyJITRequest(s)).Methods("POST")
}

// defaultJITDurationHours is applied when a request omits the duration.
const defaultJITDurationHours = 2

type createJITRequest struct {
	ItemID        string `json:"item_id"`
	Reason        string `json:"reason"`
	DurationHours int    `json:"duration_hours"`
}

func handleCreateJITRequest(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpItemUse); err != nil {
			respondStoreError(w, err)
			return
		}

		var body createJITRequest
		if !decodeJSONBody(w, r, &body) {
			return
		}
		if body.ItemID == "" {
			respondWithError(w, http.StatusUnprocessableEntity, "item_id required")
			return
		}
		if body.Reason == "" {
			respondWithError(w, http.StatusUnprocessableEntity, "reason required")
			return
		}
		if body.DurationHours < 0 {
			respondWithError(w, http.StatusUnprocessableEntity, "duration_hours must not be negative")
			return
		}
		if body.DurationHours == 0 {
			body.DurationHours = defaultJITDurationHours
		}

		item, err := s.Items.FindByID(body.ItemID)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		// One live grant per user and item; ask again after it lapses.
		active, err := s.Requests.HasActiveGrant(id.UserID, item.ID, time.Now().UTC())
		if err != nil {
			respondStoreError(w, err)
			return
		}
		if active {
			respondWithError(w, http.StatusBadRequest, "an active grant for this item already exists")
			return
		}

		request := &model.JITRequest{
			ID:                     uuid.NewString(),
			RequesterID:            id.UserID,
			ItemID:                 item.ID,
			VaultID:                item.VaultID,
			Reason:                 body.Reason,
			RequestedDurationHours: body.DurationHours,
			Status:                 model.RequestPending,
		}
		if err := s.Requests.CreateJIT(request); err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.JITRequestedEvent{
			Base:   audit.Base{Actor: audit.ActorFrom(id), ItemID: item.ID, VaultID: item.VaultID},
			Reason: body.Reason,
		})
		alert := notify.JITRequestAlert(id.Email, item.Title, vaultPathFor(s, item.VaultID), body.Reason, body.DurationHours)
		s.Notifier.Text(r.Context(), alert.Text)

		respondWithJSON(w, http.StatusCreated, request)
	}
}

func handleListJITRequests(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		if err := s.Requests.ExpireOverdue(time.Now().UTC()); err != nil {
			respondStoreError(w, err)
			return
		}

		filter := store.RequestFilter{
			Status: r.URL.Query().Get("status"),
			ItemID: r.URL.Query().Get("item_id"),
		}
		// Only deciders see everyone's requests.
		if !policy.Allowed(id.Role, policy.OpJITDecide) {
			filter.UserID = id.UserID
		}

		requests, err := s.Requests.ListJIT(filter)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, requests)
	}
}

func handleGetJITRequest(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		if err := s.Requests.ExpireOverdue(time.Now().UTC()); err != nil {
			respondStoreError(w, err)
			return
		}

		request, err := s.Requests.FindJITByID(mux.Vars(r)["id"])
		if err != nil {
			respondStoreError(w, err)
			return
		}
		if request.RequesterID != id.UserID && !policy.Allowed(id.Role, policy.OpJITDecide) {
			respondStoreError(w, policy.ErrPermissionDenied)
			return
		}
		respondWithJSON(w, http.StatusOK, request)
	}
}

func handleApproveJITRequest(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpJITDecide); err != nil {
			respondStoreError(w, err)
			return
		}

		requestID := mux.Vars(r)["id"]
		pending, err := s.Requests.FindJITByID(requestID)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		duration := time.Duration(pending.RequestedDurationHours) * time.Hour
		request, err := s.Requests.ApproveJIT(requestID, id.UserID, duration)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.JITApprovedEvent{
			Base:      audit.Base{Actor: audit.ActorFrom(id), ItemID: request.ItemID, VaultID: request.VaultID},
			RequestID: request.ID,
		})
		if request.ExpiresAt != nil {
			alert := notify.JITApprovedAlert(userNameFor(s, request.RequesterID), itemTitleFor(s, request.ItemID), id.Email, *request.ExpiresAt)
			s.Notifier.Text(r.Context(), alert.Text)
		}
		respondWithJSON(w, http.StatusOK, request)
	}
}

func handleDenyJITRequest(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpJITDecide); err != nil {
			respondStoreError(w, err)
			return
		}

		request, err := s.Requests.DenyJIT(mux.Vars(r)["id"], id.UserID)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.JITDeniedEvent{
			Base:      audit.Base{Actor: audit.ActorFrom(id), ItemID: request.ItemID, VaultID: request.VaultID},
			RequestID: request.ID,
		})
		respondWithJSON(w, http.StatusOK, request)
	}
}
