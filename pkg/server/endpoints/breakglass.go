package endpoints

import (
	"net/http"

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

// RegisterBreakGlassEndpoints registers the emergency access endpoints.
func RegisterBreakGlassEndpoints(s *server.Server) {
	bgRouter := s.Router.PathPrefix("/breakglass-requests").Subrouter()
	bgRouter.Use(s.SessionMiddleware.Middleware)

	// POST /breakglass-requests - file an emergency request, alerts the channel
	bgRouter.HandleFunc("", handleCreateBreakGlass(s)).Methods("POST")

	// GET /breakglass-requests - list (admin and manager only)
	bgRouter.HandleFunc("", handleListBreakGlass(s)).Methods("GET")

	// GET /breakglass-requests/{id} - fetch one request
	bgRouter.HandleFunc("/{id}", handleGetBreakGlass(s)).Methods("GET")

	// POST /breakglass-requests/{id}/approve - single approval completes it
	bgRouter.HandleFunc("/{id}/approve", handleApproveBreakGlass(s)).Methods("POST")

	// POST /breakglass-requests/{id}/deny - deny
	bgRouter.HandleFunc("/{id}/deny", handleDenyBreakGlass(s)).Methods("POST")
}

type createBreakGlassRequest struct {
	ItemID string `json:"item_id"`
	Reason string `json:"reason"`
}

func handleCreateBreakGlass(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpItemUse); err != nil {
			respondStoreError(w, err)
			return
		}

		var body createBreakGlassRequest
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

		item, err := s.Items.FindByID(body.ItemID)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		request := &model.BreakGlassRequest{
			ID:          uuid.NewString(),
			RequesterID: id.UserID,
			ItemID:      item.ID,
			VaultID:     item.VaultID,
			Reason:      body.Reason,
			Status:      model.RequestPending,
		}
		if err := s.Requests.CreateBreakGlass(request); err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.BreakGlassRequestedEvent{
			Base:   audit.Base{Actor: audit.ActorFrom(id), ItemID: item.ID, VaultID: item.VaultID},
			Reason: body.Reason,
		})
		s.Notifier.Card(r.Context(), notify.BreakGlassCard(id.Email, item.Title, body.Reason, request.ID))

		respondWithJSON(w, http.StatusCreated, request)
	}
}

func handleListBreakGlass(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpBreakGlassRead); err != nil {
			respondStoreError(w, err)
			return
		}

		filter := store.RequestFilter{
			Status: r.URL.Query().Get("status"),
			ItemID: r.URL.Query().Get("item_id"),
		}

		requests, err := s.Requests.ListBreakGlass(filter)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, requests)
	}
}

func handleGetBreakGlass(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpBreakGlassRead); err != nil {
			respondStoreError(w, err)
			return
		}

		request, err := s.Requests.FindBreakGlassByID(mux.Vars(r)["id"])
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, request)
	}
}

func handleApproveBreakGlass(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpBreakGlassDecide); err != nil {
			respondStoreError(w, err)
			return
		}

		request, err := s.Requests.ApproveBreakGlass(mux.Vars(r)["id"], id.UserID)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.BreakGlassApprovedEvent{
			Base:      audit.Base{Actor: audit.ActorFrom(id), ItemID: request.ItemID, VaultID: request.VaultID},
			RequestID: request.ID,
		})
		alert := notify.BreakGlassApprovedAlert(userNameFor(s, request.RequesterID), itemTitleFor(s, request.ItemID), id.Email)
		s.Notifier.Text(r.Context(), alert.Text)

		respondWithJSON(w, http.StatusOK, request)
	}
}

func handleDenyBreakGlass(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpBreakGlassDecide); err != nil {
			respondStoreError(w, err)
			return
		}

		request, err := s.Requests.DenyBreakGlass(mux.Vars(r)["id"], id.UserID)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.BreakGlassDeniedEvent{
			Base:      audit.Base{Actor: audit.ActorFrom(id), ItemID: request.ItemID, VaultID: request.VaultID},
			RequestID: request.ID,
		})
		respondWithJSON(w, http.StatusOK, request)
	}
}
