package endpoints

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/keyhaven/keyhaven/pkg/audit"
	"github.com/keyhaven/keyhaven/pkg/identity"
	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/server"
)

// RegisterShareEndpoints registers the unauthenticated share-link endpoints.
// They take no session; the capability is the share token itself.
func RegisterShareEndpoints(s *server.Server) {
	// GET /share/{token} - vault info for the submission form
	s.Router.HandleFunc("/share/{token}", handleGetSharedVault(s)).Methods("GET")

	// POST /share/{token}/items - submit an item into the shared vault
	s.Router.HandleFunc("/share/{token}/items", handleSubmitSharedItem(s)).Methods("POST")
}

func handleGetSharedVault(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vault, err := s.Vaults.FindByShareToken(mux.Vars(r)["token"])
		if err != nil {
			respondStoreError(w, err)
			return
		}
		// Expose only what the form needs.
		respondWithJSON(w, http.StatusOK, map[string]string{
			"name": vault.Name,
			"type": vault.Type,
		})
	}
}

func handleSubmitSharedItem(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vault, err := s.Vaults.FindByShareToken(mux.Vars(r)["token"])
		if err != nil {
			respondStoreError(w, err)
			return
		}

		var body itemRequest
		if !decodeJSONBody(w, r, &body) {
			return
		}
		if !body.validate(w) {
			return
		}

		// The vault comes from the token, never from the body.
		item := &model.Item{
			ID:                uuid.NewString(),
			VaultID:           vault.ID,
			Type:              body.Type,
			Title:             body.Title,
			Login:             body.Login,
			LoginURL:          body.LoginURL,
			LoginInstructions: body.LoginInstructions,
			Metadata:          body.Metadata,
			OwnerID:           model.ClientSubmittedOwner,
			Environment:       body.Environment,
			Criticality:       body.Criticality,
			ExpiresAt:         body.ExpiresAt,
			Tags:              body.Tags,
			NoCopy:            body.NoCopy,
			RequiresCheckout:  body.RequiresCheckout,
			CreatedBy:         model.ClientSubmittedOwner,
			UpdatedBy:         model.ClientSubmittedOwner,
		}
		password, notes := "", ""
		if body.Password != nil {
			password = *body.Password
		}
		if body.Notes != nil {
			notes = *body.Notes
		}
		if err := s.Items.Create(item, password, notes); err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.ClientItemSubmittedEvent{
			Base: audit.Base{
				Actor: audit.Actor{
					UserEmail: model.ClientSubmittedOwner,
					ClientIP:  identity.ClientIP(r),
					UserAgent: r.UserAgent(),
				},
				ItemID:  item.ID,
				VaultID: vault.ID,
			},
			Title: item.Title,
		})
		respondWithJSON(w, http.StatusCreated, map[string]string{"status": "submitted", "id": item.ID})
	}
}
