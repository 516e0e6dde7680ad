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

// RegisterItemsEndpoints registers the item endpoints.
func RegisterItemsEndpoints(s *server.Server) {
	itemsRouter := s.Router.PathPrefix("/items").Subrouter()
	itemsRouter.Use(s.SessionMiddleware.Middleware)

	// GET /items - list with filters, secret fields stay encrypted
	itemsRouter.HandleFunc("", handleListItems(s)).Methods("GET")

	// POST /items - create an item
	itemsRouter.HandleFunc("", handleCreateItem(s)).Methods("POST")

	// GET /items/{id} - fetch one item, secret fields stay encrypted
	itemsRouter.HandleFunc("/{id}", handleGetItem(s)).Methods("GET")

	// PUT /items/{id} - update; absent password/notes keep old ciphertext
	itemsRouter.HandleFunc("/{id}", handleUpdateItem(s)).Methods("PUT")

	// DELETE /items/{id} - delete an item
	itemsRouter.HandleFunc("/{id}", handleDeleteItem(s)).Methods("DELETE")

	// POST /items/{id}/reveal - decrypt, audited and alerted
	itemsRouter.HandleFunc("/{id}/reveal", handleRevealItem(s)).Methods("POST")

	// POST /items/{id}/checkout - take the exclusive hold
	itemsRouter.HandleFunc("/{id}/checkout", handleCheckoutItem(s)).Methods("POST")

	// POST /items/{id}/checkin - release the hold
	itemsRouter.HandleFunc("/{id}/checkin", handleCheckinItem(s)).Methods("POST")
}

func handleListItems(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpItemUse); err != nil {
			respondStoreError(w, err)
			return
		}

		q := r.URL.Query()
		filter := store.ItemFilter{
			VaultID:     q.Get("vault_id"),
			Query:       q.Get("q"),
			Environment: q.Get("environment"),
			Criticality: q.Get("criticality"),
			Limit:       s.Config.APIListLimitMax,
		}
		items, err := s.Items.List(filter)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, items)
	}
}

type itemRequest struct {
	VaultID           string        `json:"vault_id"`
	Type              string        `json:"type"`
	Title             string        `json:"title"`
	Login             string        `json:"login"`
	Password          *string       `json:"password"`
	Notes             *string       `json:"notes"`
	LoginURL          string        `json:"login_url"`
	LoginInstructions string        `json:"login_instructions"`
	Metadata          model.JSONMap `json:"metadata"`
	Environment       string        `json:"environment"`
	Criticality       string        `json:"criticality"`
	ExpiresAt         *time.Time    `json:"expires_at"`
	Tags              model.StringMap `json:"tags"`
	NoCopy            bool          `json:"no_copy"`
	RequiresCheckout  bool          `json:"requires_checkout"`
}

func (b *itemRequest) validate(w http.ResponseWriter) bool {
	if b.Title == "" {
		respondWithError(w, http.StatusUnprocessableEntity, "title required")
		return false
	}
	if b.Environment != "" && !model.ValidEnvironment(b.Environment) {
		respondWithError(w, http.StatusUnprocessableEntity, "unknown environment")
		return false
	}
	if b.Criticality != "" && !model.ValidCriticality(b.Criticality) {
		respondWithError(w, http.StatusUnprocessableEntity, "unknown criticality")
		return false
	}
	if err := model.ValidateMetadata(b.Type, b.Metadata); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

// itemUpdateRequest is a partial update: only the fields present in the body
// are written, everything else keeps its stored value.
type itemUpdateRequest struct {
	Title             *string          `json:"title"`
	Login             *string          `json:"login"`
	Password          *string          `json:"password"`
	Notes             *string          `json:"notes"`
	LoginURL          *string          `json:"login_url"`
	LoginInstructions *string          `json:"login_instructions"`
	Metadata          model.JSONMap    `json:"metadata"`
	Environment       *string          `json:"environment"`
	Criticality       *string          `json:"criticality"`
	ExpiresAt         *time.Time       `json:"expires_at"`
	Tags              model.StringMap  `json:"tags"`
	NoCopy            *bool            `json:"no_copy"`
	RequiresCheckout  *bool            `json:"requires_checkout"`
}

// apply validates the provided fields and copies them onto item. It reports
// false after writing the validation failure response.
func (b *itemUpdateRequest) apply(w http.ResponseWriter, item *model.Item) bool {
	if b.Title != nil {
		if *b.Title == "" {
			respondWithError(w, http.StatusUnprocessableEntity, "title must not be empty")
			return false
		}
		item.Title = *b.Title
	}
	if b.Environment != nil {
		if !model.ValidEnvironment(*b.Environment) {
			respondWithError(w, http.StatusUnprocessableEntity, "unknown environment")
			return false
		}
		item.Environment = *b.Environment
	}
	if b.Criticality != nil {
		if !model.ValidCriticality(*b.Criticality) {
			respondWithError(w, http.StatusUnprocessableEntity, "unknown criticality")
			return false
		}
		item.Criticality = *b.Criticality
	}
	if b.Metadata != nil {
		if err := model.ValidateMetadata(item.Type, b.Metadata); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return false
		}
		item.Metadata = b.Metadata
	}
	if b.Login != nil {
		item.Login = *b.Login
	}
	if b.LoginURL != nil {
		item.LoginURL = *b.LoginURL
	}
	if b.LoginInstructions != nil {
		item.LoginInstructions = *b.LoginInstructions
	}
	if b.ExpiresAt != nil {
		item.ExpiresAt = b.ExpiresAt
	}
	if b.Tags != nil {
		item.Tags = b.Tags
	}
	if b.NoCopy != nil {
		item.NoCopy = *b.NoCopy
	}
	if b.RequiresCheckout != nil {
		item.RequiresCheckout = *b.RequiresCheckout
	}
	return true
}

func handleCreateItem(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpItemUse); err != nil {
			respondStoreError(w, err)
			return
		}

		var body itemRequest
		if !decodeJSONBody(w, r, &body) {
			return
		}
		if body.VaultID == "" {
			respondWithError(w, http.StatusUnprocessableEntity, "vault_id required")
			return
		}
		if !body.validate(w) {
			return
		}
		if _, err := s.Vaults.FindByID(body.VaultID); err != nil {
			respondStoreError(w, err)
			return
		}

		item := &model.Item{
			ID:                uuid.NewString(),
			VaultID:           body.VaultID,
			Type:              body.Type,
			Title:             body.Title,
			Login:             body.Login,
			LoginURL:          body.LoginURL,
			LoginInstructions: body.LoginInstructions,
			Metadata:          body.Metadata,
			OwnerID:           id.UserID,
			Environment:       body.Environment,
			Criticality:       body.Criticality,
			ExpiresAt:         body.ExpiresAt,
			Tags:              body.Tags,
			NoCopy:            body.NoCopy,
			RequiresCheckout:  body.RequiresCheckout,
			CreatedBy:         id.UserID,
			UpdatedBy:         id.UserID,
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

		s.Auditor.Log(audit.ItemCreatedEvent{
			Base:  audit.Base{Actor: audit.ActorFrom(id), ItemID: item.ID, VaultID: item.VaultID},
			Title: item.Title,
		})
		respondWithJSON(w, http.StatusCreated, item)
	}
}

func handleGetItem(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpItemUse); err != nil {
			respondStoreError(w, err)
			return
		}

		item, err := s.Items.FindByID(mux.Vars(r)["id"])
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, item)
	}
}

func handleUpdateItem(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpItemUse); err != nil {
			respondStoreError(w, err)
			return
		}

		item, err := s.Items.FindByID(mux.Vars(r)["id"])
		if err != nil {
			respondStoreError(w, err)
			return
		}

		var body itemUpdateRequest
		if !decodeJSONBody(w, r, &body) {
			return
		}
		if !body.apply(w, item) {
			return
		}
		item.UpdatedBy = id.UserID

		if err := s.Items.Update(item, body.Password, body.Notes); err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.ItemUpdatedEvent{
			Base:  audit.Base{Actor: audit.ActorFrom(id), ItemID: item.ID, VaultID: item.VaultID},
			Title: item.Title,
		})
		respondWithJSON(w, http.StatusOK, item)
	}
}

func handleDeleteItem(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpItemUse); err != nil {
			respondStoreError(w, err)
			return
		}

		item, err := s.Items.FindByID(mux.Vars(r)["id"])
		if err != nil {
			respondStoreError(w, err)
			return
		}

		if err := s.Items.Delete(item.ID); err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.ItemDeletedEvent{
			Base:  audit.Base{Actor: audit.ActorFrom(id), ItemID: item.ID, VaultID: item.VaultID},
			Title: item.Title,
		})
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func handleRevealItem(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpItemUse); err != nil {
			respondStoreError(w, err)
			return
		}

		item, secret, err := s.Items.Reveal(mux.Vars(r)["id"])
		if err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.ItemRevealedEvent{
			Base:  audit.Base{Actor: audit.ActorFrom(id), ItemID: item.ID, VaultID: item.VaultID},
			Title: item.Title,
		})
		if item.Criticality == model.CriticalityHigh {
			alert := notify.RevealAlert(id.Email, item.Title, vaultPathFor(s, item.VaultID), id.RemoteIP)
			s.Notifier.Text(r.Context(), alert.Text)
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"id":       item.ID,
			"password": secret.Password,
			"notes":    secret.Notes,
			"no_copy":  item.NoCopy,
		})
	}
}

func handleCheckoutItem(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpItemUse); err != nil {
			respondStoreError(w, err)
			return
		}

		item, err := s.Items.Checkout(mux.Vars(r)["id"], id.UserID)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.ItemCheckedOutEvent{
			Base:  audit.Base{Actor: audit.ActorFrom(id), ItemID: item.ID, VaultID: item.VaultID},
			Title: item.Title,
		})
		respondWithJSON(w, http.StatusOK, item)
	}
}

func handleCheckinItem(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpItemUse); err != nil {
			respondStoreError(w, err)
			return
		}

		itemID := mux.Vars(r)["id"]
		current, err := s.Items.FindByID(itemID)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		if current.CheckedOut() && !policy.CanCheckin(id.Role, id.UserID, current.CheckedOutBy) {
			respondStoreError(w, policy.ErrPermissionDenied)
			return
		}

		item, err := s.Items.Checkin(itemID)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.ItemCheckedInEvent{
			Base:  audit.Base{Actor: audit.ActorFrom(id), ItemID: item.ID, VaultID: item.VaultID},
			Title: item.Title,
		})
		respondWithJSON(w, http.StatusOK, item)
	}
}
