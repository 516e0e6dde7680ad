package endpoints

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/keyhaven/keyhaven/pkg/audit"
	"github.com/keyhaven/keyhaven/pkg/identity"
	"github.com/keyhaven/keyhaven/pkg/keybox"
	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/policy"
	"github.com/keyhaven/keyhaven/pkg/server"
)

// RegisterVaultsEndpoints registers the vault tree endpoints.
func RegisterVaultsEndpoints(s *server.Server) {
	vaultsRouter := s.Router.PathPrefix("/vaults").Subrouter()
	vaultsRouter.Use(s.SessionMiddleware.Middleware)

	// GET /vaults - list all vaults ordered by path
	vaultsRouter.HandleFunc("", handleListVaults(s)).Methods("GET")

	// POST /vaults - create a vault
	vaultsRouter.HandleFunc("", handleCreateVault(s)).Methods("POST")

	// GET /vaults/{id} - fetch one vault
	vaultsRouter.HandleFunc("/{id}", handleGetVault(s)).Methods("GET")

	// PUT /vaults/{id} - rename/retag; a rename cascades paths
	vaultsRouter.HandleFunc("/{id}", handleUpdateVault(s)).Methods("PUT")

	// DELETE /vaults/{id} - delete the subtree and its items
	vaultsRouter.HandleFunc("/{id}", handleDeleteVault(s)).Methods("DELETE")

	// POST /vaults/{id}/share - mint or rotate the share link
	vaultsRouter.HandleFunc("/{id}/share", handleGenerateShareLink(s)).Methods("POST")

	// DELETE /vaults/{id}/share - disable the share link
	vaultsRouter.HandleFunc("/{id}/share", handleDisableShareLink(s)).Methods("DELETE")
}

func handleListVaults(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vaults, err := s.Vaults.List()
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, vaults)
	}
}

type createVaultRequest struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	ParentID string          `json:"parent_id"`
	Tags     model.StringMap `json:"tags"`
}

// handleCreateVault accepts any authenticated user; only rename, delete,
// and share-link management are restricted.
func handleCreateVault(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		var body createVaultRequest
		if !decodeJSONBody(w, r, &body) {
			return
		}
		if body.Name == "" {
			respondWithError(w, http.StatusUnprocessableEntity, "name required")
			return
		}
		if !model.ValidVaultType(body.Type) {
			respondWithError(w, http.StatusUnprocessableEntity, "unknown vault type")
			return
		}

		path := body.Name
		if body.ParentID != "" {
			parent, err := s.Vaults.FindByID(body.ParentID)
			if err != nil {
				respondStoreError(w, err)
				return
			}
			path = parent.ChildPath(body.Name)
		}

		vault := &model.Vault{
			ID:       uuid.NewString(),
			Name:     body.Name,
			Type:     body.Type,
			ParentID: body.ParentID,
			Path:     path,
			OwnerID:  id.UserID,
			ACL:      model.ACL{{UserID: id.UserID, Permissions: model.FullPermissions}},
			Tags:     body.Tags,
		}
		if err := s.Vaults.Create(vault); err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.VaultCreatedEvent{
			Base: audit.Base{Actor: audit.ActorFrom(id), VaultID: vault.ID},
			Name: vault.Name,
		})
		respondWithJSON(w, http.StatusCreated, vault)
	}
}

func handleGetVault(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vault, err := s.Vaults.FindByID(mux.Vars(r)["id"])
		if err != nil {
			respondStoreError(w, err)
			return
		}
		count, err := s.Vaults.CountItems(vault.Path)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, struct {
			*model.Vault
			ItemCount int64 `json:"item_count"`
		}{vault, count})
	}
}

type updateVaultRequest struct {
	Name string           `json:"name"`
	Tags *model.StringMap `json:"tags"`
}

func handleUpdateVault(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpVaultManage); err != nil {
			respondStoreError(w, err)
			return
		}

		vault, err := s.Vaults.FindByID(mux.Vars(r)["id"])
		if err != nil {
			respondStoreError(w, err)
			return
		}

		var body updateVaultRequest
		if !decodeJSONBody(w, r, &body) {
			return
		}

		oldPath := vault.Path
		if body.Name != "" && body.Name != vault.Name {
			vault.Name = body.Name
			if vault.ParentID == "" {
				vault.Path = vault.Name
			} else {
				parent, err := s.Vaults.FindByID(vault.ParentID)
				if err != nil {
					respondStoreError(w, err)
					return
				}
				vault.Path = parent.ChildPath(vault.Name)
			}
		}
		if body.Tags != nil {
			vault.Tags = *body.Tags
		}

		if err := s.Vaults.Update(vault, oldPath); err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.VaultUpdatedEvent{
			Base: audit.Base{Actor: audit.ActorFrom(id), VaultID: vault.ID},
			Name: vault.Name,
		})
		respondWithJSON(w, http.StatusOK, vault)
	}
}

func handleDeleteVault(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpVaultManage); err != nil {
			respondStoreError(w, err)
			return
		}

		vaultID := mux.Vars(r)["id"]
		vault, err := s.Vaults.FindByID(vaultID)
		if err != nil {
			respondStoreError(w, err)
			return
		}

		if err := s.Vaults.Delete(vaultID); err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.VaultDeletedEvent{
			Base: audit.Base{Actor: audit.ActorFrom(id), VaultID: vaultID},
			Name: vault.Name,
		})
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func handleGenerateShareLink(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpVaultManage); err != nil {
			respondStoreError(w, err)
			return
		}

		vault, err := s.Vaults.FindByID(mux.Vars(r)["id"])
		if err != nil {
			respondStoreError(w, err)
			return
		}
		// The token opens an unauthenticated submission path, so only
		// client-type vaults may carry one.
		if vault.Type != model.VaultTypeClient {
			respondWithError(w, http.StatusBadRequest, "only client-type vaults can have share links")
			return
		}

		token, err := keybox.RandomToken(32)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		oldPath := vault.Path
		vault.ShareToken = token
		vault.ShareEnabled = true
		if err := s.Vaults.Update(vault, oldPath); err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.ShareLinkGeneratedEvent{
			Base: audit.Base{Actor: audit.ActorFrom(id), VaultID: vault.ID},
			Name: vault.Name,
		})
		respondWithJSON(w, http.StatusOK, map[string]string{"share_token": token})
	}
}

func handleDisableShareLink(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpVaultManage); err != nil {
			respondStoreError(w, err)
			return
		}

		vault, err := s.Vaults.FindByID(mux.Vars(r)["id"])
		if err != nil {
			respondStoreError(w, err)
			return
		}

		vault.ShareEnabled = false
		if err := s.Vaults.Update(vault, vault.Path); err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "share_disabled"})
	}
}
