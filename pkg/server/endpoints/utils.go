package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/keyhaven/keyhaven/pkg/keybox"
	"github.com/keyhaven/keyhaven/pkg/policy"
	"github.com/keyhaven/keyhaven/pkg/server"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

// Alert builders want human-readable names. A missing row degrades to a
// placeholder; an alert must never fail the request it decorates.

func vaultPathFor(s *server.Server, vaultID string) string {
	if vaultID != "" {
		if vault, err := s.Vaults.FindByID(vaultID); err == nil {
			return vault.Path
		}
	}
	return "Unknown"
}

func itemTitleFor(s *server.Server, itemID string) string {
	if itemID != "" {
		if item, err := s.Items.FindByID(itemID); err == nil {
			return item.Title
		}
	}
	return "Unknown"
}

func userNameFor(s *server.Server, userID string) string {
	if userID != "" {
		if user, err := s.Users.FindByID(userID); err == nil {
			if user.Name != "" {
				return user.Name
			}
			return user.Email
		}
	}
	return "Unknown"
}

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondStoreError maps domain errors onto HTTP statuses.
func respondStoreError(w http.ResponseWriter, err error) {
	var conflict *store.CheckoutConflictError

	switch {
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrVaultNotFound),
		errors.Is(err, store.ErrItemNotFound),
		errors.Is(err, store.ErrRequestNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, policy.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrInvalidState),
		errors.Is(err, store.ErrNotCheckedOut):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &conflict):
		respondWithJSON(w, http.StatusConflict, map[string]interface{}{
			"error":          conflict.Error(),
			"checked_out_by": conflict.HolderID,
		})
	case errors.Is(err, keybox.ErrDecryption):
		respondWithError(w, http.StatusInternalServerError, "decryption failed")
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
