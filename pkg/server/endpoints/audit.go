package endpoints

import (
	"net/http"
	"strconv"

	"github.com/keyhaven/keyhaven/pkg/identity"
	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/policy"
	"github.com/keyhaven/keyhaven/pkg/server"
	"github.com/keyhaven/keyhaven/pkg/server/store"
)

// RegisterAuditEndpoints registers the read side of the audit trail.
func RegisterAuditEndpoints(s *server.Server) {
	auditRouter := s.Router.PathPrefix("/audit-logs").Subrouter()
	auditRouter.Use(s.SessionMiddleware.Middleware)

	// GET /audit-logs - filtered, paginated, newest first
	auditRouter.HandleFunc("", handleListAuditLogs(s)).Methods("GET")
}

// enrichAuditEntries joins human-readable vault and item names into each
// entry's details at read time. Stored rows are never written back; a
// reference whose row is gone degrades to a placeholder.
func enrichAuditEntries(s *server.Server, entries []model.AuditLog) {
	vaultNames := map[string]string{}
	itemTitles := map[string]string{}
	for i := range entries {
		entry := &entries[i]
		if entry.VaultID == "" && entry.ItemID == "" {
			continue
		}
		if entry.Details == nil {
			entry.Details = model.JSONMap{}
		}
		if entry.VaultID != "" {
			name, ok := vaultNames[entry.VaultID]
			if !ok {
				name = "Unknown Vault"
				if vault, err := s.Vaults.FindByID(entry.VaultID); err == nil {
					name = vault.Name
				}
				vaultNames[entry.VaultID] = name
			}
			entry.Details["vault_name"] = name
		}
		if entry.ItemID != "" {
			title, ok := itemTitles[entry.ItemID]
			if !ok {
				title = "Unknown Item"
				if item, err := s.Items.FindByID(entry.ItemID); err == nil {
					title = item.Title
				}
				itemTitles[entry.ItemID] = title
			}
			entry.Details["item_title"] = title
		}
	}
}

func handleListAuditLogs(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpAuditRead); err != nil {
			respondStoreError(w, err)
			return
		}

		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		if limit <= 0 || limit > s.Config.APIListLimitMax {
			limit = s.Config.APIListLimitMax
		}
		offset, _ := strconv.Atoi(q.Get("offset"))
		if offset < 0 {
			offset = 0
		}

		filter := store.AuditFilter{
			EventType: q.Get("event_type"),
			UserID:    q.Get("user_id"),
			ItemID:    q.Get("item_id"),
			VaultID:   q.Get("vault_id"),
			Limit:     limit,
			Offset:    offset,
		}

		entries, err := s.Audit.ListAuditLogs(filter)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		total, err := s.Audit.CountAuditLogs(filter)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		enrichAuditEntries(s, entries)

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"entries": entries,
			"total":   total,
			"limit":   limit,
			"offset":  offset,
		})
	}
}
