package endpoints

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/keyhaven/keyhaven/pkg/audit"
	"github.com/keyhaven/keyhaven/pkg/identity"
	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/policy"
	"github.com/keyhaven/keyhaven/pkg/server"
)

// RegisterImportEndpoints registers the bulk item import endpoint.
func RegisterImportEndpoints(s *server.Server) {
	importRouter := s.Router.PathPrefix("/import").Subrouter()
	importRouter.Use(s.SessionMiddleware.Middleware)

	// POST /import/items - bulk create; failures are reported per row
	importRouter.HandleFunc("/items", handleImportItems(s)).Methods("POST")
}

// importRow matches one spreadsheet row. Vaults are resolved by path and
// created on the fly when missing.
type importRow struct {
	VaultPath   string `json:"vault_path"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Login       string `json:"login"`
	Password    string `json:"password"`
	LoginURL    string `json:"login_url"`
	Environment string `json:"environment"`
	Criticality string `json:"criticality"`
	Client      string `json:"client"`
	Squad       string `json:"squad"`
}

type importRequest struct {
	Rows []importRow `json:"rows"`
}

type importResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

func handleImportItems(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpItemUse); err != nil {
			respondStoreError(w, err)
			return
		}

		var body importRequest
		if !decodeJSONBody(w, r, &body) {
			return
		}
		if len(body.Rows) == 0 {
			respondWithError(w, http.StatusUnprocessableEntity, "rows required")
			return
		}

		result := importResult{Errors: []string{}}
		for i, row := range body.Rows {
			if err := importOneRow(s, id, row); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i, err))
				continue
			}
			result.Imported++
		}

		s.Auditor.Log(audit.ImportCompletedEvent{
			Base:     audit.Base{Actor: audit.ActorFrom(id)},
			Imported: result.Imported,
			Errors:   len(result.Errors),
		})
		respondWithJSON(w, http.StatusOK, result)
	}
}

func importOneRow(s *server.Server, id *identity.Identity, row importRow) error {
	if row.Title == "" {
		return fmt.Errorf("title required")
	}
	if row.VaultPath == "" {
		return fmt.Errorf("vault_path required")
	}
	if row.Environment != "" && !model.ValidEnvironment(row.Environment) {
		return fmt.Errorf("unknown environment %q", row.Environment)
	}
	if row.Criticality != "" && !model.ValidCriticality(row.Criticality) {
		return fmt.Errorf("unknown criticality %q", row.Criticality)
	}

	vault, err := s.Vaults.FindByPath(row.VaultPath)
	if err != nil {
		return err
	}
	if vault == nil {
		segments := strings.Split(row.VaultPath, model.PathSeparator)
		vault = &model.Vault{
			ID:      uuid.NewString(),
			Name:    segments[len(segments)-1],
			Type:    model.VaultTypeClient,
			Path:    row.VaultPath,
			OwnerID: id.UserID,
			ACL:     model.ACL{{UserID: id.UserID, Permissions: model.FullPermissions}},
			Tags:    model.StringMap{"client": row.Client, "squad": row.Squad},
		}
		if err := s.Vaults.Create(vault); err != nil {
			return err
		}
	}

	item := &model.Item{
		ID:          uuid.NewString(),
		VaultID:     vault.ID,
		Type:        row.Type,
		Title:       row.Title,
		Login:       row.Login,
		LoginURL:    row.LoginURL,
		OwnerID:     id.UserID,
		Environment: row.Environment,
		Criticality: row.Criticality,
		Tags:        model.StringMap{"client": row.Client, "squad": row.Squad},
		CreatedBy:   id.UserID,
		UpdatedBy:   id.UserID,
	}
	return s.Items.Create(item, row.Password, "")
}
