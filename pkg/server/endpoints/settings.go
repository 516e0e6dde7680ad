package endpoints

import (
	"net/http"

	"github.com/keyhaven/keyhaven/pkg/identity"
	"github.com/keyhaven/keyhaven/pkg/policy"
	"github.com/keyhaven/keyhaven/pkg/server"
)

// RegisterSettingsEndpoints registers the read-only settings endpoint.
func RegisterSettingsEndpoints(s *server.Server) {
	settingsRouter := s.Router.PathPrefix("/settings").Subrouter()
	settingsRouter.Use(s.SessionMiddleware.Middleware)

	// GET /settings - effective configuration, admin only
	settingsRouter.HandleFunc("", handleGetSettings(s)).Methods("GET")
}

func handleGetSettings(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpSettingsRead); err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, s.Config)
	}
}
