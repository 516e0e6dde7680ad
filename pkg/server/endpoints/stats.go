package endpoints

import (
	"net/http"

	"github.com/keyhaven/keyhaven/pkg/identity"
	"github.com/keyhaven/keyhaven/pkg/policy"
	"github.com/keyhaven/keyhaven/pkg/server"
)

// RegisterStatsEndpoints registers the dashboard endpoints.
func RegisterStatsEndpoints(s *server.Server) {
	statsRouter := s.Router.PathPrefix("/stats").Subrouter()
	statsRouter.Use(s.SessionMiddleware.Middleware)

	// GET /stats/dashboard - aggregate counts
	statsRouter.HandleFunc("/dashboard", handleDashboard(s)).Methods("GET")

	// GET /stats/activity - recent audit rows for the feed
	statsRouter.HandleFunc("/activity", handleRecentActivity(s)).Methods("GET")
}

func handleDashboard(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpItemUse); err != nil {
			respondStoreError(w, err)
			return
		}

		stats, err := s.Stats.Dashboard()
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, stats)
	}
}

func handleRecentActivity(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpAuditRead); err != nil {
			respondStoreError(w, err)
			return
		}

		entries, err := s.Stats.RecentActivity(20)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, entries)
	}
}
