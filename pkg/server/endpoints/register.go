package endpoints

import (
	"net/http"

	"github.com/keyhaven/keyhaven/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterAuthEndpoints(srv)
	RegisterUsersEndpoints(srv)
	RegisterVaultsEndpoints(srv)
	RegisterItemsEndpoints(srv)
	RegisterShareEndpoints(srv)
	RegisterJITEndpoints(srv)
	RegisterBreakGlassEndpoints(srv)
	RegisterAuditEndpoints(srv)
	RegisterStatsEndpoints(srv)
	RegisterImportEndpoints(srv)
	RegisterTemplatesEndpoints(srv)
	RegisterSettingsEndpoints(srv)
	RegisterStatusEndpoint(srv)
}

// RegisterStatusEndpoint registers the unauthenticated health endpoint.
func RegisterStatusEndpoint(srv *server.Server) {
	srv.Router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
}
