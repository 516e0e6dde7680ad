package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/server"
)

// RegisterTemplatesEndpoints registers the metadata template endpoints.
func RegisterTemplatesEndpoints(s *server.Server) {
	templatesRouter := s.Router.PathPrefix("/templates").Subrouter()
	templatesRouter.Use(s.SessionMiddleware.Middleware)

	// GET /templates - all metadata templates keyed by item type
	templatesRouter.HandleFunc("", handleListTemplates()).Methods("GET")

	// GET /templates/{type} - template for one item type
	templatesRouter.HandleFunc("/{type}", handleGetTemplate()).Methods("GET")
}

func handleListTemplates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, model.Templates())
	}
}

func handleGetTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, model.TemplateFor(mux.Vars(r)["type"]))
	}
}
