package endpoints

import (
	"errors"
	"net/http"

	"github.com/keyhaven/keyhaven/pkg/audit"
	"github.com/keyhaven/keyhaven/pkg/authn"
	"github.com/keyhaven/keyhaven/pkg/identity"
	"github.com/keyhaven/keyhaven/pkg/server"
)

// RegisterAuthEndpoints registers login and session endpoints.
func RegisterAuthEndpoints(s *server.Server) {
	router := s.Router

	// POST /auth/login - exchange an authorization code for a session
	router.HandleFunc("/auth/login", handleLogin(s)).Methods("POST")

	sessionRouter := router.PathPrefix("/auth").Subrouter()
	sessionRouter.Use(s.SessionMiddleware.Middleware)

	// GET /auth/me - current user
	sessionRouter.HandleFunc("/me", handleWhoAmI(s)).Methods("GET")

	// POST /auth/logout - audit the logout; tokens are not server-revocable
	sessionRouter.HandleFunc("/logout", handleLogout(s)).Methods("POST")
}

type loginRequest struct {
	Code string `json:"code"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

func handleLogin(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if !decodeJSONBody(w, r, &body) {
			return
		}
		if body.Code == "" {
			respondWithError(w, http.StatusBadRequest, "code required")
			return
		}

		profile, err := s.OAuth.Exchange(r.Context(), body.Code)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "code exchange failed")
			return
		}

		user, token, err := s.LoginService.Login(*profile)
		if err != nil {
			switch {
			case errors.Is(err, authn.ErrEmailDomainNotAllowed):
				respondWithError(w, http.StatusForbidden, err.Error())
			case errors.Is(err, authn.ErrUserInactive):
				respondWithError(w, http.StatusForbidden, err.Error())
			default:
				respondWithError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}

		s.Auditor.Log(audit.LoginEvent{
			Base: audit.Base{Actor: audit.Actor{
				UserID:    user.ID,
				UserEmail: user.Email,
				ClientIP:  identity.ClientIP(r),
				UserAgent: r.UserAgent(),
			}},
		})

		respondWithJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
	}
}

func handleWhoAmI(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		user, err := s.Users.FindByID(id.UserID)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, user)
	}
}

func handleLogout(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		s.Auditor.Log(audit.LogoutEvent{
			Base: audit.Base{Actor: audit.ActorFrom(id)},
		})
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
	}
}
