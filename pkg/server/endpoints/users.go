package endpoints

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/keyhaven/keyhaven/pkg/audit"
	"github.com/keyhaven/keyhaven/pkg/identity"
	"github.com/keyhaven/keyhaven/pkg/model"
	"github.com/keyhaven/keyhaven/pkg/policy"
	"github.com/keyhaven/keyhaven/pkg/server"
)

// RegisterUsersEndpoints registers the user administration endpoints.
func RegisterUsersEndpoints(s *server.Server) {
	usersRouter := s.Router.PathPrefix("/users").Subrouter()
	usersRouter.Use(s.SessionMiddleware.Middleware)

	// GET /users - list users
	usersRouter.HandleFunc("", handleListUsers(s)).Methods("GET")

	// POST /users/invite - create a pending user
	usersRouter.HandleFunc("/invite", handleInviteUser(s)).Methods("POST")

	// PUT /users/{id}/role - change role, admin only
	usersRouter.HandleFunc("/{id}/role", handleUpdateUserRole(s)).Methods("PUT")

	// PUT /users/{id}/status - activate or deactivate
	usersRouter.HandleFunc("/{id}/status", handleUpdateUserStatus(s)).Methods("PUT")
}

func handleListUsers(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpUserManage); err != nil {
			respondStoreError(w, err)
			return
		}

		users, err := s.Users.List()
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, users)
	}
}

type inviteUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func handleInviteUser(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpUserManage); err != nil {
			respondStoreError(w, err)
			return
		}

		var body inviteUserRequest
		if !decodeJSONBody(w, r, &body) {
			return
		}
		email := strings.ToLower(strings.TrimSpace(body.Email))
		if email == "" {
			respondWithError(w, http.StatusUnprocessableEntity, "email required")
			return
		}
		if !model.ValidRole(body.Role) {
			respondWithError(w, http.StatusUnprocessableEntity, "unknown role")
			return
		}
		// Only admins hand out the admin role.
		if body.Role == model.RoleAdmin && !id.IsAdmin() {
			respondStoreError(w, policy.ErrPermissionDenied)
			return
		}

		existing, err := s.Users.FindByEmail(email)
		if err != nil {
			respondStoreError(w, err)
			return
		}
		if existing != nil {
			respondWithError(w, http.StatusConflict, "user already exists")
			return
		}

		user := &model.User{
			ID:     uuid.NewString(),
			Email:  email,
			Name:   body.Name,
			Role:   body.Role,
			Status: model.StatusPending,
		}
		if err := s.Users.Create(user); err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.UserInvitedEvent{
			Base:         audit.Base{Actor: audit.ActorFrom(id)},
			InvitedEmail: user.Email,
			Role:         user.Role,
		})
		respondWithJSON(w, http.StatusCreated, user)
	}
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func handleUpdateUserRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpUserRoleUpdate); err != nil {
			respondStoreError(w, err)
			return
		}

		var body updateRoleRequest
		if !decodeJSONBody(w, r, &body) {
			return
		}
		if !model.ValidRole(body.Role) {
			respondWithError(w, http.StatusUnprocessableEntity, "unknown role")
			return
		}

		user, err := s.Users.FindByID(mux.Vars(r)["id"])
		if err != nil {
			respondStoreError(w, err)
			return
		}
		if user.ID == id.UserID {
			respondWithError(w, http.StatusBadRequest, "cannot change own role")
			return
		}

		user.Role = body.Role
		if err := s.Users.Update(user); err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.UserRoleUpdatedEvent{
			Base:        audit.Base{Actor: audit.ActorFrom(id)},
			TargetEmail: user.Email,
			NewRole:     user.Role,
		})
		respondWithJSON(w, http.StatusOK, user)
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func handleUpdateUserStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if err := policy.Check(id.Role, policy.OpUserManage); err != nil {
			respondStoreError(w, err)
			return
		}

		var body updateStatusRequest
		if !decodeJSONBody(w, r, &body) {
			return
		}
		if !model.ValidUserStatus(body.Status) {
			respondWithError(w, http.StatusUnprocessableEntity, "unknown status")
			return
		}

		user, err := s.Users.FindByID(mux.Vars(r)["id"])
		if err != nil {
			respondStoreError(w, err)
			return
		}
		if user.ID == id.UserID {
			respondWithError(w, http.StatusBadRequest, "cannot change own status")
			return
		}

		user.Status = body.Status
		if err := s.Users.Update(user); err != nil {
			respondStoreError(w, err)
			return
		}

		s.Auditor.Log(audit.UserStatusUpdatedEvent{
			Base:        audit.Base{Actor: audit.ActorFrom(id)},
			TargetEmail: user.Email,
			NewStatus:   user.Status,
		})
		respondWithJSON(w, http.StatusOK, user)
	}
}
