package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evento-labs/server/internal/api/problem"
	"github.com/evento-labs/server/internal/audit"
	"github.com/evento-labs/server/internal/domain/users"
)

type UsersHandler struct {
	Service *users.Service
	Audit   *audit.Logger
	Env     string
}

func NewUsersHandler(service *users.Service, auditLogger *audit.Logger, env string) *UsersHandler {
	return &UsersHandler{Service: service, Audit: auditLogger, Env: env}
}

type userRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func toUserResponse(user *users.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}
}

// Register creates a new user account.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
			problem.WithErrors(fieldErrors(err)))
		return
	}

	user, err := h.Service.Register(r.Context(), users.RegisterParams{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidRole):
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
				problem.WithErrors(map[string]interface{}{"role": "must be ADMIN or USER"}))
		case errors.Is(err, users.ErrUsernameTaken):
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Username already taken", err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		}
		return
	}

	h.Audit.LogRequest(r, "user.created", actorFrom(r), "user", user.ID, map[string]string{
		"username": user.Username,
		"role":     string(user.Role),
	})

	w.Header().Set("Location", "/user/"+user.ID)
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Get returns a single user by id.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "User not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// List returns all users, sorted by username.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.Service.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	items := make([]userResponse, 0, len(all))
	for i := range all {
		items = append(items, toUserResponse(&all[i]))
	}
	writeJSON(w, http.StatusOK, items)
}
