package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evento-labs/server/internal/api/problem"
	"github.com/evento-labs/server/internal/auth"
	"github.com/evento-labs/server/internal/domain/users"
)

type AuthHandler struct {
	Users  *users.Service
	Tokens *auth.TokenManager
	Env    string
}

func NewAuthHandler(userService *users.Service, tokens *auth.TokenManager, env string) *AuthHandler {
	return &AuthHandler{Users: userService, Tokens: tokens, Env: env}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges valid credentials for a signed bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
			problem.WithErrors(fieldErrors(err)))
		return
	}

	user, err := h.Users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Invalid credentials", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	token, err := h.Tokens.Generate(user.Username, user.Role)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}
