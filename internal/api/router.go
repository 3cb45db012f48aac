// Package api wires handlers, middleware and metrics into the HTTP router.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/evento-labs/server/internal/api/handlers"
	"github.com/evento-labs/server/internal/api/middleware"
	"github.com/evento-labs/server/internal/audit"
	"github.com/evento-labs/server/internal/auth"
	"github.com/evento-labs/server/internal/config"
	"github.com/evento-labs/server/internal/domain/events"
	"github.com/evento-labs/server/internal/domain/users"
	"github.com/evento-labs/server/internal/metrics"
	"github.com/evento-labs/server/internal/storage"
)

// NewRouter assembles the full HTTP handler chain over the given storage
// backend.
func NewRouter(cfg config.Config, logger zerolog.Logger, repo storage.Repository) http.Handler {
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	userService := users.NewService(repo.Users())
	eventService := events.NewService(repo.Events(), repo.Users())
	auditLogger := audit.NewLogger(logger)

	env := cfg.Environment
	authHandler := handlers.NewAuthHandler(userService, tokens, env)
	usersHandler := handlers.NewUsersHandler(userService, auditLogger, env)
	eventsHandler := handlers.NewEventsHandler(eventService, auditLogger, env)
	healthHandler := handlers.NewHealthHandler(repo, Version)

	requireAdmin := middleware.RequireRole(env, auth.RoleAdmin)
	requireAnyRole := middleware.RequireRole(env, auth.RoleAdmin, auth.RoleUser)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.HandleFunc("GET /readyz", healthHandler.Readyz)
	mux.Handle("GET /version", VersionHandler())
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /login", authHandler.Login)

	mux.Handle("POST /events", requireAdmin(http.HandlerFunc(eventsHandler.Create)))
	mux.Handle("GET /events", requireAnyRole(http.HandlerFunc(eventsHandler.List)))
	mux.Handle("GET /events/{id}", requireAnyRole(http.HandlerFunc(eventsHandler.Get)))
	mux.Handle("PUT /events/{id}", requireAdmin(http.HandlerFunc(eventsHandler.Update)))
	mux.Handle("DELETE /events/{id}", requireAdmin(http.HandlerFunc(eventsHandler.Delete)))
	mux.Handle("POST /events/{id}/register", requireAnyRole(http.HandlerFunc(eventsHandler.Register)))
	mux.Handle("DELETE /events/{id}/unregister", requireAdmin(http.HandlerFunc(eventsHandler.Unregister)))

	mux.Handle("POST /user/register", requireAdmin(http.HandlerFunc(usersHandler.Register)))
	mux.Handle("GET /user/{id}", requireAnyRole(http.HandlerFunc(usersHandler.Get)))
	mux.Handle("GET /user", requireAdmin(http.HandlerFunc(usersHandler.List)))

	var handler http.Handler = mux
	handler = middleware.Authenticate(tokens, userService, env)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	return handler
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
