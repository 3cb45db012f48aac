// Package handlers contains the HTTP handlers for the API surface.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/evento-labs/server/internal/api/middleware"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// actorFrom names the authenticated caller for audit entries.
func actorFrom(r *http.Request) string {
	if p := middleware.PrincipalFrom(r); p != nil && p.User != nil {
		return p.User.Username
	}
	return "anonymous"
}
