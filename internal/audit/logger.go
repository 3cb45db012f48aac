// Package audit records admin mutations as structured log entries.
package audit

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Entry is a single audit record.
type Entry struct {
	Timestamp  time.Time
	Action     string
	Actor      string
	Resource   string
	ResourceID string
	IPAddress  string
	Status     string // "success" or "failure"
	Details    map[string]string
}

type Logger struct {
	logger zerolog.Logger
}

func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger.With().Str("component", "audit").Logger()}
}

func (l *Logger) Log(entry Entry) {
	if l == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	event := l.logger.Info().
		Time("timestamp", entry.Timestamp).
		Str("action", entry.Action).
		Str("actor", entry.Actor).
		Str("status", entry.Status)
	if entry.Resource != "" {
		event = event.Str("resource", entry.Resource)
	}
	if entry.ResourceID != "" {
		event = event.Str("resource_id", entry.ResourceID)
	}
	if entry.IPAddress != "" {
		event = event.Str("ip", entry.IPAddress)
	}
	for key, value := range entry.Details {
		event = event.Str(key, value)
	}
	event.Msg("audit")
}

// LogRequest records a successful mutation attributed to the request's
// remote address and the given actor.
func (l *Logger) LogRequest(r *http.Request, action, actor, resource, resourceID string, details map[string]string) {
	ip := ""
	if r != nil {
		ip = r.RemoteAddr
	}
	l.Log(Entry{
		Action:     action,
		Actor:      actor,
		Resource:   resource,
		ResourceID: resourceID,
		IPAddress:  ip,
		Status:     "success",
		Details:    details,
	})
}
