package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/evento-labs/server/internal/api/problem"
	"github.com/evento-labs/server/internal/audit"
	"github.com/evento-labs/server/internal/domain/events"
)

const dateLayout = "2006-01-02"

type EventsHandler struct {
	Service *events.Service
	Audit   *audit.Logger
	Env     string
}

func NewEventsHandler(service *events.Service, auditLogger *audit.Logger, env string) *EventsHandler {
	return &EventsHandler{Service: service, Audit: auditLogger, Env: env}
}

type eventRequest struct {
	Name            string `json:"name" validate:"required"`
	Date            string `json:"date" validate:"required"`
	Location        string `json:"location" validate:"required"`
	MaxParticipants int    `json:"maxParticipants" validate:"required,gt=0"`
}

type participantResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type eventResponse struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Date            string                `json:"date"`
	Location        string                `json:"location"`
	MaxParticipants int                   `json:"maxParticipants"`
	Participants    []participantResponse `json:"participants"`
}

func toEventResponse(event *events.Event) eventResponse {
	participants := make([]participantResponse, 0, len(event.Participants))
	for _, p := range event.Participants {
		participants = append(participants, participantResponse{ID: p.ID, Username: p.Username})
	}
	return eventResponse{
		ID:              event.ID,
		Name:            event.Name,
		Date:            event.Date.Format(dateLayout),
		Location:        event.Location,
		MaxParticipants: event.MaxParticipants,
		Participants:    participants,
	}
}

func (h *EventsHandler) decodeEvent(w http.ResponseWriter, r *http.Request) (eventRequest, time.Time, bool) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
		return req, time.Time{}, false
	}
	if err := validate.Struct(req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
			problem.WithErrors(fieldErrors(err)))
		return req, time.Time{}, false
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env,
			problem.WithErrors(map[string]interface{}{"date": "must be a date in YYYY-MM-DD format"}))
		return req, time.Time{}, false
	}
	return req, date, true
}

func (h *EventsHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, events.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Event not found", err, h.Env)
	case errors.Is(err, events.ErrUserNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "User not found", err, h.Env)
	case errors.Is(err, events.ErrNotRegistered):
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "User is not registered for this event", err, h.Env)
	case errors.Is(err, events.ErrFull):
		problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Event is full", err, h.Env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
	}
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, date, ok := h.decodeEvent(w, r)
	if !ok {
		return
	}

	event, err := h.Service.Create(r.Context(), events.CreateParams{
		Name:            req.Name,
		Date:            date,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.Audit.LogRequest(r, "event.created", actorFrom(r), "event", event.ID, map[string]string{"name": event.Name})

	w.Header().Set("Location", "/events/"+event.ID)
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.Service.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	items := make([]eventResponse, 0, len(all))
	for i := range all {
		items = append(items, toEventResponse(&all[i]))
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

// Update replaces an event's fields wholesale. The participant set is
// untouched.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, date, ok := h.decodeEvent(w, r)
	if !ok {
		return
	}

	event, err := h.Service.Update(r.Context(), r.PathValue("id"), events.UpdateParams{
		Name:            req.Name,
		Date:            date,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.Audit.LogRequest(r, "event.updated", actorFrom(r), "event", event.ID, nil)
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.Audit.LogRequest(r, "event.deleted", actorFrom(r), "event", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

// Register adds the user named by the userId query parameter to the
// event's participant set.
func (h *EventsHandler) Register(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", nil, h.Env,
			problem.WithErrors(map[string]interface{}{"userId": "is required"}))
		return
	}

	if err := h.Service.Register(r.Context(), eventID, userID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.Audit.LogRequest(r, "event.registered", actorFrom(r), "event", eventID, map[string]string{"user_id": userID})
	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

// Unregister removes the user named by the userId query parameter from
// the event's participant set.
func (h *EventsHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", nil, h.Env,
			problem.WithErrors(map[string]interface{}{"userId": "is required"}))
		return
	}

	if err := h.Service.Unregister(r.Context(), eventID, userID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.Audit.LogRequest(r, "event.unregistered", actorFrom(r), "event", eventID, map[string]string{"user_id": userID})
	writeJSON(w, http.StatusOK, map[string]string{"message": "User unregistered successfully"})
}
