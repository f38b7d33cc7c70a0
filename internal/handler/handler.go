// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dkoster/event-registry/internal/model"
	"github.com/dkoster/event-registry/internal/registry"
	"github.com/dkoster/event-registry/internal/service"
	"github.com/go-chi/chi/v5"
)

// Status messages shown to registrants, kept word-for-word stable for
// clients that display them directly.
const (
	msgSuccess           = "Registration successful!"
	msgEventNotFound     = "Event not found."
	msgRegistrationClose = "Registration closed. Event has already passed."
	msgEventFull         = "Event is full."
	msgAlreadyRegistered = "User with this email is already registered for this event."
)

// EventHandler holds all HTTP handlers for the event registry API.
type EventHandler struct {
	svc *service.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// CreateEvent handles POST /events
// Creates a new event with the given title, date, location, category,
// and capacity.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.CreateEvent(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /events?category=
// Returns all events sorted by date, optionally filtered by category.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events := h.svc.ListEvents(r.URL.Query().Get("category"))

	// Return an empty array rather than null for better client compatibility.
	if events == nil {
		events = []model.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{id}
// Returns the event plus its derived open/full/closed status and seat
// counters as of the current time. The status is never stored.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.svc.GetEventDetail(id, time.Now())
	if err != nil {
		if errors.Is(err, registry.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Register handles POST /events/{id}/register
// Attempts an atomic registration for the event at the current wall-clock
// time and reports the outcome as a {success, message} envelope.
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reg, err := h.svc.Register(id, req, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrEventNotFound):
			writeJSON(w, http.StatusNotFound, model.RegisterResponse{Message: msgEventNotFound})
		case errors.Is(err, registry.ErrRegistrationClosed):
			writeJSON(w, http.StatusConflict, model.RegisterResponse{Message: msgRegistrationClose})
		case errors.Is(err, registry.ErrEventFull):
			writeJSON(w, http.StatusConflict, model.RegisterResponse{Message: msgEventFull})
		case errors.Is(err, registry.ErrAlreadyRegistered):
			writeJSON(w, http.StatusConflict, model.RegisterResponse{Message: msgAlreadyRegistered})
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, model.RegisterResponse{
		Success:      true,
		Message:      msgSuccess,
		Registration: reg,
	})
}

// ListRegistrations handles GET /events/{id}/registrations
// Returns all registrants for a given event in registration order.
func (h *EventHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	regs, err := h.svc.ListRegistrants(id)
	if err != nil {
		if errors.Is(err, registry.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list registrations")
		return
	}

	if regs == nil {
		regs = []model.Registrant{}
	}

	writeJSON(w, http.StatusOK, regs)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
