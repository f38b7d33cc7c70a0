// Package service implements boundary validation and orchestration
// between HTTP handlers and the registry.
package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dkoster/event-registry/internal/model"
	"github.com/dkoster/event-registry/internal/registry"
)

// EventService turns raw request payloads into the typed arguments the
// registry expects, rejecting malformed input before any state is touched.
type EventService struct {
	registry *registry.Registry
}

// NewEventService constructs an EventService around a registry instance.
func NewEventService(reg *registry.Registry) *EventService {
	return &EventService{registry: reg}
}

// dateLayouts are the accepted event date formats: RFC3339, plus the
// shorter shape a datetime-local form field submits.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04"}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, want RFC3339", raw)
}

// CreateEvent validates the request and delegates to the registry.
func (s *EventService) CreateEvent(req model.CreateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if req.MaxCapacity <= 0 {
		return nil, fmt.Errorf("max_capacity must be a positive integer")
	}
	if req.MaxCapacity > 100_000 {
		return nil, fmt.Errorf("max_capacity cannot exceed 100,000")
	}
	category, ok := model.ParseCategory(req.Category)
	if !ok {
		return nil, fmt.Errorf("category must be one of conference, sport, workshop, other")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	id, err := s.registry.AddEvent(req.Title, req.Description, date, strings.TrimSpace(req.Location), category, req.MaxCapacity)
	if err != nil {
		return nil, err
	}
	return s.registry.GetEvent(id)
}

// ListEvents returns all events, optionally restricted to one category.
// An unknown category simply matches nothing.
func (s *EventService) ListEvents(category string) []model.Event {
	return s.registry.ListEvents(registry.EventFilter{Category: model.Category(category)})
}

// GetEventDetail returns an event together with its derived status and
// registration counters as of now.
func (s *EventService) GetEventDetail(id string, now time.Time) (*model.EventDetail, error) {
	if id == "" {
		return nil, fmt.Errorf("event id is required")
	}
	event, err := s.registry.GetEvent(id)
	if err != nil {
		return nil, err
	}
	registered := len(s.registry.ListRegistrationsForEvent(id))
	return &model.EventDetail{
		Event:      *event,
		Registered: registered,
		Remaining:  event.MaxCapacity - registered,
		Status:     model.DeriveStatus(*event, registered, now),
	}, nil
}

// Register validates the registration request and delegates the atomic
// check-then-act to the registry.
//
// Emails are trimmed but never case-folded: duplicate detection is an
// exact, case-sensitive match.
func (s *EventService) Register(eventID string, req model.RegisterRequest, now time.Time) (*model.Registration, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" {
		return nil, fmt.Errorf("full_name is required")
	}
	if req.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !isValidEmail(req.Email) {
		return nil, fmt.Errorf("email is not a valid email address")
	}
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}

	return s.registry.Register(req.FullName, req.Email, eventID, now)
}

// ListRegistrants returns all registrations for an event joined with
// user details. Unlike the registry's empty-slice contract, the service
// reports an unknown event id so handlers can answer 404.
func (s *EventService) ListRegistrants(eventID string) ([]model.Registrant, error) {
	if _, err := s.registry.GetEvent(eventID); err != nil {
		return nil, err
	}
	return s.registry.Registrants(eventID), nil
}

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
