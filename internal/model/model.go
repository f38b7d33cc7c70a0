// Package model defines the core domain types for the event registry.
package model

import "time"

// Category classifies an event. The set is closed; anything outside it is
// rejected at the boundary.
type Category string

const (
	CategoryConference Category = "conference"
	CategorySport      Category = "sport"
	CategoryWorkshop   Category = "workshop"
	CategoryOther      Category = "other"
)

// ParseCategory converts a raw string into a Category, reporting whether
// it is one of the known values. Matching is exact and case-sensitive.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryConference, CategorySport, CategoryWorkshop, CategoryOther:
		return true
	}
	return false
}

// Event represents a schedulable activity that users register against.
// Events are immutable once created.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Category    Category  `json:"category"`
	MaxCapacity int       `json:"max_capacity"`
}

// User is a registrant. Users are keyed uniquely by email across the
// whole registry: the first registration with a new email creates the
// record, later registrations reuse it.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Registration binds one user to one event at a point in time.
type Registration struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	UserID           string    `json:"user_id"`
	RegistrationDate time.Time `json:"registration_date"`
}

// EventStatus is an event's derived standing with respect to new
// registrations. It is recomputed on demand and never stored.
type EventStatus string

const (
	StatusOpen   EventStatus = "open"
	StatusFull   EventStatus = "full"
	StatusClosed EventStatus = "closed"
)

// DeriveStatus computes an event's status from its registration count and
// the current time. When an event is both full and past its date, Full is
// reported.
func DeriveStatus(e Event, registered int, now time.Time) EventStatus {
	if registered >= e.MaxCapacity {
		return StatusFull
	}
	if now.After(e.Date) {
		return StatusClosed
	}
	return StatusOpen
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	MaxCapacity int    `json:"max_capacity"`
}

// RegisterRequest is the payload for registering for an event.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// RegisterResponse reports the outcome of a registration attempt.
type RegisterResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	Registration *Registration `json:"registration,omitempty"`
}

// EventDetail is an event together with its derived status and counters.
type EventDetail struct {
	Event
	Registered int         `json:"registered"`
	Remaining  int         `json:"remaining"`
	Status     EventStatus `json:"status"`
}

// Registrant is a registration joined with the registered user's details.
type Registrant struct {
	Registration
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AttemptResult summarises the outcome of a single registration attempt.
// Used in the concurrent test harness.
type AttemptResult struct {
	Email   string
	Success bool
	Err     error
}
