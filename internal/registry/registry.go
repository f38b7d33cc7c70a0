// Package registry implements the in-memory event registration registry.
// It owns the event, user, and registration collections and is the single
// point of truth for add/query/register operations.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dkoster/event-registry/internal/model"
	"github.com/google/uuid"
)

// ErrInvalidInput is returned for malformed AddEvent arguments.
var ErrInvalidInput = errors.New("invalid input")

// ErrEventNotFound is returned when an event id resolves to nothing.
var ErrEventNotFound = errors.New("event not found")

// ErrUserNotFound is returned when a user id resolves to nothing.
var ErrUserNotFound = errors.New("user not found")

// ErrRegistrationClosed is returned when the event's date has passed.
var ErrRegistrationClosed = errors.New("registration closed, event has passed")

// ErrEventFull is returned when an event has no remaining capacity.
var ErrEventFull = errors.New("event is fully booked")

// ErrAlreadyRegistered is returned when the same email registers twice
// for one event.
var ErrAlreadyRegistered = errors.New("email already registered for this event")

// EventFilter restricts ListEvents. The zero filter matches everything.
type EventFilter struct {
	// Category, when non-empty, keeps only exact (case-sensitive) matches.
	Category model.Category
}

// Registry is a thread-safe in-memory store for events, users, and
// registrations. All mutation goes through its methods; one lock guards
// the three collections so Register's check-then-act sequence is atomic
// with respect to concurrent callers.
//
// ─────────────────────────────────────────────────────────────────────────────
// RACE CONDITION EXPLAINED
// ─────────────────────────────────────────────────────────────────────────────
//
// Naive check-then-act without the lock (BROKEN):
//
//	goroutine A: len(regs) == 9, capacity 10 → free seat, proceed
//	goroutine B: len(regs) == 9, capacity 10 → free seat, proceed
//	goroutine A: append registration → 10 registrations
//	goroutine B: append registration → 11 registrations. OVERBOOKED.
//
// Both goroutines read the registration count before either appended, so
// both observed free capacity. The same interleaving lets two attempts
// with one email both pass the duplicate scan.
//
// Register therefore holds the write lock across the entire read-check-
// append sequence, serialising concurrent attempts on the last seat and
// on duplicate emails. Read-only operations share the read lock, so they
// never observe a partially written registration.
// ─────────────────────────────────────────────────────────────────────────────
type Registry struct {
	mu           sync.RWMutex
	events       []*model.Event // insertion order, keeps the date sort stable
	eventsByID   map[string]*model.Event
	usersByID    map[string]*model.User
	usersByEmail map[string]*model.User
	regsByEvent  map[string][]*model.Registration
}

// New constructs an empty Registry. Callers share one instance and pass
// it down explicitly; there is no package-level state.
func New() *Registry {
	return &Registry{
		eventsByID:   make(map[string]*model.Event),
		usersByID:    make(map[string]*model.User),
		usersByEmail: make(map[string]*model.User),
		regsByEvent:  make(map[string][]*model.Registration),
	}
}

// AddEvent validates the arguments, stores a new immutable event, and
// returns its generated id. Text fields are accepted verbatim.
func (r *Registry) AddEvent(title, description string, date time.Time, location string, category model.Category, maxCapacity int) (string, error) {
	if maxCapacity <= 0 {
		return "", fmt.Errorf("%w: max capacity must be positive, got %d", ErrInvalidInput, maxCapacity)
	}
	if !category.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}
	if date.IsZero() {
		return "", fmt.Errorf("%w: event date is required", ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e := &model.Event{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Date:        date,
		Location:    location,
		Category:    category,
		MaxCapacity: maxCapacity,
	}
	r.events = append(r.events, e)
	r.eventsByID[e.ID] = e
	return e.ID, nil
}

// ListEvents returns a snapshot of events sorted ascending by date, with
// ties kept in insertion order. A non-empty filter category restricts the
// result to exact matches; an empty result is a valid answer.
func (r *Registry) ListEvents(filter EventFilter) []model.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Event, 0, len(r.events))
	for _, e := range r.events {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// GetEvent returns a copy of the event with the given id, or
// ErrEventNotFound. Events are only ever mutated through the Registry,
// so the copy keeps callers read-only.
func (r *Registry) GetEvent(id string) (*model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.eventsByID[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

// GetUser returns a copy of the user with the given id, or ErrUserNotFound.
func (r *Registry) GetUser(id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.usersByID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// ListRegistrationsForEvent returns copies of all registrations for the
// event in insertion order. An unknown id yields an empty slice — to the
// caller it reads as "no registrations yet", not an error.
func (r *Registry) ListRegistrationsForEvent(eventID string) []model.Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := r.regsByEvent[eventID]
	out := make([]model.Registration, len(regs))
	for i, reg := range regs {
		out[i] = *reg
	}
	return out
}

// Registrants returns each registration for the event joined with the
// registered user's details, in insertion order.
func (r *Registry) Registrants(eventID string) []model.Registrant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := r.regsByEvent[eventID]
	out := make([]model.Registrant, len(regs))
	for i, reg := range regs {
		u := r.usersByID[reg.UserID]
		out[i] = model.Registrant{
			Registration: *reg,
			FullName:     u.FullName,
			Email:        u.Email,
		}
	}
	return out
}

// Register attempts to register email for the event at time now.
//
// The checks run in a fixed order and short-circuit at the first failure,
// so outcomes are deterministic for callers:
//
//  1. the event must exist                      → ErrEventNotFound
//  2. now must not be after the event's date    → ErrRegistrationClosed
//  3. the event must have a free seat           → ErrEventFull
//  4. the email must not already hold a seat    → ErrAlreadyRegistered
//
// On success the user record is found by email or created, and the new
// registration is returned. The whole sequence runs under the write lock:
// two concurrent attempts for the last seat, or with the same email,
// cannot both succeed.
func (r *Registry) Register(fullName, email, eventID string, now time.Time) (*model.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.eventsByID[eventID]
	if !ok {
		return nil, ErrEventNotFound
	}
	if now.After(e.Date) {
		return nil, ErrRegistrationClosed
	}

	regs := r.regsByEvent[eventID]
	// Capacity before the duplicate scan: once the event is full, every
	// attempt reports full, repeat emails included.
	if len(regs) >= e.MaxCapacity {
		return nil, ErrEventFull
	}
	for _, reg := range regs {
		if r.usersByID[reg.UserID].Email == email {
			return nil, ErrAlreadyRegistered
		}
	}

	// One user record per email across the whole registry, regardless of
	// which event first saw it.
	u, ok := r.usersByEmail[email]
	if !ok {
		u = &model.User{
			ID:       uuid.NewString(),
			FullName: fullName,
			Email:    email,
		}
		r.usersByEmail[email] = u
		r.usersByID[u.ID] = u
	}

	reg := &model.Registration{
		ID:               uuid.NewString(),
		EventID:          eventID,
		UserID:           u.ID,
		RegistrationDate: now,
	}
	r.regsByEvent[eventID] = append(regs, reg)

	copied := *reg
	return &copied, nil
}
