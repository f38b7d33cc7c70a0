package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoster/event-registry/internal/model"
	"github.com/dkoster/event-registry/internal/registry"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService() *EventService {
	return NewEventService(registry.New())
}

func validCreateRequest() model.CreateEventRequest {
	return model.CreateEventRequest{
		Title:       "GopherCon",
		Description: "talks and hallway track",
		Date:        "2026-09-01T09:00:00Z",
		Location:    "Berlin",
		Category:    "conference",
		MaxCapacity: 300,
	}
}

func TestCreateEvent_Valid(t *testing.T) {
	svc := newTestService()

	event, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "GopherCon", event.Title)
	assert.Equal(t, model.CategoryConference, event.Category)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), event.Date)
}

func TestCreateEvent_AcceptsDatetimeLocalFormat(t *testing.T) {
	svc := newTestService()

	req := validCreateRequest()
	req.Date = "2026-09-01T09:00"
	event, err := svc.CreateEvent(req)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), event.Date)
}

func TestCreateEvent_RejectsMalformedInput(t *testing.T) {
	svc := newTestService()

	cases := []struct {
		name   string
		mutate func(*model.CreateEventRequest)
	}{
		{"empty title", func(r *model.CreateEventRequest) { r.Title = "   " }},
		{"zero capacity", func(r *model.CreateEventRequest) { r.MaxCapacity = 0 }},
		{"negative capacity", func(r *model.CreateEventRequest) { r.MaxCapacity = -3 }},
		{"huge capacity", func(r *model.CreateEventRequest) { r.MaxCapacity = 200_000 }},
		{"unknown category", func(r *model.CreateEventRequest) { r.Category = "concert" }},
		{"cased category", func(r *model.CreateEventRequest) { r.Category = "Conference" }},
		{"garbage date", func(r *model.CreateEventRequest) { r.Date = "next tuesday" }},
		{"empty date", func(r *model.CreateEventRequest) { r.Date = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)
			_, err := svc.CreateEvent(req)
			require.Error(t, err)
		})
	}

	assert.Empty(t, svc.ListEvents(""), "rejected requests must not create events")
}

func TestListEvents_CategoryPassthrough(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)

	assert.Len(t, svc.ListEvents(""), 1)
	assert.Len(t, svc.ListEvents("conference"), 1)
	assert.Empty(t, svc.ListEvents("sport"))
	assert.Empty(t, svc.ListEvents("Conference"), "filter is exact and case-sensitive")
}

func TestGetEventDetail_DerivesStatus(t *testing.T) {
	svc := newTestService()

	event, err := svc.CreateEvent(model.CreateEventRequest{
		Title: "Tiny Workshop", Date: "2026-09-01T09:00:00Z",
		Category: "workshop", MaxCapacity: 1,
	})
	require.NoError(t, err)

	detail, err := svc.GetEventDetail(event.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, detail.Status)
	assert.Equal(t, 0, detail.Registered)
	assert.Equal(t, 1, detail.Remaining)

	_, err = svc.Register(event.ID, model.RegisterRequest{FullName: "Alice", Email: "a@x.com"}, testNow)
	require.NoError(t, err)

	detail, err = svc.GetEventDetail(event.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFull, detail.Status)
	assert.Equal(t, 0, detail.Remaining)

	// Past the date and full: Full is reported.
	detail, err = svc.GetEventDetail(event.ID, testNow.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, model.StatusFull, detail.Status)
}

func TestGetEventDetail_ClosedAfterDate(t *testing.T) {
	svc := newTestService()

	event, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)

	detail, err := svc.GetEventDetail(event.ID, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, detail.Status)
}

func TestGetEventDetail_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetEventDetail("no-such-id", testNow)
	require.ErrorIs(t, err, registry.ErrEventNotFound)
}

func TestRegister_ValidatesInput(t *testing.T) {
	svc := newTestService()

	event, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)

	cases := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"empty name", model.RegisterRequest{FullName: " ", Email: "a@x.com"}},
		{"empty email", model.RegisterRequest{FullName: "Alice", Email: ""}},
		{"no at-sign", model.RegisterRequest{FullName: "Alice", Email: "ax.com"}},
		{"no domain dot", model.RegisterRequest{FullName: "Alice", Email: "a@xcom"}},
		{"double at-sign", model.RegisterRequest{FullName: "Alice", Email: "a@@x.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(event.ID, tc.req, testNow)
			require.Error(t, err)
		})
	}
}

func TestRegister_DoesNotLowercaseEmail(t *testing.T) {
	svc := newTestService()

	event, err := svc.CreateEvent(validCreateRequest())
	require.NoError(t, err)

	reg, err := svc.Register(event.ID, model.RegisterRequest{FullName: "Alice", Email: "Alice@X.com"}, testNow)
	require.NoError(t, err)

	registrants, err := svc.ListRegistrants(event.ID)
	require.NoError(t, err)
	require.Len(t, registrants, 1)
	assert.Equal(t, "Alice@X.com", registrants[0].Email)
	assert.Equal(t, reg.ID, registrants[0].Registration.ID)
}

func TestRegister_PassesThroughDomainOutcomes(t *testing.T) {
	svc := newTestService()

	req := validCreateRequest()
	req.MaxCapacity = 1
	event, err := svc.CreateEvent(req)
	require.NoError(t, err)

	_, err = svc.Register(event.ID, model.RegisterRequest{FullName: "Alice", Email: "a@x.com"}, testNow)
	require.NoError(t, err)

	_, err = svc.Register(event.ID, model.RegisterRequest{FullName: "Bob", Email: "b@y.com"}, testNow)
	require.ErrorIs(t, err, registry.ErrEventFull)

	_, err = svc.Register("no-such-id", model.RegisterRequest{FullName: "Bob", Email: "b@y.com"}, testNow)
	require.ErrorIs(t, err, registry.ErrEventNotFound)
}

func TestListRegistrants_UnknownEvent(t *testing.T) {
	svc := newTestService()

	_, err := svc.ListRegistrants("no-such-id")
	require.ErrorIs(t, err, registry.ErrEventNotFound)
}
