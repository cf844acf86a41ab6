package calendar_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/autoelectric/shopsvc"
	"github.com/autoelectric/shopsvc/calendar"
)

const calendarID = "shop-calendar"

// fakeCalendar is an in-memory stand-in for the Google Calendar events API.
type fakeCalendar struct {
	mu       sync.Mutex
	events   map[string]*gcal.Event
	list     []*gcal.Event
	failList bool
	queries  []url.Values
	updates  []url.Values
}

func newFakeCalendar(t *testing.T) (*fakeCalendar, *httptest.Server) {
	t.Helper()
	f := &fakeCalendar{events: map[string]*gcal.Event{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /calendars/{cal}/events", f.handleList)
	mux.HandleFunc("POST /calendars/{cal}/events", f.handleInsert)
	mux.HandleFunc("GET /calendars/{cal}/events/{id}", f.handleGet)
	mux.HandleFunc("PUT /calendars/{cal}/events/{id}", f.handleUpdate)
	mux.HandleFunc("DELETE /calendars/{cal}/events/{id}", f.handleDelete)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error": map[string]any{"code": 404, "message": "Not Found"},
	})
}

func (f *fakeCalendar) handleList(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, r.URL.Query())

	if f.failList || r.PathValue("cal") != calendarID {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": map[string]any{"code": 500, "message": "backend error"},
		})
		return
	}
	writeJSON(w, http.StatusOK, &gcal.Events{Items: f.list})
}

func (f *fakeCalendar) handleInsert(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ev gcal.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"code": 400, "message": err.Error()}})
		return
	}
	f.updates = append(f.updates, r.URL.Query())
	f.events[ev.Id] = &ev
	writeJSON(w, http.StatusOK, &ev)
}

func (f *fakeCalendar) handleGet(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ev, ok := f.events[r.PathValue("id")]
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (f *fakeCalendar) handleUpdate(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := r.PathValue("id")
	if _, ok := f.events[id]; !ok {
		notFound(w)
		return
	}
	var ev gcal.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"code": 400, "message": err.Error()}})
		return
	}
	f.updates = append(f.updates, r.URL.Query())
	f.events[id] = &ev
	writeJSON(w, http.StatusOK, &ev)
}

func (f *fakeCalendar) handleDelete(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := r.PathValue("id")
	if _, ok := f.events[id]; !ok {
		notFound(w)
		return
	}
	f.updates = append(f.updates, r.URL.Query())
	delete(f.events, id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeCalendar) event(id string) *gcal.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[id]
}

func newService(t *testing.T, srv *httptest.Server) *calendar.Service {
	t.Helper()
	svc := calendar.NewWithOptions(context.Background(), zap.NewNop().Sugar(), calendarID, "",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	if !svc.Enabled() {
		t.Fatal("service not enabled")
	}
	return svc
}

var booking = shopsvc.Booking{
	CustomerName:  "Jane Doe",
	CustomerEmail: "jane@x.com",
	CustomerPhone: "4065550100",
	Service:       "Alternator",
	Vehicle:       "2012 Tacoma",
	Date:          "2024-06-01",
	Time:          "09:00",
	Notes:         "rattles",
}

func unavailable(slots []shopsvc.Slot) []string {
	var out []string
	for _, s := range slots {
		if !s.Available {
			out = append(out, s.Start)
		}
	}
	return out
}

func TestUnconfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  calendar.Config
	}{
		{"empty", calendar.Config{}},
		{"no calendar id", calendar.Config{ServiceAccountKey: `{"client_email":"a@b","private_key":"k"}`}},
		{"no key", calendar.Config{CalendarID: calendarID}},
		{"malformed key", calendar.Config{ServiceAccountKey: "not json", CalendarID: calendarID}},
		{"key without email", calendar.Config{ServiceAccountKey: `{"private_key":"k"}`, CalendarID: calendarID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc := calendar.New(ctx, zap.NewNop().Sugar(), tt.cfg)

			if svc.Enabled() {
				t.Fatal("reports enabled")
			}
			if id, ok := svc.CreateAppointment(ctx, booking); ok || id != "" {
				t.Errorf("CreateAppointment = (%q, %v), want (\"\", false)", id, ok)
			}
			if svc.UpdateAppointment(ctx, "abc", booking) {
				t.Error("UpdateAppointment returned true")
			}
			if svc.CancelAppointment(ctx, "abc") {
				t.Error("CancelAppointment returned true")
			}

			first := svc.AvailableSlots(ctx, "2024-06-01")
			second := svc.AvailableSlots(ctx, "2024-06-01")
			if !reflect.DeepEqual(first, second) {
				t.Error("repeated calls differ")
			}
			if !reflect.DeepEqual(first, calendar.DefaultSlots()) {
				t.Errorf("slots = %v, want all available", first)
			}
		})
	}
}

func TestCreateAppointment(t *testing.T) {
	fake, srv := newFakeCalendar(t)
	svc := newService(t, srv)

	id, ok := svc.CreateAppointment(context.Background(), booking)
	if !ok {
		t.Fatal("expected event to be created")
	}
	if len(id) != 32 || strings.Trim(id, "0123456789abcdef") != "" {
		t.Errorf("event id %q is not 32 lowercase hex characters", id)
	}

	ev := fake.event(id)
	if ev == nil {
		t.Fatalf("event %q not stored", id)
	}
	if ev.Summary != "Alternator - Jane Doe" {
		t.Errorf("summary = %q", ev.Summary)
	}
	if !strings.Contains(ev.Description, "Phone: 4065550100") || !strings.Contains(ev.Description, "Notes: rattles") {
		t.Errorf("description = %q", ev.Description)
	}
	if ev.Start.DateTime != "2024-06-01T09:00:00-06:00" || ev.End.DateTime != "2024-06-01T10:00:00-06:00" {
		t.Errorf("window = %s - %s", ev.Start.DateTime, ev.End.DateTime)
	}
	if ev.Start.TimeZone != calendar.DefaultTimeZone {
		t.Errorf("time zone = %q", ev.Start.TimeZone)
	}
	if ev.Reminders == nil || !ev.Reminders.UseDefault {
		t.Error("default reminders not requested")
	}
	if got := fake.updates[0].Get("sendUpdates"); got != "all" {
		t.Errorf("sendUpdates = %q", got)
	}
}

func TestCreateAppointmentWithoutNotes(t *testing.T) {
	fake, srv := newFakeCalendar(t)
	svc := newService(t, srv)

	b := booking
	b.Notes = ""
	b.Date = "2024-12-02"
	id, ok := svc.CreateAppointment(context.Background(), b)
	if !ok {
		t.Fatal("expected event to be created")
	}

	ev := fake.event(id)
	if strings.Contains(ev.Description, "Notes:") {
		t.Errorf("description has notes line: %q", ev.Description)
	}
	// Mountain standard time in winter.
	if ev.Start.DateTime != "2024-12-02T09:00:00-07:00" {
		t.Errorf("start = %s", ev.Start.DateTime)
	}
}

func TestCreateAppointmentBadTime(t *testing.T) {
	_, srv := newFakeCalendar(t)
	svc := newService(t, srv)

	b := booking
	b.Time = "9am"
	if _, ok := svc.CreateAppointment(context.Background(), b); ok {
		t.Error("expected failure for unparseable time")
	}
}

func TestAvailableSlots(t *testing.T) {
	fake, srv := newFakeCalendar(t)
	fake.list = []*gcal.Event{
		{
			Id:    "a",
			Start: &gcal.EventDateTime{DateTime: "2024-06-01T09:00:00-06:00"},
			End:   &gcal.EventDateTime{DateTime: "2024-06-01T11:00:00-06:00"},
		},
		{
			Id:    "b",
			Start: &gcal.EventDateTime{Date: "2024-06-01"},
			End:   &gcal.EventDateTime{Date: "2024-06-02"},
		},
	}
	svc := newService(t, srv)

	slots := svc.AvailableSlots(context.Background(), "2024-06-01")
	if len(slots) != 10 {
		t.Fatalf("got %d slots, want 10", len(slots))
	}
	got := unavailable(slots)
	if !reflect.DeepEqual(got, []string{"09:00", "10:00"}) {
		t.Errorf("unavailable = %v, want [09:00 10:00]", got)
	}

	q := fake.queries[0]
	if q.Get("timeMin") != "2024-06-01T08:00:00-06:00" || q.Get("timeMax") != "2024-06-01T18:00:00-06:00" {
		t.Errorf("window = %s - %s", q.Get("timeMin"), q.Get("timeMax"))
	}
	if q.Get("singleEvents") != "true" || q.Get("orderBy") != "startTime" {
		t.Errorf("query = %v", q)
	}
}

func TestAvailableSlotsFallsBack(t *testing.T) {
	fake, srv := newFakeCalendar(t)
	fake.failList = true
	svc := newService(t, srv)
	ctx := context.Background()

	if got := svc.AvailableSlots(ctx, "2024-06-01"); !reflect.DeepEqual(got, calendar.DefaultSlots()) {
		t.Errorf("query failure: slots = %v, want defaults", got)
	}

	before := len(fake.queries)
	if got := svc.AvailableSlots(ctx, "June 1st"); !reflect.DeepEqual(got, calendar.DefaultSlots()) {
		t.Errorf("bad date: slots = %v, want defaults", got)
	}
	if len(fake.queries) != before {
		t.Error("bad date should not reach the calendar")
	}
}

func TestUpdateAppointment(t *testing.T) {
	fake, srv := newFakeCalendar(t)
	svc := newService(t, srv)
	ctx := context.Background()

	id, ok := svc.CreateAppointment(ctx, booking)
	if !ok {
		t.Fatal("create failed")
	}

	// Only a new date: summary stays, time stays because Time is empty.
	if !svc.UpdateAppointment(ctx, id, shopsvc.Booking{Date: "2024-06-03", Service: "Starter"}) {
		t.Fatal("update failed")
	}
	ev := fake.event(id)
	if ev.Summary != "Alternator - Jane Doe" {
		t.Errorf("summary changed to %q", ev.Summary)
	}
	if ev.Start.DateTime != "2024-06-01T09:00:00-06:00" {
		t.Errorf("start changed to %s", ev.Start.DateTime)
	}

	if !svc.UpdateAppointment(ctx, id, shopsvc.Booking{
		CustomerName: "Jane Doe",
		Service:      "Starter",
		Date:         "2024-06-03",
		Time:         "14:00",
	}) {
		t.Fatal("update failed")
	}
	ev = fake.event(id)
	if ev.Summary != "Starter - Jane Doe" {
		t.Errorf("summary = %q", ev.Summary)
	}
	if ev.Start.DateTime != "2024-06-03T14:00:00-06:00" || ev.End.DateTime != "2024-06-03T15:00:00-06:00" {
		t.Errorf("window = %s - %s", ev.Start.DateTime, ev.End.DateTime)
	}

	if svc.UpdateAppointment(ctx, "missing", booking) {
		t.Error("update of unknown event returned true")
	}
}

func TestCancelAppointment(t *testing.T) {
	fake, srv := newFakeCalendar(t)
	svc := newService(t, srv)
	ctx := context.Background()

	id, ok := svc.CreateAppointment(ctx, booking)
	if !ok {
		t.Fatal("create failed")
	}
	if !svc.CancelAppointment(ctx, id) {
		t.Fatal("cancel failed")
	}
	if fake.event(id) != nil {
		t.Error("event still present")
	}
	if svc.CancelAppointment(ctx, id) {
		t.Error("second cancel returned true")
	}
}
