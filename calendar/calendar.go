// Package calendar books appointments into the shop's Google Calendar and
// derives hourly availability from it.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/autoelectric/shopsvc"
)

const (
	// DefaultTimeZone is where the shop is.
	DefaultTimeZone = "America/Denver"

	// Duration of every booked appointment.
	Duration = 60 * time.Minute

	sendUpdates = "all"
)

type Config struct {
	// ServiceAccountKey is the JSON key of a service account with access to
	// the calendar.
	ServiceAccountKey string
	CalendarID        string
	TimeZone          string
}

// Service is the calendar adapter. Without a key and calendar id it is
// disabled: writes report false and availability is the all-open grid.
type Service struct {
	log        *zap.SugaredLogger
	events     *calendar.EventsService
	calendarID string
	tz         string
	loc        *time.Location
}

type serviceAccount struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// New configures the adapter from a service-account key.
func New(ctx context.Context, log *zap.SugaredLogger, cfg Config) *Service {
	key := strings.TrimSpace(cfg.ServiceAccountKey)
	if key == "" || strings.TrimSpace(cfg.CalendarID) == "" {
		s := disabled(log, cfg.TimeZone)
		s.log.Infow("startup", "status", "Google Calendar not configured - calendar integration disabled")
		return s
	}

	var sa serviceAccount
	if err := json.Unmarshal([]byte(key), &sa); err != nil || sa.ClientEmail == "" || sa.PrivateKey == "" {
		s := disabled(log, cfg.TimeZone)
		if err == nil {
			err = fmt.Errorf("service account key missing client_email or private_key")
		}
		s.log.Errorw("startup", "status", "failed to initialize Google Calendar auth", "error", err.Error())
		return s
	}

	return NewWithOptions(ctx, log, cfg.CalendarID, cfg.TimeZone,
		option.WithCredentialsJSON([]byte(key)),
		option.WithScopes(calendar.CalendarScope),
	)
}

// NewWithOptions configures the adapter with explicit client options, for
// credentials other than a service-account key or a non-default endpoint.
func NewWithOptions(ctx context.Context, log *zap.SugaredLogger, calendarID, tz string, opts ...option.ClientOption) *Service {
	s := disabled(log, tz)

	if strings.TrimSpace(calendarID) == "" {
		s.log.Infow("startup", "status", "Google Calendar not configured - calendar integration disabled")
		return s
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		s.log.Errorw("startup", "status", "failed to initialize Google Calendar client", "error", err.Error())
		return s
	}

	s.events = svc.Events
	s.calendarID = strings.TrimSpace(calendarID)
	s.log.Infow("startup", "status", "Google Calendar integration enabled", "calendar_id", s.calendarID)
	return s
}

func disabled(log *zap.SugaredLogger, tz string) *Service {
	log = log.With("adapter", "calendar")

	if tz == "" {
		tz = DefaultTimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Errorw("startup", "status", "unknown time zone, using "+DefaultTimeZone, "tz", tz, "error", err.Error())
		tz = DefaultTimeZone
		loc, _ = time.LoadLocation(DefaultTimeZone)
	}

	return &Service{
		log: log,
		tz:  tz,
		loc: loc,
	}
}

// Enabled reports whether the calendar integration is configured.
func (s *Service) Enabled() bool {
	return s.events != nil
}

// CreateAppointment inserts a one-hour event for the booking and returns its
// id.
func (s *Service) CreateAppointment(ctx context.Context, b shopsvc.Booking) (string, bool) {
	ctx, span := otel.GetTracerProvider().Tracer("").Start(ctx, "calendar.CreateAppointment")
	defer span.End()

	if !s.Enabled() {
		s.log.Infow("CreateAppointment", "status", "Google Calendar not configured - appointment not created in calendar")
		return "", false
	}

	start, end, err := s.window(b.Date, b.Time)
	if err != nil {
		s.log.Errorw("CreateAppointment", "error", err.Error())
		return "", false
	}

	event := &calendar.Event{
		Id:          eventID(),
		Summary:     summary(b),
		Description: description(b),
		Start:       start,
		End:         end,
		Reminders:   &calendar.EventReminders{UseDefault: true},
	}

	created, err := s.events.Insert(s.calendarID, event).SendUpdates(sendUpdates).Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		s.log.Errorw("CreateAppointment", "error", err.Error())
		return "", false
	}

	span.SetAttributes(attribute.String("calendar.event_id", created.Id))
	s.log.Infow("CreateAppointment", "status", "calendar event created", "event_id", created.Id)
	return created.Id, true
}

// AvailableSlots reports which hourly slots of date (YYYY-MM-DD) are free.
// Any problem reading the calendar yields the all-open grid.
func (s *Service) AvailableSlots(ctx context.Context, date string) []shopsvc.Slot {
	ctx, span := otel.GetTracerProvider().Tracer("").Start(ctx, "calendar.AvailableSlots")
	span.SetAttributes(attribute.String("calendar.date", date))
	defer span.End()

	if !s.Enabled() {
		s.log.Infow("AvailableSlots", "status", "Google Calendar not configured - returning default availability")
		return DefaultSlots()
	}

	day, err := time.ParseInLocation(time.DateOnly, date, s.loc)
	if err != nil {
		s.log.Errorw("AvailableSlots", "error", err.Error(), "date", date)
		return DefaultSlots()
	}
	open := time.Date(day.Year(), day.Month(), day.Day(), OpenHour, 0, 0, 0, s.loc)
	closed := time.Date(day.Year(), day.Month(), day.Day(), CloseHour, 0, 0, 0, s.loc)

	resp, err := s.events.List(s.calendarID).
		TimeMin(open.Format(time.RFC3339)).
		TimeMax(closed.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		span.RecordError(err)
		s.log.Errorw("AvailableSlots", "error", err.Error(), "date", date)
		return DefaultSlots()
	}

	return Resolve(busyHours(resp.Items, s.loc))
}

// UpdateAppointment rewrites an existing event. The summary changes only when
// both service and customer name are given, the times only when both date
// and time are given.
func (s *Service) UpdateAppointment(ctx context.Context, id string, b shopsvc.Booking) bool {
	ctx, span := otel.GetTracerProvider().Tracer("").Start(ctx, "calendar.UpdateAppointment")
	span.SetAttributes(attribute.String("calendar.event_id", id))
	defer span.End()

	if !s.Enabled() {
		s.log.Infow("UpdateAppointment", "status", "Google Calendar not configured - appointment not updated in calendar")
		return false
	}

	event, err := s.events.Get(s.calendarID, id).Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		s.log.Errorw("UpdateAppointment", "error", err.Error(), "event_id", id)
		return false
	}

	if b.Service != "" && b.CustomerName != "" {
		event.Summary = summary(b)
	}
	if b.Date != "" && b.Time != "" {
		start, end, err := s.window(b.Date, b.Time)
		if err != nil {
			s.log.Errorw("UpdateAppointment", "error", err.Error(), "event_id", id)
			return false
		}
		event.Start = start
		event.End = end
	}

	if _, err := s.events.Update(s.calendarID, id, event).SendUpdates(sendUpdates).Context(ctx).Do(); err != nil {
		span.RecordError(err)
		s.log.Errorw("UpdateAppointment", "error", err.Error(), "event_id", id)
		return false
	}

	s.log.Infow("UpdateAppointment", "status", "calendar event updated", "event_id", id)
	return true
}

// CancelAppointment deletes the event and notifies its attendees.
func (s *Service) CancelAppointment(ctx context.Context, id string) bool {
	ctx, span := otel.GetTracerProvider().Tracer("").Start(ctx, "calendar.CancelAppointment")
	span.SetAttributes(attribute.String("calendar.event_id", id))
	defer span.End()

	if !s.Enabled() {
		s.log.Infow("CancelAppointment", "status", "Google Calendar not configured - appointment not cancelled in calendar")
		return false
	}

	if err := s.events.Delete(s.calendarID, id).SendUpdates(sendUpdates).Context(ctx).Do(); err != nil {
		span.RecordError(err)
		s.log.Errorw("CancelAppointment", "error", err.Error(), "event_id", id)
		return false
	}

	s.log.Infow("CancelAppointment", "status", "calendar event cancelled", "event_id", id)
	return true
}

// window is the one-hour event span starting at date+clock in the shop's
// time zone.
func (s *Service) window(date, clock string) (*calendar.EventDateTime, *calendar.EventDateTime, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, s.loc)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing appointment start: %w", err)
	}
	end := start.Add(Duration)

	return &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: s.tz},
		&calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: s.tz},
		nil
}

// eventID generates a client-side id. Calendar ids use base32hex characters,
// which a hex UUID without dashes satisfies.
func eventID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func summary(b shopsvc.Booking) string {
	return b.Service + " - " + b.CustomerName
}

func description(b shopsvc.Booking) string {
	lines := []string{
		"Customer: " + b.CustomerName,
		"Phone: " + b.CustomerPhone,
		"Email: " + b.CustomerEmail,
		"Vehicle: " + b.Vehicle,
		"Service: " + b.Service,
	}
	if b.Notes != "" {
		lines = append(lines, "Notes: "+b.Notes)
	}
	return strings.Join(lines, "\n")
}
