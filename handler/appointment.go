package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"golang.org/x/sync/errgroup"

	"github.com/autoelectric/shopsvc"
)

type AppointmentHandler struct {
	service  shopsvc.AppointmentService
	calendar shopsvc.Calendar
	texter   shopsvc.Texter
	validate *validator.Validate
	log      *otelzap.SugaredLogger
}

func NewAppointmentHandler(service shopsvc.AppointmentService, calendar shopsvc.Calendar, texter shopsvc.Texter, validate *validator.Validate, log *otelzap.SugaredLogger) *AppointmentHandler {
	return &AppointmentHandler{
		service:  service,
		calendar: calendar,
		texter:   texter,
		validate: validate,
		log:      log,
	}
}

type bookedResponse struct {
	Success              bool  `json:"success"`
	ID                   int64 `json:"id"`
	CalendarEventCreated bool  `json:"calendarEventCreated"`
}

// Create books an appointment. The calendar event is attempted before the
// row is stored so its id can be kept with the appointment; a failed event
// does not stop the booking.
func (ah AppointmentHandler) Create(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var na shopsvc.NewAppointment
	if err := decode(rw, r, &na); err != nil {
		ah.log.Ctx(ctx).Errorw("CreateAppointment", "error", err.Error())
		respondDecodeErr(ctx, rw, err)
		return
	}
	na.CalendarEventID = nil

	if err := ah.validate.StructCtx(ctx, na); err != nil {
		ah.log.Ctx(ctx).Infow("CreateAppointment", "status", "validation failed", "error", err.Error())
		respond(ctx, rw, http.StatusBadRequest, errorBody{Error: msgValidation, Details: fieldErrors(err)})
		return
	}

	booking := shopsvc.BookingOf(na)

	eventID, created := ah.calendar.CreateAppointment(ctx, booking)
	if created {
		na.CalendarEventID = &eventID
	}

	appt, err := ah.service.Create(ctx, na)
	if err != nil {
		ah.log.Ctx(ctx).Errorw("CreateAppointment", "error", err.Error(), "calendar_event_id", eventID)
		respondErr(ctx, rw, http.StatusInternalServerError, msgInternal)
		return
	}

	var confirmed, notified bool
	var g errgroup.Group
	g.Go(func() error {
		confirmed = ah.texter.SendBookingConfirmation(ctx, booking)
		return nil
	})
	g.Go(func() error {
		notified = ah.texter.SendBusinessNotification(ctx, booking)
		return nil
	})
	g.Wait()

	ah.log.Ctx(ctx).Infow("CreateAppointment", "status", "appointment booked",
		"appointment_id", appt.ID,
		"calendar_event_created", created,
		"customer_sms", confirmed,
		"business_sms", notified,
	)

	respond(ctx, rw, http.StatusOK, bookedResponse{
		Success:              true,
		ID:                   appt.ID,
		CalendarEventCreated: created,
	})
}

// List returns every appointment.
func (ah AppointmentHandler) List(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	appts, err := ah.service.List(ctx)
	if err != nil {
		ah.log.Ctx(ctx).Errorw("ListAppointments", "error", err.Error())
		respondErr(ctx, rw, http.StatusInternalServerError, msgInternal)
		return
	}
	if appts == nil {
		appts = []shopsvc.Appointment{}
	}

	respond(ctx, rw, http.StatusOK, appts)
}
