package shopsvc

import (
	"context"
	"time"
)

// StatusPending is the status every appointment is created with. Nothing
// moves an appointment out of it yet.
const StatusPending = "pending"

// Appointment is a booked service appointment.
type Appointment struct {
	ID              int64     `json:"id" db:"id"`
	FirstName       string    `json:"firstName" db:"first_name"`
	LastName        string    `json:"lastName" db:"last_name"`
	Email           string    `json:"email" db:"email"`
	Phone           string    `json:"phone" db:"phone"`
	Vehicle         string    `json:"vehicle" db:"vehicle"`
	Service         string    `json:"service" db:"service"`
	Date            string    `json:"date" db:"date"`
	Time            string    `json:"time" db:"time"`
	Notes           *string   `json:"notes" db:"notes"`
	Status          string    `json:"status" db:"status"`
	CalendarEventID *string   `json:"calendarEventId" db:"calendar_event_id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// NewAppointment is what a client submits through the booking form. Date is
// YYYY-MM-DD and Time is HH:MM, both in the shop's local time.
type NewAppointment struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone" validate:"required"`
	Vehicle   string  `json:"vehicle" validate:"required"`
	Service   string  `json:"service" validate:"required"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string  `json:"time" validate:"required,datetime=15:04"`
	Notes     *string `json:"notes"`

	// Set by the server once the calendar event exists.
	CalendarEventID *string `json:"-"`
}

type AppointmentService interface {
	Create(ctx context.Context, na NewAppointment) (Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
}

// Booking is the view of an appointment handed to the SMS and calendar
// adapters.
type Booking struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Service       string
	Vehicle       string
	Date          string
	Time          string
	Notes         string
}

// BookingOf builds the adapter view of a submitted appointment.
func BookingOf(na NewAppointment) Booking {
	return Booking{
		CustomerName:  na.FirstName + " " + na.LastName,
		CustomerEmail: na.Email,
		CustomerPhone: na.Phone,
		Service:       na.Service,
		Vehicle:       na.Vehicle,
		Date:          na.Date,
		Time:          na.Time,
		Notes:         Value(na.Notes),
	}
}
