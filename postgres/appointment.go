package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/autoelectric/shopsvc"
)

type AppointmentService struct {
	db *sqlx.DB
}

func NewAppointmentService(db *sqlx.DB) shopsvc.AppointmentService {
	return &AppointmentService{
		db: db,
	}
}

func (as AppointmentService) Create(ctx context.Context, na shopsvc.NewAppointment) (shopsvc.Appointment, error) {
	query := `
	INSERT INTO appointments (
		first_name, last_name, email, phone, vehicle, service, date, time, notes, calendar_event_id
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)
	RETURNING id, first_name, last_name, email, phone, vehicle, service, date, time,
		notes, status, calendar_event_id, created_at`

	var appt shopsvc.Appointment
	err := as.db.GetContext(ctx, &appt, query,
		na.FirstName,
		na.LastName,
		na.Email,
		na.Phone,
		na.Vehicle,
		na.Service,
		na.Date,
		na.Time,
		na.Notes,
		na.CalendarEventID,
	)
	if err != nil {
		return shopsvc.Appointment{}, fmt.Errorf("inserting appointment: %w", err)
	}

	return appt, nil
}

func (as AppointmentService) List(ctx context.Context) ([]shopsvc.Appointment, error) {
	query := `
	SELECT
		id,
		first_name,
		last_name,
		email,
		phone,
		vehicle,
		service,
		date,
		time,
		notes,
		status,
		calendar_event_id,
		created_at
	FROM appointments
	ORDER BY id`

	appts := []shopsvc.Appointment{}
	if err := as.db.SelectContext(ctx, &appts, query); err != nil {
		return nil, fmt.Errorf("selecting appointments: %w", err)
	}
	return appts, nil
}
