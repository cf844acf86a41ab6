package shopsvc

import "context"

// Slot is one hour of the business day.
type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// The adapters below never return errors. A disabled adapter and a failed
// call both report false; callers cannot tell the two apart.

type Mailer interface {
	NotifyBusinessOfContact(ctx context.Context, c Contact) bool
	ConfirmToCustomer(ctx context.Context, c Contact) bool
	Enabled() bool
}

type Texter interface {
	SendBookingConfirmation(ctx context.Context, b Booking) bool
	SendBusinessNotification(ctx context.Context, b Booking) bool
	SendContactFormNotification(ctx context.Context, c Contact) bool
	Enabled() bool
}

type Calendar interface {
	CreateAppointment(ctx context.Context, b Booking) (eventID string, ok bool)
	AvailableSlots(ctx context.Context, date string) []Slot
	UpdateAppointment(ctx context.Context, eventID string, b Booking) bool
	CancelAppointment(ctx context.Context, eventID string) bool
	Enabled() bool
}
