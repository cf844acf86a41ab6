package shopsvc

import (
	"context"
	"time"
)

// Contact is a contact-form submission.
type Contact struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Service   *string   `json:"service" db:"service"`
	Vehicle   *string   `json:"vehicle" db:"vehicle"`
	Message   *string   `json:"message" db:"message"`
	Urgent    bool      `json:"urgent" db:"urgent"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NewContact is what a client submits through the contact form.
type NewContact struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone"`
	Service   *string `json:"service"`
	Vehicle   *string `json:"vehicle"`
	Message   *string `json:"message"`
	Urgent    bool    `json:"urgent"`
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

type ContactService interface {
	Create(ctx context.Context, nc NewContact) (Contact, error)
	List(ctx context.Context) ([]Contact, error)
}

// Value dereferences an optional field, returning "" when it is unset.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
