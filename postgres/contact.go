package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/autoelectric/shopsvc"
)

type ContactService struct {
	db *sqlx.DB
}

func NewContactService(db *sqlx.DB) shopsvc.ContactService {
	return &ContactService{
		db: db,
	}
}

func (cs ContactService) Create(ctx context.Context, nc shopsvc.NewContact) (shopsvc.Contact, error) {
	query := `
	INSERT INTO contact_submissions (
		first_name, last_name, email, phone, service, vehicle, message, urgent
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8
	)
	RETURNING id, first_name, last_name, email, phone, service, vehicle, message, urgent, created_at`

	var contact shopsvc.Contact
	err := cs.db.GetContext(ctx, &contact, query,
		nc.FirstName,
		nc.LastName,
		nc.Email,
		nc.Phone,
		nc.Service,
		nc.Vehicle,
		nc.Message,
		nc.Urgent,
	)
	if err != nil {
		return shopsvc.Contact{}, fmt.Errorf("inserting contact submission: %w", err)
	}

	return contact, nil
}

func (cs ContactService) List(ctx context.Context) ([]shopsvc.Contact, error) {
	query := `
	SELECT
		id,
		first_name,
		last_name,
		email,
		phone,
		service,
		vehicle,
		message,
		urgent,
		created_at
	FROM contact_submissions
	ORDER BY id`

	contacts := []shopsvc.Contact{}
	if err := cs.db.SelectContext(ctx, &contacts, query); err != nil {
		return nil, fmt.Errorf("selecting contact submissions: %w", err)
	}
	return contacts, nil
}
