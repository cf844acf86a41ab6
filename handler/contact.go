package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"github.com/autoelectric/shopsvc"
)

type ContactHandler struct {
	service  shopsvc.ContactService
	mailer   shopsvc.Mailer
	texter   shopsvc.Texter
	validate *validator.Validate
	log      *otelzap.SugaredLogger
}

func NewContactHandler(service shopsvc.ContactService, mailer shopsvc.Mailer, texter shopsvc.Texter, validate *validator.Validate, log *otelzap.SugaredLogger) *ContactHandler {
	return &ContactHandler{
		service:  service,
		mailer:   mailer,
		texter:   texter,
		validate: validate,
		log:      log,
	}
}

type createdResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// Create stores a contact-form submission, then emails the shop, emails the
// customer and texts the shop, in that order. Notification outcomes do not
// change the response.
func (ch ContactHandler) Create(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var nc shopsvc.NewContact
	if err := decode(rw, r, &nc); err != nil {
		ch.log.Ctx(ctx).Errorw("CreateContact", "error", err.Error())
		respondDecodeErr(ctx, rw, err)
		return
	}

	if err := ch.validate.StructCtx(ctx, nc); err != nil {
		ch.log.Ctx(ctx).Infow("CreateContact", "status", "validation failed", "error", err.Error())
		respond(ctx, rw, http.StatusBadRequest, errorBody{Error: msgValidation, Details: fieldErrors(err)})
		return
	}

	contact, err := ch.service.Create(ctx, nc)
	if err != nil {
		ch.log.Ctx(ctx).Errorw("CreateContact", "error", err.Error())
		respondErr(ctx, rw, http.StatusInternalServerError, msgInternal)
		return
	}

	emailed := ch.mailer.NotifyBusinessOfContact(ctx, contact)
	confirmed := ch.mailer.ConfirmToCustomer(ctx, contact)
	texted := ch.texter.SendContactFormNotification(ctx, contact)

	ch.log.Ctx(ctx).Infow("CreateContact", "status", "contact submission stored",
		"contact_id", contact.ID,
		"urgent", contact.Urgent,
		"business_email", emailed,
		"customer_email", confirmed,
		"business_sms", texted,
	)

	respond(ctx, rw, http.StatusOK, createdResponse{Success: true, ID: contact.ID})
}

// List returns every contact submission.
func (ch ContactHandler) List(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contacts, err := ch.service.List(ctx)
	if err != nil {
		ch.log.Ctx(ctx).Errorw("ListContacts", "error", err.Error())
		respondErr(ctx, rw, http.StatusInternalServerError, msgInternal)
		return
	}
	if contacts == nil {
		contacts = []shopsvc.Contact{}
	}

	respond(ctx, rw, http.StatusOK, contacts)
}
