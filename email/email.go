// Package email sends contact-form notifications through SendGrid.
package email

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/autoelectric/shopsvc"
)

// DefaultSender is used when no verified sender address is configured.
const DefaultSender = "your-verified-email@example.com"

type Config struct {
	APIKey     string
	BaseURL    string
	Sender     string
	Notify     string
	Timeout    time.Duration
	MaxRetries int
}

// Service is the email adapter. Without an API key it is disabled and every
// send reports false.
type Service struct {
	log    *zap.SugaredLogger
	client *sendgrid
	sender string
	notify string
}

func New(log *zap.SugaredLogger, cfg Config) *Service {
	log = log.With("adapter", "email")

	sender := strings.TrimSpace(cfg.Sender)
	if sender == "" {
		sender = DefaultSender
	}
	notify := strings.TrimSpace(cfg.Notify)
	if notify == "" {
		notify = sender
	}

	s := Service{
		log:    log,
		sender: sender,
		notify: notify,
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		log.Infow("startup", "status", "SendGrid not configured - email notifications disabled")
		return &s
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	s.client = &sendgrid{
		log:        log,
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: retries,
	}
	log.Infow("startup", "status", "SendGrid email service initialized")
	return &s
}

// Enabled reports whether SendGrid credentials were supplied.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// NotifyBusinessOfContact emails the shop about a new contact submission.
func (s *Service) NotifyBusinessOfContact(ctx context.Context, c shopsvc.Contact) bool {
	ctx, span := otel.GetTracerProvider().Tracer("").Start(ctx, "email.NotifyBusinessOfContact")
	span.SetAttributes(attribute.Bool("contact.urgent", c.Urgent))
	defer span.End()

	if !s.Enabled() {
		s.log.Infow("NotifyBusinessOfContact", "status", "SendGrid not configured - contact form email skipped")
		return false
	}

	text, html, err := render(businessText, businessHTML, viewOf(c))
	if err != nil {
		s.log.Errorw("NotifyBusinessOfContact", "error", err.Error())
		return false
	}

	err = s.client.send(ctx, message{
		To:       s.notify,
		From:     s.sender,
		Subject:  businessSubject(c),
		Text:     text,
		HTML:     html,
		Category: "contact-notification",
	})
	if err != nil {
		span.RecordError(err)
		s.log.Errorw("NotifyBusinessOfContact", "error", err.Error())
		return false
	}

	s.log.Infow("NotifyBusinessOfContact", "status", "contact form notification email sent", "contact_id", c.ID)
	return true
}

// ConfirmToCustomer thanks the customer for getting in touch.
func (s *Service) ConfirmToCustomer(ctx context.Context, c shopsvc.Contact) bool {
	ctx, span := otel.GetTracerProvider().Tracer("").Start(ctx, "email.ConfirmToCustomer")
	defer span.End()

	if !s.Enabled() {
		s.log.Infow("ConfirmToCustomer", "status", "SendGrid not configured - customer confirmation skipped")
		return false
	}

	text, html, err := render(customerText, customerHTML, viewOf(c))
	if err != nil {
		s.log.Errorw("ConfirmToCustomer", "error", err.Error())
		return false
	}

	err = s.client.send(ctx, message{
		To:       c.Email,
		From:     s.sender,
		Subject:  customerSubject,
		Text:     text,
		HTML:     html,
		Category: "customer-confirmation",
	})
	if err != nil {
		span.RecordError(err)
		s.log.Errorw("ConfirmToCustomer", "error", err.Error())
		return false
	}

	s.log.Infow("ConfirmToCustomer", "status", "customer confirmation email sent", "contact_id", c.ID)
	return true
}
