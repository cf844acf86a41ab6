// Package sms texts booking confirmations and staff alerts through Twilio.
package sms

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

// DefaultBusinessPhone receives staff alerts when no number is configured.
const DefaultBusinessPhone = "(406) 555-0123"

type Config struct {
	AccountSID    string
	AuthToken     string
	From          string
	BusinessPhone string
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
}

// Service is the SMS adapter. It is disabled unless the account SID, auth
// token and sender number are all set.
type Service struct {
	log           *zap.SugaredLogger
	client        *twilio
	businessPhone string
}

func New(log *zap.SugaredLogger, cfg Config) *Service {
	log = log.With("adapter", "sms")

	business := strings.TrimSpace(cfg.BusinessPhone)
	if business == "" {
		business = DefaultBusinessPhone
	}

	s := Service{
		log:           log,
		businessPhone: business,
	}

	sid := strings.TrimSpace(cfg.AccountSID)
	token := strings.TrimSpace(cfg.AuthToken)
	from := strings.TrimSpace(cfg.From)
	if sid == "" || token == "" || from == "" {
		log.Infow("startup", "status", "Twilio not configured - SMS notifications disabled")
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

	s.client = &twilio{
		log:        log,
		accountSID: sid,
		authToken:  token,
		from:       from,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: retries,
	}
	log.Infow("startup", "status", "Twilio SMS service initialized")
	return &s
}

// Enabled reports whether Twilio credentials were supplied.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// SendBookingConfirmation texts the customer that the booking went through.
func (s *Service) SendBookingConfirmation(ctx context.Context, b shopsvc.Booking) bool {
	return s.deliver(ctx, "SendBookingConfirmation", b.CustomerPhone, bookingConfirmation(b))
}

// SendBusinessNotification texts the shop about a new booking.
func (s *Service) SendBusinessNotification(ctx context.Context, b shopsvc.Booking) bool {
	return s.deliver(ctx, "SendBusinessNotification", s.businessPhone, businessNotification(b))
}

// SendContactFormNotification texts the shop about a new contact
// submission. Urgent submissions are tagged.
func (s *Service) SendContactFormNotification(ctx context.Context, c shopsvc.Contact) bool {
	return s.deliver(ctx, "SendContactFormNotification", s.businessPhone, contactNotification(c))
}

func (s *Service) deliver(ctx context.Context, op, to, body string) bool {
	ctx, span := otel.GetTracerProvider().Tracer("").Start(ctx, "sms."+op)
	defer span.End()

	if !s.Enabled() {
		s.log.Infow(op, "status", "Twilio not configured - SMS notification skipped")
		return false
	}

	msg, err := s.client.send(ctx, to, body)
	if err != nil {
		span.RecordError(err)
		s.log.Errorw(op, "error", err.Error())
		return false
	}

	span.SetAttributes(attribute.String("twilio.sid", msg.SID))
	s.log.Infow(op, "status", "SMS sent", "to", to, "sid", msg.SID)
	return true
}
