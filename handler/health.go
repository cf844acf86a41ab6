package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// Capability is anything that reports whether it is configured.
type Capability interface {
	Enabled() bool
}

type HealthHandler struct {
	check    func(ctx context.Context) error
	email    Capability
	sms      Capability
	calendar Capability
	timeout  time.Duration
	log      *otelzap.SugaredLogger
}

// NewHealthHandler reports database reachability through check and the
// configuration state of each adapter.
func NewHealthHandler(check func(ctx context.Context) error, email, sms, calendar Capability, log *otelzap.SugaredLogger) *HealthHandler {
	return &HealthHandler{
		check:    check,
		email:    email,
		sms:      sms,
		calendar: calendar,
		timeout:  2 * time.Second,
		log:      log,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Email    bool   `json:"email"`
	SMS      bool   `json:"sms"`
	Calendar bool   `json:"calendar"`
}

func (hh HealthHandler) Get(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := healthResponse{
		Status:   "ok",
		Database: "ok",
		Email:    hh.email.Enabled(),
		SMS:      hh.sms.Enabled(),
		Calendar: hh.calendar.Enabled(),
	}
	status := http.StatusOK

	checkCtx, cancel := context.WithTimeout(ctx, hh.timeout)
	defer cancel()

	if err := hh.check(checkCtx); err != nil {
		hh.log.Ctx(ctx).Errorw("Health", "error", err.Error())
		resp.Status = "degraded"
		resp.Database = "unavailable"
		status = http.StatusServiceUnavailable
	}

	respond(ctx, rw, status, resp)
}
