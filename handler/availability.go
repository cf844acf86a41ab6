package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"github.com/autoelectric/shopsvc"
)

type AvailabilityHandler struct {
	calendar shopsvc.Calendar
	log      *otelzap.SugaredLogger
}

func NewAvailabilityHandler(calendar shopsvc.Calendar, log *otelzap.SugaredLogger) *AvailabilityHandler {
	return &AvailabilityHandler{
		calendar: calendar,
		log:      log,
	}
}

type availabilityResponse struct {
	Date  string         `json:"date"`
	Slots []shopsvc.Slot `json:"slots"`
}

// Get reports the hourly slots for the date in the path. Calendar problems
// are absorbed by the adapter, so only a panic in the lookup is an error here.
func (ah AvailabilityHandler) Get(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	date := chi.URLParam(r, "date")

	slots, err := ah.lookup(r, date)
	if err != nil {
		ah.log.Ctx(ctx).Errorw("GetAvailability", "error", err.Error(), "date", date)
		respondErr(ctx, rw, http.StatusInternalServerError, msgNoAvailability)
		return
	}

	respond(ctx, rw, http.StatusOK, availabilityResponse{Date: date, Slots: slots})
}

func (ah AvailabilityHandler) lookup(r *http.Request, date string) (slots []shopsvc.Slot, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("availability lookup: %v", rec)
		}
	}()
	return ah.calendar.AvailableSlots(r.Context(), date), nil
}
