package handler

import "github.com/go-chi/chi/v5"

// API groups the handlers served under /api.
type API struct {
	Contacts     *ContactHandler
	Appointments *AppointmentHandler
	Availability *AvailabilityHandler
	Health       *HealthHandler
}

// Routes registers the API on r, typically through r.Route("/api", api.Routes).
func (a API) Routes(r chi.Router) {
	r.Post("/contact", a.Contacts.Create)
	r.Get("/contacts", a.Contacts.List)

	r.Post("/appointments", a.Appointments.Create)
	r.Get("/appointments", a.Appointments.List)

	r.Get("/availability/{date}", a.Availability.Get)

	if a.Health != nil {
		r.Get("/health", a.Health.Get)
	}
}
