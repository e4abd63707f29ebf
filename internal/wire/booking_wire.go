package wire

import (
	"hotel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, auth, admin middlewareFunc) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/bookings/quote", bookingHandler.Quote)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/api/bookings", bookingHandler.CreateBooking)
		r.Get("/api/bookings/me", bookingHandler.GetUserBookings)

		// Owner or admin; checked in the service
		r.Get("/api/bookings/{id}", bookingHandler.GetBookingByID)
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
		r.Put("/api/bookings/{id}/services", bookingHandler.UpdateServices)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(auth)
		r.Use(admin)

		r.Get("/", bookingHandler.ListBookings)
		r.Patch("/{id}/status", bookingHandler.UpdateStatus)
	})
}
