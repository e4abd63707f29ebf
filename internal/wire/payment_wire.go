package wire

import (
	"hotel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler, auth middlewareFunc) {
	r.Route("/api/payment", func(r chi.Router) {
		// ==================== GATEWAY CALLBACKS ====================
		// Unauthenticated; trust comes from the signature only
		r.Get("/vnpay-return", paymentHandler.VNPayReturn)
		r.Get("/vnpay-ipn", paymentHandler.VNPayIPN)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Post("/create", paymentHandler.CreatePayment)
			r.Get("/booking/{bookingId}", paymentHandler.GetBookingPayments)
		})
	})
}
