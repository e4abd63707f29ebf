package wire

import (
	"hotel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCoupon(r chi.Router, couponHandler *adaptor.CouponHandler, auth, admin middlewareFunc) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/coupons/validate/{code}", couponHandler.ValidateCoupon)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/coupons", func(r chi.Router) {
		r.Use(auth)
		r.Use(admin)

		r.Get("/", couponHandler.ListCoupons)
		r.Post("/", couponHandler.CreateCoupon)
		r.Get("/{id}", couponHandler.GetCoupon)
		r.Put("/{id}", couponHandler.UpdateCoupon)
		r.Delete("/{id}", couponHandler.DeactivateCoupon)
	})
}
