package wire

import (
	"hotel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, auth, admin middlewareFunc) {
	// ==================== PROTECTED ROUTES ====================
	r.With(auth).Post("/api/reviews", reviewHandler.CreateReview)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/reviews", func(r chi.Router) {
		r.Use(auth)
		r.Use(admin)

		r.Get("/pending", reviewHandler.GetPendingReviews)
		r.Put("/{id}/approve", reviewHandler.ApproveReview)
		r.Put("/{id}/respond", reviewHandler.RespondReview)
		r.Delete("/{id}", reviewHandler.DeleteReview)
	})
}
