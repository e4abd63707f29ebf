package wire

import (
	"hotel-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRoom(r chi.Router, roomHandler *adaptor.RoomHandler, reviewHandler *adaptor.ReviewHandler, auth, admin middlewareFunc) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/rooms", func(r chi.Router) {
		r.Get("/", roomHandler.ListRooms)
		// Registered before /{id} so "search" is not taken as an id
		r.Get("/search", roomHandler.SearchAvailable)
		r.Get("/{id}", roomHandler.GetRoom)
		r.Get("/{id}/availability", roomHandler.CheckAvailability)
		r.Get("/{id}/reviews", reviewHandler.GetRoomReviews)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/rooms", func(r chi.Router) {
		r.Use(auth)
		r.Use(admin)

		r.Post("/", roomHandler.CreateRoom)
		r.Put("/{id}", roomHandler.UpdateRoom)
		r.Patch("/{id}/status", roomHandler.UpdateRoomStatus)
	})
}
