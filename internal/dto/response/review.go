package response

import (
	"time"

	"hotel-booking/internal/data/entity"
)

type ReviewResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	RoomID        string     `json:"room_id"`
	BookingID     *string    `json:"booking_id,omitempty"`
	Rating        int        `json:"rating"`
	Comment       *string    `json:"comment,omitempty"`
	Approved      bool       `json:"approved"`
	AdminResponse *string    `json:"admin_response,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Helper converter
func ReviewToResponse(review *entity.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:            review.ID.String(),
		UserID:        review.UserID.String(),
		RoomID:        review.RoomID.String(),
		Rating:        review.Rating,
		Comment:       review.Comment,
		Approved:      review.Approved,
		AdminResponse: review.AdminResponse,
		RespondedAt:   review.RespondedAt,
		CreatedAt:     review.CreatedAt,
	}

	if review.BookingID != nil {
		id := review.BookingID.String()
		resp.BookingID = &id
	}

	return resp
}
