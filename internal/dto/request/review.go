package request

type CreateReviewRequest struct {
	RoomID    string  `json:"room_id" validate:"required,uuid"`
	BookingID *string `json:"booking_id,omitempty" validate:"omitempty,uuid"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

type RespondReviewRequest struct {
	Response string `json:"response" validate:"required,max=1000"`
}
