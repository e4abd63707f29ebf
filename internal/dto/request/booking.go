package request

type QuoteRequest struct {
	RoomID     string  `json:"room_id" validate:"required,uuid"`
	CheckIn    string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string  `json:"check_out" validate:"required,datetime=2006-01-02"`
	CouponCode *string `json:"coupon_code,omitempty" validate:"omitempty,max=50"`
}

type CreateBookingRequest struct {
	RoomID          string  `json:"room_id" validate:"required,uuid"`
	CheckIn         string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string  `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests          int     `json:"guests" validate:"required,min=1,max=20"`
	CouponCode      *string `json:"coupon_code,omitempty" validate:"omitempty,max=50"`
	SpecialRequests *string `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
	UpdateServicesRequest
}

type UpdateServicesRequest struct {
	AirportPickup bool `json:"airport_pickup"`
	Spa           bool `json:"spa_service"`
	Laundry       bool `json:"laundry_service"`
	TourGuide     bool `json:"tour_guide"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type BookingListRequest struct {
	PaginatedRequest
	Status string
}
