package request

import "github.com/shopspring/decimal"

type CreateRoomRequest struct {
	RoomNumber  string          `json:"room_number" validate:"required,max=20"`
	Type        string          `json:"room_type" validate:"required,oneof=SINGLE DOUBLE DELUXE SUITE FAMILY PREMIUM"`
	Capacity    int             `json:"capacity" validate:"required,min=1,max=20"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	Status      string          `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE OCCUPIED MAINTENANCE CLEANING"`
}

type UpdateRoomRequest = CreateRoomRequest

type UpdateRoomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AVAILABLE OCCUPIED MAINTENANCE CLEANING"`
}

type RoomListRequest struct {
	PaginatedRequest
	Type   string `validate:"omitempty,oneof=SINGLE DOUBLE DELUXE SUITE FAMILY PREMIUM"`
	Status string `validate:"omitempty,oneof=AVAILABLE OCCUPIED MAINTENANCE CLEANING"`
}

type AvailabilityRequest struct {
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
}

type RoomSearchRequest struct {
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests   int    `json:"guests" validate:"min=1,max=20"`
}
