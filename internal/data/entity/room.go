package entity

import "github.com/shopspring/decimal"

type RoomType string

const (
	RoomTypeSingle  RoomType = "SINGLE"
	RoomTypeDouble  RoomType = "DOUBLE"
	RoomTypeDeluxe  RoomType = "DELUXE"
	RoomTypeSuite   RoomType = "SUITE"
	RoomTypeFamily  RoomType = "FAMILY"
	RoomTypePremium RoomType = "PREMIUM"
)

// RoomStatus is operational housekeeping state. It is informational only:
// date availability comes from bookings, never from this field.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "AVAILABLE"
	RoomStatusOccupied    RoomStatus = "OCCUPIED"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
	RoomStatusCleaning    RoomStatus = "CLEANING"
)

func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance, RoomStatusCleaning:
		return true
	}
	return false
}

type Room struct {
	Base
	RoomNumber  string          `db:"room_number"`
	Type        RoomType        `db:"room_type"`
	Capacity    int             `db:"capacity"`
	Price       decimal.Decimal `db:"price"`
	Description *string         `db:"description"`
	Status      RoomStatus      `db:"status"`
}
