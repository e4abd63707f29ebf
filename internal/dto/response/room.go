package response

import (
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/daterange"

	"github.com/shopspring/decimal"
)

type RoomResponse struct {
	ID          string            `json:"id"`
	RoomNumber  string            `json:"room_number"`
	Type        entity.RoomType   `json:"room_type"`
	Capacity    int               `json:"capacity"`
	Price       decimal.Decimal   `json:"price"`
	Description *string           `json:"description,omitempty"`
	Status      entity.RoomStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// AvailabilityResponse describes a room over a requested range. AvailableFrom
// and DaysUntilAvailable are set only when the room is taken.
type AvailabilityResponse struct {
	RoomID             string  `json:"room_id"`
	CheckIn            string  `json:"check_in"`
	CheckOut           string  `json:"check_out"`
	Available          bool    `json:"available"`
	ConflictCount      int     `json:"conflict_count"`
	AvailableFrom      *string `json:"available_from,omitempty"`
	DaysUntilAvailable int     `json:"days_until_available"`
}

type RoomSearchResult struct {
	RoomResponse
	Availability AvailabilityResponse `json:"availability"`
}

func RoomToResponse(room *entity.Room) RoomResponse {
	return RoomResponse{
		ID:          room.ID.String(),
		RoomNumber:  room.RoomNumber,
		Type:        room.Type,
		Capacity:    room.Capacity,
		Price:       room.Price,
		Description: room.Description,
		Status:      room.Status,
		CreatedAt:   room.CreatedAt,
	}
}

func FormatDate(t time.Time) string {
	return t.Format(daterange.Layout)
}
