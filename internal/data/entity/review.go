package entity

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	BaseNoDelete
	UserID        uuid.UUID  `db:"user_id"`
	RoomID        uuid.UUID  `db:"room_id"`
	BookingID     *uuid.UUID `db:"booking_id"`
	Rating        int        `db:"rating"`
	Comment       *string    `db:"comment"`
	Approved      bool       `db:"approved"`
	AdminResponse *string    `db:"admin_response"`
	RespondedAt   *time.Time `db:"responded_at"`
}
