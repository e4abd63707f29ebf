package usecase

import (
	"context"
	"testing"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/dto/request"
	"hotel-booking/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAvailability(t *testing.T) {
	env := newTestEnv(t)
	room := env.room(1_000_000)
	env.booking(room, env.actor().UserID, "2025-07-10", "2025-07-15", entity.BookingStatusConfirmed)

	t.Run("overlapping stay", func(t *testing.T) {
		got, err := env.svc.Room.CheckAvailability(context.Background(), room.ID.String(), &request.AvailabilityRequest{
			CheckIn: "2025-07-12", CheckOut: "2025-07-14",
		})
		require.NoError(t, err)
		assert.False(t, got.Available)
		assert.Equal(t, 1, got.ConflictCount)
		require.NotNil(t, got.AvailableFrom)
		assert.Equal(t, "2025-07-16", *got.AvailableFrom)
		assert.Equal(t, 4, got.DaysUntilAvailable)
	})

	t.Run("free stay", func(t *testing.T) {
		got, err := env.svc.Room.CheckAvailability(context.Background(), room.ID.String(), &request.AvailabilityRequest{
			CheckIn: "2025-07-16", CheckOut: "2025-07-18",
		})
		require.NoError(t, err)
		assert.True(t, got.Available)
		assert.Nil(t, got.AvailableFrom)
		assert.Zero(t, got.DaysUntilAvailable)
	})

	t.Run("stay starting before the conflict", func(t *testing.T) {
		got, err := env.svc.Room.CheckAvailability(context.Background(), room.ID.String(), &request.AvailabilityRequest{
			CheckIn: "2025-07-05", CheckOut: "2025-07-10",
		})
		require.NoError(t, err)
		assert.False(t, got.Available)
		assert.Equal(t, "2025-07-16", *got.AvailableFrom)
		assert.Equal(t, 11, got.DaysUntilAvailable)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := env.svc.Room.CheckAvailability(context.Background(), uuid.NewString(), &request.AvailabilityRequest{
			CheckIn: "2025-07-12", CheckOut: "2025-07-14",
		})
		assertKind(t, err, apperr.KindNotFound)
	})

	t.Run("reversed dates", func(t *testing.T) {
		_, err := env.svc.Room.CheckAvailability(context.Background(), room.ID.String(), &request.AvailabilityRequest{
			CheckIn: "2025-07-14", CheckOut: "2025-07-12",
		})
		assertKind(t, err, apperr.KindValidation)
	})
}

func TestCheckAvailability_LatestCheckoutWins(t *testing.T) {
	env := newTestEnv(t)
	room := env.room(1_000_000)
	env.booking(room, env.actor().UserID, "2025-07-10", "2025-07-12", entity.BookingStatusConfirmed)
	env.booking(room, env.actor().UserID, "2025-07-13", "2025-07-18", entity.BookingStatusPending)

	got, err := env.svc.Room.CheckAvailability(context.Background(), room.ID.String(), &request.AvailabilityRequest{
		CheckIn: "2025-07-11", CheckOut: "2025-07-14",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, got.ConflictCount)
	assert.Equal(t, "2025-07-19", *got.AvailableFrom)
	assert.Equal(t, 8, got.DaysUntilAvailable)
}

func TestSearchAvailable(t *testing.T) {
	env := newTestEnv(t)
	small := env.room(800_000)
	family := env.store.addRoom(entity.Room{
		Base:       entity.NewBase(env.clock.Now()),
		RoomNumber: "F201",
		Type:       entity.RoomTypeFamily,
		Capacity:   4,
		Price:      decimal.NewFromInt(2_000_000),
		Status:     entity.RoomStatusAvailable,
	})
	env.booking(family, env.actor().UserID, "2025-07-01", "2025-07-03", entity.BookingStatusConfirmed)

	results, err := env.svc.Room.SearchAvailable(context.Background(), &request.RoomSearchRequest{
		CheckIn: "2025-07-02", CheckOut: "2025-07-04", Guests: 3,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, family.ID.String(), results[0].ID)
	assert.False(t, results[0].Availability.Available)

	results, err = env.svc.Room.SearchAvailable(context.Background(), &request.RoomSearchRequest{
		CheckIn: "2025-07-02", CheckOut: "2025-07-04",
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	for _, r := range results {
		if r.ID == small.ID.String() {
			assert.True(t, r.Availability.Available)
		}
	}
}

func TestCreateRoom(t *testing.T) {
	env := newTestEnv(t)
	existing := env.room(500_000)

	req := func(number string, price int64) *request.CreateRoomRequest {
		return &request.CreateRoomRequest{
			RoomNumber: number,
			Type:       string(entity.RoomTypeSuite),
			Capacity:   2,
			Price:      decimal.NewFromInt(price),
		}
	}

	created, err := env.svc.Room.CreateRoom(context.Background(), req("S301", 3_500_000))
	require.NoError(t, err)
	assert.Equal(t, entity.RoomStatusAvailable, created.Status)
	assert.True(t, created.Price.Equal(decimal.NewFromInt(3_500_000)))

	_, err = env.svc.Room.CreateRoom(context.Background(), req(existing.RoomNumber, 3_500_000))
	assertKind(t, err, apperr.KindConflict)

	_, err = env.svc.Room.CreateRoom(context.Background(), req("S302", 0))
	assertKind(t, err, apperr.KindValidation)

	bad := req("S303", 100)
	bad.Type = "PENTHOUSE"
	_, err = env.svc.Room.CreateRoom(context.Background(), bad)
	assertKind(t, err, apperr.KindValidation)
}

func TestUpdateRoomStatus(t *testing.T) {
	env := newTestEnv(t)
	room := env.room(500_000)

	err := env.svc.Room.UpdateRoomStatus(context.Background(), room.ID.String(), &request.UpdateRoomStatusRequest{Status: string(entity.RoomStatusMaintenance)})
	require.NoError(t, err)

	got, err := env.svc.Room.GetRoom(context.Background(), room.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.RoomStatusMaintenance, got.Status)

	err = env.svc.Room.UpdateRoomStatus(context.Background(), uuid.NewString(), &request.UpdateRoomStatusRequest{Status: string(entity.RoomStatusCleaning)})
	assertKind(t, err, apperr.KindNotFound)
}

func TestListRooms_FiltersByType(t *testing.T) {
	env := newTestEnv(t)
	env.room(500_000)
	env.room(600_000)
	env.store.addRoom(entity.Room{
		Base:       entity.NewBase(env.clock.Now()),
		RoomNumber: "S900",
		Type:       entity.RoomTypeSuite,
		Capacity:   2,
		Price:      decimal.NewFromInt(4_000_000),
		Status:     entity.RoomStatusAvailable,
	})

	got, err := env.svc.Room.ListRooms(context.Background(), &request.RoomListRequest{Type: string(entity.RoomTypeSuite)})
	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "S900", got.Data[0].RoomNumber)
	assert.EqualValues(t, 1, got.Pagination.Total)
}
