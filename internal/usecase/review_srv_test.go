package usecase

import (
	"context"
	"testing"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/dto/request"
	"hotel-booking/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview(t *testing.T) {
	env := newTestEnv(t)
	room := env.room(1_000_000)
	guest := env.actor()
	stay := env.booking(room, guest.UserID, "2025-06-10", "2025-06-12", entity.BookingStatusCheckedOut)

	t.Run("without a booking", func(t *testing.T) {
		got, err := env.svc.Review.CreateReview(context.Background(), guest, &request.CreateReviewRequest{
			RoomID: room.ID.String(), Rating: 4, Comment: strPtr("Quiet room"),
		})
		require.NoError(t, err)
		assert.False(t, got.Approved)
		assert.Nil(t, got.BookingID)
	})

	t.Run("finished stay once", func(t *testing.T) {
		req := &request.CreateReviewRequest{RoomID: room.ID.String(), BookingID: strPtr(stay.ID.String()), Rating: 5}
		_, err := env.svc.Review.CreateReview(context.Background(), guest, req)
		require.NoError(t, err)

		_, err = env.svc.Review.CreateReview(context.Background(), guest, req)
		assertKind(t, err, apperr.KindConflict)
	})

	t.Run("someone else's stay", func(t *testing.T) {
		_, err := env.svc.Review.CreateReview(context.Background(), env.actor(), &request.CreateReviewRequest{
			RoomID: room.ID.String(), BookingID: strPtr(stay.ID.String()), Rating: 5,
		})
		assertKind(t, err, apperr.KindForbidden)
	})

	t.Run("stay not finished", func(t *testing.T) {
		upcoming := env.booking(room, guest.UserID, "2025-07-10", "2025-07-12", entity.BookingStatusConfirmed)
		_, err := env.svc.Review.CreateReview(context.Background(), guest, &request.CreateReviewRequest{
			RoomID: room.ID.String(), BookingID: strPtr(upcoming.ID.String()), Rating: 5,
		})
		assertKind(t, err, apperr.KindInvalidState)
	})

	t.Run("booking for another room", func(t *testing.T) {
		other := env.room(900_000)
		_, err := env.svc.Review.CreateReview(context.Background(), guest, &request.CreateReviewRequest{
			RoomID: other.ID.String(), BookingID: strPtr(stay.ID.String()), Rating: 3,
		})
		assertKind(t, err, apperr.KindValidation)
	})

	t.Run("rating out of range", func(t *testing.T) {
		_, err := env.svc.Review.CreateReview(context.Background(), guest, &request.CreateReviewRequest{
			RoomID: room.ID.String(), Rating: 6,
		})
		assertKind(t, err, apperr.KindValidation)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := env.svc.Review.CreateReview(context.Background(), guest, &request.CreateReviewRequest{
			RoomID: uuid.NewString(), Rating: 3,
		})
		assertKind(t, err, apperr.KindNotFound)
	})
}

func TestReviewModeration(t *testing.T) {
	env := newTestEnv(t)
	room := env.room(1_000_000)

	review, err := env.svc.Review.CreateReview(context.Background(), env.actor(), &request.CreateReviewRequest{
		RoomID: room.ID.String(), Rating: 2,
	})
	require.NoError(t, err)

	public, err := env.svc.Review.GetRoomReviews(context.Background(), room.ID.String(), &request.PaginatedRequest{})
	require.NoError(t, err)
	assert.Empty(t, public.Data, "pending reviews are hidden")

	pending, err := env.svc.Review.GetPendingReviews(context.Background(), &request.PaginatedRequest{})
	require.NoError(t, err)
	require.Len(t, pending.Data, 1)

	require.NoError(t, env.svc.Review.ApproveReview(context.Background(), review.ID))
	require.NoError(t, env.svc.Review.RespondReview(context.Background(), review.ID, &request.RespondReviewRequest{Response: "Sorry about the noise"}))

	public, err = env.svc.Review.GetRoomReviews(context.Background(), room.ID.String(), &request.PaginatedRequest{})
	require.NoError(t, err)
	require.Len(t, public.Data, 1)
	require.NotNil(t, public.Data[0].AdminResponse)
	assert.Equal(t, "Sorry about the noise", *public.Data[0].AdminResponse)

	require.NoError(t, env.svc.Review.DeleteReview(context.Background(), review.ID))
	assertKind(t, env.svc.Review.ApproveReview(context.Background(), review.ID), apperr.KindNotFound)
}
