package usecase

import (
	"context"
	"errors"
	"fmt"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/apperr"
	"hotel-booking/pkg/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, actor Actor, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetRoomReviews(ctx context.Context, roomID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)

	// Admin
	GetPendingReviews(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	ApproveReview(ctx context.Context, reviewID string) error
	RespondReview(ctx context.Context, reviewID string, req *request.RespondReviewRequest) error
	DeleteReview(ctx context.Context, reviewID string) error
}

type reviewService struct {
	repo  *repository.Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewReviewService(repo *repository.Repository, clk clock.Clock, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:  repo,
		clock: clk,
		log:   log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, actor Actor, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	roomID, err := parseID("room_id", req.RoomID)
	if err != nil {
		return nil, err
	}

	room, err := s.repo.Room.FindByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("find room: %w", err)
	}
	if room == nil {
		return nil, apperr.New(apperr.KindNotFound, "room not found")
	}

	var bookingID *uuid.UUID
	if req.BookingID != nil {
		id, err := parseID("booking_id", *req.BookingID)
		if err != nil {
			return nil, err
		}
		if err := s.checkStay(ctx, actor, roomID, id); err != nil {
			return nil, err
		}
		bookingID = &id
	}

	review := &entity.Review{
		BaseNoDelete: entity.NewBaseNoDelete(s.clock.Now()),
		UserID:       actor.UserID,
		RoomID:       roomID,
		BookingID:    bookingID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review submitted",
		zap.String("review_id", review.ID.String()),
		zap.String("room_id", roomID.String()),
		zap.Int("rating", review.Rating))

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

// checkStay allows one review per finished stay of the reviewer in that room.
func (s *reviewService) checkStay(ctx context.Context, actor Actor, roomID, bookingID uuid.UUID) error {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return apperr.New(apperr.KindNotFound, "booking not found")
	}
	if !booking.OwnedBy(actor.UserID) {
		return apperr.New(apperr.KindForbidden, "booking belongs to another user")
	}
	if booking.RoomID != roomID {
		return apperr.New(apperr.KindValidation, "booking is for a different room")
	}
	if booking.Status != entity.BookingStatusCheckedOut {
		return apperr.New(apperr.KindInvalidState, "only completed stays can be reviewed")
	}

	exists, err := s.repo.Review.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return apperr.New(apperr.KindConflict, "this stay has already been reviewed")
	}
	return nil
}

func (s *reviewService) page(reviews []*entity.Review, req *request.PaginatedRequest, total int64) *response.PaginatedResponse[response.ReviewResponse] {
	data := make([]response.ReviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		data = append(data, response.ReviewToResponse(rv))
	}
	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total)
}

func (s *reviewService) GetRoomReviews(ctx context.Context, roomID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	id, err := parseID("room_id", roomID)
	if err != nil {
		return nil, err
	}
	req.Normalize()

	reviews, err := s.repo.Review.FindApprovedByRoomID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get room reviews: %w", err)
	}

	total, err := s.repo.Review.CountApprovedByRoomID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count room reviews: %w", err)
	}

	return s.page(reviews, req, total), nil
}

func (s *reviewService) GetPendingReviews(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	req.Normalize()

	reviews, err := s.repo.Review.FindPending(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get pending reviews: %w", err)
	}

	total, err := s.repo.Review.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pending reviews: %w", err)
	}

	return s.page(reviews, req, total), nil
}

func notFoundReview(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.New(apperr.KindNotFound, "review not found")
	}
	return err
}

func (s *reviewService) ApproveReview(ctx context.Context, reviewID string) error {
	id, err := parseID("review_id", reviewID)
	if err != nil {
		return err
	}

	if err := s.repo.Review.Approve(ctx, id, s.clock.Now()); err != nil {
		return notFoundReview(err)
	}

	s.log.Info("Review approved", zap.String("review_id", reviewID))
	return nil
}

func (s *reviewService) RespondReview(ctx context.Context, reviewID string, req *request.RespondReviewRequest) error {
	id, err := parseID("review_id", reviewID)
	if err != nil {
		return err
	}
	if err := validate(req); err != nil {
		return err
	}

	if err := s.repo.Review.Respond(ctx, id, req.Response, s.clock.Now()); err != nil {
		return notFoundReview(err)
	}
	return nil
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID string) error {
	id, err := parseID("review_id", reviewID)
	if err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, id); err != nil {
		return notFoundReview(err)
	}

	s.log.Info("Review deleted", zap.String("review_id", reviewID))
	return nil
}
