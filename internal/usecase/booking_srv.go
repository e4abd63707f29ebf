package usecase

import (
	"context"
	"fmt"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/apperr"
	"hotel-booking/pkg/clock"
	"hotel-booking/pkg/daterange"
	"hotel-booking/pkg/money"
	"hotel-booking/pkg/utils"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type BookingService interface {
	Quote(ctx context.Context, req *request.QuoteRequest) (*response.QuoteResponse, error)
	CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	UpdateServices(ctx context.Context, actor Actor, bookingID string, req *request.UpdateServicesRequest) (*response.BookingResponse, error)

	// Admin endpoints
	ListBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateStatus(ctx context.Context, bookingID, status string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo  *repository.Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewBookingService(repo *repository.Repository, clk clock.Clock, log *zap.Logger) BookingService {
	return &bookingService{
		repo:  repo,
		clock: clk,
		log:   log.With(zap.String("service", "booking")),
	}
}

// price is the money side of a stay.
type price struct {
	subtotal decimal.Decimal
	discount decimal.Decimal
	total    decimal.Decimal
	coupon   *entity.Coupon
}

// priceStay computes nights x rate less any coupon discount, so that
// total = subtotal - discount and neither goes below zero.
func (s *bookingService) priceStay(ctx context.Context, coupons repository.CouponRepository, room *entity.Room, stay daterange.Range, code *string) (price, error) {
	p := price{
		subtotal: money.Round(room.Price.Mul(decimal.NewFromInt(int64(stay.Nights())))),
		discount: decimal.Zero,
	}

	if code != nil && *code != "" {
		c, err := validateCoupon(ctx, coupons, s.clock.Now(), *code, p.subtotal)
		if err != nil {
			return price{}, err
		}
		p.coupon = c
		// the stored discount is what was applied, never more than the subtotal
		p.discount = decimal.Min(ComputeDiscount(c, p.subtotal), p.subtotal)
	}

	p.total = money.NonNegative(p.subtotal.Sub(p.discount))
	return p, nil
}

func (s *bookingService) Quote(ctx context.Context, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	roomID, err := parseID("room_id", req.RoomID)
	if err != nil {
		return nil, err
	}
	stay, err := parseStay(req.CheckIn, req.CheckOut, s.clock)
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

	p, err := s.priceStay(ctx, s.repo.Coupon, room, stay, req.CouponCode)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.repo.Booking.FindConflicts(ctx, roomID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("find conflicts: %w", err)
	}

	resp := &response.QuoteResponse{
		RoomID:      room.ID.String(),
		CheckIn:     response.FormatDate(stay.CheckIn),
		CheckOut:    response.FormatDate(stay.CheckOut),
		Nights:      stay.Nights(),
		NightlyRate: room.Price,
		Subtotal:    p.subtotal,
		Discount:    p.discount,
		Total:       p.total,
		Available:   len(conflicts) == 0,
	}
	if p.coupon != nil {
		resp.CouponCode = &p.coupon.Code
	}
	return resp, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (_ *response.BookingResponse, err error) {
	ctx, span := tracer.Start(ctx, "booking.create")
	defer func() { endSpan(span, err) }()

	if err := validate(req); err != nil {
		return nil, err
	}
	roomID, err := parseID("room_id", req.RoomID)
	if err != nil {
		return nil, err
	}
	stay, err := parseStay(req.CheckIn, req.CheckOut, s.clock)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("room_id", roomID.String()),
		attribute.String("stay", stay.String()),
	)

	var (
		booking *entity.Booking
		room    *entity.Room
	)

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		// the room lock serializes concurrent bookings of the same room
		room, err = tx.Room.LockByID(ctx, roomID)
		if err != nil {
			return fmt.Errorf("lock room: %w", err)
		}
		if room == nil {
			return apperr.New(apperr.KindNotFound, "room not found")
		}
		if req.Guests > room.Capacity {
			return apperr.WithFields(
				apperr.New(apperr.KindValidation, "room %s holds at most %d guests", room.RoomNumber, room.Capacity),
				map[string]string{"Guests": fmt.Sprintf("Maximum is %d", room.Capacity)},
			)
		}

		conflicts, err := tx.Booking.FindConflicts(ctx, roomID, stay.CheckIn, stay.CheckOut)
		if err != nil {
			return fmt.Errorf("find conflicts: %w", err)
		}
		if len(conflicts) > 0 {
			return apperr.New(apperr.KindConflict, "room is not available for the selected dates")
		}

		p, err := s.priceStay(ctx, tx.Coupon, room, stay, req.CouponCode)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		booking = &entity.Booking{
			BaseNoDelete:    entity.NewBaseNoDelete(now),
			Code:            utils.GenerateBookingCode(now),
			UserID:          actor.UserID,
			RoomID:          roomID,
			CheckIn:         stay.CheckIn,
			CheckOut:        stay.CheckOut,
			Guests:          req.Guests,
			Subtotal:        p.subtotal,
			Discount:        p.discount,
			TotalPrice:      p.total,
			Status:          entity.BookingStatusPending,
			SpecialRequests: req.SpecialRequests,
			PremiumServices: entity.PremiumServices(req.UpdateServicesRequest),
		}
		if p.coupon != nil {
			booking.CouponCode = &p.coupon.Code
		}
		// nothing to pay: confirmed at once, no payment is ever created
		if booking.TotalPrice.IsZero() {
			booking.Status = entity.BookingStatusConfirmed
		}

		if err := tx.Booking.Create(ctx, booking); err != nil {
			return err
		}

		if p.coupon != nil {
			ok, err := tx.Coupon.IncrementUsage(ctx, p.coupon.ID)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.New(apperr.KindConflict, "coupon usage limit reached")
			}
		}

		if booking.Status == entity.BookingStatusConfirmed {
			return enqueueBookingEvent(ctx, tx, booking, nil, entity.EventBookingConfirmed, now)
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			s.log.Error("Failed to create booking",
				zap.Error(err),
				zap.String("user_id", actor.UserID.String()),
				zap.String("room_id", roomID.String()))
		}
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_code", booking.Code),
		zap.String("user_id", actor.UserID.String()),
		zap.String("status", string(booking.Status)),
		zap.String("total_price", booking.TotalPrice.String()))

	resp := response.BookingToResponse(booking, room)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	req.Normalize()

	bookings, err := s.repo.Booking.FindByUserID(ctx, actor.UserID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	return response.NewPaginatedResponse(s.toResponses(ctx, bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	req.PaginatedRequest.Normalize()

	var status *entity.BookingStatus
	if req.Status != "" {
		st, err := entity.ParseBookingStatus(req.Status)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, err, "invalid status filter")
		}
		status = &st
	}

	bookings, err := s.repo.Booking.FindAll(ctx, status, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	return response.NewPaginatedResponse(s.toResponses(ctx, bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) toResponses(ctx context.Context, bookings []*entity.Booking) []response.BookingResponse {
	rooms := map[string]*entity.Room{}
	data := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		key := b.RoomID.String()
		room, seen := rooms[key]
		if !seen {
			// room numbers are decoration; a failed lookup leaves them blank
			room, _ = s.repo.Room.FindByID(ctx, b.RoomID)
			rooms[key] = room
		}
		data = append(data, response.BookingToResponse(b, room))
	}
	return data
}

func (s *bookingService) GetBookingByID(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.New(apperr.KindNotFound, "booking not found")
	}
	if !actor.CanAccess(booking.UserID) {
		return nil, apperr.New(apperr.KindForbidden, "booking belongs to another user")
	}

	room, err := s.repo.Room.FindByID(ctx, booking.RoomID)
	if err != nil {
		return nil, fmt.Errorf("find room: %w", err)
	}

	resp := response.BookingToResponse(booking, room)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}

	var booking *entity.Booking
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		booking, err = tx.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return apperr.New(apperr.KindNotFound, "booking not found")
		}
		if !actor.CanAccess(booking.UserID) {
			return apperr.New(apperr.KindForbidden, "booking belongs to another user")
		}
		if booking.Status == entity.BookingStatusCancelled {
			return apperr.New(apperr.KindInvalidState, "booking is already cancelled")
		}
		if !booking.Status.Cancellable() {
			return apperr.New(apperr.KindInvalidState, "cannot cancel a booking that is %s", booking.Status)
		}

		now := s.clock.Now()
		if err := tx.Booking.UpdateStatus(ctx, id, entity.BookingStatusCancelled, now); err != nil {
			return err
		}
		booking.Status = entity.BookingStatusCancelled
		booking.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("actor_id", actor.UserID.String()),
		zap.Bool("by_admin", actor.Admin && actor.UserID != booking.UserID))

	resp := response.BookingToResponse(booking, nil)
	return &resp, nil
}

// UpdateStatus is the privileged path. It skips the transition table but never
// leaves a terminal state.
func (s *bookingService) UpdateStatus(ctx context.Context, bookingID, status string) (*response.BookingResponse, error) {
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}
	target, err := entity.ParseBookingStatus(status)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "invalid booking status")
	}

	var booking *entity.Booking
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		booking, err = tx.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return apperr.New(apperr.KindNotFound, "booking not found")
		}
		if booking.Status.IsTerminal() && booking.Status != target {
			return apperr.New(apperr.KindInvalidState, "booking is %s and can no longer change", booking.Status)
		}
		if booking.Status == target {
			return nil
		}

		now := s.clock.Now()
		if err := tx.Booking.UpdateStatus(ctx, id, target, now); err != nil {
			return err
		}
		booking.Status = target
		booking.UpdatedAt = now

		if target == entity.BookingStatusConfirmed {
			return enqueueBookingEvent(ctx, tx, booking, nil, entity.EventBookingConfirmed, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("status", string(target)))

	resp := response.BookingToResponse(booking, nil)
	return &resp, nil
}

func (s *bookingService) UpdateServices(ctx context.Context, actor Actor, bookingID string, req *request.UpdateServicesRequest) (*response.BookingResponse, error) {
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}

	var booking *entity.Booking
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		booking, err = tx.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return apperr.New(apperr.KindNotFound, "booking not found")
		}
		if !actor.CanAccess(booking.UserID) {
			return apperr.New(apperr.KindForbidden, "booking belongs to another user")
		}
		if booking.Status.IsTerminal() {
			return apperr.New(apperr.KindInvalidState, "cannot change services of a %s booking", booking.Status)
		}

		services := entity.PremiumServices(*req)
		now := s.clock.Now()
		if err := tx.Booking.UpdateServices(ctx, id, services, now); err != nil {
			return err
		}
		booking.PremiumServices = services
		booking.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking, nil)
	return &resp, nil
}
