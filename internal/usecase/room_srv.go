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
	"hotel-booking/pkg/daterange"
	"hotel-booking/pkg/money"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoomService interface {
	CreateRoom(ctx context.Context, req *request.CreateRoomRequest) (*response.RoomResponse, error)
	UpdateRoom(ctx context.Context, roomID string, req *request.UpdateRoomRequest) (*response.RoomResponse, error)
	UpdateRoomStatus(ctx context.Context, roomID string, req *request.UpdateRoomStatusRequest) error
	GetRoom(ctx context.Context, roomID string) (*response.RoomResponse, error)
	ListRooms(ctx context.Context, req *request.RoomListRequest) (*response.PaginatedResponse[response.RoomResponse], error)

	// Availability
	CheckAvailability(ctx context.Context, roomID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
	FindConflicts(ctx context.Context, roomID uuid.UUID, stay daterange.Range) ([]*entity.Booking, error)
	SearchAvailable(ctx context.Context, req *request.RoomSearchRequest) ([]response.RoomSearchResult, error)
}

type roomService struct {
	repo  *repository.Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewRoomService(repo *repository.Repository, clk clock.Clock, log *zap.Logger) RoomService {
	return &roomService{
		repo:  repo,
		clock: clk,
		log:   log.With(zap.String("service", "room")),
	}
}

// parseStay parses a requested stay and rejects ranges that start in the past.
func parseStay(checkIn, checkOut string, now clock.Clock) (daterange.Range, error) {
	stay, err := daterange.ParseRange(checkIn, checkOut)
	if err != nil {
		return daterange.Range{}, apperr.Wrap(apperr.KindValidation, err, "invalid stay dates")
	}
	if err := stay.NotBefore(now.Now()); err != nil {
		return daterange.Range{}, apperr.Wrap(apperr.KindValidation, err, "invalid stay dates")
	}
	return stay, nil
}

// buildAvailability summarizes the conflicts found for a stay.
func buildAvailability(roomID uuid.UUID, stay daterange.Range, conflicts []*entity.Booking) response.AvailabilityResponse {
	resp := response.AvailabilityResponse{
		RoomID:        roomID.String(),
		CheckIn:       response.FormatDate(stay.CheckIn),
		CheckOut:      response.FormatDate(stay.CheckOut),
		Available:     len(conflicts) == 0,
		ConflictCount: len(conflicts),
	}
	if resp.Available {
		return resp
	}

	latest := conflicts[0].CheckOut
	for _, b := range conflicts[1:] {
		if b.CheckOut.After(latest) {
			latest = b.CheckOut
		}
	}

	from := daterange.AddDays(latest, 1)
	formatted := response.FormatDate(from)
	resp.AvailableFrom = &formatted
	resp.DaysUntilAvailable = max(0, daterange.DaysBetween(stay.CheckIn, from))
	return resp
}

func (s *roomService) roomFromRequest(room *entity.Room, req *request.CreateRoomRequest) error {
	if !req.Price.IsPositive() {
		return apperr.WithFields(
			apperr.New(apperr.KindValidation, "validation failed: price must be positive"),
			map[string]string{"Price": "Must be greater than 0"},
		)
	}

	room.RoomNumber = req.RoomNumber
	room.Type = entity.RoomType(req.Type)
	room.Capacity = req.Capacity
	room.Price = money.Round(req.Price)
	room.Description = req.Description
	if req.Status != "" {
		room.Status = entity.RoomStatus(req.Status)
	}
	if room.Status == "" {
		room.Status = entity.RoomStatusAvailable
	}
	return nil
}

func (s *roomService) CreateRoom(ctx context.Context, req *request.CreateRoomRequest) (*response.RoomResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	room := &entity.Room{Base: entity.NewBase(s.clock.Now())}
	if err := s.roomFromRequest(room, req); err != nil {
		return nil, err
	}

	if err := s.repo.Room.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.New(apperr.KindConflict, "room %s already exists", room.RoomNumber)
		}
		return nil, fmt.Errorf("create room: %w", err)
	}

	s.log.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("room_number", room.RoomNumber))

	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *roomService) UpdateRoom(ctx context.Context, roomID string, req *request.UpdateRoomRequest) (*response.RoomResponse, error) {
	id, err := parseID("room_id", roomID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find room: %w", err)
	}
	if room == nil {
		return nil, apperr.New(apperr.KindNotFound, "room not found")
	}

	if err := s.roomFromRequest(room, req); err != nil {
		return nil, err
	}
	room.UpdatedAt = s.clock.Now()

	if err := s.repo.Room.Update(ctx, room); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "room not found")
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.New(apperr.KindConflict, "room %s already exists", room.RoomNumber)
		}
		return nil, fmt.Errorf("update room: %w", err)
	}

	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *roomService) UpdateRoomStatus(ctx context.Context, roomID string, req *request.UpdateRoomStatusRequest) error {
	id, err := parseID("room_id", roomID)
	if err != nil {
		return err
	}
	if err := validate(req); err != nil {
		return err
	}

	if err := s.repo.Room.UpdateStatus(ctx, id, entity.RoomStatus(req.Status)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "room not found")
		}
		return fmt.Errorf("update room status: %w", err)
	}

	s.log.Info("Room status updated", zap.String("room_id", roomID), zap.String("status", req.Status))
	return nil
}

func (s *roomService) GetRoom(ctx context.Context, roomID string) (*response.RoomResponse, error) {
	id, err := parseID("room_id", roomID)
	if err != nil {
		return nil, err
	}

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find room: %w", err)
	}
	if room == nil {
		return nil, apperr.New(apperr.KindNotFound, "room not found")
	}

	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *roomService) ListRooms(ctx context.Context, req *request.RoomListRequest) (*response.PaginatedResponse[response.RoomResponse], error) {
	req.PaginatedRequest.Normalize()
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.RoomFilter{Limit: req.Limit(), Offset: req.Offset()}
	if req.Type != "" {
		t := entity.RoomType(req.Type)
		filter.Type = &t
	}
	if req.Status != "" {
		st := entity.RoomStatus(req.Status)
		filter.Status = &st
	}

	rooms, err := s.repo.Room.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	total, err := s.repo.Room.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count rooms: %w", err)
	}

	data := make([]response.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		data = append(data, response.RoomToResponse(room))
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *roomService) FindConflicts(ctx context.Context, roomID uuid.UUID, stay daterange.Range) ([]*entity.Booking, error) {
	conflicts, err := s.repo.Booking.FindConflicts(ctx, roomID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("find conflicts: %w", err)
	}
	return conflicts, nil
}

func (s *roomService) CheckAvailability(ctx context.Context, roomID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	id, err := parseID("room_id", roomID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	stay, err := parseStay(req.CheckIn, req.CheckOut, s.clock)
	if err != nil {
		return nil, err
	}

	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find room: %w", err)
	}
	if room == nil {
		return nil, apperr.New(apperr.KindNotFound, "room not found")
	}

	conflicts, err := s.FindConflicts(ctx, id, stay)
	if err != nil {
		return nil, err
	}

	resp := buildAvailability(id, stay, conflicts)
	return &resp, nil
}

func (s *roomService) SearchAvailable(ctx context.Context, req *request.RoomSearchRequest) ([]response.RoomSearchResult, error) {
	if req.Guests < 1 {
		req.Guests = 1
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	stay, err := parseStay(req.CheckIn, req.CheckOut, s.clock)
	if err != nil {
		return nil, err
	}

	rooms, err := s.repo.Room.FindAll(ctx, repository.RoomFilter{MinCapacity: req.Guests})
	if err != nil {
		return nil, fmt.Errorf("search rooms: %w", err)
	}

	results := make([]response.RoomSearchResult, 0, len(rooms))
	for _, room := range rooms {
		conflicts, err := s.FindConflicts(ctx, room.ID, stay)
		if err != nil {
			return nil, err
		}
		results = append(results, response.RoomSearchResult{
			RoomResponse: response.RoomToResponse(room),
			Availability: buildAvailability(room.ID, stay, conflicts),
		})
	}

	return results, nil
}
