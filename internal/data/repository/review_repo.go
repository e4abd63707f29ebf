package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindApprovedByRoomID(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	CountApprovedByRoomID(ctx context.Context, roomID uuid.UUID) (int64, error)
	FindPending(ctx context.Context, limit, offset int) ([]*entity.Review, error)
	CountPending(ctx context.Context) (int64, error)
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	Approve(ctx context.Context, id uuid.UUID, at time.Time) error
	Respond(ctx context.Context, id uuid.UUID, response string, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReviewRepository(db database.Querier, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, user_id, room_id, booking_id, rating, comment, approved, admin_response,
	responded_at, created_at, updated_at`

func scanReview(row rowScanner) (*entity.Review, error) {
	var rv entity.Review
	err := row.Scan(
		&rv.ID,
		&rv.UserID,
		&rv.RoomID,
		&rv.BookingID,
		&rv.Rating,
		&rv.Comment,
		&rv.Approved,
		&rv.AdminResponse,
		&rv.RespondedAt,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Review, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to get reviews", zap.Error(err))
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews", zap.Error(err))
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}

func (r *reviewRepository) Create(ctx context.Context, rv *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, room_id, booking_id, rating, comment, approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		rv.ID,
		rv.UserID,
		rv.RoomID,
		rv.BookingID,
		rv.Rating,
		rv.Comment,
		rv.Approved,
		rv.CreatedAt,
		rv.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", rv.UserID.String()),
			zap.String("room_id", rv.RoomID.String()),
		)
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review", zap.Error(err), zap.String("review_id", id.String()))
		return nil, fmt.Errorf("find review %s: %w", id, err)
	}
	return rv, nil
}

func (r *reviewRepository) FindApprovedByRoomID(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	return r.list(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE room_id = $1 AND approved = true
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, roomID, limit, offset)
}

func (r *reviewRepository) CountApprovedByRoomID(ctx context.Context, roomID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM reviews WHERE room_id = $1 AND approved = true`, roomID)
}

func (r *reviewRepository) FindPending(ctx context.Context, limit, offset int) ([]*entity.Review, error) {
	return r.list(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE approved = false
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`, limit, offset)
}

func (r *reviewRepository) CountPending(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM reviews WHERE approved = false`)
}

func (r *reviewRepository) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reviews WHERE booking_id = $1)`, bookingID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check booking review", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return false, fmt.Errorf("check review for booking %s: %w", bookingID, err)
	}
	return exists, nil
}

func (r *reviewRepository) exec(ctx context.Context, action string, id uuid.UUID, query string, args ...any) error {
	result, err := r.db.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		r.log.Error("Failed to "+action+" review", zap.Error(err), zap.String("review_id", id.String()))
		return fmt.Errorf("%s review %s: %w", action, id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *reviewRepository) Approve(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.exec(ctx, "approve", id, `UPDATE reviews SET approved = true, updated_at = $2 WHERE id = $1`, at)
}

func (r *reviewRepository) Respond(ctx context.Context, id uuid.UUID, response string, at time.Time) error {
	return r.exec(ctx, "respond to", id,
		`UPDATE reviews SET admin_response = $2, responded_at = $3, updated_at = $3 WHERE id = $1`, response, at)
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "delete", id, `DELETE FROM reviews WHERE id = $1`)
}
