package repository

import (
	"context"
	"errors"
	"fmt"

	"hotel-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Room    RoomRepository
	Booking BookingRepository
	Coupon  CouponRepository
	Payment PaymentRepository
	Review  ReviewRepository
	Outbox  OutboxRepository

	// Tx runs a unit of work against repositories bound to one transaction
	Tx Transactor
}

// Transactor gives fn a Repository whose every member shares one
// transaction. fn's error rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *Repository) error) error
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := bind(db, log)
	repo.Tx = &pgxTransactor{db: db, base: log, log: log.With(zap.String("repository", "tx"))}
	return repo
}

func bind(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(q, log),
		Session: NewSessionRepository(q, log),
		Room:    NewRoomRepository(q, log),
		Booking: NewBookingRepository(q, log),
		Coupon:  NewCouponRepository(q, log),
		Payment: NewPaymentRepository(q, log),
		Review:  NewReviewRepository(q, log),
		Outbox:  NewOutboxRepository(q, log),
	}
}

type pgxTransactor struct {
	db   database.PgxIface
	base *zap.Logger
	log  *zap.Logger
}

func (t *pgxTransactor) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		t.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			t.log.Warn("Rollback failed", zap.Error(rbErr))
		}
	}()

	txRepo := bind(tx, t.base)
	txRepo.Tx = joinedTx{repo: txRepo}

	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		t.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// joinedTx lets code already inside a transaction call WithinTx again
// without opening a second one.
type joinedTx struct {
	repo *Repository
}

func (j joinedTx) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	return fn(j.repo)
}
