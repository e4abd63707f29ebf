package repository

import (
	"context"
	"errors"
	"fmt"

	"hotel-booking/internal/data/entity"
	"hotel-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error)
	// Settle moves a PENDING payment to its terminal state. It reports false
	// when the payment was no longer pending.
	Settle(ctx context.Context, id uuid.UUID, s entity.Settlement) (bool, error)
}

type paymentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPaymentRepository(db database.Querier, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, booking_id, amount, payment_method, status, transaction_id, bank_code,
	card_type, response_code, description, paid_at, created_at, updated_at`

func scanPayment(row rowScanner) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.TransactionID,
		&p.BankCode,
		&p.CardType,
		&p.ResponseCode,
		&p.Description,
		&p.PaidAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, amount, payment_method, status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.BookingID,
		p.Amount,
		p.Method,
		p.Status,
		p.Description,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("booking_id", p.BookingID.String()),
			zap.String("amount", p.Amount.String()),
		)
		return fmt.Errorf("create payment for booking %s: %w", p.BookingID, err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment", zap.Error(err), zap.String("payment_id", id.String()))
		return nil, fmt.Errorf("find payment %s: %w", id, err)
	}

	return p, nil
}

func (r *paymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to get booking payments", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("find payments of booking %s: %w", bookingID, err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}

	return payments, nil
}

func (r *paymentRepository) Settle(ctx context.Context, id uuid.UUID, s entity.Settlement) (bool, error) {
	query := `
		UPDATE payments
		SET status = $2, transaction_id = $3, bank_code = $4, card_type = $5,
		    response_code = $6, paid_at = CASE WHEN $2 = 'SUCCESS' THEN $7::timestamptz ELSE NULL END,
		    updated_at = $7
		WHERE id = $1 AND status = 'PENDING'
	`

	result, err := r.db.Exec(ctx, query,
		id,
		string(s.Status),
		s.TransactionID,
		s.BankCode,
		s.CardType,
		s.ResponseCode,
		s.At,
	)
	if err != nil {
		r.log.Error("Failed to settle payment",
			zap.Error(err),
			zap.String("payment_id", id.String()),
			zap.String("status", string(s.Status)),
		)
		return false, fmt.Errorf("settle payment %s: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}
