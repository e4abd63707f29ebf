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

type CouponRepository interface {
	Create(ctx context.Context, coupon *entity.Coupon) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error)
	FindByCode(ctx context.Context, code string) (*entity.Coupon, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Coupon, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, coupon *entity.Coupon) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	// IncrementUsage burns one use. It reports false when the usage limit
	// was already reached.
	IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)
}

type couponRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCouponRepository(db database.Querier, log *zap.Logger) CouponRepository {
	return &couponRepository{
		db:  db,
		log: log.With(zap.String("repository", "coupon")),
	}
}

const couponColumns = `id, code, description, discount_type, discount_value, min_order_amount,
	max_discount_amount, usage_limit, used_count, valid_from, valid_until, is_active,
	created_at, updated_at, deleted_at`

func scanCoupon(row rowScanner) (*entity.Coupon, error) {
	var c entity.Coupon
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Description,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinOrderAmount,
		&c.MaxDiscount,
		&c.UsageLimit,
		&c.UsedCount,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *couponRepository) Create(ctx context.Context, c *entity.Coupon) error {
	query := `
		INSERT INTO coupons (id, code, description, discount_type, discount_value, min_order_amount,
		                     max_discount_amount, usage_limit, used_count, valid_from, valid_until,
		                     is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		c.ID,
		c.Code,
		c.Description,
		c.DiscountType,
		c.DiscountValue,
		c.MinOrderAmount,
		c.MaxDiscount,
		c.UsageLimit,
		c.UsedCount,
		c.ValidFrom,
		c.ValidUntil,
		c.IsActive,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		r.log.Error("Failed to create coupon", zap.Error(err), zap.String("code", c.Code))
		return fmt.Errorf("create coupon %s: %w", c.Code, err)
	}

	return nil
}

func (r *couponRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1 AND deleted_at IS NULL`

	c, err := scanCoupon(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coupon", zap.Error(err), zap.String("coupon_id", id.String()))
		return nil, fmt.Errorf("find coupon %s: %w", id, err)
	}
	return c, nil
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = upper($1) AND deleted_at IS NULL`

	c, err := scanCoupon(r.db.QueryRow(ctx, query, entity.NormalizeCouponCode(code)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coupon by code", zap.Error(err), zap.String("code", code))
		return nil, fmt.Errorf("find coupon by code %s: %w", code, err)
	}
	return c, nil
}

func (r *couponRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get coupons", zap.Error(err))
		return nil, fmt.Errorf("find coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*entity.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			r.log.Error("Failed to scan coupon row", zap.Error(err))
			return nil, fmt.Errorf("scan coupon row: %w", err)
		}
		coupons = append(coupons, c)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}

	return coupons, nil
}

func (r *couponRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM coupons WHERE deleted_at IS NULL`).Scan(&count); err != nil {
		r.log.Error("Failed to count coupons", zap.Error(err))
		return 0, fmt.Errorf("count coupons: %w", err)
	}
	return count, nil
}

func (r *couponRepository) Update(ctx context.Context, c *entity.Coupon) error {
	query := `
		UPDATE coupons
		SET description = $2, discount_type = $3, discount_value = $4, min_order_amount = $5,
		    max_discount_amount = $6, usage_limit = $7, valid_from = $8, valid_until = $9,
		    is_active = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		c.ID,
		c.Description,
		c.DiscountType,
		c.DiscountValue,
		c.MinOrderAmount,
		c.MaxDiscount,
		c.UsageLimit,
		c.ValidFrom,
		c.ValidUntil,
		c.IsActive,
		c.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update coupon", zap.Error(err), zap.String("coupon_id", c.ID.String()))
		return fmt.Errorf("update coupon %s: %w", c.ID, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *couponRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE coupons SET is_active = false, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate coupon", zap.Error(err), zap.String("coupon_id", id.String()))
		return fmt.Errorf("deactivate coupon %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *couponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE coupons
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE id = $1
		  AND (usage_limit IS NULL OR used_count < usage_limit)
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to increment coupon usage", zap.Error(err), zap.String("coupon_id", id.String()))
		return false, fmt.Errorf("increment coupon %s usage: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}
