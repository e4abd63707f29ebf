package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/apperr"
	"hotel-booking/pkg/clock"
	"hotel-booking/pkg/money"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CouponService interface {
	// Validate returns the coupon when it may be applied to orderAmount now.
	Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*entity.Coupon, error)
	// CheckCoupon is the public lookup; an unusable code yields Valid=false.
	CheckCoupon(ctx context.Context, code, amount string) (*response.CouponValidationResponse, error)

	// Admin
	CreateCoupon(ctx context.Context, req *request.CreateCouponRequest) (*response.CouponResponse, error)
	UpdateCoupon(ctx context.Context, couponID string, req *request.UpdateCouponRequest) (*response.CouponResponse, error)
	DeactivateCoupon(ctx context.Context, couponID string) error
	GetCoupon(ctx context.Context, couponID string) (*response.CouponResponse, error)
	ListCoupons(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CouponResponse], error)
}

type couponService struct {
	repo  *repository.Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewCouponService(repo *repository.Repository, clk clock.Clock, log *zap.Logger) CouponService {
	return &couponService{
		repo:  repo,
		clock: clk,
		log:   log.With(zap.String("service", "coupon")),
	}
}

// ComputeDiscount is the discount a coupon grants on orderAmount. Percentage
// discounts honor MaxDiscount; fixed discounts are never capped, so callers
// clamp the resulting total at zero.
func ComputeDiscount(c *entity.Coupon, orderAmount decimal.Decimal) decimal.Decimal {
	switch c.DiscountType {
	case entity.DiscountPercentage:
		discount := money.Percent(orderAmount, c.DiscountValue)
		if c.MaxDiscount != nil && discount.GreaterThan(*c.MaxDiscount) {
			discount = *c.MaxDiscount
		}
		return money.NonNegative(discount)
	case entity.DiscountFixed:
		return money.NonNegative(money.Round(c.DiscountValue))
	default:
		return decimal.Zero
	}
}

// validateCoupon runs against coupons, which may be bound to an open transaction.
func validateCoupon(ctx context.Context, coupons repository.CouponRepository, now time.Time, code string, orderAmount decimal.Decimal) (*entity.Coupon, error) {
	c, err := coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find coupon: %w", err)
	}

	switch {
	case c == nil:
		return nil, apperr.New(apperr.KindCouponInvalid, "coupon not found")
	case !c.IsActive:
		return nil, apperr.New(apperr.KindCouponInvalid, "coupon is not active")
	case !c.InWindow(now):
		return nil, apperr.New(apperr.KindCouponInvalid, "coupon is not valid at this time")
	case c.Exhausted():
		return nil, apperr.New(apperr.KindCouponInvalid, "coupon usage limit reached")
	case c.MinOrderAmount != nil && orderAmount.LessThan(*c.MinOrderAmount):
		return nil, apperr.New(apperr.KindCouponInvalid, "order amount is below the coupon minimum of %s", c.MinOrderAmount.String())
	}

	return c, nil
}

func (s *couponService) Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*entity.Coupon, error) {
	return validateCoupon(ctx, s.repo.Coupon, s.clock.Now(), code, orderAmount)
}

func (s *couponService) CheckCoupon(ctx context.Context, code, amount string) (*response.CouponValidationResponse, error) {
	orderAmount, err := money.Parse(amount)
	if err != nil || orderAmount.IsNegative() {
		return nil, apperr.WithFields(
			apperr.New(apperr.KindValidation, "invalid amount"),
			map[string]string{"amount": "Must be a non-negative number"},
		)
	}

	c, err := s.Validate(ctx, code, orderAmount)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindCouponInvalid {
			return &response.CouponValidationResponse{
				Valid:       false,
				Message:     err.Error(),
				Discount:    decimal.Zero,
				FinalAmount: orderAmount,
			}, nil
		}
		return nil, err
	}

	discount := ComputeDiscount(c, orderAmount)
	resp := response.CouponToResponse(c)
	return &response.CouponValidationResponse{
		Valid:       true,
		Coupon:      &resp,
		Discount:    discount,
		FinalAmount: money.NonNegative(orderAmount.Sub(discount)),
	}, nil
}

func (s *couponService) applyRequest(c *entity.Coupon, req *request.UpdateCouponRequest) error {
	fields := map[string]string{}

	if !req.DiscountValue.IsPositive() {
		fields["DiscountValue"] = "Must be greater than 0"
	}
	if entity.DiscountType(req.DiscountType) == entity.DiscountPercentage && req.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		fields["DiscountValue"] = "Must be at most 100"
	}
	if req.MinOrderAmount != nil && req.MinOrderAmount.IsNegative() {
		fields["MinOrderAmount"] = "Must be at least 0"
	}
	if req.MaxDiscount != nil && !req.MaxDiscount.IsPositive() {
		fields["MaxDiscount"] = "Must be greater than 0"
	}
	if !req.ValidFrom.Before(req.ValidUntil) {
		fields["ValidUntil"] = "Must be after valid_from"
	}
	if len(fields) > 0 {
		return apperr.WithFields(apperr.New(apperr.KindValidation, "validation failed"), fields)
	}

	c.Description = req.Description
	c.DiscountType = entity.DiscountType(req.DiscountType)
	c.DiscountValue = req.DiscountValue
	c.MinOrderAmount = req.MinOrderAmount
	c.MaxDiscount = req.MaxDiscount
	if c.DiscountType == entity.DiscountFixed {
		c.MaxDiscount = nil
	}
	c.UsageLimit = req.UsageLimit
	c.ValidFrom = req.ValidFrom
	c.ValidUntil = req.ValidUntil
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	return nil
}

func (s *couponService) CreateCoupon(ctx context.Context, req *request.CreateCouponRequest) (*response.CouponResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	code := entity.NormalizeCouponCode(req.Code)
	existing, err := s.repo.Coupon.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("check coupon code: %w", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.KindConflict, "coupon code %s already exists", code)
	}

	c := &entity.Coupon{
		Base:     entity.NewBase(s.clock.Now()),
		Code:     code,
		IsActive: true,
	}
	if err := s.applyRequest(c, &req.UpdateCouponRequest); err != nil {
		return nil, err
	}

	if err := s.repo.Coupon.Create(ctx, c); err != nil {
		// lost a race with another create of the same code
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.New(apperr.KindConflict, "coupon code %s already exists", code)
		}
		return nil, fmt.Errorf("create coupon: %w", err)
	}

	s.log.Info("Coupon created", zap.String("coupon_id", c.ID.String()), zap.String("code", c.Code))

	resp := response.CouponToResponse(c)
	return &resp, nil
}

func (s *couponService) UpdateCoupon(ctx context.Context, couponID string, req *request.UpdateCouponRequest) (*response.CouponResponse, error) {
	id, err := parseID("coupon_id", couponID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	c, err := s.repo.Coupon.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	if c == nil {
		return nil, apperr.New(apperr.KindNotFound, "coupon not found")
	}

	if err := s.applyRequest(c, req); err != nil {
		return nil, err
	}
	if c.UsageLimit != nil && *c.UsageLimit < c.UsedCount {
		return nil, apperr.New(apperr.KindValidation, "usage limit cannot be below the %d uses already made", c.UsedCount)
	}
	c.UpdatedAt = s.clock.Now()

	if err := s.repo.Coupon.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "coupon not found")
		}
		return nil, fmt.Errorf("update coupon: %w", err)
	}

	resp := response.CouponToResponse(c)
	return &resp, nil
}

func (s *couponService) DeactivateCoupon(ctx context.Context, couponID string) error {
	id, err := parseID("coupon_id", couponID)
	if err != nil {
		return err
	}

	if err := s.repo.Coupon.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "coupon not found")
		}
		return fmt.Errorf("deactivate coupon: %w", err)
	}

	s.log.Info("Coupon deactivated", zap.String("coupon_id", couponID))
	return nil
}

func (s *couponService) GetCoupon(ctx context.Context, couponID string) (*response.CouponResponse, error) {
	id, err := parseID("coupon_id", couponID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Coupon.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	if c == nil {
		return nil, apperr.New(apperr.KindNotFound, "coupon not found")
	}

	resp := response.CouponToResponse(c)
	return &resp, nil
}

func (s *couponService) ListCoupons(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CouponResponse], error) {
	req.Normalize()

	coupons, err := s.repo.Coupon.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	total, err := s.repo.Coupon.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count coupons: %w", err)
	}

	data := make([]response.CouponResponse, 0, len(coupons))
	for _, c := range coupons {
		data = append(data, response.CouponToResponse(c))
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}
