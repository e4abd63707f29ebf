package usecase

import (
	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/clock"
	"hotel-booking/pkg/retry"
	"hotel-booking/pkg/utils"
	"hotel-booking/pkg/vnpay"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Room    RoomService
	Coupon  CouponService
	Booking BookingService
	Payment PaymentService
	Review  ReviewService
}

func NewService(repo *repository.Repository, config *utils.Config, clk clock.Clock, log *zap.Logger) *Service {
	if clk == nil {
		clk = clock.Real()
	}

	gateway := vnpay.NewClient(vnpay.Config{
		TmnCode:       config.VNPay.TmnCode,
		HashSecret:    config.VNPay.HashSecret,
		PayURL:        config.VNPay.PayURL,
		ReturnURL:     config.VNPay.ReturnURL,
		Version:       config.VNPay.Version,
		Command:       config.VNPay.Command,
		OrderType:     config.VNPay.OrderType,
		Locale:        config.VNPay.Locale,
		ExpireMinutes: config.VNPay.ExpireMinutes,
	}, clk)

	retrier := retry.New(retry.Config{
		MaxRetries:      config.Retry.MaxRetries,
		InitialInterval: config.Retry.InitialInterval,
		MaxInterval:     config.Retry.MaxInterval,
		Multiplier:      2,
		JitterFactor:    0.1,
	})

	return &Service{
		Auth:    NewAuthService(repo, config, clk, log),
		User:    NewUserService(repo.User, log),
		Room:    NewRoomService(repo, clk, log),
		Coupon:  NewCouponService(repo, clk, log),
		Booking: NewBookingService(repo, clk, log),
		Payment: NewPaymentService(repo, gateway, retrier, clk, log),
		Review:  NewReviewService(repo, clk, log),
	}
}
