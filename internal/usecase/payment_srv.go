package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"hotel-booking/internal/data/entity"
	"hotel-booking/internal/data/repository"
	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/pkg/apperr"
	"hotel-booking/pkg/clock"
	"hotel-booking/pkg/money"
	"hotel-booking/pkg/retry"
	"hotel-booking/pkg/vnpay"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	MessageApplied          = "Payment result recorded"
	MessageAlreadyProcessed = "Payment already processed"
)

type PaymentService interface {
	CreateIntent(ctx context.Context, actor Actor, req *request.CreatePaymentRequest, clientIP string) (*response.PaymentIntentResponse, error)
	// ReconcileCallback verifies a signed gateway callback and applies it to
	// the payment at most once. Rejections carry the matching apperr kind.
	ReconcileCallback(ctx context.Context, params map[string]string) (*response.ReconcileOutcome, error)
	GetPaymentsByBooking(ctx context.Context, actor Actor, bookingID string) ([]response.PaymentResponse, error)
}

type paymentService struct {
	repo    *repository.Repository
	gateway *vnpay.Client
	retrier *retry.Retrier
	clock   clock.Clock
	log     *zap.Logger
}

func NewPaymentService(repo *repository.Repository, gateway *vnpay.Client, retrier *retry.Retrier, clk clock.Clock, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:    repo,
		gateway: gateway,
		retrier: retrier,
		clock:   clk,
		log:     log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) CreateIntent(ctx context.Context, actor Actor, req *request.CreatePaymentRequest, clientIP string) (_ *response.PaymentIntentResponse, err error) {
	ctx, span := tracer.Start(ctx, "payment.create_intent")
	defer func() { endSpan(span, err) }()

	if err := validate(req); err != nil {
		return nil, err
	}
	bookingID, err := parseID("booking_id", req.BookingID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("booking_id", bookingID.String()))

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.New(apperr.KindNotFound, "booking not found")
	}
	if !actor.CanAccess(booking.UserID) {
		return nil, apperr.New(apperr.KindForbidden, "booking belongs to another user")
	}
	if booking.Status != entity.BookingStatusPending && booking.Status != entity.BookingStatusConfirmed {
		return nil, apperr.New(apperr.KindInvalidState, "cannot pay for a %s booking", booking.Status)
	}

	paid, err := s.paidAmount(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	outstanding := booking.TotalPrice.Sub(paid)
	if !outstanding.IsPositive() {
		return nil, apperr.New(apperr.KindInvalidState, "booking %s is already paid", booking.Code)
	}

	amount := outstanding
	if req.Amount != nil {
		amount = *req.Amount
	}
	if !amount.IsPositive() || amount.GreaterThan(outstanding) {
		return nil, apperr.WithFields(
			apperr.New(apperr.KindValidation, "amount must be greater than 0 and at most %s", outstanding.String()),
			map[string]string{"Amount": "Out of range"},
		)
	}
	minor, err := money.ToMinorUnits(amount)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "invalid amount")
	}

	description := fmt.Sprintf("Payment for booking %s", booking.Code)
	payment := &entity.Payment{
		BaseNoDelete: entity.NewBaseNoDelete(s.clock.Now()),
		BookingID:    booking.ID,
		Amount:       amount,
		Method:       entity.PaymentMethodVNPay,
		Status:       entity.PaymentStatusPending,
		Description:  &description,
	}

	paymentURL, err := s.gateway.BuildPaymentURL(vnpay.PaymentRequest{
		TxnRef:      payment.ID.String(),
		AmountMinor: minor,
		OrderInfo:   description,
		ClientIP:    clientIP,
	})
	if err != nil {
		return nil, fmt.Errorf("build payment url: %w", err)
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.log.Info("Payment intent created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", booking.ID.String()),
		zap.String("amount", amount.String()))

	return &response.PaymentIntentResponse{
		PaymentID:  payment.ID.String(),
		PaymentURL: paymentURL,
	}, nil
}

func (s *paymentService) reject(kind apperr.Kind, event string, params map[string]string, format string, args ...any) error {
	s.log.Warn("Payment callback rejected",
		zap.String("security_event", event),
		zap.String("txn_ref", params[vnpay.ParamTxnRef]),
		zap.String("amount", params[vnpay.ParamAmount]),
		zap.String("response_code", params[vnpay.ParamResponseCode]))
	return apperr.New(kind, format, args...)
}

func (s *paymentService) ReconcileCallback(ctx context.Context, params map[string]string) (_ *response.ReconcileOutcome, err error) {
	ctx, span := tracer.Start(ctx, "payment.reconcile_callback")
	defer func() { endSpan(span, err) }()

	if err := s.gateway.Verify(params); err != nil {
		return nil, s.reject(apperr.KindInvalidSignature, "invalid_signature", params, "invalid signature")
	}

	paymentID, err := uuid.Parse(params[vnpay.ParamTxnRef])
	if err != nil {
		return nil, s.reject(apperr.KindUnknownPayment, "unknown_payment", params, "unknown payment reference")
	}
	span.SetAttributes(attribute.String("payment_id", paymentID.String()))

	payment, err := s.repo.Payment.FindByID(ctx, paymentID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to load payment")
	}
	if payment == nil {
		return nil, s.reject(apperr.KindUnknownPayment, "unknown_payment", params, "unknown payment reference")
	}

	expected, err := money.ToMinorUnits(payment.Amount)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "stored payment amount is not representable")
	}
	received, err := strconv.ParseInt(params[vnpay.ParamAmount], 10, 64)
	if err != nil || received != expected {
		return nil, s.reject(apperr.KindAmountMismatch, "amount_mismatch", params, "amount does not match payment")
	}

	responseCode := params[vnpay.ParamResponseCode]
	outcome := &response.ReconcileOutcome{
		Valid:        true,
		BookingID:    payment.BookingID.String(),
		PaymentID:    payment.ID.String(),
		ResponseCode: responseCode,
	}

	if payment.Status.IsTerminal() {
		outcome.Status = payment.Status
		outcome.Message = MessageAlreadyProcessed
		return outcome, nil
	}

	settlement := entity.Settlement{
		Status:        entity.PaymentStatusFailed,
		TransactionID: transactionRef(params),
		BankCode:      optional(params[vnpay.ParamBankCode]),
		CardType:      optional(params[vnpay.ParamCardType]),
		ResponseCode:  responseCode,
		At:            s.clock.Now(),
	}
	if responseCode == vnpay.ResponseCodeSuccess {
		settlement.Status = entity.PaymentStatusSuccess
	}

	var applied bool
	res := s.retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		applied, err = s.settle(ctx, payment, settlement)
		if _, domain := apperr.As(err); domain {
			return retry.Permanent(err)
		}
		return err
	}, func(attempt int, err error, wait time.Duration) {
		s.log.Warn("Retrying payment settlement",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err))
	})
	if res.Err != nil {
		cause := res.LastError
		if cause == nil {
			cause = res.Err
		}
		s.log.Error("Failed to record payment result",
			zap.Error(cause),
			zap.Int("attempts", res.Attempts),
			zap.String("payment_id", payment.ID.String()))
		return nil, apperr.Wrap(apperr.KindInternal, cause, "failed to record payment result")
	}

	outcome.Applied = applied
	outcome.Status = settlement.Status
	outcome.Message = MessageApplied
	if !applied {
		outcome.Message = MessageAlreadyProcessed
	}

	s.log.Info("Payment callback reconciled",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", payment.BookingID.String()),
		zap.String("status", string(settlement.Status)),
		zap.Bool("applied", applied))

	return outcome, nil
}

// settle writes the gateway result in one transaction. It reports false when
// another callback settled the payment first.
func (s *paymentService) settle(ctx context.Context, payment *entity.Payment, st entity.Settlement) (bool, error) {
	var applied bool
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		ok, err := tx.Payment.Settle(ctx, payment.ID, st)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		applied = true

		booking, err := tx.Booking.FindByIDForUpdate(ctx, payment.BookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return apperr.New(apperr.KindInternal, "booking %s of payment %s is missing", payment.BookingID, payment.ID)
		}

		settled := *payment
		settled.Status = st.Status

		if st.Status != entity.PaymentStatusSuccess {
			return enqueueBookingEvent(ctx, tx, booking, &settled, entity.EventPaymentFailed, st.At)
		}

		event := entity.EventPaymentSucceeded
		switch {
		case booking.Status.CanTransitionTo(entity.BookingStatusConfirmed):
			if err := tx.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusConfirmed, st.At); err != nil {
				return err
			}
			booking.Status = entity.BookingStatusConfirmed
			event = entity.EventBookingConfirmed
		case booking.Status == entity.BookingStatusCancelled:
			s.log.Warn("Payment succeeded for a cancelled booking",
				zap.String("payment_id", payment.ID.String()),
				zap.String("booking_id", booking.ID.String()))
		}

		return enqueueBookingEvent(ctx, tx, booking, &settled, event, st.At)
	})
	return applied, err
}

func (s *paymentService) GetPaymentsByBooking(ctx context.Context, actor Actor, bookingID string) ([]response.PaymentResponse, error) {
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

	payments, err := s.repo.Payment.FindByBookingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}

	data := make([]response.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		data = append(data, response.PaymentToResponse(p))
	}
	return data, nil
}

// paidAmount sums the successful payments recorded for a booking.
func (s *paymentService) paidAmount(ctx context.Context, bookingID uuid.UUID) (decimal.Decimal, error) {
	payments, err := s.repo.Payment.FindByBookingID(ctx, bookingID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("find payments: %w", err)
	}
	paid := decimal.Zero
	for _, p := range payments {
		if p.Status == entity.PaymentStatusSuccess {
			paid = paid.Add(p.Amount)
		}
	}
	return paid, nil
}

// transactionRef is the gateway transaction number, falling back to our own
// reference when the gateway omits it.
func transactionRef(params map[string]string) *string {
	if v := params[vnpay.ParamTransactionNo]; v != "" {
		return &v
	}
	return optional(params[vnpay.ParamTxnRef])
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
