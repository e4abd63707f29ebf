package adaptor

import (
	"encoding/json"
	"net/http"
	"net/url"

	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/dto/response"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/apperr"
	"hotel-booking/pkg/utils"
	"hotel-booking/pkg/vnpay"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Gateway IPN result codes.
const (
	RspConfirmed        = "00"
	RspUnknownPayment   = "01"
	RspAlreadyConfirmed = "02"
	RspAmountMismatch   = "04"
	RspInvalidSignature = "97"
	RspUnknownError     = "99"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// CreatePayment handles POST /api/payment/create (protected)
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req request.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	intent, err := h.service.CreateIntent(r.Context(), actor, &req, utils.ClientIP(r))
	if err != nil {
		writeError(w, h.log, err, "create payment")
		return
	}

	utils.ResponseCreated(w, "Payment created", intent)
}

// GetBookingPayments handles GET /api/payment/booking/{bookingId} (owner or admin)
func (h *PaymentHandler) GetBookingPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	payments, err := h.service.GetPaymentsByBooking(r.Context(), actor, chi.URLParam(r, "bookingId"))
	if err != nil {
		writeError(w, h.log, err, "get booking payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}

// VNPayReturn handles GET /api/payment/vnpay-return (public, signed)
func (h *PaymentHandler) VNPayReturn(w http.ResponseWriter, r *http.Request) {
	params := flattenQuery(r.URL.Query())

	outcome, err := h.service.ReconcileCallback(r.Context(), params)
	if err != nil {
		kind := apperr.KindOf(err)
		if kind == apperr.KindInternal {
			h.log.Error("Failed to reconcile payment return", zap.Error(err))
			utils.ResponseInternalError(w, internalErrorMessage)
			return
		}

		// Rejections are already logged as security events by the service
		rejected := response.ReconcileOutcome{
			Valid:        false,
			ResponseCode: params[vnpay.ParamResponseCode],
			Message:      err.Error(),
		}
		utils.ResponseJSON(w, kind.HTTPStatus(), false, rejected.Message, rejected, nil)
		return
	}

	utils.ResponseSuccess(w, outcome.Message, outcome)
}

// VNPayIPN handles GET /api/payment/vnpay-ipn (public, signed). The gateway
// retries until it sees HTTP 200, so every outcome is answered with 200.
func (h *PaymentHandler) VNPayIPN(w http.ResponseWriter, r *http.Request) {
	params := flattenQuery(r.URL.Query())

	outcome, err := h.service.ReconcileCallback(r.Context(), params)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			h.log.Error("Failed to reconcile payment IPN", zap.Error(err))
		}
		utils.ResponseRaw(w, http.StatusOK, ipnResponse(err, nil))
		return
	}

	utils.ResponseRaw(w, http.StatusOK, ipnResponse(nil, outcome))
}

func ipnResponse(err error, outcome *response.ReconcileOutcome) response.IPNResponse {
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindInvalidSignature:
			return response.IPNResponse{RspCode: RspInvalidSignature, Message: "Invalid signature"}
		case apperr.KindUnknownPayment:
			return response.IPNResponse{RspCode: RspUnknownPayment, Message: "Order not found"}
		case apperr.KindAmountMismatch:
			return response.IPNResponse{RspCode: RspAmountMismatch, Message: "Invalid amount"}
		default:
			return response.IPNResponse{RspCode: RspUnknownError, Message: "Unknown error"}
		}
	}

	if !outcome.Applied {
		return response.IPNResponse{RspCode: RspAlreadyConfirmed, Message: "Order already confirmed"}
	}
	return response.IPNResponse{RspCode: RspConfirmed, Message: "Confirm Success"}
}

// flattenQuery keeps the first value of each parameter. Signing covers one
// value per key, so repeated keys cannot smuggle extra data past Verify.
func flattenQuery(values url.Values) map[string]string {
	params := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}
