package adaptor

import (
	"encoding/json"
	"net/http"

	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CouponHandler struct {
	service usecase.CouponService
	log     *zap.Logger
}

func NewCouponHandler(service usecase.CouponService, log *zap.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		log:     log.With(zap.String("handler", "coupon")),
	}
}

// ValidateCoupon handles GET /api/coupons/validate/{code}?amount= (public)
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	amount := r.URL.Query().Get("amount")
	if amount == "" {
		amount = "0"
	}

	result, err := h.service.CheckCoupon(r.Context(), chi.URLParam(r, "code"), amount)
	if err != nil {
		writeError(w, h.log, err, "validate coupon")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// ==================== ADMIN METHODS ====================

// ListCoupons handles GET /api/admin/coupons (admin only)
func (h *CouponHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	req := paginationFromQuery(r)

	coupons, err := h.service.ListCoupons(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "list coupons")
		return
	}

	utils.ResponseSuccess(w, "success", coupons)
}

// GetCoupon handles GET /api/admin/coupons/{id} (admin only)
func (h *CouponHandler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.service.GetCoupon(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err, "get coupon")
		return
	}

	utils.ResponseSuccess(w, "success", coupon)
}

// CreateCoupon handles POST /api/admin/coupons (admin only)
func (h *CouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	coupon, err := h.service.CreateCoupon(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "create coupon")
		return
	}

	utils.ResponseCreated(w, "Coupon created successfully", coupon)
}

// UpdateCoupon handles PUT /api/admin/coupons/{id} (admin only)
func (h *CouponHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	coupon, err := h.service.UpdateCoupon(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeError(w, h.log, err, "update coupon")
		return
	}

	utils.ResponseSuccess(w, "Coupon updated successfully", coupon)
}

// DeactivateCoupon handles DELETE /api/admin/coupons/{id} (admin only)
func (h *CouponHandler) DeactivateCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeactivateCoupon(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err, "deactivate coupon")
		return
	}

	utils.ResponseSuccess(w, "Coupon deactivated", nil)
}
