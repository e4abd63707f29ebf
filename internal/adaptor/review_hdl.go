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

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, err := h.service.CreateReview(r.Context(), actor, &req)
	if err != nil {
		writeError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review submitted for approval", review)
}

// GetRoomReviews handles GET /api/rooms/{id}/reviews (public)
func (h *ReviewHandler) GetRoomReviews(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if roomID == "" {
		utils.ResponseBadRequest(w, "Room ID is required", nil)
		return
	}

	req := paginationFromQuery(r)
	reviews, err := h.service.GetRoomReviews(r.Context(), roomID, &req)
	if err != nil {
		writeError(w, h.log, err, "get room reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// ==================== ADMIN METHODS ====================

// GetPendingReviews handles GET /api/admin/reviews/pending (admin only)
func (h *ReviewHandler) GetPendingReviews(w http.ResponseWriter, r *http.Request) {
	req := paginationFromQuery(r)

	reviews, err := h.service.GetPendingReviews(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "get pending reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// ApproveReview handles PUT /api/admin/reviews/{id}/approve (admin only)
func (h *ReviewHandler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ApproveReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err, "approve review")
		return
	}

	utils.ResponseSuccess(w, "Review approved", nil)
}

// RespondReview handles PUT /api/admin/reviews/{id}/respond (admin only)
func (h *ReviewHandler) RespondReview(w http.ResponseWriter, r *http.Request) {
	var req request.RespondReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.RespondReview(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		writeError(w, h.log, err, "respond review")
		return
	}

	utils.ResponseSuccess(w, "Response saved", nil)
}

// DeleteReview handles DELETE /api/admin/reviews/{id} (admin only)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted", nil)
}
