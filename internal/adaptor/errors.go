package adaptor

import (
	"net/http"

	"hotel-booking/internal/dto/request"
	"hotel-booking/internal/usecase"
	"hotel-booking/pkg/apperr"
	"hotel-booking/pkg/utils"

	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

// writeError maps a service error to the response envelope. Only *apperr.Error
// messages reach the client; anything else becomes a bare 500.
func writeError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindInternal {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, internalErrorMessage)
		return
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("kind", appErr.Kind.String()),
	}
	if appErr.Kind.Security() {
		fields = append(fields, zap.String("security_event", appErr.Kind.String()))
	}
	log.Warn(operation+" failed", fields...)

	switch appErr.Kind {
	case apperr.KindValidation, apperr.KindCouponInvalid, apperr.KindInvalidSignature, apperr.KindAmountMismatch:
		var details any
		if len(appErr.Fields) > 0 {
			details = appErr.Fields
		}
		utils.ResponseBadRequest(w, appErr.Message, details)
	case apperr.KindNotFound, apperr.KindUnknownPayment:
		utils.ResponseNotFound(w, appErr.Message)
	case apperr.KindConflict:
		utils.ResponseConflict(w, appErr.Message)
	case apperr.KindForbidden:
		utils.ResponseForbidden(w, appErr.Message)
	case apperr.KindUnauthorized:
		utils.ResponseUnauthorized(w, appErr.Message)
	case apperr.KindInvalidState:
		utils.ResponseUnprocessable(w, appErr.Message)
	default:
		utils.ResponseJSON(w, appErr.Kind.HTTPStatus(), false, appErr.Message, nil, nil)
	}
}

// actorOrAbort writes 401 when the session middleware did not run.
func actorOrAbort(w http.ResponseWriter, r *http.Request) (usecase.Actor, bool) {
	actor, ok := usecase.ActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return actor, ok
}

func paginationFromQuery(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
	}
}
