package usecase

import (
	"context"

	"hotel-booking/pkg/apperr"
	"hotel-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hotel-booking/usecase")

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	Admin  bool
}

// ActorFromContext reads the identity set by the session middleware.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	id, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return Actor{}, false
	}
	return Actor{UserID: id, Admin: utils.IsAdminContext(ctx)}, true
}

// CanAccess reports whether the actor may act on a resource owned by owner.
func (a Actor) CanAccess(owner uuid.UUID) bool {
	return a.Admin || a.UserID == owner
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperr.WithFields(
			apperr.New(apperr.KindValidation, "validation failed: %s", utils.FormatValidationErrors(errs)),
			errs,
		)
	}
	return nil
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperr.WithFields(
			apperr.New(apperr.KindValidation, "invalid %s", field),
			map[string]string{field: "Must be a valid UUID"},
		)
	}
	return id, nil
}

// endSpan records err on span before ending it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.KindOf(err).String())
	}
	span.End()
}
