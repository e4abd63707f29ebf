package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := New(KindConflict, "room %s is not available", "101")
	wrapped := fmt.Errorf("create booking: %w", err)

	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("reconcile: %w", New(KindAmountMismatch, "amount mismatch"))

	assert.True(t, errors.Is(err, ErrAmountMismatch))
	assert.False(t, errors.Is(err, ErrInvalidSignature))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindInternal, cause, "settle payment")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "settle payment: connection reset", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindCouponInvalid, http.StatusBadRequest},
		{KindInvalidSignature, http.StatusBadRequest},
		{KindAmountMismatch, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUnknownPayment, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindInvalidState, http.StatusUnprocessableEntity},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestSecurityKinds(t *testing.T) {
	assert.True(t, KindInvalidSignature.Security())
	assert.True(t, KindAmountMismatch.Security())
	assert.True(t, KindUnknownPayment.Security())
	assert.False(t, KindConflict.Security())
}
