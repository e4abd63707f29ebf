package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel-booking/pkg/apperr"
	"hotel-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperr.New(apperr.KindValidation, "guests exceed capacity"), http.StatusBadRequest, "guests exceed capacity"},
		{"coupon", apperr.New(apperr.KindCouponInvalid, "coupon usage limit reached"), http.StatusBadRequest, "coupon usage limit reached"},
		{"not found", apperr.New(apperr.KindNotFound, "room not found"), http.StatusNotFound, "room not found"},
		{"conflict", apperr.New(apperr.KindConflict, "room is not available"), http.StatusConflict, "room is not available"},
		{"forbidden", apperr.New(apperr.KindForbidden, "booking belongs to another user"), http.StatusForbidden, "booking belongs to another user"},
		{"unauthorized", apperr.New(apperr.KindUnauthorized, "invalid credentials"), http.StatusUnauthorized, "invalid credentials"},
		{"invalid state", apperr.New(apperr.KindInvalidState, "cannot cancel"), http.StatusUnprocessableEntity, "cannot cancel"},
		{"wrapped domain", fmt.Errorf("create booking: %w", apperr.New(apperr.KindConflict, "taken")), http.StatusConflict, "taken"},
		{"internal", apperr.Wrap(apperr.KindInternal, errors.New("pq: timeout"), "failed"), http.StatusInternalServerError, internalErrorMessage},
		{"plain", errors.New("pq: relation does not exist"), http.StatusInternalServerError, internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, zap.NewNop(), tt.err, "test")

			assert.Equal(t, tt.status, rec.Code)
			var body utils.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Status)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestWriteError_FieldDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := apperr.WithFields(apperr.New(apperr.KindValidation, "validation failed"), map[string]string{"Price": "Must be greater than 0"})
	writeError(rec, zap.NewNop(), err, "create room")

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Must be greater than 0", body.Errors["Price"])
}

func TestWriteError_SecurityEvent(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rec := httptest.NewRecorder()
	writeError(rec, zap.New(core), apperr.New(apperr.KindAmountMismatch, "amount does not match payment"), "reconcile")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, apperr.KindAmountMismatch.String(), logs.All()[0].ContextMap()["security_event"])
}
