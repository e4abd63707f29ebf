package utils

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "2.1.0", cfg.VNPay.Version)
	assert.Equal(t, "pay", cfg.VNPay.Command)
	assert.Equal(t, "other", cfg.VNPay.OrderType)
	assert.Equal(t, 15, cfg.VNPay.ExpireMinutes)
	assert.Equal(t, "http://localhost:5173/payment-result", cfg.VNPay.ReturnURL)
	assert.Equal(t, time.Second, cfg.Outbox.PollInterval)
	assert.Equal(t, 100*time.Millisecond, cfg.Retry.InitialInterval)
	assert.False(t, cfg.Redis.Enabled())
}

func TestConfigOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("REDIS_HOST", "cache")
	v.Set("VNPAY_HASH_SECRET", "s3cr3t")
	v.Set("OUTBOX_BATCH_SIZE", 10)
	cfg := fromViper(v)

	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "s3cr3t", cfg.VNPay.HashSecret)
	assert.Equal(t, 10, cfg.Outbox.BatchSize)
}

type sampleRequest struct {
	Email  string `validate:"required,email"`
	Guests int    `validate:"gte=1,lte=10"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(sampleRequest{Email: "a@b.co", Guests: 2}))

	errs := ValidateStruct(sampleRequest{Email: "nope", Guests: 0})
	require.Len(t, errs, 2)
	assert.Equal(t, "Invalid email format", errs["Email"])
	assert.Equal(t, "Must be at least 1", errs["Guests"])
	assert.Equal(t, "Email: Invalid email format; Guests: Must be at least 1", FormatValidationErrors(errs))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("secret124", hash))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.7:54321"
	assert.Equal(t, "192.0.2.7", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(r))
}

func TestUserContext(t *testing.T) {
	id := uuid.New()
	ctx := SetUserContext(context.Background(), id, "customer")

	got, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.False(t, IsAdminContext(ctx))
	assert.True(t, IsAdminContext(WithRole(ctx, RoleAdmin)))

	_, ok = GetUserIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 5, ParseInt("5", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("x", 1))
	assert.Equal(t, 10, ParseInt("-3", 10))
}

func TestGenerateBookingCode(t *testing.T) {
	code := GenerateBookingCode(time.Date(2025, 6, 1, 9, 30, 15, 0, time.UTC))
	assert.Regexp(t, `^BK-20250601-093015-\d{4}$`, code)
}
