package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"strings"
	"testing"
	"time"

	"hotel-booking/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "SECRETKEY123"

func newTestClient() *Client {
	// 2025-06-01 03:00 UTC is 10:00 at the gateway
	clk := clock.NewFixed(time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC))
	return NewClient(Config{TmnCode: "TMN01", HashSecret: testSecret}, clk)
}

func TestEncode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Dat coc booking #12", "Dat+coc+booking+%2312"},
		{"a*b", "a*b"},
		{"a~b", "a%7Eb"},
		{"http://localhost:5173/payment-result", "http%3A%2F%2Flocalhost%3A5173%2Fpayment-result"},
		{"x-y_z.w", "x-y_z.w"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Encode(tt.in), tt.in)
	}
}

func TestCanonicalSortsAndSkipsEmpty(t *testing.T) {
	got := Canonical(map[string]string{
		"vnp_TxnRef":   "abc",
		"vnp_Amount":   "100",
		"vnp_BankCode": "",
		"vnp_Locale":   "vn",
	})
	assert.Equal(t, "vnp_Amount=100&vnp_Locale=vn&vnp_TxnRef=abc", got)
}

func TestSignIsLowercaseHMACSHA512(t *testing.T) {
	data := "vnp_Amount=100&vnp_TxnRef=abc"
	mac := hmac.New(sha512.New, []byte(testSecret))
	mac.Write([]byte(data))
	want := hex.EncodeToString(mac.Sum(nil))

	got := Sign(testSecret, data)
	assert.Equal(t, want, got)
	assert.Equal(t, strings.ToLower(got), got)
	assert.Len(t, got, 128)
}

func TestBuildPaymentURL(t *testing.T) {
	c := newTestClient()

	raw, err := c.BuildPaymentURL(PaymentRequest{
		TxnRef:      "7f1c",
		AmountMinor: 285000000,
		OrderInfo:   "Dat coc booking #BK-1",
		ClientIP:    "10.0.0.1",
	})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "sandbox.vnpayment.vn", u.Host)

	q := u.Query()
	assert.Equal(t, "285000000", q.Get(ParamAmount))
	assert.Equal(t, "VND", q.Get(ParamCurrCode))
	assert.Equal(t, "7f1c", q.Get(ParamTxnRef))
	assert.Equal(t, "2.1.0", q.Get(ParamVersion))
	assert.Equal(t, "pay", q.Get(ParamCommand))
	assert.Equal(t, "other", q.Get(ParamOrderType))
	assert.Equal(t, "vn", q.Get(ParamLocale))
	assert.Equal(t, "20250601100000", q.Get(ParamCreateDate))
	assert.Equal(t, "20250601101500", q.Get(ParamExpireDate))
	assert.Equal(t, "Dat coc booking #BK-1", q.Get(ParamOrderInfo))

	// the signature covers exactly the query that precedes it
	idx := strings.Index(u.RawQuery, "&"+ParamSecureHash+"=")
	require.Positive(t, idx)
	assert.Equal(t, Sign(testSecret, u.RawQuery[:idx]), q.Get(ParamSecureHash))
}

func TestBuildPaymentURLRejectsBadInput(t *testing.T) {
	c := newTestClient()

	_, err := c.BuildPaymentURL(PaymentRequest{AmountMinor: 100})
	assert.Error(t, err)

	_, err = c.BuildPaymentURL(PaymentRequest{TxnRef: "x", AmountMinor: 0})
	assert.Error(t, err)
}

func callbackParams() map[string]string {
	params := map[string]string{
		ParamAmount:        "285000000",
		ParamTxnRef:        "7f1c",
		ParamResponseCode:  "00",
		ParamTransactionNo: "14012345",
		ParamBankCode:      "NCB",
		ParamCardType:      "ATM",
		ParamOrderInfo:     "Dat coc booking #BK-1",
		ParamTmnCode:       "TMN01",
	}
	params[ParamSecureHash] = SignParams(testSecret, params)
	params[ParamSecureHashType] = "HmacSHA512"
	return params
}

func TestVerifyAcceptsValidCallback(t *testing.T) {
	assert.NoError(t, newTestClient().Verify(callbackParams()))
}

func TestVerifyAcceptsUppercaseSignature(t *testing.T) {
	params := callbackParams()
	params[ParamSecureHash] = strings.ToUpper(params[ParamSecureHash])
	assert.NoError(t, newTestClient().Verify(params))
}

func TestVerifyRejectsTamperedValues(t *testing.T) {
	c := newTestClient()

	for key := range callbackParams() {
		if key == ParamSecureHash || key == ParamSecureHashType {
			continue
		}
		t.Run(key, func(t *testing.T) {
			params := callbackParams()
			v := []byte(params[key])
			v[len(v)-1] ^= 0x01
			params[key] = string(v)

			assert.ErrorIs(t, c.Verify(params), ErrSignature)
		})
	}
}

func TestVerifyRejectsAddedParameter(t *testing.T) {
	params := callbackParams()
	params["vnp_PayDate"] = "20250601101000"
	assert.ErrorIs(t, newTestClient().Verify(params), ErrSignature)
}

func TestVerifyMissingOrMalformedSignature(t *testing.T) {
	c := newTestClient()

	params := callbackParams()
	delete(params, ParamSecureHash)
	assert.ErrorIs(t, c.Verify(params), ErrMissingSignature)

	params = callbackParams()
	params[ParamSecureHash] = "not-hex"
	assert.ErrorIs(t, c.Verify(params), ErrSignature)
}

func TestVerifyWrongSecret(t *testing.T) {
	other := NewClient(Config{HashSecret: "OTHER"}, nil)
	assert.ErrorIs(t, other.Verify(callbackParams()), ErrSignature)
}

func TestParseTime(t *testing.T) {
	ts, err := ParseTime("20250601100000")
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)))
}
