// Package vnpay builds signed redirect URLs for the VNPay gateway and verifies
// the signed parameters it sends back.
package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"hotel-booking/pkg/clock"
)

const (
	ParamVersion        = "vnp_Version"
	ParamCommand        = "vnp_Command"
	ParamTmnCode        = "vnp_TmnCode"
	ParamAmount         = "vnp_Amount"
	ParamCurrCode       = "vnp_CurrCode"
	ParamTxnRef         = "vnp_TxnRef"
	ParamOrderInfo      = "vnp_OrderInfo"
	ParamOrderType      = "vnp_OrderType"
	ParamLocale         = "vnp_Locale"
	ParamReturnURL      = "vnp_ReturnUrl"
	ParamIPAddr         = "vnp_IpAddr"
	ParamCreateDate     = "vnp_CreateDate"
	ParamExpireDate     = "vnp_ExpireDate"
	ParamResponseCode   = "vnp_ResponseCode"
	ParamTransactionNo  = "vnp_TransactionNo"
	ParamBankCode       = "vnp_BankCode"
	ParamCardType       = "vnp_CardType"
	ParamSecureHash     = "vnp_SecureHash"
	ParamSecureHashType = "vnp_SecureHashType"

	// ResponseCodeSuccess is the only result code meaning money was captured.
	ResponseCodeSuccess = "00"

	CurrencyVND = "VND"
	TimeLayout  = "20060102150405"
)

// Location is the gateway's local time zone, a fixed UTC+7 offset.
var Location = time.FixedZone("UTC+7", 7*60*60)

var (
	ErrMissingSignature = errors.New("missing vnp_SecureHash")
	ErrSignature        = errors.New("signature mismatch")
)

type Config struct {
	TmnCode       string
	HashSecret    string
	PayURL        string
	ReturnURL     string
	Version       string
	Command       string
	OrderType     string
	Locale        string
	ExpireMinutes int
}

func DefaultConfig() Config {
	return Config{
		PayURL:        "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:     "http://localhost:5173/payment-result",
		Version:       "2.1.0",
		Command:       "pay",
		OrderType:     "other",
		Locale:        "vn",
		ExpireMinutes: 15,
	}
}

// PaymentRequest carries the per-transaction values of a redirect URL.
type PaymentRequest struct {
	TxnRef      string
	AmountMinor int64
	OrderInfo   string
	ClientIP    string
}

type Client struct {
	config Config
	clock  clock.Clock
}

func NewClient(config Config, clk clock.Clock) *Client {
	def := DefaultConfig()
	if config.PayURL == "" {
		config.PayURL = def.PayURL
	}
	if config.ReturnURL == "" {
		config.ReturnURL = def.ReturnURL
	}
	if config.Version == "" {
		config.Version = def.Version
	}
	if config.Command == "" {
		config.Command = def.Command
	}
	if config.OrderType == "" {
		config.OrderType = def.OrderType
	}
	if config.Locale == "" {
		config.Locale = def.Locale
	}
	if config.ExpireMinutes <= 0 {
		config.ExpireMinutes = def.ExpireMinutes
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Client{config: config, clock: clk}
}

// Params returns the unsigned parameter set for a payment request.
func (c *Client) Params(req PaymentRequest) map[string]string {
	created := c.clock.Now().In(Location)
	expires := created.Add(time.Duration(c.config.ExpireMinutes) * time.Minute)

	return map[string]string{
		ParamVersion:    c.config.Version,
		ParamCommand:    c.config.Command,
		ParamTmnCode:    c.config.TmnCode,
		ParamAmount:     strconv.FormatInt(req.AmountMinor, 10),
		ParamCurrCode:   CurrencyVND,
		ParamTxnRef:     req.TxnRef,
		ParamOrderInfo:  req.OrderInfo,
		ParamOrderType:  c.config.OrderType,
		ParamLocale:     c.config.Locale,
		ParamReturnURL:  c.config.ReturnURL,
		ParamIPAddr:     req.ClientIP,
		ParamCreateDate: created.Format(TimeLayout),
		ParamExpireDate: expires.Format(TimeLayout),
	}
}

// BuildPaymentURL returns the signed redirect URL.
func (c *Client) BuildPaymentURL(req PaymentRequest) (string, error) {
	if req.TxnRef == "" {
		return "", fmt.Errorf("txn ref is required")
	}
	if req.AmountMinor <= 0 {
		return "", fmt.Errorf("amount must be positive, got %d", req.AmountMinor)
	}

	params := c.Params(req)
	query := Canonical(params)
	signature := Sign(c.config.HashSecret, query)

	return c.config.PayURL + "?" + query + "&" + ParamSecureHash + "=" + signature, nil
}

// Verify recomputes the signature over every received parameter except the
// signature fields and compares it with vnp_SecureHash.
func (c *Client) Verify(params map[string]string) error {
	received, ok := params[ParamSecureHash]
	if !ok || received == "" {
		return ErrMissingSignature
	}

	signed := make(map[string]string, len(params))
	for k, v := range params {
		if k == ParamSecureHash || k == ParamSecureHashType {
			continue
		}
		signed[k] = v
	}

	expected, _ := hex.DecodeString(Sign(c.config.HashSecret, Canonical(signed)))
	got, err := hex.DecodeString(received)
	if err != nil {
		return ErrSignature
	}
	if !hmac.Equal(expected, got) {
		return ErrSignature
	}
	return nil
}

// Canonical sorts parameters by name, drops empty values and joins them as
// k=v pairs with percent-encoded keys and values.
func Canonical(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(Encode(k))
		sb.WriteByte('=')
		sb.WriteString(Encode(params[k]))
	}
	return sb.String()
}

// Encode applies form encoding the way the gateway's reference implementation
// does: spaces become '+', and '*' stays literal while '~' is escaped.
func Encode(s string) string {
	e := url.QueryEscape(s)
	e = strings.ReplaceAll(e, "~", "%7E")
	e = strings.ReplaceAll(e, "%2A", "*")
	return e
}

// Sign returns HMAC-SHA512(secret, data) as lowercase hex.
func Sign(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignParams is Sign over the canonical form of params. Tests and the
// sandbox simulator use it to produce valid callbacks.
func SignParams(secret string, params map[string]string) string {
	return Sign(secret, Canonical(params))
}

// ParseTime reads a yyyyMMddHHmmss timestamp in gateway local time.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, Location)
}
