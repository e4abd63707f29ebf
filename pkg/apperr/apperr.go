package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure. The set is closed; callers switch on it
// instead of inspecting error text.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
	KindInvalidState
	KindCouponInvalid
	KindInvalidSignature
	KindAmountMismatch
	KindUnknownPayment
)

var kindNames = map[Kind]string{
	KindInternal:         "internal",
	KindValidation:       "validation",
	KindNotFound:         "not_found",
	KindConflict:         "conflict",
	KindForbidden:        "forbidden",
	KindUnauthorized:     "unauthorized",
	KindInvalidState:     "invalid_state",
	KindCouponInvalid:    "coupon_invalid",
	KindInvalidSignature: "invalid_signature",
	KindAmountMismatch:   "amount_mismatch",
	KindUnknownPayment:   "unknown_payment",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "internal"
}

// HTTPStatus maps a kind to the status code returned to API clients.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindCouponInvalid, KindInvalidSignature, KindAmountMismatch:
		return http.StatusBadRequest
	case KindNotFound, KindUnknownPayment:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidState:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Security reports whether failures of this kind come from the payment
// callback path and must be logged as security events.
func (k Kind) Security() bool {
	return k == KindInvalidSignature || k == KindAmountMismatch || k == KindUnknownPayment
}

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinel comparisons like
// errors.Is(err, apperr.ErrConflict) work on wrapped values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithFields attaches per-field validation messages.
func WithFields(e *Error, fields map[string]string) *Error {
	e.Fields = fields
	return e
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Sentinels for errors.Is checks. They carry no message and match by kind.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrForbidden        = &Error{Kind: KindForbidden}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized}
	ErrInvalidState     = &Error{Kind: KindInvalidState}
	ErrCouponInvalid    = &Error{Kind: KindCouponInvalid}
	ErrInvalidSignature = &Error{Kind: KindInvalidSignature}
	ErrAmountMismatch   = &Error{Kind: KindAmountMismatch}
	ErrUnknownPayment   = &Error{Kind: KindUnknownPayment}
)
