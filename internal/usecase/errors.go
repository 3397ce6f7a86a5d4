package usecase

import (
	"errors"
	"fmt"
)

// Sentinel errors services wrap with context via fmt.Errorf("...: %w", err).
// Handlers map them to HTTP statuses with errors.Is, so wrapping must
// preserve the chain.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrValidation    = errors.New("invalid input")
	ErrNotEligible   = errors.New("not eligible")
	ErrCouponInvalid = errors.New("coupon not valid")
	ErrGateway       = errors.New("payment gateway error")
)

// CouponError rejects a code with a customer-facing reason. It matches
// ErrCouponInvalid under errors.Is, so handler status mapping is unchanged.
type CouponError struct {
	Code   string
	Reason string
}

func (e *CouponError) Error() string {
	return fmt.Sprintf("coupon %s: %v: %s", e.Code, ErrCouponInvalid, e.Reason)
}

func (e *CouponError) Is(target error) bool { return target == ErrCouponInvalid }
