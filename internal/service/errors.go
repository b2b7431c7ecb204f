package service

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderItemNotFound  = errors.New("order item not found")
	ErrRevisionNotFound   = errors.New("revision not found")
	ErrVariantNotFound    = errors.New("variant not found")
	ErrOfferingNotFound   = errors.New("offering not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrEmptyItems         = errors.New("empty items")
	ErrQuantityInvalid    = errors.New("quantity must be > 0")
	ErrCurrencyMismatch   = errors.New("currency mismatch")
	ErrAmountMismatch     = errors.New("amount does not match cart total")
	ErrInvalidTransition  = errors.New("order status transition not allowed")
	ErrMaxRevisionReached = errors.New("max revision reached")
	ErrNoDeliverables     = errors.New("no deliverable links supplied")
	ErrPaymentNotComplete = errors.New("payment not completed")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired or revoked")
	ErrCodeInvalid        = errors.New("code invalid or expired")
	ErrRateLimited        = errors.New("too many requests")
	ErrCouponInvalid      = errors.New("coupon invalid or expired")
)
