package services

import (
	"errors"
	"fmt"

	"github.com/IfedayoAwe/corp-payment-gateway/pkg/money"
)

// Authentication failures. All but ErrCorpMismatch mean identity could not be
// established and travel on the transport channel.
var (
	ErrAuthMissing        = errors.New("authorization header missing or not basic")
	ErrAuthBadEncoding    = errors.New("authorization payload is not valid base64 utf-8")
	ErrAuthMalformed      = errors.New("authorization payload has no single ':' separator")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCorpMismatch       = errors.New("credential corp does not match header corp")
)

// Schema failures.
var (
	ErrMissingEnvelope = errors.New("request envelope missing")
	ErrInvalidField    = errors.New("invalid or missing field")
	ErrUnknownAccount  = errors.New("unknown debit account")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidMode     = errors.New("invalid mode of pay")
)

// Business rule, idempotency and ledger outcomes.
var (
	ErrOwnershipMismatch    = errors.New("debit account belongs to another corp")
	ErrAmountTooHigh        = errors.New("amount too high for mode")
	ErrAmountTooLow         = errors.New("amount too low for mode")
	ErrAmountOutOfBand      = errors.New("amount out of band for mode")
	ErrCutoffHold           = errors.New("cutoff exceeded, payment held")
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
	ErrClaimTimeout         = errors.New("idempotency claim timed out")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInsufficientFunds    = money.ErrInsufficientFunds
)

// FieldError names the field that failed schema validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidField, e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidField
}

// RuleError carries the caller-facing description of a violated mode rule.
type RuleError struct {
	Reason      error
	Description string
}

func (e *RuleError) Error() string {
	return e.Description
}

func (e *RuleError) Unwrap() error {
	return e.Reason
}
