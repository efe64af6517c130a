package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrInvalidTermsConfiguration = errors.New("exactly one of interest rate or factor rate must be set")
	ErrAccountNotFound           = errors.New("account not found")
	ErrAccountNotActive          = errors.New("account is not active")
	ErrInvalidAmount             = errors.New("amount must be greater than zero")
	ErrInsufficientCredit        = errors.New("insufficient available credit")
	ErrExceedsOutstanding        = errors.New("payment exceeds outstanding balance")
	ErrAlreadyProcessed          = errors.New("draw request has already been processed")
	ErrAccountHasDependents      = errors.New("account still has dependent records")
	ErrRequestNotFound           = errors.New("draw request not found")
	ErrUnauthorized              = errors.New("actor is not authorized for this operation")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidTermsConfiguration = "INVALID_TERMS_CONFIGURATION"
	ErrCodeAccountNotFound           = "ACCOUNT_NOT_FOUND"
	ErrCodeAccountNotActive          = "ACCOUNT_NOT_ACTIVE"
	ErrCodeInvalidAmount             = "INVALID_AMOUNT"
	ErrCodeInsufficientCredit        = "INSUFFICIENT_AVAILABLE_CREDIT"
	ErrCodeExceedsOutstanding        = "EXCEEDS_OUTSTANDING_BALANCE"
	ErrCodeAlreadyProcessed          = "ALREADY_PROCESSED"
	ErrCodeAccountHasDependents      = "ACCOUNT_HAS_DEPENDENTS"
	ErrCodeRequestNotFound           = "REQUEST_NOT_FOUND"
	ErrCodeUnauthorized              = "UNAUTHORIZED"
	ErrCodeDatabaseError             = "DATABASE_ERROR"
	ErrCodeCacheError                = "CACHE_ERROR"
	ErrCodeInvalidStatus             = "INVALID_STATUS"
)

// Wrap common errors with business context

func WrapInvalidTermsConfiguration() *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTermsConfiguration,
		"Exactly one of interest_rate or factor_rate must be provided",
		ErrInvalidTermsConfiguration,
	)
}

func WrapAccountNotFound(accountID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAccountNotFound,
		fmt.Sprintf("Account %s not found", accountID),
		ErrAccountNotFound,
	)
}

func WrapAccountNotActive(accountID, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeAccountNotActive,
		fmt.Sprintf("Account %s is %s; balance changes require an active account", accountID, status),
		ErrAccountNotActive,
	)
}

func WrapInvalidAmount(amount decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Invalid amount: %s", amount.StringFixed(2)),
		ErrInvalidAmount,
	)
}

func WrapInsufficientCredit(requested, available decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeInsufficientCredit,
		fmt.Sprintf("Requested %s exceeds available credit %s", requested.StringFixed(2), available.StringFixed(2)),
		ErrInsufficientCredit,
	)
}

func WrapExceedsOutstanding(amount, outstanding decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeExceedsOutstanding,
		fmt.Sprintf("Payment %s exceeds outstanding balance %s", amount.StringFixed(2), outstanding.StringFixed(2)),
		ErrExceedsOutstanding,
	)
}

func WrapAlreadyProcessed(requestID, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyProcessed,
		fmt.Sprintf("Draw request %s has already been %s", requestID, status),
		ErrAlreadyProcessed,
	)
}

func WrapAccountHasDependents(accountID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAccountHasDependents,
		fmt.Sprintf("Account %s has draw or audit history; cascade the deletion explicitly", accountID),
		ErrAccountHasDependents,
	)
}

func WrapRequestNotFound(requestID string) *BusinessError {
	return NewBusinessError(
		ErrCodeRequestNotFound,
		fmt.Sprintf("Draw request %s not found", requestID),
		ErrRequestNotFound,
	)
}

func WrapUnauthorized(operation string) *BusinessError {
	return NewBusinessError(
		ErrCodeUnauthorized,
		fmt.Sprintf("Actor is not authorized to %s", operation),
		ErrUnauthorized,
	)
}

func WrapInvalidStatus(status string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidStatus,
		fmt.Sprintf("Unknown account status %q", status),
		nil,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
