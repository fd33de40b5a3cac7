package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrConflict indicates the resource is in a state that does not allow the operation.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Money movement errors.
var (
	// ErrInvalidAmount indicates a non-positive or non-integral transfer amount.
	ErrInvalidAmount = errors.New("amount must be a positive whole number of currency units")

	// ErrInsufficientFunds indicates the sender balance cannot cover amount plus fee.
	// No balance mutation has happened when this is returned.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDebitFailed indicates the initial sender debit did not go through.
	// No balance mutation has happened when this is returned.
	ErrDebitFailed = errors.New("failed to debit sender")

	// ErrCreditFailed indicates the recipient credit failed after the sender was
	// debited; the sender has been re-credited before this is surfaced.
	ErrCreditFailed = errors.New("failed to credit recipient, funds returned to sender")

	// ErrCriticalRollback indicates a compensating credit itself failed. The
	// sender is debited with no matching credit anywhere; requires manual
	// reconciliation.
	ErrCriticalRollback = errors.New("critical: compensation failed, manual reconciliation required")

	// ErrClaimCodeInvalid indicates no claimable pending transfer matches the code.
	ErrClaimCodeInvalid = errors.New("claim code invalid or already used")
)

// AppError carries an HTTP-ish status code alongside a message and cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
