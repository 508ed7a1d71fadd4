package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Ledger & Reconciliation (LED) ----

func ErrInvalidNotification(reason string) *AppError {
	return New("LED_001", fmt.Sprintf("Invalid payment notification: %s", reason), http.StatusBadRequest)
}

// ErrDuplicateNotification is returned only when a duplicate cannot be
// collapsed into the winner's record (the existing row could not be read back).
func ErrDuplicateNotification() *AppError {
	return New("LED_002", "Duplicate payment notification", http.StatusConflict)
}

func ErrInvalidTransition(from, to string) *AppError {
	return New("LED_003", fmt.Sprintf("Invalid status transition %s -> %s", from, to), http.StatusConflict)
}

func ErrPersistenceFailed(err error) *AppError {
	return Wrap("LED_004", "Ledger store unavailable", http.StatusServiceUnavailable, err)
}

func ErrAnchoringFailed(err error) *AppError {
	return Wrap("LED_005", "Anchoring to external ledger failed", http.StatusBadGateway, err)
}

func ErrNotFound(entity string) *AppError {
	return New("LED_006", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrRecordNotRetryable() *AppError {
	return New("LED_007", "Record is not in a retryable state", http.StatusConflict)
}

func ErrCampaignCodeExists() *AppError {
	return New("LED_008", "Campaign code already exists", http.StatusConflict)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrInvalidProviderSignature() *AppError {
	return New("AUTH_003", "Invalid provider signature", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_002", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a LED_001-style validation error.
func Validation(message string) *AppError {
	return New("LED_001", message, http.StatusBadRequest)
}
