package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business failure so handlers and callers can react
// without parsing message strings.
type Kind string

const (
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindInsufficientStock  Kind = "INSUFFICIENT_STOCK"
	KindOverReturn         Kind = "OVER_RETURN"
	KindTankAlreadyOpen    Kind = "TANK_ALREADY_OPEN"
	KindNoOpenEntry        Kind = "NO_OPEN_ENTRY"
	KindInsufficientFuel   Kind = "INSUFFICIENT_FUEL"
	KindNoBudgetAccount    Kind = "NO_BUDGET_ACCOUNT"
	KindInsufficientBudget Kind = "INSUFFICIENT_BUDGET"
	KindBusy               Kind = "BUSY"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindInternal           Kind = "INTERNAL"
)

// Error is the error type returned by the engine services.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, or KindInternal if err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Retryable reports whether the caller may retry the call unchanged.
// Only lock-wait timeouts and commit-time conflicts qualify.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindBusy, KindConflict:
		return true
	}
	return false
}

// HTTPStatus maps an error kind to the status code the API layer responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientStock, KindOverReturn, KindTankAlreadyOpen,
		KindNoOpenEntry, KindInsufficientFuel, KindNoBudgetAccount,
		KindInsufficientBudget, KindConflict:
		return http.StatusConflict
	case KindBusy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
