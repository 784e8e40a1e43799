package core

import "fmt"

type ErrorCode string

const (
	ErrBadRequest   ErrorCode = "ACT_BAD_REQUEST"
	ErrUnauthorized ErrorCode = "ACT_UNAUTHORIZED"
	ErrForbidden    ErrorCode = "ACT_FORBIDDEN"
	ErrNotFound     ErrorCode = "ACT_NOT_FOUND"
	ErrConflict     ErrorCode = "ACT_CONFLICT"
	ErrUnavailable  ErrorCode = "ACT_UNAVAILABLE"
	ErrInternal     ErrorCode = "ACT_INTERNAL"
)

// HTTPStatus returns the HTTP status code for this error code.
func (e ErrorCode) HTTPStatus() int {
	switch e {
	case ErrBadRequest:
		return 400
	case ErrUnauthorized:
		return 401
	case ErrForbidden:
		return 403
	case ErrNotFound:
		return 404
	case ErrConflict:
		return 409
	case ErrUnavailable:
		return 503
	default:
		return 500
	}
}

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}
