package apperrors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrConfig            ErrorType = "CONFIG_ERROR"
	ErrAuthFailed        ErrorType = "AUTH_FAILED"
	ErrTransport         ErrorType = "TRANSPORT_ERROR"
	ErrUpstream          ErrorType = "UPSTREAM_ERROR"
	ErrInsufficientFunds ErrorType = "INSUFFICIENT_FUNDS"
	ErrNoBalance         ErrorType = "NO_BALANCE"
	ErrSizeTooSmall      ErrorType = "SIZE_TOO_SMALL"
	ErrInvalidRequest    ErrorType = "INVALID_REQUEST"
	ErrInternal          ErrorType = "INTERNAL_ERROR"
)

// AppError is the standard error struct for the application
type AppError struct {
	Type       ErrorType `json:"code"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`

	// UpstreamStatus/UpstreamBody carry the exchange's own response when
	// Type == ErrUpstream.
	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamBody   string `json:"upstream_body,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errType ErrorType, msg string, cause error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    msg,
		Cause:      cause,
		HTTPStatus: mapTypeToStatus(errType),
		Suggestion: mapTypeToSuggestion(errType),
	}
}

func NewConfig(msg string) *AppError {
	return New(ErrConfig, msg, nil)
}

func NewInvalidRequest(msg string) *AppError {
	return New(ErrInvalidRequest, msg, nil)
}

// NewUpstream captures the exchange's status code and raw body alongside the
// standard fields.
func NewUpstream(status int, body string) *AppError {
	e := New(ErrUpstream, fmt.Sprintf("exchange returned %d", status), nil)
	e.UpstreamStatus = status
	e.UpstreamBody = body
	return e
}

func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return New(ErrInternal, err.Error(), err)
}

func mapTypeToStatus(t ErrorType) int {
	switch t {
	case ErrInvalidRequest, ErrInsufficientFunds, ErrNoBalance, ErrSizeTooSmall:
		return http.StatusBadRequest
	case ErrAuthFailed:
		return http.StatusUnauthorized
	case ErrConfig:
		return http.StatusServiceUnavailable
	case ErrUpstream:
		return http.StatusBadGateway
	case ErrTransport:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func mapTypeToSuggestion(t ErrorType) string {
	switch t {
	case ErrConfig:
		return "Check exchange credentials in the environment."
	case ErrAuthFailed:
		return "Check API key and signature settings."
	case ErrInsufficientFunds:
		return "Fund the quote currency account or lower the order amount."
	case ErrNoBalance:
		return "Nothing to sell for this product."
	case ErrSizeTooSmall:
		return "Increase the order amount above the product's minimum increment."
	case ErrUpstream:
		return "Inspect the exchange response body for details."
	default:
		return ""
	}
}
