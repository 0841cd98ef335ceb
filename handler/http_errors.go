package handler

import "net/http"

// HTTPError pairs an HTTP status code with a machine-readable key.
// Message is optional; the status text is rendered when it is empty.
type HTTPError struct {
	Code    int    // HTTP status code
	Key     string // Stable error code, e.g. "not_found"
	Message string // Human-readable message
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Key
}

// WithMessage returns a copy of e carrying msg.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

// 4xx Client Errors
var (
	ErrBadRequest           = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrPaymentRequired      = HTTPError{Code: http.StatusPaymentRequired, Key: "payment_required"}
	ErrNotFound             = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed     = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrConflict             = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrUnsupportedMediaType = HTTPError{Code: http.StatusUnsupportedMediaType, Key: "unsupported_media_type"}
	ErrTooManyRequests      = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests"}
)

// ErrInternalServerError hides the cause of any unmapped failure.
var ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}

// NewHTTPError creates a custom HTTP error with the given status code and key.
//
//	err := handler.NewHTTPError(http.StatusConflict, "already_subscribed")
func NewHTTPError(code int, key string) HTTPError {
	return HTTPError{Code: code, Key: key}
}
