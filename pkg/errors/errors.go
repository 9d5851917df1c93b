package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure categories a caller can react to.
// Every error surfaced above the remote call gateway wraps exactly one
// of these, so callers branch with errors.Is instead of inspecting
// transport details.
var (
	ErrTimeout     = errors.New("request timed out")
	ErrRateLimited = errors.New("rate limited")
	ErrAuthExpired = errors.New("authentication expired")
	ErrServer      = errors.New("server error")
	ErrRemote      = errors.New("remote error")
	ErrNetwork     = errors.New("network error")
	ErrValidation  = errors.New("validation failed")
	ErrNoCart      = errors.New("no cart")
	ErrCartFetch   = errors.New("cart fetch failed")
)

// ClientError is a structured client-side error carrying a stable code and a
// message suitable for showing to the user.
type ClientError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Timeout creates the error for a request that exceeded the gateway deadline.
func Timeout() *ClientError {
	return &ClientError{
		Code:    "TIMEOUT",
		Message: "Request timed out. The server took too long to respond.",
		Err:     ErrTimeout,
	}
}

// RateLimited creates the error for an HTTP 429 response.
func RateLimited() *ClientError {
	return &ClientError{
		Code:    "RATE_LIMITED",
		Message: "Too many requests. Please wait a moment.",
		Err:     ErrRateLimited,
	}
}

// AuthExpired creates the error for an HTTP 401 response.
func AuthExpired() *ClientError {
	return &ClientError{
		Code:    "AUTH_EXPIRED",
		Message: "Session expired. Please login again.",
		Err:     ErrAuthExpired,
	}
}

// Server creates the error for an HTTP 5xx response.
func Server() *ClientError {
	return &ClientError{
		Code:    "SERVER_ERROR",
		Message: "Server error. Please try again later.",
		Err:     ErrServer,
	}
}

// Remote creates the error for a declared business failure or any other HTTP
// error with a server-supplied message.
func Remote(message string) *ClientError {
	if message == "" {
		message = "Unknown API Error"
	}
	return &ClientError{
		Code:    "REMOTE_ERROR",
		Message: message,
		Err:     ErrRemote,
	}
}

// Network creates the error for a request that produced no response at all.
func Network() *ClientError {
	return &ClientError{
		Code:    "NETWORK_ERROR",
		Message: "Network Error. Please check your connection.",
		Err:     ErrNetwork,
	}
}

// Validation creates a local validation error; it never reaches the network.
func Validation(message string) *ClientError {
	return &ClientError{
		Code:    "VALIDATION",
		Message: message,
		Err:     ErrValidation,
	}
}

// NoCart creates the error for a cart operation attempted without a cart id.
func NoCart() *ClientError {
	return &ClientError{
		Code:    "NO_CART",
		Message: "No cart found",
		Err:     ErrNoCart,
	}
}

// CartFetch creates the error for a cart read where the server declared
// failure or omitted cart data.
func CartFetch() *ClientError {
	return &ClientError{
		Code:    "CART_FETCH",
		Message: "Failed to fetch cart data",
		Err:     ErrCartFetch,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Message returns the user-facing message for the given error: the
// ClientError message when present, otherwise the raw error text.
func Message(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// Code returns the stable code for the given error, or "UNKNOWN" when the
// error is not a ClientError. Used as a metrics label.
func Code(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return "UNKNOWN"
}
