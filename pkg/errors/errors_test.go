package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_SentinelMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      *ClientError
		sentinel error
		code     string
	}{
		{"timeout", Timeout(), ErrTimeout, "TIMEOUT"},
		{"rate limited", RateLimited(), ErrRateLimited, "RATE_LIMITED"},
		{"auth expired", AuthExpired(), ErrAuthExpired, "AUTH_EXPIRED"},
		{"server", Server(), ErrServer, "SERVER_ERROR"},
		{"remote", Remote("boom"), ErrRemote, "REMOTE_ERROR"},
		{"network", Network(), ErrNetwork, "NETWORK_ERROR"},
		{"validation", Validation("bad input"), ErrValidation, "VALIDATION"},
		{"no cart", NoCart(), ErrNoCart, "NO_CART"},
		{"cart fetch", CartFetch(), ErrCartFetch, "CART_FETCH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestRemote_EmptyMessageFallback(t *testing.T) {
	err := Remote("")
	assert.Equal(t, "Unknown API Error", err.Message)
}

func TestMessage_UnwrapsClientError(t *testing.T) {
	err := fmt.Errorf("add line: %w", Remote("cart is locked"))
	assert.Equal(t, "cart is locked", Message(err))
}

func TestMessage_PlainError(t *testing.T) {
	assert.Equal(t, "plain", Message(errors.New("plain")))
	assert.Empty(t, Message(nil))
}

func TestCode_UnknownForPlainError(t *testing.T) {
	assert.Equal(t, "UNKNOWN", Code(errors.New("plain")))
	assert.Equal(t, "TIMEOUT", Code(fmt.Errorf("wrapped: %w", Timeout())))
}

func TestClientError_ErrorString(t *testing.T) {
	err := Remote("cart is locked")
	require.Contains(t, err.Error(), "REMOTE_ERROR")
	require.Contains(t, err.Error(), "cart is locked")
}
