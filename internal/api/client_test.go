package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/redirusmana/bakery-shop-web/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestGateway(baseURL, token string) *Gateway {
	return New(DefaultConfig(baseURL), TokenFunc(func() string { return token }), newTestLogger())
}

func TestPost_SuccessDecodesData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"id":"cart-1"}}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "")

	var out struct {
		ID string `json:"id"`
	}
	err := gw.Post(context.Background(), "/createCart", map[string]any{"variantId": "v1"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "cart-1", out.ID)
}

func TestCall_AttachesBearerTokenAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":null}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "token-abc")

	require.NoError(t, gw.Get(context.Background(), "/customer", nil))
	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestCall_NoTokenOmitsAuthorization(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":null}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "")

	require.NoError(t, gw.Get(context.Background(), "/all-products", nil))
	assert.Empty(t, gotAuth)
}

func TestCall_DeclaredFailureUsesFirstErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"outer message","errors":[{"message":"variant is sold out","field":"variantId"}]}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "")

	err := gw.Post(context.Background(), "/cart-line-add", nil, nil)

	require.ErrorIs(t, err, apperrors.ErrRemote)
	assert.Equal(t, "variant is sold out", apperrors.Message(err))
}

func TestCall_DeclaredFailureFallsBackToEnvelopeMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"cart is locked"}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "")

	err := gw.Post(context.Background(), "/checkout", nil, nil)

	require.ErrorIs(t, err, apperrors.ErrRemote)
	assert.Equal(t, "cart is locked", apperrors.Message(err))
}

func TestCall_DeclaredFailureGenericFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "")

	err := gw.Post(context.Background(), "/checkout", nil, nil)

	require.ErrorIs(t, err, apperrors.ErrRemote)
	assert.Equal(t, "Unknown API Error", apperrors.Message(err))
}

func TestCall_Status401MapsToAuthExpiredAndFiresHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"token expired"}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "stale-token")

	var hookCalls atomic.Int32
	gw.OnAuthExpired(func() { hookCalls.Add(1) })

	err := gw.Get(context.Background(), "/customer", nil)

	require.ErrorIs(t, err, apperrors.ErrAuthExpired)
	assert.Equal(t, int32(1), hookCalls.Load())
}

func TestCall_Concurrent401sEachFireHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"token expired"}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "stale-token")

	var hookCalls atomic.Int32
	gw.OnAuthExpired(func() { hookCalls.Add(1) })

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := gw.Get(context.Background(), "/customer", nil)
			assert.ErrorIs(t, err, apperrors.ErrAuthExpired)
		}()
	}
	wg.Wait()

	// The hook fires once per 401; collapsing them to a single logout is
	// the session store's job.
	assert.Equal(t, int32(4), hookCalls.Load())
}

func TestCall_Status429MapsToRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"success":false,"message":"slow down"}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "")

	err := gw.Post(context.Background(), "/cart-line-add", nil, nil)

	require.ErrorIs(t, err, apperrors.ErrRateLimited)
	assert.Equal(t, "Too many requests. Please wait a moment.", apperrors.Message(err))
}

func TestCall_Status500MapsToServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "")

	err := gw.Post(context.Background(), "/checkout", nil, nil)

	require.ErrorIs(t, err, apperrors.ErrServer)
}

func TestCall_OtherStatusWithMessageMapsToRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"message":"minimum order not met"}`))
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "")

	err := gw.Post(context.Background(), "/checkout", nil, nil)

	require.ErrorIs(t, err, apperrors.ErrRemote)
	assert.Equal(t, "minimum order not met", apperrors.Message(err))
}

func TestCall_OtherStatusWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL, "")

	err := gw.Get(context.Background(), "/product/missing", nil)

	require.ErrorIs(t, err, apperrors.ErrRemote)
	assert.Contains(t, apperrors.Message(err), "404")
}

func TestCall_TimeoutMapsToTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":null}`))
	}))
	defer srv.Close()

	cfg := Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}
	gw := New(cfg, TokenFunc(func() string { return "" }), newTestLogger())

	err := gw.Get(context.Background(), "/all-products", nil)

	require.ErrorIs(t, err, apperrors.ErrTimeout)
	assert.Equal(t, "Request timed out. The server took too long to respond.", apperrors.Message(err))
}

func TestCall_NoResponseMapsToNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	gw := newTestGateway(srv.URL, "")

	err := gw.Get(context.Background(), "/all-products", nil)

	require.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestCall_RepeatedTransportFailuresOpenBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	gw := newTestGateway(srv.URL, "")

	// DefaultBreakerConfig trips at 50% failures over at least 5 requests.
	for range 6 {
		err := gw.Get(context.Background(), "/all-products", nil)
		require.ErrorIs(t, err, apperrors.ErrNetwork)
	}

	// The breaker is now open; rejections still surface as network errors.
	err := gw.Get(context.Background(), "/all-products", nil)
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestMetricEndpoint_StripsDynamicSegments(t *testing.T) {
	assert.Equal(t, "/product", metricEndpoint("/product/chocolate-cake"))
	assert.Equal(t, "/all-products", metricEndpoint("/all-products"))
	assert.Equal(t, "/checkout", metricEndpoint("/checkout"))
}
