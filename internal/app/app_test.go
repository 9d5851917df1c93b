package app

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redirusmana/bakery-shop-web/internal/cart"
	"github.com/redirusmana/bakery-shop-web/internal/checkout"
	"github.com/redirusmana/bakery-shop-web/internal/config"
	"github.com/redirusmana/bakery-shop-web/internal/mockapi"
	"github.com/redirusmana/bakery-shop-web/internal/session"
	apperrors "github.com/redirusmana/bakery-shop-web/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type recordingNotifier struct {
	successes []string
	errors    []string
	infos     []string
}

func (n *recordingNotifier) Success(message, _ string) { n.successes = append(n.successes, message) }
func (n *recordingNotifier) Error(message, _ string)   { n.errors = append(n.errors, message) }
func (n *recordingNotifier) Info(message, _ string)    { n.infos = append(n.infos, message) }

func newTestClient(t *testing.T) (*Client, *recordingNotifier) {
	t.Helper()
	backend := httptest.NewServer(mockapi.New(mockapi.DefaultConfig(), testLogger()))
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		Environment:    "test",
		APIBaseURL:     backend.URL,
		RequestTimeout: 5 * time.Second,
		StorageBackend: config.StorageFile,
		StateDir:       t.TempDir(),
	}
	notes := &recordingNotifier{}
	c, err := New(cfg, testLogger(), notes)
	require.NoError(t, err)
	return c, notes
}

func firstVariant(t *testing.T, c *Client) string {
	t.Helper()
	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, products)
	require.NotEmpty(t, products[0].Variants.Nodes)
	return products[0].Variants.Nodes[0].ID
}

func TestBrowseCatalog(t *testing.T) {
	c, _ := newTestClient(t)

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, products)

	p, err := c.Product(context.Background(), products[0].Handle)
	require.NoError(t, err)
	assert.Equal(t, products[0].ID, p.ID)
}

func TestAddToCart_CreatesCartAndOpensSidebar(t *testing.T) {
	c, notes := newTestClient(t)
	variantID := firstVariant(t, c)

	err := c.AddToCart(context.Background(), cart.AddLinePayload{VariantID: variantID, Quantity: 1})

	require.NoError(t, err)
	snap, err := c.Cart(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Lines.Nodes, 1)
	assert.Contains(t, notes.successes, "Item added to your cart")
}

func TestCart_WithoutCartFailsFast(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Cart(context.Background())

	require.ErrorIs(t, err, apperrors.ErrNoCart)
}

func TestLoginThenCheckout(t *testing.T) {
	c, notes := newTestClient(t)
	variantID := firstVariant(t, c)
	require.NoError(t, c.AddToCart(context.Background(), cart.AddLinePayload{VariantID: variantID, Quantity: 1}))

	err := c.Login(context.Background(), session.Credentials{
		Email:    mockapi.DemoEmail,
		Password: mockapi.DemoPassword,
	})
	require.NoError(t, err)
	require.True(t, c.Session().IsAuthenticated())

	err = c.SubmitCheckout(context.Background(), checkout.Record{
		Phone:        "08123456789",
		DeliveryDate: "2026-09-01",
		DeliveryTime: "10AM - 12PM",
	})
	require.NoError(t, err)

	assert.Equal(t, checkout.StatusSucceeded, c.Checkout().Status())
	assert.Contains(t, notes.successes, "Order placed successfully")

	// The cart is retired after a successful order.
	_, err = c.Cart(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNoCart)
}

func TestDeferredCheckout_ResumesAfterLogin(t *testing.T) {
	c, notes := newTestClient(t)
	variantID := firstVariant(t, c)
	require.NoError(t, c.AddToCart(context.Background(), cart.AddLinePayload{VariantID: variantID, Quantity: 1}))

	// Not logged in: the checkout defers behind the login page.
	err := c.SubmitCheckout(context.Background(), checkout.Record{
		Phone:        "08123456789",
		DeliveryDate: "2026-09-01",
		DeliveryTime: "10AM - 12PM",
	})
	require.NoError(t, err)
	assert.Equal(t, checkout.StatusDeferred, c.Checkout().Status())
	assert.Equal(t, checkout.LoginDestination, c.CurrentRoute())

	// Login resumes the order and returns home.
	err = c.Login(context.Background(), session.Credentials{
		Email:    mockapi.DemoEmail,
		Password: mockapi.DemoPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, checkout.StatusSucceeded, c.Checkout().Status())
	assert.Equal(t, checkout.HomeDestination, c.CurrentRoute())
	assert.Contains(t, notes.infos, "Processing your pending checkout...")
	assert.Contains(t, notes.successes, "Order placed successfully")

	_, err = c.Cart(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNoCart)
}

func TestRegister_CreatesSession(t *testing.T) {
	c, notes := newTestClient(t)

	err := c.Register(context.Background(), session.Registration{
		Email:     "ana@example.com",
		Password:  "longenough",
		FirstName: "Ana",
		LastName:  "Putri",
	})

	require.NoError(t, err)
	assert.True(t, c.Session().IsAuthenticated())
	require.NotNil(t, c.Session().User())
	assert.Equal(t, "Ana", c.Session().User().FirstName)
	assert.Contains(t, notes.successes, "Welcome to Union Bakery")
}

func TestLogout_ClearsSessionAndCartIdentity(t *testing.T) {
	c, _ := newTestClient(t)
	variantID := firstVariant(t, c)
	require.NoError(t, c.AddToCart(context.Background(), cart.AddLinePayload{VariantID: variantID, Quantity: 1}))
	require.NoError(t, c.Login(context.Background(), session.Credentials{
		Email:    mockapi.DemoEmail,
		Password: mockapi.DemoPassword,
	}))

	c.Logout()

	assert.False(t, c.Session().IsAuthenticated())
	_, err := c.Cart(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNoCart)
}

func TestRemoveLastLine_RetiresCart(t *testing.T) {
	c, _ := newTestClient(t)
	variantID := firstVariant(t, c)
	require.NoError(t, c.AddToCart(context.Background(), cart.AddLinePayload{VariantID: variantID, Quantity: 1}))

	snap, err := c.Cart(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Lines.Nodes, 1)

	require.NoError(t, c.RemoveLine(context.Background(), snap.Lines.Nodes[0].ID))

	_, err = c.Cart(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNoCart)
}

func TestRemoveLastLine_AfterUpdateRetiresCart(t *testing.T) {
	c, _ := newTestClient(t)
	variantID := firstVariant(t, c)
	require.NoError(t, c.AddToCart(context.Background(), cart.AddLinePayload{VariantID: variantID, Quantity: 1}))

	snap, err := c.Cart(context.Background())
	require.NoError(t, err)
	lineID := snap.Lines.Nodes[0].ID

	// The update drops the cached snapshot before the removal decides
	// whether the cart is now empty.
	require.NoError(t, c.UpdateLine(context.Background(), cart.UpdateLinePayload{LineID: lineID, Quantity: 2}))
	require.NoError(t, c.RemoveLine(context.Background(), lineID))

	_, err = c.Cart(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNoCart)
}

func TestUpdateLine_RoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	variantID := firstVariant(t, c)
	require.NoError(t, c.AddToCart(context.Background(), cart.AddLinePayload{VariantID: variantID, Quantity: 1}))

	snap, err := c.Cart(context.Background())
	require.NoError(t, err)
	lineID := snap.Lines.Nodes[0].ID

	require.NoError(t, c.UpdateLine(context.Background(), cart.UpdateLinePayload{LineID: lineID, Quantity: 3}))

	snap, err = c.Cart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Lines.Nodes[0].Quantity)
}
