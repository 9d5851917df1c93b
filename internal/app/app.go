// Package app wires the storefront client together: gateway, session, cart,
// checkout, sidebar, and catalog, with their cross-component hooks.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/redirusmana/bakery-shop-web/internal/api"
	"github.com/redirusmana/bakery-shop-web/internal/cart"
	"github.com/redirusmana/bakery-shop-web/internal/catalog"
	"github.com/redirusmana/bakery-shop-web/internal/checkout"
	"github.com/redirusmana/bakery-shop-web/internal/config"
	"github.com/redirusmana/bakery-shop-web/internal/notify"
	"github.com/redirusmana/bakery-shop-web/internal/session"
	"github.com/redirusmana/bakery-shop-web/internal/sidebar"
	"github.com/redirusmana/bakery-shop-web/internal/storage"
)

// routeTracker records the storefront's current navigation destination.
type routeTracker struct {
	mu      sync.Mutex
	current string
}

func (r *routeTracker) Navigate(dest string) {
	r.mu.Lock()
	r.current = dest
	r.mu.Unlock()
}

func (r *routeTracker) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Client is the assembled storefront.
type Client struct {
	cfg      *config.Config
	logger   *slog.Logger
	notifier notify.Notifier

	gateway  *api.Gateway
	session  *session.Store
	identity *cart.Identity
	carts    *cart.Service
	catalog  *catalog.Service
	pending  *checkout.PendingStore
	orch     *checkout.Orchestrator
	sidebar  *sidebar.Machine
	routes   *routeTracker
}

// New assembles a storefront client. The notifier may be nil, in which case
// notices go to the log.
func New(cfg *config.Config, log *slog.Logger, notifier notify.Notifier) (*Client, error) {
	if notifier == nil {
		notifier = notify.NewLogNotifier(log)
	}

	store, err := newStateStore(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:      cfg,
		logger:   log,
		notifier: notifier,
		routes:   &routeTracker{current: checkout.HomeDestination},
		sidebar:  sidebar.NewMachine(),
	}

	// The gateway needs a token source before the session exists; the
	// closure reads it lazily.
	c.gateway = api.New(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
	}, api.TokenFunc(func() string {
		if c.session == nil {
			return ""
		}
		return c.session.Token()
	}), log)

	c.session = session.NewStore(c.gateway, store, log)
	c.identity = cart.NewIdentity(store, log)
	c.carts = cart.NewService(c.gateway, c.identity, cart.NewCache(), notifier, log)
	c.catalog = catalog.NewService(c.gateway)
	c.pending = checkout.NewPendingStore(store, log)
	c.orch = checkout.New(c.carts, c.session, c.pending, c.routes, notifier, log)

	// A forced logout abandons the cart; an expired token logs out.
	c.session.OnLogout(c.identity.Clear)
	c.gateway.OnAuthExpired(c.session.Logout)

	return c, nil
}

func newStateStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		return storage.NewRedisStore(client), nil
	case config.StorageFile:
		store, err := storage.NewFileStore(cfg.StateDir)
		if err != nil {
			return nil, fmt.Errorf("open state dir %q: %w", cfg.StateDir, err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Session returns the session store.
func (c *Client) Session() *session.Store { return c.session }

// Sidebar returns the cart panel state machine.
func (c *Client) Sidebar() *sidebar.Machine { return c.sidebar }

// Checkout returns the checkout orchestrator.
func (c *Client) Checkout() *checkout.Orchestrator { return c.orch }

// CurrentRoute returns the storefront's current destination.
func (c *Client) CurrentRoute() string { return c.routes.Current() }

// Login authenticates and resumes any checkout deferred behind the login.
func (c *Client) Login(ctx context.Context, creds session.Credentials) error {
	if err := c.session.Login(ctx, creds); err != nil {
		return err
	}
	name := ""
	if u := c.session.User(); u != nil {
		name = u.FirstName
	}
	c.notifier.Success("Welcome back", name)
	return c.orch.ResumeAfterLogin(ctx)
}

// Register creates an account and resumes any deferred checkout.
func (c *Client) Register(ctx context.Context, reg session.Registration) error {
	if err := c.session.Register(ctx, reg); err != nil {
		return err
	}
	c.notifier.Success("Welcome to Union Bakery", reg.FirstName)
	return c.orch.ResumeAfterLogin(ctx)
}

// Logout ends the session; the cart identity clears via the logout hook.
func (c *Client) Logout() {
	c.session.Logout()
}

// Products lists the catalog.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	return c.catalog.ListProducts(ctx)
}

// Product fetches one catalog entry by handle.
func (c *Client) Product(ctx context.Context, handle string) (*catalog.Product, error) {
	return c.catalog.GetProduct(ctx, handle)
}

// Cart returns the current cart snapshot.
func (c *Client) Cart(ctx context.Context) (*cart.Snapshot, error) {
	return c.carts.FetchCart(ctx)
}

// AddToCart adds a line and opens the cart panel on success.
func (c *Client) AddToCart(ctx context.Context, payload cart.AddLinePayload) error {
	if err := c.carts.AddLine(ctx, payload); err != nil {
		return err
	}
	c.sidebar.Open()
	return nil
}

// UpdateLine edits a cart line.
func (c *Client) UpdateLine(ctx context.Context, payload cart.UpdateLinePayload) error {
	return c.carts.UpdateLine(ctx, payload)
}

// RemoveLine removes a cart line.
func (c *Client) RemoveLine(ctx context.Context, lineID string) error {
	return c.carts.RemoveLine(ctx, lineID)
}

// SubmitCheckout places the order with the given delivery details.
func (c *Client) SubmitCheckout(ctx context.Context, rec checkout.Record) error {
	err := c.orch.Submit(ctx, rec)
	// Both a placed order and a deferred checkout close the cart panel.
	if !c.carts.IsCartOpen() && c.sidebar.Panel() == sidebar.PanelOpen {
		c.sidebar.StartClose()
		c.sidebar.FinishClose()
	}
	return err
}
