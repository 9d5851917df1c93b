// Package mockapi is a self-contained commerce backend speaking the same
// envelope protocol as the production API. It backs local development and
// the end-to-end tests.
package mockapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// Config holds mock backend settings.
type Config struct {
	JWTSecret string
	// RateLimit caps requests per second across all clients. Zero
	// disables limiting.
	RateLimit float64
	RateBurst int
}

// DefaultConfig returns settings suitable for local development.
func DefaultConfig() Config {
	return Config{
		JWTSecret: "union-bakery-dev-secret",
		RateLimit: 0,
	}
}

// DemoEmail and DemoPassword identify the seeded development account.
const (
	DemoEmail    = "demo@unionbakery.test"
	DemoPassword = "sourdough123"
)

// Server is the mock commerce backend.
type Server struct {
	router    chi.Router
	store     *store
	jwtSecret []byte
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// New creates a mock backend with the catalog and demo account seeded.
func New(cfg Config, log *slog.Logger) *Server {
	s := &Server{
		store:     newStore(),
		jwtSecret: []byte(cfg.JWTSecret),
		logger:    log,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	s.seedDemoAccount()
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.rateLimit)

	r.Post("/login", s.handleLogin)
	r.Post("/register", s.handleRegister)

	r.Get("/all-products", s.handleAllProducts)
	r.Get("/product/{handle}", s.handleProduct)

	r.Post("/createCart", s.handleCreateCart)
	r.Post("/cart-line-add", s.handleCartLineAdd)
	r.Post("/update-cart-line", s.handleUpdateCartLine)
	r.Post("/remove-cart-item", s.handleRemoveCartItem)
	r.Post("/get-cart", s.handleGetCart)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/customer", s.handleCustomer)
		r.Post("/update-cart-buyer-identity", s.handleUpdateBuyerIdentity)
		r.Post("/checkout", s.handleCheckout)
	})

	s.router = r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			respondError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) seedDemoAccount() {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		s.logger.Error("demo account seed failed", slog.String("error", err.Error()))
		return
	}
	email := strings.ToLower(DemoEmail)
	s.store.accounts[email] = &account{
		ID:           "customer-demo",
		Email:        email,
		FirstName:    "Demo",
		LastName:     "Customer",
		Phone:        "08123456789",
		PasswordHash: hash,
	}
}

func (s *Server) handleAllProducts(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	products := s.store.products
	s.store.mu.Unlock()
	respondOK(w, "ok", map[string]any{"products": products})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	for i := range s.store.products {
		if s.store.products[i].Handle == handle {
			respondOK(w, "ok", map[string]any{"product": s.store.products[i]})
			return
		}
	}
	respondFailure(w, "Product not found")
}
