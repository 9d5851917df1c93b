// Package session holds the authenticated customer state: the bearer token,
// the profile, and the persisted record that survives restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redirusmana/bakery-shop-web/internal/storage"
	"github.com/redirusmana/bakery-shop-web/pkg/validator"
)

// Customer is the profile returned by the commerce backend.
type Customer struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the account creation payload.
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// Gateway is the slice of the remote gateway the session store needs.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// state is the persisted session record. The field names match the stored
// JSON document, so existing records rehydrate unchanged.
type state struct {
	IsAuthenticated bool      `json:"isAuthenticated"`
	Token           string    `json:"token"`
	User            *Customer `json:"user"`
}

// Store owns the session state. All reads and writes go through its mutex;
// logout hooks run outside the lock.
type Store struct {
	gw      Gateway
	storage storage.Store
	logger  *slog.Logger

	mu       sync.Mutex
	state    state
	onLogout []func()
}

// NewStore creates a session store and rehydrates any persisted session. A
// corrupt or missing record starts the store logged out.
func NewStore(gw Gateway, st storage.Store, log *slog.Logger) *Store {
	s := &Store{
		gw:      gw,
		storage: st,
		logger:  log,
	}
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	raw, err := s.storage.Get(context.Background(), storage.KeyAuthSession)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("session rehydrate failed", slog.String("error", err.Error()))
		}
		return
	}
	var st state
	if err := json.Unmarshal(raw, &st); err != nil {
		s.logger.Warn("session record corrupt, starting logged out", slog.String("error", err.Error()))
		return
	}
	s.state = st
}

// OnLogout registers a hook run after the session is cleared. Hooks run
// outside the store lock and may call back into the store.
func (s *Store) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsAuthenticated
}

// User returns the current profile, or nil when none has been fetched.
func (s *Store) User() *Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User
}

type loginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   string    `json:"expiresAt"`
	Customer    *Customer `json:"customer"`
}

// Login authenticates against the backend. The token is stored and persisted
// before the dependent profile fetch, so a profile fetch failure leaves an
// authenticated session with no profile rather than rolling back.
func (s *Store) Login(ctx context.Context, creds Credentials) error {
	if err := validator.Validate(creds); err != nil {
		return err
	}

	var resp loginResponse
	if err := s.gw.Post(ctx, "/login", creds, &resp); err != nil {
		return err
	}

	s.setAuthenticated(ctx, resp.AccessToken, resp.Customer)
	return s.Refresh(ctx)
}

// Register creates an account and logs it in, following the same dependent
// profile fetch as Login.
func (s *Store) Register(ctx context.Context, reg Registration) error {
	if err := validator.Validate(reg); err != nil {
		return err
	}

	var resp loginResponse
	if err := s.gw.Post(ctx, "/register", reg, &resp); err != nil {
		return err
	}

	s.setAuthenticated(ctx, resp.AccessToken, resp.Customer)
	return s.Refresh(ctx)
}

func (s *Store) setAuthenticated(ctx context.Context, token string, user *Customer) {
	s.mu.Lock()
	s.state = state{
		IsAuthenticated: true,
		Token:           token,
		User:            user,
	}
	s.persistLocked(ctx)
	s.mu.Unlock()
}

// Refresh re-fetches the customer profile for the current session.
func (s *Store) Refresh(ctx context.Context) error {
	var profile Customer
	if err := s.gw.Get(ctx, "/customer", &profile); err != nil {
		return fmt.Errorf("fetch customer profile: %w", err)
	}

	s.mu.Lock()
	if s.state.IsAuthenticated {
		s.state.User = &profile
		s.persistLocked(ctx)
	}
	s.mu.Unlock()
	return nil
}

// Logout clears the session and runs registered hooks. It is idempotent:
// concurrent 401-driven logouts collapse to a single clear, and hooks run
// once.
func (s *Store) Logout() {
	s.mu.Lock()
	if !s.state.IsAuthenticated && s.state.Token == "" {
		s.mu.Unlock()
		return
	}
	s.state = state{}
	if err := s.storage.Delete(context.Background(), storage.KeyAuthSession); err != nil {
		s.logger.Warn("session record delete failed", slog.String("error", err.Error()))
	}
	hooks := make([]func(), len(s.onLogout))
	copy(hooks, s.onLogout)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

func (s *Store) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Error("session marshal failed", slog.String("error", err.Error()))
		return
	}
	if err := s.storage.Set(ctx, storage.KeyAuthSession, raw); err != nil {
		s.logger.Warn("session persist failed", slog.String("error", err.Error()))
	}
}
