package mockapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/redirusmana/bakery-shop-web/pkg/validator"
)

type account struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	PasswordHash []byte
}

type customerView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

func (a *account) view() customerView {
	return customerView{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Phone:     a.Phone,
	}
}

const tokenTTL = 24 * time.Hour

func (s *Server) issueToken(a *account) (string, time.Time, error) {
	expiresAt := time.Now().Add(tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   a.ID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	return token, expiresAt, err
}

type sessionPayload struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   string       `json:"expiresAt"`
	Customer    customerView `json:"customer"`
}

func (s *Server) sessionFor(w http.ResponseWriter, a *account, message string) {
	token, expiresAt, err := s.issueToken(a)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	respondOK(w, message, sessionPayload{
		AccessToken: token,
		ExpiresAt:   expiresAt.Format(time.RFC3339),
		Customer:    a.view(),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		respondInvalid(w, err)
		return
	}

	s.store.mu.Lock()
	a := s.store.accounts[strings.ToLower(req.Email)]
	s.store.mu.Unlock()

	if a == nil || bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(req.Password)) != nil {
		respondFailure(w, "Invalid email or password",
			errorDetail{Message: "Invalid email or password", Code: "INVALID_CREDENTIALS"})
		return
	}
	s.sessionFor(w, a, "login successful")
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,min=8"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		respondInvalid(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	email := strings.ToLower(req.Email)
	a := &account{
		ID:           "customer-" + uuid.New().String(),
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}

	s.store.mu.Lock()
	if _, exists := s.store.accounts[email]; exists {
		s.store.mu.Unlock()
		respondFailure(w, "An account with this email already exists",
			errorDetail{Message: "An account with this email already exists", Field: "email"})
		return
	}
	s.store.accounts[email] = a
	s.store.mu.Unlock()

	s.sessionFor(w, a, "registration successful")
}

func (s *Server) handleCustomer(w http.ResponseWriter, r *http.Request) {
	a := accountFrom(r.Context())
	respondOK(w, "ok", a.view())
}

type contextKey struct{ name string }

var accountKey = &contextKey{"account"}

func accountFrom(ctx context.Context) *account {
	a, _ := ctx.Value(accountKey).(*account)
	return a
}

// requireAuth verifies the bearer token and loads the account into the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		s.store.mu.Lock()
		var a *account
		for _, candidate := range s.store.accounts {
			if candidate.ID == claims.Subject {
				a = candidate
				break
			}
		}
		s.store.mu.Unlock()
		if a == nil {
			respondError(w, http.StatusUnauthorized, "unknown account")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey, a)))
	})
}
