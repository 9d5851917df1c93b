// Package checkout orchestrates order placement: validating the delivery
// form, deferring checkout behind a login when needed, and resuming the
// deferred order once the login completes.
package checkout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redirusmana/bakery-shop-web/internal/cart"
	"github.com/redirusmana/bakery-shop-web/internal/notify"
	apperrors "github.com/redirusmana/bakery-shop-web/pkg/errors"
	"github.com/redirusmana/bakery-shop-web/pkg/logger"
)

// Status is the orchestrator's last observed submission outcome.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
	StatusDeferred
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Navigation destinations and defaults applied to a resumed checkout.
const (
	LoginDestination = "/account/login"
	HomeDestination  = "/"

	DefaultPhone        = "08123456789"
	DefaultDeliveryTime = "10AM - 12PM"
)

// CartAPI is the slice of the cart service the orchestrator needs.
type CartAPI interface {
	CartID() string
	Checkout(ctx context.Context, identity cart.BuyerIdentity) error
	UpdateBuyerIdentity(ctx context.Context, identity cart.BuyerIdentity) error
	CloseCart()
}

// AuthState reports whether a customer session is active.
type AuthState interface {
	IsAuthenticated() bool
}

// Navigator moves the storefront to another destination.
type Navigator interface {
	Navigate(dest string)
}

// Orchestrator drives the checkout flow.
type Orchestrator struct {
	carts    CartAPI
	auth     AuthState
	pending  *PendingStore
	nav      Navigator
	notifier notify.Notifier
	logger   *slog.Logger

	// now supplies today's date for resumed checkouts missing one.
	now func() time.Time

	mu     sync.Mutex
	status Status
}

// New wires a checkout orchestrator.
func New(carts CartAPI, auth AuthState, pending *PendingStore, nav Navigator, n notify.Notifier, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		carts:    carts,
		auth:     auth,
		pending:  pending,
		nav:      nav,
		notifier: n,
		logger:   log,
		now:      time.Now,
	}
}

// Status returns the last submission outcome.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Orchestrator) setStatus(s Status) {
	o.mu.Lock()
	o.status = s
	o.mu.Unlock()
}

// Submit places an order with the given delivery details. An incomplete form
// is rejected before any network call. Without an active session the form is
// persisted, the cart panel closes, and the storefront navigates to the
// login page; the order resumes via ResumeAfterLogin.
func (o *Orchestrator) Submit(ctx context.Context, rec Record) error {
	if rec.Phone == "" || rec.DeliveryDate == "" || rec.DeliveryTime == "" {
		o.notifier.Error("Almost there! Please complete all delivery details first", "")
		return apperrors.Validation("delivery details incomplete")
	}

	if !o.auth.IsAuthenticated() {
		if err := o.pending.Save(ctx, rec); err != nil {
			logger.WithContext(ctx, o.logger).ErrorContext(ctx, "pending checkout save failed",
				slog.String("error", err.Error()),
			)
			return err
		}
		o.setStatus(StatusDeferred)
		o.notifier.Info("Please login to secure your order.", "Your delivery details have been saved")
		o.carts.CloseCart()
		o.nav.Navigate(LoginDestination)
		return nil
	}

	o.setStatus(StatusSubmitting)
	err := o.carts.Checkout(ctx, cart.BuyerIdentity{
		Phone:        rec.Phone,
		DeliveryDate: rec.DeliveryDate,
		DeliveryTime: rec.DeliveryTime,
	})
	if err != nil {
		o.setStatus(StatusFailed)
		o.notifier.Error(apperrors.Message(err), "")
		return err
	}

	o.setStatus(StatusSucceeded)
	return nil
}

// ResumeAfterLogin consumes any deferred checkout and submits it. The
// pending record is cleared up front, so a resume runs at most once whatever
// the outcome, and the storefront always returns home afterwards.
func (o *Orchestrator) ResumeAfterLogin(ctx context.Context) error {
	rec, ok := o.pending.Take(ctx)
	if !ok {
		return nil
	}

	o.notifier.Info("Processing your pending checkout...", "")
	rec = o.applyDefaults(rec)

	if o.carts.CartID() != "" {
		// Best effort: checkout proceeds even if this fails.
		_ = o.carts.UpdateBuyerIdentity(ctx, cart.BuyerIdentity{
			Phone:        rec.Phone,
			DeliveryDate: rec.DeliveryDate,
			DeliveryTime: rec.DeliveryTime,
		})
	}

	err := o.Submit(ctx, rec)
	o.nav.Navigate(HomeDestination)
	return err
}

func (o *Orchestrator) applyDefaults(rec Record) Record {
	if rec.Phone == "" {
		rec.Phone = DefaultPhone
	}
	if rec.DeliveryDate == "" {
		rec.DeliveryDate = o.now().Format("2006-01-02")
	}
	if rec.DeliveryTime == "" {
		rec.DeliveryTime = DefaultDeliveryTime
	}
	return rec
}
