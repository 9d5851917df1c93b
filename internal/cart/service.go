// Package cart synchronizes the local cart view with the remote cart: it
// owns the cart identity, a snapshot cache, and the mutation flow that keeps
// the two consistent.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redirusmana/bakery-shop-web/internal/notify"
	apperrors "github.com/redirusmana/bakery-shop-web/pkg/errors"
	"github.com/redirusmana/bakery-shop-web/pkg/logger"
	"github.com/redirusmana/bakery-shop-web/pkg/validator"
)

// Gateway is the slice of the remote gateway the cart service needs.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Service coordinates cart reads and mutations. Mutations never touch local
// state until the backend confirms them.
type Service struct {
	gw       Gateway
	identity *Identity
	cache    *Cache
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService wires a cart service.
func NewService(gw Gateway, identity *Identity, cache *Cache, n notify.Notifier, log *slog.Logger) *Service {
	return &Service{
		gw:       gw,
		identity: identity,
		cache:    cache,
		notifier: n,
		logger:   log,
	}
}

// CartID returns the current cart id, or "" when no cart exists.
func (s *Service) CartID() string {
	return s.identity.CartID()
}

// IsCartOpen reports whether the cart panel is open.
func (s *Service) IsCartOpen() bool {
	return s.identity.IsCartOpen()
}

// OpenCart opens the cart panel.
func (s *Service) OpenCart() { s.identity.OpenCart() }

// CloseCart closes the cart panel.
func (s *Service) CloseCart() { s.identity.CloseCart() }

type cartEnvelope struct {
	Cart *Snapshot `json:"cart"`
}

// FetchCart returns the current cart snapshot, from cache when possible.
// Without a cart id it fails fast with no network call.
func (s *Service) FetchCart(ctx context.Context) (*Snapshot, error) {
	cartID := s.identity.CartID()
	if cartID == "" {
		return nil, apperrors.NoCart()
	}
	if snap := s.cache.Get(cartID); snap != nil {
		return snap, nil
	}

	var resp cartEnvelope
	err := s.gw.Post(ctx, "/get-cart", map[string]string{"cartId": cartID}, &resp)
	if err != nil {
		if errors.Is(err, apperrors.ErrRemote) {
			return nil, apperrors.CartFetch()
		}
		return nil, err
	}
	if resp.Cart == nil || resp.Cart.ID == "" {
		return nil, apperrors.CartFetch()
	}

	s.cache.Seed(resp.Cart)
	return resp.Cart, nil
}

// AddLine adds a line to the cart, creating the cart first when none exists.
// On success the cart panel opens.
func (s *Service) AddLine(ctx context.Context, payload AddLinePayload) error {
	if err := validator.Validate(payload); err != nil {
		s.notifier.Error(apperrors.Message(err), "")
		return err
	}

	cartID := s.identity.CartID()
	if cartID == "" {
		if err := s.createCart(ctx, payload); err != nil {
			s.notifier.Error(apperrors.Message(err), "")
			return err
		}
	} else {
		body := struct {
			AddLinePayload
			CartID string `json:"cartId"`
		}{AddLinePayload: payload, CartID: cartID}

		if err := s.gw.Post(ctx, "/cart-line-add", body, nil); err != nil {
			s.notifier.Error(apperrors.Message(err), "")
			return err
		}
		s.cache.Invalidate(cartID)
	}

	s.identity.OpenCart()
	s.notifier.Success("Item added to your cart", payload.ProductTitle)
	return nil
}

func (s *Service) createCart(ctx context.Context, payload AddLinePayload) error {
	var resp cartEnvelope
	if err := s.gw.Post(ctx, "/createCart", payload, &resp); err != nil {
		return err
	}
	if resp.Cart == nil || resp.Cart.ID == "" {
		return apperrors.Remote("invalid response from server")
	}
	s.identity.SetCartID(ctx, resp.Cart.ID)
	s.cache.Seed(resp.Cart)
	return nil
}

// UpdateLine edits an existing cart line. Without a cart there is nothing to
// update and the call is a silent no-op.
func (s *Service) UpdateLine(ctx context.Context, payload UpdateLinePayload) error {
	cartID := s.identity.CartID()
	if cartID == "" {
		return nil
	}
	if err := validator.Validate(payload); err != nil {
		s.notifier.Error(apperrors.Message(err), "")
		return err
	}

	body := struct {
		UpdateLinePayload
		CartID string `json:"cartId"`
	}{UpdateLinePayload: payload, CartID: cartID}

	if err := s.gw.Post(ctx, "/update-cart-line", body, nil); err != nil {
		s.notifier.Error("Failed to update cart", apperrors.Message(err))
		return err
	}

	s.cache.Invalidate(cartID)
	s.notifier.Success("Cart updated successfully", "")
	return nil
}

// RemoveLine removes a line from the cart. Removing the last line retires
// the cart entirely: the identity is cleared and the snapshot evicted.
func (s *Service) RemoveLine(ctx context.Context, lineID string) error {
	cartID := s.identity.CartID()
	if cartID == "" {
		return nil
	}

	// The cache may have been invalidated by an earlier mutation, so this
	// check alone cannot decide whether the removal empties the cart; the
	// server's response is authoritative when it carries cart data.
	wasLast := false
	if snap := s.cache.Get(cartID); snap != nil && len(snap.Lines.Nodes) == 1 && snap.Lines.Nodes[0].ID == lineID {
		wasLast = true
	}

	body := map[string]any{"cartId": cartID, "lineIds": []string{lineID}}
	var resp cartEnvelope
	if err := s.gw.Post(ctx, "/remove-cart-item", body, &resp); err != nil {
		s.notifier.Error("Failed to remove item", apperrors.Message(err))
		return err
	}

	empty := wasLast
	if resp.Cart != nil {
		empty = resp.Cart.IsEmpty()
	}

	if empty {
		s.identity.Clear()
		s.cache.Evict(cartID)
	} else {
		s.cache.Invalidate(cartID)
	}
	s.notifier.Success("Item removed from your cart", "")
	return nil
}

// UpdateBuyerIdentity attaches delivery contact details to the cart. It is
// best effort from the caller's point of view: failures are logged and
// returned, and callers decide whether to proceed.
func (s *Service) UpdateBuyerIdentity(ctx context.Context, identity BuyerIdentity) error {
	cartID := s.identity.CartID()
	if cartID == "" {
		return nil
	}

	body := struct {
		BuyerIdentity
		CartID string `json:"cartId"`
	}{BuyerIdentity: identity, CartID: cartID}

	if err := s.gw.Post(ctx, "/update-cart-buyer-identity", body, nil); err != nil {
		logger.WithContext(ctx, s.logger).WarnContext(ctx, "buyer identity update failed",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("update buyer identity: %w", err)
	}

	s.cache.Invalidate(cartID)
	return nil
}

// Checkout places the order for the current cart. On success the cart is
// retired and the panel closes.
func (s *Service) Checkout(ctx context.Context, identity BuyerIdentity) error {
	cartID := s.identity.CartID()
	if cartID == "" {
		return apperrors.NoCart()
	}

	body := struct {
		BuyerIdentity
		CartID string `json:"cartId"`
	}{BuyerIdentity: identity, CartID: cartID}

	if err := s.gw.Post(ctx, "/checkout", body, nil); err != nil {
		return err
	}

	s.cache.Evict(cartID)
	s.identity.Clear()
	s.identity.CloseCart()
	s.notifier.Success("Order placed successfully", "Thank you for your order")
	return nil
}
