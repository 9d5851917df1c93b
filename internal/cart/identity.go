package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/redirusmana/bakery-shop-web/internal/storage"
)

// identityRecord is the persisted cart identity document. Only the cart id
// survives restarts; the open flag is per-process UI state.
type identityRecord struct {
	CartID string `json:"cartId"`
}

// Identity tracks which remote cart this client owns and whether the cart
// panel is open.
type Identity struct {
	storage storage.Store
	logger  *slog.Logger

	mu     sync.Mutex
	cartID string
	isOpen bool
}

// NewIdentity creates a cart identity, rehydrating any persisted cart id.
func NewIdentity(st storage.Store, log *slog.Logger) *Identity {
	id := &Identity{storage: st, logger: log}
	raw, err := st.Get(context.Background(), storage.KeyCartIdentity)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Warn("cart identity rehydrate failed", slog.String("error", err.Error()))
		}
		return id
	}
	var rec identityRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		log.Warn("cart identity record corrupt", slog.String("error", err.Error()))
		return id
	}
	id.cartID = rec.CartID
	return id
}

// CartID returns the current cart id, or "" when no cart exists.
func (i *Identity) CartID() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.cartID
}

// SetCartID records a new cart id and persists it.
func (i *Identity) SetCartID(ctx context.Context, id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cartID = id
	i.persistLocked(ctx)
}

// Clear forgets the cart id and removes the persisted record.
func (i *Identity) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cartID = ""
	if err := i.storage.Delete(context.Background(), storage.KeyCartIdentity); err != nil {
		i.logger.Warn("cart identity delete failed", slog.String("error", err.Error()))
	}
}

// OpenCart marks the cart panel open.
func (i *Identity) OpenCart() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.isOpen = true
}

// CloseCart marks the cart panel closed.
func (i *Identity) CloseCart() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.isOpen = false
}

// IsCartOpen reports whether the cart panel is open.
func (i *Identity) IsCartOpen() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.isOpen
}

func (i *Identity) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(identityRecord{CartID: i.cartID})
	if err != nil {
		i.logger.Error("cart identity marshal failed", slog.String("error", err.Error()))
		return
	}
	if err := i.storage.Set(ctx, storage.KeyCartIdentity, raw); err != nil {
		i.logger.Warn("cart identity persist failed", slog.String("error", err.Error()))
	}
}
