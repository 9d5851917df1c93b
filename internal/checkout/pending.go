package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redirusmana/bakery-shop-web/internal/storage"
)

// Record is the delivery form captured at checkout time.
type Record struct {
	Phone        string `json:"phone"`
	DeliveryDate string `json:"deliveryDate"`
	DeliveryTime string `json:"deliveryTime"`
}

// PendingStore persists a checkout deferred by a missing login: the form
// record plus a flag marking it pending. The two are written and cleared as
// a pair.
type PendingStore struct {
	mu      sync.Mutex
	storage storage.Store
	logger  *slog.Logger
}

// NewPendingStore creates a pending checkout store.
func NewPendingStore(st storage.Store, log *slog.Logger) *PendingStore {
	return &PendingStore{storage: st, logger: log}
}

// Save persists the record and marks it pending. If the flag write fails the
// record is rolled back so the pair stays consistent.
func (p *PendingStore) Save(ctx context.Context, rec Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal pending checkout: %w", err)
	}
	if err := p.storage.Set(ctx, storage.KeyPendingCheckout, raw); err != nil {
		return fmt.Errorf("persist pending checkout: %w", err)
	}
	if err := p.storage.Set(ctx, storage.KeyPendingFlag, []byte("true")); err != nil {
		if delErr := p.storage.Delete(ctx, storage.KeyPendingCheckout); delErr != nil {
			p.logger.Warn("pending checkout rollback failed", slog.String("error", delErr.Error()))
		}
		return fmt.Errorf("persist pending flag: %w", err)
	}
	return nil
}

// IsPending reports whether a deferred checkout is waiting.
func (p *PendingStore) IsPending(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	raw, err := p.storage.Get(ctx, storage.KeyPendingFlag)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			p.logger.Warn("pending flag read failed", slog.String("error", err.Error()))
		}
		return false
	}
	return string(raw) == "true"
}

// Take reads and clears the pending record in one step. Both keys are
// removed regardless of whether the record parses, so a deferred checkout
// is consumed at most once. The flag alone is enough to resume: a missing
// or corrupt record yields a zero Record and the caller's defaults apply.
func (p *PendingStore) Take(ctx context.Context) (Record, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	flag, err := p.storage.Get(ctx, storage.KeyPendingFlag)
	if err != nil || string(flag) != "true" {
		return Record{}, false
	}

	raw, readErr := p.storage.Get(ctx, storage.KeyPendingCheckout)
	p.clearLocked(ctx)
	if readErr != nil {
		if !errors.Is(readErr, storage.ErrNotFound) {
			p.logger.Warn("pending checkout read failed", slog.String("error", readErr.Error()))
		}
		return Record{}, true
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		p.logger.Warn("pending checkout record corrupt", slog.String("error", err.Error()))
		return Record{}, true
	}
	return rec, true
}

// Clear removes any pending checkout without reading it.
func (p *PendingStore) Clear(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked(ctx)
}

func (p *PendingStore) clearLocked(ctx context.Context) {
	if err := p.storage.Delete(ctx, storage.KeyPendingCheckout); err != nil {
		p.logger.Warn("pending checkout delete failed", slog.String("error", err.Error()))
	}
	if err := p.storage.Delete(ctx, storage.KeyPendingFlag); err != nil {
		p.logger.Warn("pending flag delete failed", slog.String("error", err.Error()))
	}
}
