// Package storage provides the persisted client-side state records for the
// storefront: the auth session, the cart identity, and the one-shot pending
// checkout intent. Records survive process restarts; callers delete them
// explicitly (logout, pending-checkout consumption).
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("storage: record not found")

// Fixed record names. Renaming one orphans existing state directories, so
// treat these as part of the persisted format.
const (
	KeyAuthSession     = "union-auth-storage"
	KeyCartIdentity    = "union-cart-id-storage"
	KeyPendingFlag     = "pendingCheckout"
	KeyPendingCheckout = "checkoutFormData"
)

// Store persists named records as opaque bytes.
type Store interface {
	// Get returns the record for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes the record for key, replacing any existing value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the record for key. Deleting a missing record is not
	// an error.
	Delete(ctx context.Context, key string) error
}
