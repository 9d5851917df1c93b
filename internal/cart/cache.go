package cart

import "sync"

// Cache holds fetched cart snapshots keyed by cart id. An invalidated entry
// is simply absent; the next fetch repopulates it.
type Cache struct {
	mu        sync.Mutex
	snapshots map[string]*Snapshot
}

// NewCache creates an empty snapshot cache.
func NewCache() *Cache {
	return &Cache{snapshots: make(map[string]*Snapshot)}
}

// Get returns the cached snapshot for cartID, or nil on a miss.
func (c *Cache) Get(cartID string) *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshots[cartID]
}

// Seed stores a freshly fetched snapshot.
func (c *Cache) Seed(snap *Snapshot) {
	if snap == nil || snap.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[snap.ID] = snap
}

// Invalidate drops the snapshot for cartID so the next read refetches.
// Invalidating an absent entry is a no-op.
func (c *Cache) Invalidate(cartID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snapshots, cartID)
}

// Evict removes the snapshot for a cart that no longer exists. Like
// Invalidate it is idempotent; the two differ only in intent.
func (c *Cache) Evict(cartID string) {
	c.Invalidate(cartID)
}
