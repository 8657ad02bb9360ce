// Package pending holds the process-local cache of orders awaiting a picker.
//
// The cache is a convenience copy, not shared state: correctness never
// depends on two processes agreeing on its contents, only on the Order
// Store's authoritative status field. Entries appear when a new order event
// is seen and disappear when a claim is confirmed or the order is cancelled.
package pending

import (
	"sort"
	"sync"

	"hawker/internal/core/events"
)

// Cache is a mutex-guarded map of order id to last-known order snapshot.
// Both the bus consumer goroutine and the HTTP handler pool mutate it.
type Cache struct {
	mu      sync.Mutex
	entries map[string]events.OrderSnapshot
}

// NewCache creates an empty pending-order cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]events.OrderSnapshot),
	}
}

// Upsert inserts or refreshes the snapshot for an order.
func (c *Cache) Upsert(snapshot events.OrderSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[snapshot.OrderID] = snapshot
}

// Remove drops an order from the cache. Reports whether an entry existed, so
// replayed removals can be distinguished from first delivery.
func (c *Cache) Remove(orderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[orderID]
	delete(c.entries, orderID)
	return ok
}

// Get returns the cached snapshot for an order, if present.
func (c *Cache) Get(orderID string) (events.OrderSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot, ok := c.entries[orderID]
	return snapshot, ok
}

// Contains reports whether an order is currently pending in this process.
func (c *Cache) Contains(orderID string) bool {
	_, ok := c.Get(orderID)
	return ok
}

// All returns a copy of every cached snapshot, oldest order first. Used to
// replay the backlog to a freshly connected picker.
func (c *Cache) All() []events.OrderSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshots := make([]events.OrderSnapshot, 0, len(c.entries))
	for _, s := range c.entries {
		snapshots = append(snapshots, s)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt)
	})
	return snapshots
}

// Len returns the number of pending entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Replace swaps the full contents of the cache, used when reseeding from the
// Order Store on startup or resync.
func (c *Cache) Replace(snapshots []events.OrderSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]events.OrderSnapshot, len(snapshots))
	for _, s := range snapshots {
		c.entries[s.OrderID] = s
	}
}
