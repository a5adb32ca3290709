package cart

import "sync"

type registryEntry struct {
	mu   sync.Mutex
	cart *Cart
}

// Registry owns the live carts, one per shop. Carts are process-local
// working state and are never persisted. The HTTP surface is concurrent,
// so every access to a cart runs under that shop's lock.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]*registryEntry{}}
}

func (r *Registry) entry(shop string) *registryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[shop]
	if !ok {
		e = &registryEntry{cart: &Cart{}}
		r.entries[shop] = e
	}
	return e
}

// WithLock runs fn against the shop's cart while holding that shop's
// lock. Checkout uses the same lock to keep its commit section and cart
// mutation serialized.
func (r *Registry) WithLock(shop string, fn func(c *Cart) error) error {
	e := r.entry(shop)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.cart)
}

// Drop forgets the shop's cart, for when the shop itself is removed.
func (r *Registry) Drop(shop string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, shop)
}
