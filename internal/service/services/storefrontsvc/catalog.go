package storefrontsvc

import (
	"sync"

	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
)

// Catalog holds the latest product snapshot delivered by the subscription.
type Catalog struct {
	mu       sync.RWMutex
	products []product.Product
	loaded   bool
}

// Replace swaps in a full snapshot.
func (c *Catalog) Replace(products []product.Product) {
	snapshot := make([]product.Product, len(products))
	copy(snapshot, products)

	c.mu.Lock()
	c.products = snapshot
	c.loaded = true
	c.mu.Unlock()
}

// Products returns a copy of the current snapshot.
func (c *Catalog) Products() []product.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]product.Product, len(c.products))
	copy(res, c.products)

	return res
}

// Find looks a product up by id.
func (c *Catalog) Find(id string) (product.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}

	return product.Product{}, false
}

// Loaded reports whether at least one snapshot has arrived.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.loaded
}
