package iproductrepo

import (
	"context"

	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
)

// IProductRepository is an interface for product postgres repository.
type IProductRepository interface {
	Insert(ctx context.Context, p product.Product) (product.Product, error)
	// List returns every product, newest first.
	List(ctx context.Context) ([]product.Product, error)
}
