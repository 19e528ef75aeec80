package product

import (
	"strings"

	"github.com/corray333/backend-labs/storefront/internal/service/models/category"
)

// QueryProductsModel represents filter parameters for the catalog view.
type QueryProductsModel struct {
	Search   string `json:"q,omitempty"`
	Category string `json:"category,omitempty"`
}

// Matches reports whether p passes the filter.
// An empty search matches every name; category "all" or "" matches every category.
func (q QueryProductsModel) Matches(p Product) bool {
	if q.Category != "" && q.Category != category.All && string(p.Category) != q.Category {
		return false
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))

	return strings.Contains(strings.ToLower(p.NameEn+" "+p.NameAr), term)
}

// Filter returns the products passing q, preserving their order.
func Filter(products []Product, q QueryProductsModel) []Product {
	res := make([]Product, 0, len(products))
	for _, p := range products {
		if q.Matches(p) {
			res = append(res, p)
		}
	}

	return res
}
