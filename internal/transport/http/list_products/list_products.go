package listproducts

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/category"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/gorilla/schema"
)

type service interface {
	Products(q product.QueryProductsModel) []product.Product
}

type queryProductsRequest struct {
	Search   string `schema:"q,omitempty"`
	Category string `schema:"category,omitempty"`
}

func (q *queryProductsRequest) ToModel() product.QueryProductsModel {
	return product.QueryProductsModel{
		Search:   q.Search,
		Category: q.Category,
	}
}

func ListProducts(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryProductsRequest{}
	err := decoder.Decode(query, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	if query.Category != "" && query.Category != category.All {
		if _, err := category.ParseCategory(query.Category); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			slog.Error("Error decoding request", "error", err)

			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(service.Products(query.ToModel())); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
