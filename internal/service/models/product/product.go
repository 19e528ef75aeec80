package product

import (
	"fmt"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/category"
	"github.com/corray333/backend-labs/storefront/internal/service/models/locale"
)

// Product represents a menu entry in the catalog.
type Product struct {
	ID        string            `json:"id"`
	NameEn    string            `json:"name_en"`
	NameAr    string            `json:"name_ar"`
	Price     float64           `json:"price"`
	Category  category.Category `json:"category"`
	ImageURL  string            `json:"imageUrl"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Name returns the display name in the given language.
func (p Product) Name(lang locale.Language) string {
	if lang == locale.Arabic {
		return p.NameAr
	}

	return p.NameEn
}

// FormatPrice renders a price in riyals with two decimals.
func FormatPrice(price float64) string {
	return fmt.Sprintf("﷼%.2f", price)
}
