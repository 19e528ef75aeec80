package order

import (
	"strconv"
	"strings"
	"time"
)

type Status string

// StatusNew is the only status assigned by the storefront.
const StatusNew Status = "new"

func (s Status) String() string {
	return string(s)
}

// Order represents a customer order. Product fields are a snapshot taken at
// order time and stay nil when the product was gone before submission.
type Order struct {
	ID            string    `json:"id"`
	ProductID     *string   `json:"productId"`
	ProductNameEn *string   `json:"product_name_en"`
	ProductNameAr *string   `json:"product_name_ar"`
	Price         *float64  `json:"price"`
	Qty           int       `json:"qty"`
	CustomerName  string    `json:"customer_name"`
	Phone         string    `json:"phone"`
	Note          string    `json:"note"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ParseQty reads a quantity field. Empty, unparseable and non-positive
// values fall back to 1.
func ParseQty(raw string) int {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || qty < 1 {
		return 1
	}

	return qty
}
