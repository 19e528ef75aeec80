package createorder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/services/storefrontsvc"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/view"
	"github.com/gorilla/schema"
)

// service is an interface for the service layer.
type service interface {
	view.Catalog
	PlaceOrder(ctx context.Context, in storefrontsvc.PlaceOrderInput) (order.Order, error)
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// orderForm is the order modal form. Qty stays a string so bad input
// normalizes to 1 instead of failing the decode.
type orderForm struct {
	ProductID string `schema:"product_id"`
	Qty       string `schema:"qty"`
	Name      string `schema:"name"`
	Phone     string `schema:"phone"`
	Note      string `schema:"note"`
}

func (f *orderForm) toInput() storefrontsvc.PlaceOrderInput {
	return storefrontsvc.PlaceOrderInput{
		ProductID:    f.ProductID,
		Qty:          order.ParseQty(f.Qty),
		CustomerName: f.Name,
		Phone:        f.Phone,
		Note:         f.Note,
	}
}

// Submit handles the order modal form.
func Submit(w http.ResponseWriter, r *http.Request, service service) {
	state := view.ParseState(r.URL.Query())

	if err := r.ParseForm(); err != nil {
		page := view.NewPage(service, state, time.Now())
		page.SetError(page.T.InvalidInput)
		view.Render(w, http.StatusBadRequest, page)
		slog.Error("Error parsing order form", "error", err)

		return
	}

	form := orderForm{}
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		page := view.NewPage(service, state, time.Now())
		page.SetError(page.T.InvalidInput)
		view.Render(w, http.StatusBadRequest, page)
		slog.Error("Error decoding order form", "error", err)

		return
	}

	if _, err := service.PlaceOrder(r.Context(), form.toInput()); err != nil {
		// Re-open the modal with what the customer typed.
		page := view.NewPage(service, state.WithOrder(form.ProductID), time.Now())
		page.Order = view.OrderForm{Qty: form.Qty, Name: form.Name, Phone: form.Phone, Note: form.Note}

		var verr *storefrontsvc.ValidationError
		status := http.StatusInternalServerError
		switch {
		case errors.As(err, &verr):
			page.SetError(page.T.InvalidInput, verr.Fields...)
			status = http.StatusBadRequest
		case errors.Is(err, storefrontsvc.ErrInvalidInput):
			page.SetError(page.T.InvalidInput)
			status = http.StatusBadRequest
		default:
			page.SetError(page.T.SaveFailed)
			slog.Error("Error placing order", "error", err)
		}
		view.Render(w, status, page)

		return
	}

	http.Redirect(w, r, state.WithOrder("").WithNotice(view.NoticeOrderSubmitted).URL(), http.StatusSeeOther)
}

// createOrderRequest is the JSON body of POST /api/v1/orders.
type createOrderRequest struct {
	ProductID    string `json:"productId"`
	Qty          int    `json:"qty"`
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Note         string `json:"note"`
}

// CreateJSON handles the JSON place-order request.
func CreateJSON(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	created, err := service.PlaceOrder(r.Context(), storefrontsvc.PlaceOrderInput{
		ProductID:    req.ProductID,
		Qty:          req.Qty,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Note:         req.Note,
	})
	if err != nil {
		if errors.Is(err, storefrontsvc.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			slog.Error("Error validating create order request", "error", err)

			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error placing order", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error sending response for create order", "error", err)
	}
}
