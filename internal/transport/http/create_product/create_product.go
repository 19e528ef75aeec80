package createproduct

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/category"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/corray333/backend-labs/storefront/internal/service/services/storefrontsvc"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/view"
	"github.com/gorilla/schema"
)

// service is an interface for the service layer.
type service interface {
	view.Catalog
	CreateProduct(ctx context.Context, in storefrontsvc.CreateProductInput) (product.Product, error)
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// createProductForm is the multipart create-product form.
type createProductForm struct {
	NameEn   string `schema:"name_en"`
	NameAr   string `schema:"name_ar"`
	Price    string `schema:"price"`
	Category string `schema:"category"`
}

// toInput converts the form to service input. An unparseable price becomes
// NaN so validation reports it against the price field.
func (f *createProductForm) toInput() storefrontsvc.CreateProductInput {
	price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	if err != nil {
		price = math.NaN()
	}

	return storefrontsvc.CreateProductInput{
		NameEn:   f.NameEn,
		NameAr:   f.NameAr,
		Price:    price,
		Category: category.Category(f.Category),
	}
}

func (f *createProductForm) toView() view.ProductForm {
	return view.ProductForm{
		NameEn:   f.NameEn,
		NameAr:   f.NameAr,
		Price:    f.Price,
		Category: f.Category,
	}
}

// Submit handles the admin create-product form. maxBytes bounds the whole
// multipart body.
func Submit(w http.ResponseWriter, r *http.Request, service service, maxBytes int64) {
	state := view.ParseState(r.URL.Query())
	state.Admin = true
	page := view.NewPage(service, state, time.Now())

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		page.SetError(page.T.UploadFailed, "image")
		view.Render(w, http.StatusBadRequest, page)
		slog.Error("Error parsing create product form", "error", err)

		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Error("Error removing multipart temp files", "error", err)
		}
	}()

	form := createProductForm{}
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		page.SetError(page.T.InvalidInput)
		view.Render(w, http.StatusBadRequest, page)
		slog.Error("Error decoding create product form", "error", err)

		return
	}
	page.SetProductForm(form.toView())

	in := form.toInput()
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer closeFile(file)
		in.Image = &storefrontsvc.Upload{
			Filename: header.Filename,
			Size:     header.Size,
			Body:     file,
		}
	case !errors.Is(err, http.ErrMissingFile):
		page.SetError(page.T.UploadFailed, "image")
		view.Render(w, http.StatusBadRequest, page)
		slog.Error("Error reading product image", "error", err)

		return
	}

	if _, err := service.CreateProduct(r.Context(), in); err != nil {
		status := renderError(page, err)
		view.Render(w, status, page)

		return
	}

	http.Redirect(w, r, state.WithNotice(view.NoticeAdded).URL(), http.StatusSeeOther)
}

func renderError(page *view.Page, err error) int {
	var verr *storefrontsvc.ValidationError
	switch {
	case errors.As(err, &verr):
		page.SetError(page.T.InvalidInput, verr.Fields...)

		return http.StatusBadRequest
	case errors.Is(err, storefrontsvc.ErrInvalidInput):
		page.SetError(page.T.InvalidInput)

		return http.StatusBadRequest
	case errors.Is(err, storefrontsvc.ErrUpload):
		page.SetError(page.T.UploadFailed, "image")
		slog.Error("Error uploading product image", "error", err)

		return http.StatusBadGateway
	default:
		page.SetError(page.T.SaveFailed)
		slog.Error("Error creating product", "error", err)

		return http.StatusInternalServerError
	}
}

func closeFile(f multipart.File) {
	if err := f.Close(); err != nil {
		slog.Error("Error closing uploaded file", "error", err)
	}
}

// createProductRequest is the JSON body of POST /api/v1/products.
type createProductRequest struct {
	NameEn   string   `json:"name_en"`
	NameAr   string   `json:"name_ar"`
	Price    *float64 `json:"price"`
	Category string   `json:"category"`
}

// CreateJSON handles the JSON create-product request. JSON clients cannot
// attach an image; the product is stored with an empty image URL.
func CreateJSON(w http.ResponseWriter, r *http.Request, service service) {
	req := createProductRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create product", "error", err)

		return
	}

	if req.Price == nil {
		err := &storefrontsvc.ValidationError{Fields: []string{"price"}}
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating create product request", "error", err)

		return
	}

	created, err := service.CreateProduct(r.Context(), storefrontsvc.CreateProductInput{
		NameEn:   req.NameEn,
		NameAr:   req.NameAr,
		Price:    *req.Price,
		Category: category.Category(req.Category),
	})
	if err != nil {
		if errors.Is(err, storefrontsvc.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			slog.Error("Error validating create product request", "error", err)

			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error creating product", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		slog.Error("Error sending response for create product", "error", err)
	}
}
