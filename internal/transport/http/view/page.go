package view

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/category"
	"github.com/corray333/backend-labs/storefront/internal/service/models/locale"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
)

//go:embed templates/*.html
var templatesFS embed.FS

var storefrontTmpl = template.Must(template.ParseFS(templatesFS, "templates/storefront.html"))

// Catalog is the read side the page is built from.
type Catalog interface {
	Products(q product.QueryProductsModel) []product.Product
	Product(id string) (product.Product, bool)
}

type Link struct {
	Label  string
	URL    string
	Active bool
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

type Card struct {
	ID       string
	Name     string
	Price    string
	Category string
	ImageURL string
	OrderURL string
}

// Modal is the open order dialog.
type Modal struct {
	ProductID string
	Name      string
	Price     string
	Action    string
	CloseURL  string
}

// ProductForm holds the values typed into the create-product form.
type ProductForm struct {
	NameEn   string
	NameAr   string
	Price    string
	Category string
}

// OrderForm holds the values typed into the order form.
type OrderForm struct {
	Qty   string
	Name  string
	Phone string
	Note  string
}

// Page is everything the storefront template renders.
type Page struct {
	State State
	T     locale.Strings
	Lang  string
	Dir   string

	LangLinks  []Link
	AdminURL   string
	SearchPath string
	Categories []Link

	CategoryOptions []Option
	CreateAction    string
	ProductForm     ProductForm

	Products []Card
	Modal    *Modal
	Order    OrderForm

	Notice      string
	NoticeClose string
	Error       string
	Invalid     map[string]bool

	Year int
}

// NewPage derives the page for state from the current catalog.
func NewPage(c Catalog, state State, now time.Time) *Page {
	t := locale.For(state.Lang)
	p := &Page{
		State:      state,
		T:          t,
		Lang:       state.Lang.String(),
		Dir:        state.Lang.Dir(),
		AdminURL:   state.WithAdmin(!state.Admin).WithNotice("").URL(),
		SearchPath: "/",
		Invalid:    map[string]bool{},
		Order:      OrderForm{Qty: "1"},
		Year:       now.Year(),
	}

	p.LangLinks = []Link{
		{Label: "العربية", URL: state.WithLang(locale.Arabic).URL(), Active: state.Lang == locale.Arabic},
		{Label: "English", URL: state.WithLang(locale.English).URL(), Active: state.Lang == locale.English},
	}

	p.Categories = append(p.Categories, Link{
		Label:  t.All,
		URL:    state.WithCategory(category.All).WithNotice("").URL(),
		Active: state.Category == category.All,
	})
	for _, c := range category.List() {
		p.Categories = append(p.Categories, Link{
			Label:  c.Label(state.Lang),
			URL:    state.WithCategory(c.String()).WithNotice("").URL(),
			Active: state.Category == c.String(),
		})
		p.CategoryOptions = append(p.CategoryOptions, Option{
			Value:    c.String(),
			Label:    c.Label(state.Lang),
			Selected: c == category.CategoryShawarma,
		})
	}
	p.CreateAction = state.ActionURL("/products")

	products := c.Products(product.QueryProductsModel{Search: state.Search, Category: state.Category})
	p.Products = make([]Card, 0, len(products))
	for _, pr := range products {
		p.Products = append(p.Products, Card{
			ID:       pr.ID,
			Name:     pr.Name(state.Lang),
			Price:    product.FormatPrice(pr.Price),
			Category: pr.Category.Label(state.Lang),
			ImageURL: pr.ImageURL,
			OrderURL: state.WithOrder(pr.ID).WithNotice("").URL(),
		})
	}

	if state.Order != "" {
		if pr, ok := c.Product(state.Order); ok {
			p.Modal = &Modal{
				ProductID: pr.ID,
				Name:      pr.Name(state.Lang),
				Price:     product.FormatPrice(pr.Price),
				Action:    state.ActionURL("/orders"),
				CloseURL:  state.WithOrder("").WithNotice("").URL(),
			}
		}
	}

	switch state.Notice {
	case NoticeAdded:
		p.Notice = t.Added
	case NoticeOrderSubmitted:
		p.Notice = t.SuccessOrder
	}
	p.NoticeClose = state.WithNotice("").URL()

	return p
}

// SetProductForm selects the submitted category and keeps the typed values.
func (p *Page) SetProductForm(f ProductForm) {
	p.ProductForm = f
	for i := range p.CategoryOptions {
		p.CategoryOptions[i].Selected = p.CategoryOptions[i].Value == f.Category
	}
}

// SetError shows msg and marks fields as invalid.
func (p *Page) SetError(msg string, fields ...string) {
	p.Error = msg
	for _, f := range fields {
		p.Invalid[f] = true
	}
}

// Render writes the page with status.
func Render(w http.ResponseWriter, status int, page *Page) {
	var buf bytes.Buffer
	if err := storefrontTmpl.Execute(&buf, page); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		slog.Error("Error rendering storefront", "error", err)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Error sending storefront", "error", err)
	}
}
