package view

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/category"
	"github.com/corray333/backend-labs/storefront/internal/service/models/locale"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products []product.Product
}

func (f *fakeCatalog) Products(q product.QueryProductsModel) []product.Product {
	return product.Filter(f.products, q)
}

func (f *fakeCatalog) Product(id string) (product.Product, bool) {
	for _, p := range f.products {
		if p.ID == id {
			return p, true
		}
	}

	return product.Product{}, false
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{products: []product.Product{
		{ID: "p2", NameEn: "Fries", NameAr: "بطاطس", Price: 8, Category: category.CategoryFries},
		{ID: "p1", NameEn: "Chicken Shawarma", NameAr: "شاورما دجاج", Price: 12.5, Category: category.CategoryShawarma},
	}}
}

func TestParseState_Defaults(t *testing.T) {
	s := ParseState(url.Values{})

	assert.Equal(t, DefaultState(), s)
	assert.Equal(t, locale.Arabic, s.Lang)
	assert.Equal(t, category.All, s.Category)
	assert.Equal(t, "/", s.URL())
}

func TestParseState_FallsBackOnUnknownValues(t *testing.T) {
	s := ParseState(url.Values{
		"lang":     {"fr"},
		"category": {"pizza"},
		"notice":   {"hacked"},
		"admin":    {"maybe"},
	})

	assert.Equal(t, locale.Arabic, s.Lang)
	assert.Equal(t, category.All, s.Category)
	assert.Empty(t, s.Notice)
	assert.False(t, s.Admin)
}

func TestParseState_RoundTrip(t *testing.T) {
	want := State{
		Lang:     locale.English,
		Search:   "chick",
		Category: "burger",
		Admin:    true,
		Order:    "p1",
		Notice:   NoticeAdded,
	}

	assert.Equal(t, want, ParseState(want.Values()))
}

func TestWithLang_KeepsOtherState(t *testing.T) {
	s := State{Lang: locale.Arabic, Search: "x", Category: "fries", Admin: true, Order: "p1"}

	toggled := ParseState(queryOf(t, s.WithLang(locale.English).URL()))

	assert.Equal(t, locale.English, toggled.Lang)
	assert.Equal(t, "x", toggled.Search)
	assert.Equal(t, "fries", toggled.Category)
	assert.True(t, toggled.Admin)
	assert.Equal(t, "p1", toggled.Order)
}

func TestActionURL_DropsModalAndNotice(t *testing.T) {
	s := State{Lang: locale.English, Category: "fries", Admin: true, Order: "p1", Notice: NoticeAdded}

	u, err := url.Parse(s.ActionURL("/orders"))
	require.NoError(t, err)

	assert.Equal(t, "/orders", u.Path)
	assert.Equal(t, "en", u.Query().Get("lang"))
	assert.Equal(t, "1", u.Query().Get("admin"))
	assert.Empty(t, u.Query().Get("order"))
	assert.Empty(t, u.Query().Get("notice"))
}

func queryOf(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)

	return u.Query()
}

func TestNewPage_FiltersAndLocalizes(t *testing.T) {
	state := DefaultState().WithLang(locale.English).WithCategory("shawarma")
	page := NewPage(newCatalog(), state, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, page.Products, 1)
	assert.Equal(t, "Chicken Shawarma", page.Products[0].Name)
	assert.Equal(t, "﷼12.50", page.Products[0].Price)
	assert.Equal(t, "Shawarma", page.Products[0].Category)
	assert.Equal(t, "ltr", page.Dir)
	assert.Equal(t, 2026, page.Year)
	assert.Len(t, page.Categories, len(category.List())+1)
	assert.True(t, page.Categories[1].Active)
	assert.Nil(t, page.Modal)
}

func TestNewPage_ArabicIsRTL(t *testing.T) {
	page := NewPage(newCatalog(), DefaultState(), time.Now())

	assert.Equal(t, "rtl", page.Dir)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "بطاطس", page.Products[0].Name)
	assert.Equal(t, "بطاطس", page.Products[0].Category)
}

func TestNewPage_OrderModal(t *testing.T) {
	page := NewPage(newCatalog(), DefaultState().WithLang(locale.English).WithOrder("p1"), time.Now())

	require.NotNil(t, page.Modal)
	assert.Equal(t, "p1", page.Modal.ProductID)
	assert.Equal(t, "Chicken Shawarma", page.Modal.Name)
	assert.Equal(t, "/?lang=en", page.Modal.CloseURL)
	assert.Equal(t, "/orders?lang=en", page.Modal.Action)
}

func TestNewPage_UnknownOrderProductHasNoModal(t *testing.T) {
	page := NewPage(newCatalog(), DefaultState().WithOrder("gone"), time.Now())

	assert.Nil(t, page.Modal)
}

func TestNewPage_Notice(t *testing.T) {
	page := NewPage(newCatalog(), DefaultState().WithLang(locale.English).WithNotice(NoticeOrderSubmitted), time.Now())

	assert.Equal(t, locale.For(locale.English).SuccessOrder, page.Notice)
	assert.Equal(t, "/?lang=en", page.NoticeClose)
}

func TestRender_EmptyCatalog(t *testing.T) {
	rec := httptest.NewRecorder()
	page := NewPage(&fakeCatalog{}, DefaultState().WithLang(locale.English), time.Now())

	Render(rec, 200, page)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "No products yet.")
	assert.Contains(t, rec.Body.String(), `dir="ltr"`)
}

func TestRender_AdminFormAndError(t *testing.T) {
	rec := httptest.NewRecorder()
	page := NewPage(newCatalog(), DefaultState().WithAdmin(true), time.Now())
	page.SetProductForm(ProductForm{NameEn: "Cola", Category: "drinks"})
	page.SetError(page.T.InvalidInput, "price")

	Render(rec, 400, page)

	body := rec.Body.String()
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, body, `enctype="multipart/form-data"`)
	assert.Contains(t, body, `value="Cola"`)
	assert.Contains(t, body, `<option value="drinks" selected>`)
	assert.Contains(t, body, page.T.InvalidInput)
	assert.Contains(t, body, `dir="rtl"`)
}

func TestRender_NoticeCloseFollowsLanguage(t *testing.T) {
	rec := httptest.NewRecorder()
	Render(rec, 200, NewPage(newCatalog(), DefaultState().WithNotice(NoticeAdded), time.Now()))

	body := rec.Body.String()
	assert.Contains(t, body, locale.For(locale.Arabic).Added)
	assert.Contains(t, body, ">حسنًا</a>")
	assert.NotContains(t, body, ">OK</a>")
}
