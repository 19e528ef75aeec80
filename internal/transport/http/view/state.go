package view

import (
	"net/url"

	"github.com/corray333/backend-labs/storefront/internal/service/models/category"
	"github.com/corray333/backend-labs/storefront/internal/service/models/locale"
	"github.com/gorilla/schema"
)

const (
	NoticeAdded          = "added"
	NoticeOrderSubmitted = "order_submitted"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// stateQuery is the raw query string form of State.
type stateQuery struct {
	Lang     string `schema:"lang"`
	Search   string `schema:"q"`
	Category string `schema:"category"`
	Admin    bool   `schema:"admin"`
	Order    string `schema:"order"`
	Notice   string `schema:"notice"`
}

// State is the per-visitor UI state, carried in the URL query.
type State struct {
	Lang     locale.Language
	Search   string
	Category string
	Admin    bool
	// Order is the id of the product whose order modal is open.
	Order  string
	Notice string
}

// DefaultState is the state of a first visit.
func DefaultState() State {
	return State{Lang: locale.Default, Category: category.All}
}

// ParseState reads State from a query string. Unknown languages and
// categories fall back to their defaults.
func ParseState(values url.Values) State {
	var q stateQuery
	if err := decoder.Decode(&q, values); err != nil {
		// Keep whatever decoded; a malformed admin flag just reads as false.
		q.Admin = false
	}

	s := DefaultState()
	if lang, err := locale.ParseLanguage(q.Lang); err == nil {
		s.Lang = lang
	}
	if _, err := category.ParseCategory(q.Category); err == nil {
		s.Category = q.Category
	}
	s.Search = q.Search
	s.Admin = q.Admin
	s.Order = q.Order
	if q.Notice == NoticeAdded || q.Notice == NoticeOrderSubmitted {
		s.Notice = q.Notice
	}

	return s
}

// Values encodes the state, leaving out defaults.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Lang != "" && s.Lang != locale.Default {
		v.Set("lang", s.Lang.String())
	}
	if s.Search != "" {
		v.Set("q", s.Search)
	}
	if s.Category != "" && s.Category != category.All {
		v.Set("category", s.Category)
	}
	if s.Admin {
		v.Set("admin", "1")
	}
	if s.Order != "" {
		v.Set("order", s.Order)
	}
	if s.Notice != "" {
		v.Set("notice", s.Notice)
	}

	return v
}

// URL returns the storefront URL showing this state.
func (s State) URL() string {
	return withQuery("/", s.Values())
}

// ActionURL returns path with the state's query, used as a form action so a
// submit keeps language, filters and admin mode.
func (s State) ActionURL(path string) string {
	s.Notice = ""
	s.Order = ""

	return withQuery(path, s.Values())
}

func (s State) WithLang(l locale.Language) State {
	s.Lang = l

	return s
}

func (s State) WithCategory(c string) State {
	s.Category = c

	return s
}

func (s State) WithAdmin(admin bool) State {
	s.Admin = admin

	return s
}

func (s State) WithOrder(productID string) State {
	s.Order = productID

	return s
}

func (s State) WithNotice(notice string) State {
	s.Notice = notice

	return s
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}

	return path + "?" + v.Encode()
}
