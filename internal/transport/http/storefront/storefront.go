package storefront

import (
	"net/http"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/transport/http/view"
)

// Show renders the storefront for the view state in the query string.
func Show(w http.ResponseWriter, r *http.Request, catalog view.Catalog) {
	state := view.ParseState(r.URL.Query())
	view.Render(w, http.StatusOK, view.NewPage(catalog, state, time.Now()))
}
