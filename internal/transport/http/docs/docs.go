package docs

import (
	_ "embed"
	"log/slog"
	"net/http"
)

//go:embed openapi.yaml
var openAPI []byte

// OpenAPIPath is where the OpenAPI document is served.
const OpenAPIPath = "/api/openapi.yaml"

// ServeOpenAPI writes the embedded OpenAPI document.
func ServeOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	if _, err := w.Write(openAPI); err != nil {
		slog.Error("Error sending OpenAPI document", "error", err)
	}
}
