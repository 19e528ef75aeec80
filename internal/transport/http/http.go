package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/corray333/backend-labs/storefront/internal/service/services/storefrontsvc"
	createorder "github.com/corray333/backend-labs/storefront/internal/transport/http/create_order"
	createproduct "github.com/corray333/backend-labs/storefront/internal/transport/http/create_product"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/docs"
	listproducts "github.com/corray333/backend-labs/storefront/internal/transport/http/list_products"
	"github.com/corray333/backend-labs/storefront/internal/transport/http/storefront"
	"github.com/corray333/backend-labs/storefront/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type service interface {
	Products(q product.QueryProductsModel) []product.Product
	Product(id string) (product.Product, bool)
	CreateProduct(ctx context.Context, in storefrontsvc.CreateProductInput) (product.Product, error)
	PlaceOrder(ctx context.Context, in storefrontsvc.PlaceOrderInput) (order.Order, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service

	media     http.Handler
	mediaPath string
	maxUpload int64
}

// option is a function that configures the HTTPTransport.
type option func(*HTTPTransport)

// WithMedia serves uploaded files from handler under path.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMedia(path string, handler http.Handler) option {
	return func(h *HTTPTransport) {
		h.mediaPath = path
		h.media = handler
	}
}

func NewHTTPTransport(service service, opts ...option) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	h := &HTTPTransport{
		server:    server,
		router:    router,
		service:   service,
		maxUpload: viper.GetInt64("server.http.max_upload_mb") << 20,
	}
	if h.maxUpload <= 0 {
		h.maxUpload = 10 << 20
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Handler returns the router, for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/healthz", healthz)

	h.router.Get("/", h.showStorefront)
	h.router.Post("/products", h.submitProduct)
	h.router.Post("/orders", h.submitOrder)

	h.router.Route("/api", func(r chi.Router) {
		r.Get("/openapi.yaml", docs.ServeOpenAPI)
		r.Route("/v1", func(r chi.Router) {
			r.Get("/products", h.listProducts)
			r.Post("/products", h.createProduct)
			r.Post("/orders", h.createOrder)
		})
	})
	h.router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docs.OpenAPIPath)))

	if h.media != nil {
		h.router.Handle(h.mediaPath+"/*", http.StripPrefix(h.mediaPath, h.media))
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *HTTPTransport) showStorefront(w http.ResponseWriter, r *http.Request) {
	storefront.Show(w, r, h.service)
}

func (h *HTTPTransport) submitProduct(w http.ResponseWriter, r *http.Request) {
	createproduct.Submit(w, r, h.service, h.maxUpload)
}

func (h *HTTPTransport) submitOrder(w http.ResponseWriter, r *http.Request) {
	createorder.Submit(w, r, h.service)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	listproducts.ListProducts(w, r, h.service)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	createproduct.CreateJSON(w, r, h.service)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateJSON(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(trace.NewTraceMiddleware("storefront"))
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:              "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
