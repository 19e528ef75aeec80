package storefrontsvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/changefeed"
	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type blobStore interface {
	Upload(ctx context.Context, name string, r io.Reader) error
	DownloadURL(ctx context.Context, name string) (string, error)
}

type changePublisher interface {
	ProductsChanged(ctx context.Context, productID string) error
}

type subscriber interface {
	Start(ctx context.Context, onChange func([]product.Product)) (*changefeed.Subscription, error)
}

// StorefrontService backs the storefront view: it owns the catalog snapshot
// and performs the create-product and place-order writes.
type StorefrontService struct {
	productRepo iproductrepo.IProductRepository
	orderRepo   iorderrepo.IOrderRepository
	blobs       blobStore
	publisher   changePublisher
	subscriber  subscriber
	now         func() time.Time

	catalog Catalog

	subMu sync.Mutex
	sub   *changefeed.Subscription
}

// option is a function that configures the StorefrontService.
type option func(*StorefrontService)

// MustNewStorefrontService creates a new StorefrontService.
func MustNewStorefrontService(opts ...option) *StorefrontService {
	s := &StorefrontService{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.productRepo == nil || s.orderRepo == nil {
		panic("storefrontsvc: product and order repositories are required")
	}

	return s
}

// WithProductRepository sets the product repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *StorefrontService) {
		s.productRepo = repo
	}
}

// WithOrderRepository sets the order repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *StorefrontService) {
		s.orderRepo = repo
	}
}

// WithBlobStore sets the store used for product images.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithBlobStore(blobs blobStore) option {
	return func(s *StorefrontService) {
		s.blobs = blobs
	}
}

// WithChangePublisher sets the publisher notified after product writes.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithChangePublisher(publisher changePublisher) option {
	return func(s *StorefrontService) {
		s.publisher = publisher
	}
}

// WithSubscriber sets the realtime product subscription.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSubscriber(sub subscriber) option {
	return func(s *StorefrontService) {
		s.subscriber = sub
	}
}

// WithClock overrides time.Now.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *StorefrontService) {
		s.now = now
	}
}

// StartSync subscribes the catalog to product changes. Without a subscriber
// the catalog is loaded once from the repository.
func (s *StorefrontService) StartSync(ctx context.Context) error {
	if s.subscriber == nil {
		products, err := s.productRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		s.catalog.Replace(products)

		return nil
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.sub != nil {
		return errors.New("storefrontsvc: sync already started")
	}

	sub, err := s.subscriber.Start(ctx, s.catalog.Replace)
	if err != nil {
		return err
	}
	s.sub = sub

	slog.Info("Catalog sync started", "products", len(s.catalog.Products()))

	return nil
}

// StopSync releases the subscription. Safe to call more than once.
func (s *StorefrontService) StopSync() {
	s.subMu.Lock()
	sub := s.sub
	s.subMu.Unlock()

	if sub != nil {
		sub.Stop()
	}
}

// SyncDone is closed when the catalog subscription has ended, either through
// StopSync or because the change feed could not be re-established. It is nil
// before StartSync and without a subscriber.
func (s *StorefrontService) SyncDone() <-chan struct{} {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.sub == nil {
		return nil
	}

	return s.sub.Done()
}

// refreshCatalog reloads the whole catalog from the repository. A failure
// keeps the current snapshot.
func (s *StorefrontService) refreshCatalog(ctx context.Context) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		slog.Error("Failed to refresh catalog", "error", err)

		return
	}
	s.catalog.Replace(products)
}

// Products returns the catalog filtered by q, newest first.
func (s *StorefrontService) Products(q product.QueryProductsModel) []product.Product {
	return product.Filter(s.catalog.Products(), q)
}

// CatalogSize returns the number of products in the unfiltered catalog.
func (s *StorefrontService) CatalogSize() int {
	return len(s.catalog.Products())
}

// Product looks a product up in the catalog.
func (s *StorefrontService) Product(id string) (product.Product, bool) {
	return s.catalog.Find(id)
}

// CreateProduct uploads the optional image and stores a new product.
// An upload failure aborts the whole operation.
func (s *StorefrontService) CreateProduct(
	ctx context.Context,
	in CreateProductInput,
) (product.Product, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "Service.CreateProduct")
	defer span.End()

	in.NameEn = strings.TrimSpace(in.NameEn)
	in.NameAr = strings.TrimSpace(in.NameAr)
	if err := validateInput(in); err != nil {
		return product.Product{}, err
	}

	imageURL := ""
	if in.Image != nil && in.Image.Size > 0 {
		url, err := s.uploadImage(ctx, in.Image)
		if err != nil {
			slog.Error("Failed to upload product image", "filename", in.Image.Filename, "error", err)

			return product.Product{}, fmt.Errorf("%w: %v", ErrUpload, err)
		}
		imageURL = url
	}

	created, err := s.productRepo.Insert(ctx, product.Product{
		NameEn:   in.NameEn,
		NameAr:   in.NameAr,
		Price:    in.Price,
		Category: in.Category,
		ImageURL: imageURL,
	})
	if err != nil {
		return product.Product{}, err
	}
	span.SetAttributes(attribute.String("product.id", created.ID))

	// The local catalog must show the product on the redirect that follows,
	// whether or not the change event makes it back through the broker.
	s.refreshCatalog(ctx)

	if s.publisher != nil {
		if err := s.publisher.ProductsChanged(ctx, created.ID); err != nil {
			slog.Error("Failed to announce product change", "product_id", created.ID, "error", err)
		}
	}

	slog.Info("Product created", "product_id", created.ID, "category", created.Category)

	return created, nil
}

func (s *StorefrontService) uploadImage(ctx context.Context, img *Upload) (string, error) {
	if s.blobs == nil {
		return "", errors.New("no blob store configured")
	}

	name := fmt.Sprintf("products/%d_%s", s.now().UnixMilli(), baseName(img.Filename))
	if err := s.blobs.Upload(ctx, name, img.Body); err != nil {
		return "", err
	}

	return s.blobs.DownloadURL(ctx, name)
}

// baseName strips any client-side directories, including Windows-style ones.
func baseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		return "image"
	}

	return name
}

// PlaceOrder stores an order for the product with in.ProductID, copying the
// product's names and price. When the product is no longer in the catalog the
// snapshot fields are left nil.
func (s *StorefrontService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "Service.PlaceOrder")
	defer span.End()

	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateInput(in); err != nil {
		return order.Order{}, err
	}

	o := order.Order{
		Qty:          in.Qty,
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
		Note:         in.Note,
		Status:       order.StatusNew,
	}
	if o.Qty < 1 {
		o.Qty = 1
	}

	if p, ok := s.catalog.Find(in.ProductID); ok {
		o.ProductID = &p.ID
		o.ProductNameEn = &p.NameEn
		o.ProductNameAr = &p.NameAr
		o.Price = &p.Price
	} else {
		slog.Warn("Order placed for a product missing from the catalog", "product_id", in.ProductID)
	}

	created, err := s.orderRepo.Insert(ctx, o)
	if err != nil {
		return order.Order{}, err
	}
	span.SetAttributes(attribute.String("order.id", created.ID))

	slog.Info("Order placed", "order_id", created.ID, "qty", created.Qty)

	return created, nil
}
