package postgresrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/storefront/internal/service/models/category"
	"github.com/corray333/backend-labs/storefront/internal/service/models/product"
	"github.com/jmoiron/sqlx"
)

var productColumns = []string{
	"id::text AS id",
	"name_en",
	"name_ar",
	"price",
	"category",
	"image_url",
	"created_at",
}

// ProductDal represents product data access layer model
type ProductDal struct {
	Id        string    `db:"id"`
	NameEn    string    `db:"name_en"`
	NameAr    string    `db:"name_ar"`
	Price     float64   `db:"price"`
	Category  string    `db:"category"`
	ImageUrl  string    `db:"image_url"`
	CreatedAt time.Time `db:"created_at"`
}

// ToModel converts ProductDal to service layer Product model
func (p *ProductDal) ToModel() (*product.Product, error) {
	cat, err := category.ParseCategory(p.Category)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", p.Id, err)
	}

	return &product.Product{
		ID:        p.Id,
		NameEn:    p.NameEn,
		NameAr:    p.NameAr,
		Price:     p.Price,
		Category:  cat,
		ImageURL:  p.ImageUrl,
		CreatedAt: p.CreatedAt,
	}, nil
}

type PostgresProductRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresProductRepository(conn sqlx.ExtContext) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
	}
}

// Insert stores a product. The database assigns id and created_at.
func (r *PostgresProductRepository) Insert(ctx context.Context, p product.Product) (product.Product, error) {
	query, args, err := sq.Insert("products").
		Columns("name_en", "name_ar", "price", "category", "image_url").
		Values(p.NameEn, p.NameAr, p.Price, p.Category, p.ImageURL).
		Suffix("RETURNING " + strings.Join(productColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	var dal ProductDal
	if err := sqlx.GetContext(ctx, r.conn, &dal, query, args...); err != nil {
		return product.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to convert product dal to model: %w", err)
	}

	return *model, nil
}

// List returns the whole catalog ordered by created_at, newest first.
func (r *PostgresProductRepository) List(ctx context.Context) ([]product.Product, error) {
	query, args, err := sq.Select(productColumns...).
		From("products").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dals []ProductDal
	if err := sqlx.SelectContext(ctx, r.conn, &dals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	result := make([]product.Product, 0, len(dals))
	for i := range dals {
		model, err := dals[i].ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert product dal to model: %w", err)
		}
		result = append(result, *model)
	}

	return result, nil
}
