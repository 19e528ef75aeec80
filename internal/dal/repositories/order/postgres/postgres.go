package postgresrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/jmoiron/sqlx"
)

// OrderDal represents order data access layer model
type OrderDal struct {
	Id            string          `db:"id"`
	ProductId     sql.NullString  `db:"product_id"`
	ProductNameEn sql.NullString  `db:"product_name_en"`
	ProductNameAr sql.NullString  `db:"product_name_ar"`
	Price         sql.NullFloat64 `db:"price"`
	Qty           int             `db:"qty"`
	CustomerName  string          `db:"customer_name"`
	Phone         string          `db:"phone"`
	Note          string          `db:"note"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
}

// ToModel converts OrderDal to service layer Order model
func (o *OrderDal) ToModel() *order.Order {
	res := &order.Order{
		ID:           o.Id,
		Qty:          o.Qty,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Note:         o.Note,
		Status:       order.Status(o.Status),
		CreatedAt:    o.CreatedAt,
	}
	if o.ProductId.Valid {
		res.ProductID = &o.ProductId.String
	}
	if o.ProductNameEn.Valid {
		res.ProductNameEn = &o.ProductNameEn.String
	}
	if o.ProductNameAr.Valid {
		res.ProductNameAr = &o.ProductNameAr.String
	}
	if o.Price.Valid {
		res.Price = &o.Price.Float64
	}

	return res
}

type PostgresOrderRepository struct {
	conn sqlx.ExtContext
}

func NewPostgresOrderRepository(conn sqlx.ExtContext) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// Insert stores an order. The database assigns id and created_at; nil
// snapshot fields are written as NULL.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	query, args, err := sq.Insert("orders").
		Columns(
			"product_id",
			"product_name_en",
			"product_name_ar",
			"price",
			"qty",
			"customer_name",
			"phone",
			"note",
			"status",
		).
		Values(
			o.ProductID,
			o.ProductNameEn,
			o.ProductNameAr,
			o.Price,
			o.Qty,
			o.CustomerName,
			o.Phone,
			o.Note,
			o.Status.String(),
		).
		Suffix(`RETURNING
			id::text AS id,
			product_id::text AS product_id,
			product_name_en,
			product_name_ar,
			price,
			qty,
			customer_name,
			phone,
			note,
			status,
			created_at`).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	var dal OrderDal
	if err := sqlx.GetContext(ctx, r.conn, &dal, query, args...); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return *dal.ToModel(), nil
}
