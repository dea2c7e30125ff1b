package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
)

var ErrDuplicateInvoice = errors.New("order with this invoice already exists")

// Postgres-backed implementation of the OrderSink port.
type PostgresOrderRepository struct{ DB *sql.DB }

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

// Persist the order and its items in one transaction.
func (r *PostgresOrderRepository) SaveOrder(ctx context.Context, o *domain.Order) (err error) {
	defer obs.Time(ctx, "postgres.SaveOrder")(&err)

	if r.DB == nil {
		return errors.New("postgres order repository: DB is nil")
	}
	if o == nil || o.ID == "" {
		return errors.New("save order: order has no id")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save order: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var lat, lon sql.NullFloat64
	if o.Destination != nil {
		lat = sql.NullFloat64{Float64: o.Destination.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: o.Destination.Lon, Valid: true}
	}

	var km float64
	var surcharged bool
	if o.Delivery != nil {
		km = o.Delivery.DistanceKm
		surcharged = o.Delivery.SurchargeApplied
	}

	res, err := tx.ExecContext(ctx, `
	INSERT INTO orders (
		id, invoice, delivery_type, created_at,
		customer_name, customer_phone, table_number,
		address, reference, dest_lat, dest_lon,
		subtotal, delivery_fee, delivery_km, surcharge_applied,
		total, tip, total_with_tip,
		payment_method, notes, maps_url
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	ON CONFLICT (invoice) DO NOTHING;
	`,
		o.ID, o.Invoice, string(o.DeliveryType), o.CreatedAt,
		o.Customer.Name, o.Customer.Phone, o.Customer.Table,
		o.Address, o.Reference, lat, lon,
		o.Subtotal, o.DeliveryAmount(), km, surcharged,
		o.Total, o.Tip, o.TotalWithTip,
		o.PaymentMethod, o.Notes, o.MapsURL,
	)
	if err != nil {
		return fmt.Errorf("save order: insert order %s: %w", o.Invoice, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("save order: invoice %s: %w", o.Invoice, ErrDuplicateInvoice)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO order_items (order_id, line, product_id, name, quantity, unit_price, instructions)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`)
	if err != nil {
		return fmt.Errorf("save order: prepare items: %w", err)
	}
	defer stmt.Close()

	for i, it := range o.Items {
		if _, err := stmt.ExecContext(ctx, o.ID, i+1, it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.Instructions); err != nil {
			return fmt.Errorf("save order: insert item #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save order: commit tx: %w", err)
	}

	return nil
}
