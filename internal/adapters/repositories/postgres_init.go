package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema. Every statement is idempotent.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
		provider TEXT NOT NULL,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (provider, origin, destination)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		provider TEXT NOT NULL,
		query TEXT NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (provider, query)
	);
	`

	createStoreHoursQuery := `
	CREATE TABLE IF NOT EXISTS store_hours (
		weekday SMALLINT PRIMARY KEY CHECK (weekday BETWEEN 0 AND 6),
		open_minute SMALLINT NOT NULL CHECK (open_minute BETWEEN 0 AND 1439),
		close_minute SMALLINT NOT NULL CHECK (close_minute BETWEEN 0 AND 1439),
		is_open BOOLEAN NOT NULL DEFAULT false
	);
	`

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		invoice TEXT NOT NULL UNIQUE,
		delivery_type TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		customer_name TEXT NOT NULL,
		customer_phone TEXT NOT NULL DEFAULT '',
		table_number TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		reference TEXT NOT NULL DEFAULT '',
		dest_lat DOUBLE PRECISION,
		dest_lon DOUBLE PRECISION,
		subtotal BIGINT NOT NULL,
		delivery_fee BIGINT NOT NULL DEFAULT 0,
		delivery_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		surcharge_applied BOOLEAN NOT NULL DEFAULT false,
		total BIGINT NOT NULL,
		tip BIGINT NOT NULL,
		total_with_tip BIGINT NOT NULL,
		payment_method TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		maps_url TEXT NOT NULL DEFAULT ''
	);
	`

	createOrderItemsQuery := `
	CREATE TABLE IF NOT EXISTS order_items (
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		line SMALLINT NOT NULL,
		product_id TEXT NOT NULL,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price BIGINT NOT NULL CHECK (unit_price >= 0),
		instructions TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (order_id, line)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_orders_created_at
	ON orders(created_at);
	`

	statements := []string{
		createDistanceCacheQuery,
		createGeocodeCacheQuery,
		createStoreHoursQuery,
		createOrdersQuery,
		createOrderItemsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
