package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"strings"
)

// SQLGeocodeCache maps normalized geocoding queries to places.
type SQLGeocodeCache struct {
	DB       *sql.DB
	Provider string
}

func NewSQLGeocodeCache(db *sql.DB, provider string) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db, Provider: provider}
}

// Fetch cached places for the given keys.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	keys []string,
) (_ map[string]ports.Place, err error) {
	defer obs.Time(ctx, "geocode.cache.sql.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(keys)
	if len(uniq) == 0 {
		return map[string]ports.Place{}, nil
	}

	q := `
	SELECT query, lon, lat, label
	FROM geocode_cache
	WHERE provider = $1
		AND query = ANY($2::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, s.Provider, uniq)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.Place, len(uniq))
	for rows.Next() {
		var key, label string
		var lon, lat float64
		if err := rows.Scan(&key, &lon, &lat, &label); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[key] = ports.Place{Coords: domain.Coordinates{Lon: lon, Lat: lat}, Label: label}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}

// Store query -> place mappings in the cache.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, places map[string]ports.Place) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if len(places) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO geocode_cache (provider, query, lon, lat, label)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (provider, query) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		label = EXCLUDED.label;
	`)
	if err != nil {
		return fmt.Errorf("insert geocode cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for key, p := range places {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("insert geocode cache: empty key")
		}

		if _, err := stmt.ExecContext(ctx, s.Provider, key, p.Coords.Lon, p.Coords.Lat, p.Label); err != nil {
			return fmt.Errorf("insert geocode cache key=%q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert geocode cache commit: %w", err)
	}

	return nil
}
