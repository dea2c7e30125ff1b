package ports

import (
	"context"
	"storefront-delivery-service/internal/domain"
)

// Place is a resolved location with its display label.
type Place struct {
	Coords domain.Coordinates
	Label  string
}

// Port: a store of geocoding answers. Forward lookups are keyed by the folded
// address, reverse lookups by ReverseGeocodeKey.
type GeocodeCache interface {
	GetMany(ctx context.Context, keys []string) (map[string]Place, error)
	PutMany(ctx context.Context, places map[string]Place) error
}

// ReverseGeocodeKey is the cache key for a reverse lookup of c.
func ReverseGeocodeKey(c domain.Coordinates) string { return "@" + c.Key() }
