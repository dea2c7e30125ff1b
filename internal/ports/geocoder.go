package ports

import (
	"context"
	"storefront-delivery-service/internal/domain"
)

// Contract for resolving free-form addresses to coordinates and back.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
	ReverseGeocode(ctx context.Context, c domain.Coordinates) (string, error)
}
