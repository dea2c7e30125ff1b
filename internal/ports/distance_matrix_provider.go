package ports

import (
	"context"
	"storefront-delivery-service/internal/domain"
)

// Optional extension of DistanceProvider that supports batched lookups.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return distances from one origin to many destinations, keyed by Coordinates.Key().
	GetDistances(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates) (map[string]DistanceResult, error)
}
