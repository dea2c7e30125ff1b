package ports

import (
	"context"
	"storefront-delivery-service/internal/domain"
)

// Routed distance and travel duration between two points.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Km returns the routed distance in kilometers.
func (r DistanceResult) Km() float64 { return float64(r.DistanceMeters) / 1000 }

// Contract for retrieving road-network distance between coordinates.
type DistanceProvider interface {
	// Return routed distance and estimated duration between two points.
	GetDistance(ctx context.Context, origin, destination domain.Coordinates) (DistanceResult, error)
}
