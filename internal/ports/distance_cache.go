package ports

import "context"

// Port: a store of previously routed distances. Keys are Coordinates.Key() values.
type DistanceCache interface {
	// Return cached results for origin -> each destination. Misses are absent from the map.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}
