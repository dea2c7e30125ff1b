package cache

import (
	"context"
	"fmt"
	"storefront-delivery-service/internal/ports"

	log "github.com/sirupsen/logrus"
)

// LayeredDistanceCache reads a fast cache first and falls back to a durable
// one, copying durable hits into the fast layer. Writes go to both.
type LayeredDistanceCache struct {
	Hot  ports.DistanceCache
	Cold ports.DistanceCache
}

func (l *LayeredDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]ports.DistanceResult, error) {
	out, err := l.Hot.GetMany(ctx, origin, destinations)
	if err != nil {
		log.WithError(err).Warn("hot distance cache read failed")
		out = map[string]ports.DistanceResult{}
	}

	misses := make([]string, 0, len(destinations))
	for _, d := range destinations {
		if _, ok := out[d]; !ok {
			misses = append(misses, d)
		}
	}
	if len(misses) == 0 {
		return out, nil
	}

	cold, err := l.Cold.GetMany(ctx, origin, misses)
	if err != nil {
		return nil, fmt.Errorf("layered distance cache: %w", err)
	}

	if len(cold) > 0 {
		if err := l.Hot.PutMany(ctx, origin, cold); err != nil {
			log.WithError(err).Warn("hot distance cache backfill failed")
		}
	}

	for k, v := range cold {
		out[k] = v
	}
	return out, nil
}

func (l *LayeredDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if err := l.Cold.PutMany(ctx, origin, results); err != nil {
		return fmt.Errorf("layered distance cache: %w", err)
	}
	if err := l.Hot.PutMany(ctx, origin, results); err != nil {
		log.WithError(err).Warn("hot distance cache write failed")
	}
	return nil
}
