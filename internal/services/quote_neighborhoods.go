package services

import (
	"context"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/places"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	neighborhoodBatchSize   = 50
	neighborhoodConcurrency = 4
)

// QuoteNeighborhoods prices a trip to each neighborhood, in input order.
// A matrix provider is queried in batches; other providers one destination at a time.
func (q *Quoter) QuoteNeighborhoods(ctx context.Context, list []places.Neighborhood) (_ []NeighborhoodQuote, err error) {
	defer obs.Time(ctx, "services.QuoteNeighborhoods")(&err)

	if len(list) == 0 {
		return []NeighborhoodQuote{}, nil
	}

	routes := make(map[string]ports.DistanceResult, len(list))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(neighborhoodConcurrency)

	mp, hasMatrix := q.Distance.(ports.DistanceMatrixProvider)

	for start := 0; start < len(list); start += neighborhoodBatchSize {
		batch := list[start:min(start+neighborhoodBatchSize, len(list))]

		g.Go(func() error {
			coords := make([]domain.Coordinates, 0, len(batch))
			for _, n := range batch {
				coords = append(coords, n.Coords)
			}

			var res map[string]ports.DistanceResult
			if hasMatrix {
				r, err := mp.GetDistances(gctx, q.Store, coords)
				if err != nil {
					return fmt.Errorf("quote neighborhoods: get distances: %w", err)
				}
				res = r
			} else {
				res = make(map[string]ports.DistanceResult, len(coords))
				for _, c := range coords {
					r, err := q.Distance.GetDistance(gctx, q.Store, c)
					if err != nil {
						return fmt.Errorf("quote neighborhoods: get distance to %s: %w", c.Key(), err)
					}
					res[c.Key()] = r
				}
			}

			mu.Lock()
			for k, v := range res {
				routes[k] = v
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := q.now()
	out := make([]NeighborhoodQuote, 0, len(list))
	for _, n := range list {
		r, ok := routes[n.Coords.Key()]
		if !ok {
			return nil, fmt.Errorf("quote neighborhoods: missing distance for %q", n.Name)
		}
		fee, err := q.Engine.ComputeDeliveryFee(r.Km(), now)
		if err != nil {
			return nil, fmt.Errorf("quote neighborhoods: %q: %w", n.Name, err)
		}
		out = append(out, NeighborhoodQuote{Neighborhood: n, Route: r, Fee: fee})
	}

	return out, nil
}
