package services

import (
	"context"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/places"
	"storefront-delivery-service/internal/platform/metrics"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"storefront-delivery-service/internal/pricing"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingDestination  = errors.New("destination needs coordinates, a neighborhood or an address")
	ErrUnknownNeighborhood = errors.New("unknown neighborhood")
	ErrGeocoderUnavailable = errors.New("address lookup is not configured")
	ErrInvalidDestination  = errors.New("destination coordinates are out of range")
)

// QuoteRequest names a destination in one of three ways, checked in order:
// exact coordinates, a predefined neighborhood, or a free-form address.
type QuoteRequest struct {
	Destination  *domain.Coordinates
	Neighborhood string
	Address      string
}

type Quote struct {
	Destination domain.Coordinates
	Label       string
	Route       ports.DistanceResult
	Fee         domain.DeliveryFee
	QuotedAt    time.Time
}

type NeighborhoodQuote struct {
	Neighborhood places.Neighborhood
	Route        ports.DistanceResult
	Fee          domain.DeliveryFee
}

// Quoter prices deliveries from the store to a destination.
// Geocoder and Places are optional.
type Quoter struct {
	Store    domain.Coordinates
	Distance ports.DistanceProvider
	Geocoder ports.Geocoder
	Engine   *pricing.Engine
	Places   *places.Directory
	Now      func() time.Time
}

func (q *Quoter) now() time.Time {
	if q.Now != nil {
		return q.Now()
	}
	return time.Now()
}

// QuoteDelivery resolves the destination, routes it from the store and
// prices the trip at the current time.
func (q *Quoter) QuoteDelivery(ctx context.Context, req QuoteRequest) (_ *Quote, err error) {
	defer obs.Time(ctx, "services.QuoteDelivery")(&err)

	dest, label, err := q.resolve(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("quote delivery: %w", err)
	}

	route, err := q.Distance.GetDistance(ctx, q.Store, dest)
	if err != nil {
		return nil, fmt.Errorf("quote delivery: route to %s: %w", dest.Key(), err)
	}

	now := q.now()
	fee, err := q.Engine.ComputeDeliveryFee(route.Km(), now)
	if err != nil {
		return nil, fmt.Errorf("quote delivery: %w", err)
	}
	metrics.DeliveryFeesComputed.WithLabelValues(strconv.FormatBool(fee.SurchargeApplied)).Inc()

	return &Quote{
		Destination: dest,
		Label:       label,
		Route:       route,
		Fee:         fee,
		QuotedAt:    now,
	}, nil
}

func (q *Quoter) resolve(ctx context.Context, req QuoteRequest) (domain.Coordinates, string, error) {
	if req.Destination != nil {
		if !req.Destination.Valid() {
			return domain.Coordinates{}, "", ErrInvalidDestination
		}
		return *req.Destination, strings.TrimSpace(req.Address), nil
	}

	if name := strings.TrimSpace(req.Neighborhood); name != "" {
		if q.Places == nil {
			return domain.Coordinates{}, "", fmt.Errorf("%q: %w", name, ErrUnknownNeighborhood)
		}
		n, ok := q.Places.Find(name)
		if !ok {
			return domain.Coordinates{}, "", fmt.Errorf("%q: %w", name, ErrUnknownNeighborhood)
		}
		return n.Coords, n.Name, nil
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return domain.Coordinates{}, "", ErrMissingDestination
	}
	if q.Places != nil {
		if n, ok := q.Places.Find(address); ok {
			return n.Coords, n.Name, nil
		}
	}
	if q.Geocoder == nil {
		return domain.Coordinates{}, "", ErrGeocoderUnavailable
	}

	c, err := q.Geocoder.Geocode(ctx, address)
	if err != nil {
		return domain.Coordinates{}, "", fmt.Errorf("geocode: %w", err)
	}
	return c, address, nil
}
