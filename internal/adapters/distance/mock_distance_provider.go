package distance

import (
	"context"
	"fmt"
	"math"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/ports"
	"storefront-delivery-service/internal/textnorm"
	"strings"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   int
	Seconds  int
}

// MockDistanceProvider answers from a fixed table of coordinate pairs.
type MockDistanceProvider struct {
	m map[string]ports.DistanceResult
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From.Key()+"|"+p.To.Key()] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination domain.Coordinates) (ports.DistanceResult, error) {
	r, ok := p.m[origin.Key()+"|"+destination.Key()]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %s -> %s", origin.Key(), destination.Key())
	}

	return r, nil
}

func (p *MockDistanceProvider) GetDistances(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates) (map[string]ports.DistanceResult, error) {
	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		r, err := p.GetDistance(ctx, origin, d)
		if err != nil {
			return nil, err
		}
		out[d.Key()] = r
	}
	return out, nil
}

const earthRadiusMeters = 6371000

// HaversineProvider estimates road distance as great-circle distance times
// a detour factor. It needs no network and backs the "mock" routing mode.
type HaversineProvider struct {
	DetourFactor float64
	SpeedKmh     float64
}

func NewHaversineProvider() *HaversineProvider {
	return &HaversineProvider{DetourFactor: 1.3, SpeedKmh: 25}
}

func (h *HaversineProvider) GetDistance(ctx context.Context, origin, destination domain.Coordinates) (ports.DistanceResult, error) {
	if !origin.Valid() || !destination.Valid() {
		return ports.DistanceResult{}, ErrInvalidCoordinates
	}

	meters := Haversine(origin, destination) * h.DetourFactor
	seconds := 0.0
	if h.SpeedKmh > 0 {
		seconds = meters / (h.SpeedKmh * 1000 / 3600)
	}

	return ports.DistanceResult{
		DistanceMeters:  int(math.Round(meters)),
		DurationSeconds: int(math.Round(seconds)),
	}, nil
}

func (h *HaversineProvider) GetDistances(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates) (map[string]ports.DistanceResult, error) {
	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		r, err := h.GetDistance(ctx, origin, d)
		if err != nil {
			return nil, fmt.Errorf("haversine %s: %w", d.Key(), err)
		}
		out[d.Key()] = r
	}
	return out, nil
}

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// MockGeocoder resolves addresses from a fixed table, ignoring case and accents.
type MockGeocoder struct {
	byAddress map[string]ports.Place
}

func NewMockGeocoder(places map[string]domain.Coordinates) *MockGeocoder {
	g := &MockGeocoder{byAddress: make(map[string]ports.Place, len(places))}
	for name, c := range places {
		g.byAddress[textnorm.FoldSpaced(name)] = ports.Place{Coords: c, Label: name}
	}
	return g
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	key := textnorm.FoldSpaced(address)
	if p, ok := g.byAddress[key]; ok {
		return p.Coords, nil
	}
	// "Calle 5, Bocagrande" resolves through its last matching component.
	parts := strings.Split(key, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		if p, ok := g.byAddress[strings.TrimSpace(parts[i])]; ok {
			return p.Coords, nil
		}
	}
	return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, ErrAddressNotFound)
}

// ReverseGeocode returns the label of the nearest known place.
func (g *MockGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinates) (string, error) {
	if !c.Valid() {
		return "", ErrInvalidCoordinates
	}

	best, bestDist := "", math.Inf(1)
	for _, p := range g.byAddress {
		if d := Haversine(c, p.Coords); d < bestDist {
			best, bestDist = p.Label, d
		}
	}
	if best == "" {
		return "", ErrAddressNotFound
	}
	return best, nil
}
