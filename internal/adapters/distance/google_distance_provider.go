package distance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"storefront-delivery-service/internal/textnorm"
	"strconv"

	log "github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"
)

// Google's distance matrix accepts at most 25 destinations per request.
const googleMaxDestinations = 25

// GoogleDistanceProvider implements DistanceMatrixProvider and Geocoder on
// the Google Maps Platform web services.
type GoogleDistanceProvider struct {
	client        *maps.Client
	region        string
	language      string
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

type GoogleOptions struct {
	BaseURL  string
	Region   string // ccTLD bias for geocoding, e.g. "co"
	Language string

	DistanceCache ports.DistanceCache
	GeocodeCache  ports.GeocodeCache
}

func NewGoogleDistanceProvider(apiKey string, opts GoogleOptions) (*GoogleDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(opts.BaseURL))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("google maps client: %w", err)
	}

	return &GoogleDistanceProvider{
		client:        client,
		region:        opts.Region,
		language:      opts.Language,
		distanceCache: opts.DistanceCache,
		geocodeCache:  opts.GeocodeCache,
	}, nil
}

func latLng(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lon, 'f', 6, 64)
}

func (g *GoogleDistanceProvider) GetDistance(ctx context.Context, origin, destination domain.Coordinates) (ports.DistanceResult, error) {
	results, err := g.GetDistances(ctx, origin, []domain.Coordinates{destination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get distance %s -> %s: %w", origin.Key(), destination.Key(), err)
	}

	r, ok := results[destination.Key()]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no distance result for %s -> %s", origin.Key(), destination.Key())
	}
	return r, nil
}

func (g *GoogleDistanceProvider) GetDistances(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "google.GetDistances")(&err)

	if !origin.Valid() {
		return nil, fmt.Errorf("origin %s: %w", origin.Key(), ErrInvalidCoordinates)
	}

	originKey := origin.Key()
	out := make(map[string]ports.DistanceResult, len(destinations))

	var misses []domain.Coordinates
	seen := make(map[string]struct{}, len(destinations))
	keys := make([]string, 0, len(destinations))
	for _, d := range destinations {
		if !d.Valid() {
			return nil, fmt.Errorf("destination %s: %w", d.Key(), ErrInvalidCoordinates)
		}
		k := d.Key()
		if k == originKey {
			out[k] = ports.DistanceResult{}
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
		misses = append(misses, d)
	}

	if g.distanceCache != nil && len(keys) > 0 {
		hits, err := g.distanceCache.GetMany(ctx, originKey, keys)
		if err != nil {
			log.WithError(err).Warn("distance cache read failed")
		}
		remaining := misses[:0]
		for _, d := range misses {
			if r, ok := hits[d.Key()]; ok {
				out[d.Key()] = r
				continue
			}
			remaining = append(remaining, d)
		}
		misses = remaining
	}

	fetched := make(map[string]ports.DistanceResult, len(misses))
	for start := 0; start < len(misses); start += googleMaxDestinations {
		end := min(start+googleMaxDestinations, len(misses))
		batch := misses[start:end]

		if err := g.fetchRow(ctx, origin, batch, fetched); err != nil {
			return nil, err
		}
	}

	if g.distanceCache != nil && len(fetched) > 0 {
		if err := g.distanceCache.PutMany(ctx, originKey, fetched); err != nil {
			log.WithError(err).Warn("distance cache write failed")
		}
	}

	for k, v := range fetched {
		out[k] = v
	}
	return out, nil
}

func (g *GoogleDistanceProvider) fetchRow(
	ctx context.Context,
	origin domain.Coordinates,
	batch []domain.Coordinates,
	into map[string]ports.DistanceResult,
) error {
	dests := make([]string, len(batch))
	for i, d := range batch {
		dests[i] = latLng(d)
	}

	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{latLng(origin)},
		Destinations: dests,
		Mode:         maps.TravelModeDriving,
		Language:     g.language,
	})
	if err != nil {
		return fmt.Errorf("distance matrix request failed: %w", err)
	}

	if len(resp.Rows) != 1 || len(resp.Rows[0].Elements) != len(batch) {
		return fmt.Errorf("unexpected distance matrix shape for %d destinations", len(batch))
	}

	for i, el := range resp.Rows[0].Elements {
		key := batch[i].Key()
		if el == nil || el.Status != "OK" {
			return fmt.Errorf("destination %s: %w", key, ErrNoRoute)
		}
		into[key] = ports.DistanceResult{
			DistanceMeters:  el.Distance.Meters,
			DurationSeconds: int(math.Round(el.Duration.Seconds())),
		}
	}
	return nil
}

func (g *GoogleDistanceProvider) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "google.Geocode")(&err)

	key := textnorm.FoldSpaced(address)
	if key == "" {
		return domain.Coordinates{}, fmt.Errorf("geocode: %w", ErrAddressNotFound)
	}

	if p, ok := g.cachedPlace(ctx, key); ok {
		return p.Coords, nil
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  address,
		Region:   g.region,
		Language: g.language,
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, ErrAddressNotFound)
	}

	loc := results[0].Geometry.Location
	place := ports.Place{Coords: domain.Coordinates{Lat: loc.Lat, Lon: loc.Lng}, Label: results[0].FormattedAddress}
	g.storePlace(ctx, key, place)

	return place.Coords, nil
}

func (g *GoogleDistanceProvider) ReverseGeocode(ctx context.Context, c domain.Coordinates) (_ string, err error) {
	defer obs.Time(ctx, "google.ReverseGeocode")(&err)

	if !c.Valid() {
		return "", fmt.Errorf("reverse geocode: %w", ErrInvalidCoordinates)
	}

	key := ports.ReverseGeocodeKey(c)
	if p, ok := g.cachedPlace(ctx, key); ok {
		return p.Label, nil
	}

	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: c.Lat, Lng: c.Lon},
		Language: g.language,
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", c.Key(), err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("reverse geocode %s: %w", c.Key(), ErrAddressNotFound)
	}

	g.storePlace(ctx, key, ports.Place{Coords: c, Label: results[0].FormattedAddress})
	return results[0].FormattedAddress, nil
}

func (g *GoogleDistanceProvider) cachedPlace(ctx context.Context, key string) (ports.Place, bool) {
	if g.geocodeCache == nil {
		return ports.Place{}, false
	}
	hits, err := g.geocodeCache.GetMany(ctx, []string{key})
	if err != nil {
		log.WithError(err).Warn("geocode cache read failed")
		return ports.Place{}, false
	}
	p, ok := hits[key]
	return p, ok
}

func (g *GoogleDistanceProvider) storePlace(ctx context.Context, key string, p ports.Place) {
	if g.geocodeCache == nil {
		return
	}
	if err := g.geocodeCache.PutMany(ctx, map[string]ports.Place{key: p}); err != nil {
		log.WithError(err).Warn("geocode cache write failed")
	}
}
