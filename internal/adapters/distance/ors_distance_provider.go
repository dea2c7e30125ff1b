package distance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/httpx"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ORSDistanceProvider implements DistanceMatrixProvider and Geocoder using
// OpenRouteService.
//
// It coordinates:
//   - Distance matrix caching keyed by coordinates
//   - Geocode caching keyed by normalized address
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	session       *http.Client
	retry         httpx.RetryPolicy
	apiKey        string
	baseURL       string
	profile       string
	country       string
	focus         *domain.Coordinates
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

type ORSOptions struct {
	BaseURL    string
	Profile    string
	Country    string              // ISO 3166 alpha-2 geocoding boundary, e.g. "CO"
	Focus      *domain.Coordinates // biases geocoding results towards this point
	HTTPClient *http.Client
	Retry      *httpx.RetryPolicy

	DistanceCache ports.DistanceCache
	GeocodeCache  ports.GeocodeCache
}

func NewORSDistanceProvider(apiKey string, opts ORSOptions) (*ORSDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSDistanceProvider{
		session:       &http.Client{Timeout: 10 * time.Second},
		retry:         httpx.DefaultRetryPolicy(),
		apiKey:        apiKey,
		baseURL:       "https://api.openrouteservice.org",
		profile:       "driving-car",
		country:       opts.Country,
		focus:         opts.Focus,
		distanceCache: opts.DistanceCache,
		geocodeCache:  opts.GeocodeCache,
	}
	if opts.BaseURL != "" {
		provider.baseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.Profile != "" {
		provider.profile = opts.Profile
	}
	if opts.HTTPClient != nil {
		provider.session = opts.HTTPClient
	}
	if opts.Retry != nil {
		provider.retry = *opts.Retry
	}

	return provider, nil
}

// Delegate to batched path to reuse caching and matrix logic.
func (o *ORSDistanceProvider) GetDistance(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (ports.DistanceResult, error) {
	results, err := o.GetDistances(ctx, origin, []domain.Coordinates{destination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"get distance %s -> %s: %w",
			origin.Key(), destination.Key(), err,
		)
	}

	result, ok := results[destination.Key()]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no distance result for %s -> %s", origin.Key(), destination.Key())
	}

	return result, nil
}

// Compute distances from a single origin to many destinations.
// Destinations equal to the origin (at key precision) are 0 m away.
func (o *ORSDistanceProvider) GetDistances(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	if !origin.Valid() {
		return nil, fmt.Errorf("origin %s: %w", origin.Key(), ErrInvalidCoordinates)
	}

	originKey := origin.Key()
	out := make(map[string]ports.DistanceResult, len(destinations))

	seen := make(map[string]struct{}, len(destinations))
	destKeys := make([]string, 0, len(destinations))
	destCoords := make(map[string]domain.Coordinates, len(destinations))
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
		destKeys = append(destKeys, k)
		destCoords[k] = d
	}

	if len(destKeys) == 0 {
		return out, nil
	}

	hits := make(map[string]ports.DistanceResult)
	// Check the distance cache before issuing external API calls.
	if o.distanceCache != nil {
		hits, err = o.distanceCache.GetMany(ctx, originKey, destKeys)
		if err != nil {
			log.WithError(err).Warn("distance cache read failed")
			hits = map[string]ports.DistanceResult{}
		}
	}

	misses := make([]string, 0, len(destKeys))
	for _, k := range destKeys {
		if r, ok := hits[k]; ok {
			out[k] = r
			continue
		}
		misses = append(misses, k)
	}

	if len(misses) == 0 {
		return out, nil
	}

	missCoords := make([]domain.Coordinates, 0, len(misses))
	for _, k := range misses {
		missCoords = append(missCoords, destCoords[k])
	}

	// Fetch a single origin->many matrix row for all cache misses.
	fetched, err := o.fetchMatrixRow(ctx, origin, misses, missCoords)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix row: %w", err)
	}

	missing := make([]string, 0)
	for _, k := range misses {
		if _, ok := fetched[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf(
			"ORS matrix service did not return the following destinations: %s",
			strings.Join(missing, ", "),
		)
	}

	if o.distanceCache != nil {
		if err := o.distanceCache.PutMany(ctx, originKey, fetched); err != nil {
			log.WithError(err).Warn("distance cache write failed")
		}
	}

	for k, v := range fetched {
		out[k] = v
	}

	return out, nil
}
