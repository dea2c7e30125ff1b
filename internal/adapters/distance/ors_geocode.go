package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"storefront-delivery-service/internal/textnorm"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves a free-form address via /geocode/search.
func (o *ORSDistanceProvider) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	key := textnorm.FoldSpaced(address)
	if key == "" {
		return domain.Coordinates{}, fmt.Errorf("geocode: %w", ErrAddressNotFound)
	}

	if p, ok := o.cachedPlace(ctx, key); ok {
		return p.Coords, nil
	}

	q := url.Values{}
	q.Set("text", strings.Join(strings.Fields(address), " "))
	q.Set("size", "1")
	if o.country != "" {
		q.Set("boundary.country", o.country)
	}
	if o.focus != nil {
		q.Set("focus.point.lon", strconv.FormatFloat(o.focus.Lon, 'f', 6, 64))
		q.Set("focus.point.lat", strconv.FormatFloat(o.focus.Lat, 'f', 6, 64))
	}

	place, err := o.geocodeRequest(ctx, "/geocode/search", q)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}

	o.storePlace(ctx, key, place)
	return place.Coords, nil
}

// ReverseGeocode returns a display label for c via /geocode/reverse.
func (o *ORSDistanceProvider) ReverseGeocode(ctx context.Context, c domain.Coordinates) (_ string, err error) {
	defer obs.Time(ctx, "ors.ReverseGeocode")(&err)

	if !c.Valid() {
		return "", fmt.Errorf("reverse geocode: %w", ErrInvalidCoordinates)
	}

	key := ports.ReverseGeocodeKey(c)
	if p, ok := o.cachedPlace(ctx, key); ok {
		return p.Label, nil
	}

	q := url.Values{}
	q.Set("point.lon", strconv.FormatFloat(c.Lon, 'f', 6, 64))
	q.Set("point.lat", strconv.FormatFloat(c.Lat, 'f', 6, 64))
	q.Set("size", "1")

	place, err := o.geocodeRequest(ctx, "/geocode/reverse", q)
	if err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", c.Key(), err)
	}

	o.storePlace(ctx, key, place)
	return place.Label, nil
}

func (o *ORSDistanceProvider) geocodeRequest(ctx context.Context, path string, q url.Values) (ports.Place, error) {
	endpoint := o.baseURL + path + "?" + q.Encode()

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return ports.Place{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.Place{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return ports.Place{}, ErrAddressNotFound
	}

	f := decoded.Features[0]
	if len(f.Geometry.Coordinates) != 2 {
		return ports.Place{}, fmt.Errorf("invalid coordinate format in geocode response")
	}

	return ports.Place{
		Coords: domain.Coordinates{Lon: f.Geometry.Coordinates[0], Lat: f.Geometry.Coordinates[1]},
		Label:  f.Properties.Label,
	}, nil
}

func (o *ORSDistanceProvider) cachedPlace(ctx context.Context, key string) (ports.Place, bool) {
	if o.geocodeCache == nil {
		return ports.Place{}, false
	}
	hits, err := o.geocodeCache.GetMany(ctx, []string{key})
	if err != nil {
		log.WithError(err).Warn("geocode cache read failed")
		return ports.Place{}, false
	}
	p, ok := hits[key]
	return p, ok
}

func (o *ORSDistanceProvider) storePlace(ctx context.Context, key string, p ports.Place) {
	if o.geocodeCache == nil {
		return
	}
	if err := o.geocodeCache.PutMany(ctx, map[string]ports.Place{key: p}); err != nil {
		log.WithError(err).Warn("geocode cache write failed")
	}
}
