package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/httpx"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"storefront-delivery-service/internal/textnorm"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// NominatimGeocoder implements Geocoder against an OpenStreetMap Nominatim
// instance. Nominatim's usage policy requires an identifying User-Agent.
type NominatimGeocoder struct {
	session   *http.Client
	retry     httpx.RetryPolicy
	baseURL   string
	userAgent string
	country   string // ISO 3166 alpha-2, lower case
	city      string // appended to searches, e.g. "Cartagena"
	language  string
	cache     ports.GeocodeCache
}

type NominatimOptions struct {
	BaseURL    string
	UserAgent  string
	Country    string
	City       string
	Language   string
	HTTPClient *http.Client
	Cache      ports.GeocodeCache
}

func NewNominatimGeocoder(opts NominatimOptions) *NominatimGeocoder {
	g := &NominatimGeocoder{
		session:   &http.Client{Timeout: 10 * time.Second},
		retry:     httpx.RetryPolicy{MaxAttempts: 2, Backoff: time.Second},
		baseURL:   "https://nominatim.openstreetmap.org",
		userAgent: "storefront-delivery-service",
		country:   strings.ToLower(opts.Country),
		city:      opts.City,
		language:  opts.Language,
		cache:     opts.Cache,
	}
	if opts.BaseURL != "" {
		g.baseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.UserAgent != "" {
		g.userAgent = opts.UserAgent
	}
	if opts.HTTPClient != nil {
		g.session = opts.HTTPClient
	}
	return g
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (p nominatimPlace) toPlace() (ports.Place, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return ports.Place{}, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return ports.Place{}, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}
	return ports.Place{Coords: domain.Coordinates{Lat: lat, Lon: lon}, Label: p.DisplayName}, nil
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	key := textnorm.FoldSpaced(address)
	if key == "" {
		return domain.Coordinates{}, fmt.Errorf("geocode: %w", ErrAddressNotFound)
	}
	if p, ok := g.cached(ctx, key); ok {
		return p.Coords, nil
	}

	text := strings.Join(strings.Fields(address), " ")
	if g.city != "" && !strings.Contains(key, textnorm.FoldSpaced(g.city)) {
		text += ", " + g.city
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", text)
	q.Set("limit", "1")
	if g.country != "" {
		q.Set("countrycodes", g.country)
	}

	var results []nominatimPlace
	if err := g.get(ctx, "/search", q, &results); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, ErrAddressNotFound)
	}

	place, err := results[0].toPlace()
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}

	g.store(ctx, key, place)
	return place.Coords, nil
}

func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, c domain.Coordinates) (_ string, err error) {
	defer obs.Time(ctx, "nominatim.ReverseGeocode")(&err)

	if !c.Valid() {
		return "", fmt.Errorf("reverse geocode: %w", ErrInvalidCoordinates)
	}

	key := ports.ReverseGeocodeKey(c)
	if p, ok := g.cached(ctx, key); ok {
		return p.Label, nil
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(c.Lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(c.Lon, 'f', 6, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")

	var result nominatimPlace
	if err := g.get(ctx, "/reverse", q, &result); err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", c.Key(), err)
	}
	if result.Error != "" || result.DisplayName == "" {
		return "", fmt.Errorf("reverse geocode %s: %w", c.Key(), ErrAddressNotFound)
	}

	g.store(ctx, key, ports.Place{Coords: c, Label: result.DisplayName})
	return result.DisplayName, nil
}

func (g *NominatimGeocoder) get(ctx context.Context, path string, q url.Values, into any) error {
	endpoint := g.baseURL + path + "?" + q.Encode()

	resp, err := httpx.DoWithRetry(ctx, g.session, g.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", g.userAgent)
		req.Header.Set("Accept", "application/json")
		if g.language != "" {
			req.Header.Set("Accept-Language", g.language)
		}
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (g *NominatimGeocoder) cached(ctx context.Context, key string) (ports.Place, bool) {
	if g.cache == nil {
		return ports.Place{}, false
	}
	hits, err := g.cache.GetMany(ctx, []string{key})
	if err != nil {
		log.WithError(err).Warn("geocode cache read failed")
		return ports.Place{}, false
	}
	p, ok := hits[key]
	return p, ok
}

func (g *NominatimGeocoder) store(ctx context.Context, key string, p ports.Place) {
	if g.cache == nil {
		return
	}
	if err := g.cache.PutMany(ctx, map[string]ports.Place{key: p}); err != nil {
		log.WithError(err).Warn("geocode cache write failed")
	}
}
