package distance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"storefront-delivery-service/internal/domain"
	"strings"
	"sync/atomic"
	"testing"
)

const googleMatrixOK = `{
  "destination_addresses": ["Bocagrande"],
  "origin_addresses": ["Store"],
  "rows": [{"elements": [{
    "distance": {"text": "12.5 km", "value": 12535},
    "duration": {"text": "18 mins", "value": 1083},
    "status": "OK"
  }]}],
  "status": "OK"
}`

func newGoogleServer(t *testing.T, calls *atomic.Int32, matrix string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/maps/api/distancematrix/json", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("key") != "AIza-test" {
			http.Error(w, "missing key", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(matrix))
	})
	mux.HandleFunc("/maps/api/geocode/json", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("latlng") != "" {
			_, _ = w.Write([]byte(`{"results":[{"formatted_address":"Cra. 1, Bocagrande, Cartagena","geometry":{"location":{"lat":10.405891,"lng":-75.552825}}}],"status":"OK"}`))
			return
		}
		if strings.Contains(r.URL.Query().Get("address"), "nowhere") {
			_, _ = w.Write([]byte(`{"results":[],"status":"ZERO_RESULTS"}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"formatted_address":"Bocagrande, Cartagena","geometry":{"location":{"lat":10.405891,"lng":-75.552825}}}],"status":"OK"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGoogle(t *testing.T, srv *httptest.Server) *GoogleDistanceProvider {
	t.Helper()
	g, err := NewGoogleDistanceProvider("AIza-test", GoogleOptions{
		BaseURL:       srv.URL,
		Region:        "co",
		Language:      "es",
		DistanceCache: newMemDistanceCache(),
		GeocodeCache:  newMemGeocodeCache(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return g
}

func TestGoogleGetDistance(t *testing.T) {
	var calls atomic.Int32
	g := newTestGoogle(t, newGoogleServer(t, &calls, googleMatrixOK))
	ctx := context.Background()

	r, err := g.GetDistance(ctx, store, bocagrande)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.DistanceMeters != 12535 || r.DurationSeconds != 1083 {
		t.Fatalf("unexpected result: %+v", r)
	}

	if _, err := g.GetDistance(ctx, store, bocagrande); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected cached second lookup, calls = %d", calls.Load())
	}
}

func TestGoogleElementStatusIsNoRoute(t *testing.T) {
	var calls atomic.Int32
	matrix := `{"rows":[{"elements":[{"status":"ZERO_RESULTS"}]}],"status":"OK"}`
	g := newTestGoogle(t, newGoogleServer(t, &calls, matrix))

	_, err := g.GetDistance(context.Background(), store, bocagrande)
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}
}

func TestGoogleGeocodeAndReverse(t *testing.T) {
	var calls atomic.Int32
	g := newTestGoogle(t, newGoogleServer(t, &calls, googleMatrixOK))
	ctx := context.Background()

	c, err := g.Geocode(ctx, "Bocagrande")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Key() != bocagrande.Key() {
		t.Fatalf("Geocode = %+v", c)
	}

	if _, err := g.Geocode(ctx, "nowhere"); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("err = %v, want ErrAddressNotFound", err)
	}

	label, err := g.ReverseGeocode(ctx, domain.Coordinates{Lat: 10.405891, Lon: -75.552825})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "Cra. 1, Bocagrande, Cartagena" {
		t.Fatalf("label = %q", label)
	}
}
