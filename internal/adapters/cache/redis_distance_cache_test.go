package cache

import (
	"context"
	"storefront-delivery-service/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisDistanceCacheRoundTrip(t *testing.T) {
	mr, rdb := newTestRedis(t)
	c := NewRedisDistanceCache(rdb, "ors", time.Hour)
	ctx := context.Background()

	err := c.PutMany(ctx, "10.37375,-75.47358", map[string]ports.DistanceResult{
		"10.40589,-75.55283": {DistanceMeters: 9500, DurationSeconds: 1200},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.GetMany(ctx, "10.37375,-75.47358", []string{"10.40589,-75.55283", "1.00000,1.00000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(got))
	}
	if r := got["10.40589,-75.55283"]; r.DistanceMeters != 9500 || r.DurationSeconds != 1200 {
		t.Fatalf("unexpected result: %+v", r)
	}

	mr.FastForward(2 * time.Hour)

	got, err = c.GetMany(ctx, "10.37375,-75.47358", []string{"10.40589,-75.55283"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected entry to expire, got %+v", got)
	}
}

func TestRedisDistanceCacheNamespacesProviders(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	ors := NewRedisDistanceCache(rdb, "ors", time.Hour)
	google := NewRedisDistanceCache(rdb, "google", time.Hour)

	if err := ors.PutMany(ctx, "a", map[string]ports.DistanceResult{"b": {DistanceMeters: 1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := google.GetMany(ctx, "a", []string{"b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("providers should not share entries")
	}
}

type memDistanceCache struct {
	m    map[string]ports.DistanceResult
	gets int
}

func (c *memDistanceCache) GetMany(_ context.Context, origin string, dests []string) (map[string]ports.DistanceResult, error) {
	c.gets++
	out := map[string]ports.DistanceResult{}
	for _, d := range dests {
		if r, ok := c.m[origin+">"+d]; ok {
			out[d] = r
		}
	}
	return out, nil
}

func (c *memDistanceCache) PutMany(_ context.Context, origin string, results map[string]ports.DistanceResult) error {
	for d, r := range results {
		c.m[origin+">"+d] = r
	}
	return nil
}

func TestLayeredDistanceCacheBackfillsHotLayer(t *testing.T) {
	_, rdb := newTestRedis(t)
	hot := NewRedisDistanceCache(rdb, "ors", time.Hour)
	cold := &memDistanceCache{m: map[string]ports.DistanceResult{
		"o>d1": {DistanceMeters: 1000},
	}}
	l := &LayeredDistanceCache{Hot: hot, Cold: cold}
	ctx := context.Background()

	got, err := l.GetMany(ctx, "o", []string{"d1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["d1"].DistanceMeters != 1000 {
		t.Fatalf("unexpected result: %+v", got)
	}

	if _, err := l.GetMany(ctx, "o", []string{"d1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cold.gets != 1 {
		t.Fatalf("cold layer reads = %d, want 1", cold.gets)
	}

	if err := l.PutMany(ctx, "o", map[string]ports.DistanceResult{"d2": {DistanceMeters: 2000}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cold.m["o>d2"].DistanceMeters != 2000 {
		t.Fatalf("expected write-through to cold layer")
	}
	hits, _ := hot.GetMany(ctx, "o", []string{"d2"})
	if hits["d2"].DistanceMeters != 2000 {
		t.Fatalf("expected write to hot layer")
	}
}
