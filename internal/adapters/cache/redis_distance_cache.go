package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDistanceCache keeps recently routed distances in Redis with a TTL.
type RedisDistanceCache struct {
	client   redis.UniversalClient
	provider string
	ttl      time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connect %s: %w", cfg.Addr, err)
	}

	return rdb, nil
}

func NewRedisDistanceCache(client redis.UniversalClient, provider string, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{client: client, provider: provider, ttl: ttl}
}

type redisDistance struct {
	Meters  int `json:"m"`
	Seconds int `json:"s"`
}

func (r *RedisDistanceCache) key(origin, destination string) string {
	return "dist:" + r.provider + ":" + origin + ">" + destination
}

func (r *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.redis.GetMany")(&err)

	if origin == "" {
		return nil, errors.New("get redis distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	keys := make([]string, len(uniq))
	for i, d := range uniq {
		keys[i] = r.key(origin, d)
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get redis distance cache: mget: %w", err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var d redisDistance
		if err := json.Unmarshal([]byte(s), &d); err != nil {
			continue
		}
		out[uniq[i]] = ports.DistanceResult{DistanceMeters: d.Meters, DurationSeconds: d.Seconds}
	}

	return out, nil
}

func (r *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if origin == "" {
		return errors.New("put redis distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for dest, res := range results {
		data, err := json.Marshal(redisDistance{Meters: res.DistanceMeters, Seconds: res.DurationSeconds})
		if err != nil {
			return fmt.Errorf("put redis distance cache: marshal: %w", err)
		}
		pipe.Set(ctx, r.key(origin, dest), data, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put redis distance cache: exec: %w", err)
	}
	return nil
}
