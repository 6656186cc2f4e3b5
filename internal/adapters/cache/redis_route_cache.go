package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/ports"
)

// RedisRouteCache caches routing provider results per coordinate pair.
// Entries carry the raw provider payload so cache hits remain
// distinguishable from estimated segments.
type RedisRouteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRouteCache(rdb *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{rdb: rdb, ttl: ttl}
}

type cachedRoute struct {
	DistanceMeters  float64         `json:"distance_meters"`
	DurationSeconds float64         `json:"duration_seconds"`
	Payload         json.RawMessage `json:"payload"`
}

// Coordinates are rounded to 5 decimals (~1 m) in the key so that equal
// inputs hit regardless of float formatting noise.
func routeKey(origin, destination domain.LatLng) string {
	return fmt.Sprintf("route:%.5f,%.5f|%.5f,%.5f",
		origin.Lat, origin.Lng, destination.Lat, destination.Lng)
}

// Get fetches a cached route for the coordinate pair.
func (c *RedisRouteCache) Get(ctx context.Context, origin, destination domain.LatLng) (ports.RouteResult, bool, error) {
	if c.rdb == nil {
		return ports.RouteResult{}, false, errors.New("route cache: redis client is nil")
	}

	raw, err := c.rdb.Get(ctx, routeKey(origin, destination)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: %w", err)
	}

	var entry cachedRoute
	if err := json.Unmarshal(raw, &entry); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: decode entry: %w", err)
	}

	return ports.RouteResult{
		DistanceMeters:  entry.DistanceMeters,
		DurationSeconds: entry.DurationSeconds,
		Payload:         entry.Payload,
	}, true, nil
}

// Put stores a provider route result for the coordinate pair.
func (c *RedisRouteCache) Put(ctx context.Context, origin, destination domain.LatLng, res ports.RouteResult) error {
	if c.rdb == nil {
		return errors.New("route cache: redis client is nil")
	}

	payload, err := json.Marshal(res.Payload)
	if err != nil {
		return fmt.Errorf("put route cache: encode payload: %w", err)
	}

	entry, err := json.Marshal(cachedRoute{
		DistanceMeters:  res.DistanceMeters,
		DurationSeconds: res.DurationSeconds,
		Payload:         payload,
	})
	if err != nil {
		return fmt.Errorf("put route cache: encode entry: %w", err)
	}

	if err := c.rdb.Set(ctx, routeKey(origin, destination), entry, c.ttl).Err(); err != nil {
		return fmt.Errorf("put route cache: %w", err)
	}

	return nil
}
