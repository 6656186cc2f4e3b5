package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/platform/obs"
)

// PGGeocodeCache is a Postgres-backed cache mapping addresses to coordinates.
type PGGeocodeCache struct {
	DB *sql.DB
}

func NewPGGeocodeCache(db *sql.DB) *PGGeocodeCache {
	return &PGGeocodeCache{DB: db}
}

// Get fetches cached coordinates for an address.
func (c *PGGeocodeCache) Get(ctx context.Context, address string) (_ domain.LatLng, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if c.DB == nil {
		return domain.LatLng{}, false, errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.LatLng{}, false, errors.New("geocode cache: address must not be empty")
	}

	q := `
	SELECT lon, lat
    FROM geocode_cache
    WHERE address = $1;
	`

	var loc domain.LatLng
	err = c.DB.QueryRowContext(ctx, q, address).Scan(&loc.Lng, &loc.Lat)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LatLng{}, false, nil
	}
	if err != nil {
		return domain.LatLng{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return loc, true, nil
}

// Put stores coordinates for an address, replacing any previous entry.
func (c *PGGeocodeCache) Put(ctx context.Context, address string, loc domain.LatLng) (err error) {
	defer obs.Time(ctx, "geocode.cache.Put")(&err)

	if c.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("geocode cache: address must not be empty")
	}

	q := `
	INSERT INTO geocode_cache (address, lon, lat)
    VALUES ($1, $2, $3)
    ON CONFLICT (address) DO UPDATE SET lon = EXCLUDED.lon, lat = EXCLUDED.lat;
	`

	if _, err := c.DB.ExecContext(ctx, q, address, loc.Lng, loc.Lat); err != nil {
		return fmt.Errorf("put geocode cache: upsert geocode_cache table: %w", err)
	}

	return nil
}
