package ors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"roadtrip-planner/internal/adapters/cache"
	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocoder resolves free-text addresses via OpenRouteService
// (/geocode/search), fronted by an optional persistent cache.
type Geocoder struct {
	client *Client
	cache  *cache.PGGeocodeCache
	logger *slog.Logger
}

func NewGeocoder(client *Client, geocodeCache *cache.PGGeocodeCache, logger *slog.Logger) *Geocoder {
	return &Geocoder{
		client: client,
		cache:  geocodeCache,
		logger: logger,
	}
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Geocode resolves an address to coordinates.
func (g *Geocoder) Geocode(ctx context.Context, address string) (_ domain.LatLng, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.LatLng{}, &domain.GeocodeError{Address: address, Err: fmt.Errorf("address is empty")}
	}

	if g.cache != nil {
		hit, ok, err := g.cache.Get(ctx, norm)
		if err != nil {
			g.logger.WarnContext(ctx, "geocode cache read failed", slog.Any("error", err))
		} else if ok {
			return hit, nil
		}
	}

	endpoint := g.client.baseURL + "/geocode/search"

	resp, err := g.client.doWithRetry(ctx, "geocode", func() (*http.Request, error) {
		req, err := g.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.LatLng{}, &domain.GeocodeError{Address: address, Err: err}
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.LatLng{}, &domain.GeocodeError{Address: address, Err: fmt.Errorf("decode geocode response: %w", err)}
	}

	if len(decoded.Features) == 0 {
		return domain.LatLng{}, &domain.GeocodeError{Address: address, Err: fmt.Errorf("no results")}
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.LatLng{}, &domain.GeocodeError{Address: address, Err: fmt.Errorf("invalid coordinate format")}
	}

	loc := domain.LatLng{Lat: coords[1], Lng: coords[0]}

	if g.cache != nil {
		if err := g.cache.Put(ctx, norm, loc); err != nil {
			g.logger.WarnContext(ctx, "geocode cache write failed", slog.Any("error", err))
		}
	}

	return loc, nil
}
