package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/twpayne/go-polyline"

	"roadtrip-planner/internal/adapters/cache"
	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/platform/obs"
	"roadtrip-planner/internal/ports"
)

const drivingProfile = "driving-car"

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// DrivingRoute is the provider payload attached to a route segment. The
// planning core passes it through untouched; it exists for downstream
// consumers that render the leg on a map.
type DrivingRoute struct {
	DistanceMeters  float64         `json:"distance_meters"`
	DurationSeconds float64         `json:"duration_seconds"`
	Geometry        []domain.LatLng `json:"geometry"`
}

// RoutingProvider computes driving legs via the OpenRouteService directions
// API, with an optional Redis cache in front.
type RoutingProvider struct {
	client *Client
	cache  *cache.RedisRouteCache
	logger *slog.Logger
}

func NewRoutingProvider(client *Client, routeCache *cache.RedisRouteCache, logger *slog.Logger) *RoutingProvider {
	return &RoutingProvider{
		client: client,
		cache:  routeCache,
		logger: logger,
	}
}

// Route returns the driving route between two coordinates.
func (p *RoutingProvider) Route(ctx context.Context, origin, destination domain.LatLng) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	if p.cache != nil {
		hit, ok, err := p.cache.Get(ctx, origin, destination)
		if err != nil {
			p.logger.WarnContext(ctx, "route cache read failed", slog.Any("error", err))
		} else if ok {
			return hit, nil
		}
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", p.client.baseURL, drivingProfile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{origin.CoordsToList(), destination.CoordsToList()},
	})
	if err != nil {
		return ports.RouteResult{}, &domain.RouteError{From: origin, To: destination, Err: fmt.Errorf("marshal directions request: %w", err)}
	}

	resp, err := p.client.doWithRetry(ctx, "directions", func() (*http.Request, error) {
		return p.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.RouteResult{}, &domain.RouteError{From: origin, To: destination, Err: err}
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.RouteResult{}, &domain.RouteError{From: origin, To: destination, Err: fmt.Errorf("decode directions response: %w", err)}
	}

	if len(dr.Routes) == 0 {
		return ports.RouteResult{}, &domain.RouteError{From: origin, To: destination, Err: fmt.Errorf("no routes returned")}
	}

	best := dr.Routes[0]

	geometry, err := decodeGeometry(best.Geometry)
	if err != nil {
		// Geometry is advisory; a leg without a drawable line is still usable.
		p.logger.WarnContext(ctx, "discarding undecodable route geometry", slog.Any("error", err))
		geometry = nil
	}

	result := ports.RouteResult{
		DistanceMeters:  best.Summary.Distance,
		DurationSeconds: best.Summary.Duration,
		Payload: &DrivingRoute{
			DistanceMeters:  best.Summary.Distance,
			DurationSeconds: best.Summary.Duration,
			Geometry:        geometry,
		},
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, origin, destination, result); err != nil {
			p.logger.WarnContext(ctx, "route cache write failed", slog.Any("error", err))
		}
	}

	return result, nil
}

func decodeGeometry(encoded string) ([]domain.LatLng, error) {
	if encoded == "" {
		return nil, nil
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}

	points := make([]domain.LatLng, len(coords))
	for i, c := range coords {
		points[i] = domain.LatLng{Lat: c[0], Lng: c[1]}
	}

	return points, nil
}
