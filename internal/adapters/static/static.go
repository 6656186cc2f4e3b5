// Package static provides deterministic in-memory implementations of the
// provider ports. They stand in for the real clients in tests and in
// offline/demo deployments, selected by dependency injection.
package static

import (
	"context"
	"fmt"
	"strings"

	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/geo"
	"roadtrip-planner/internal/ports"
)

func pairKey(origin, destination domain.LatLng) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f",
		origin.Lat, origin.Lng, destination.Lat, destination.Lng)
}

// RoutePair seeds a StaticRoutingProvider with one known leg.
type RoutePair struct {
	From, To domain.LatLng
	Meters   float64
	Seconds  float64
}

// RoutingProvider serves pre-seeded legs and fails for unknown pairs,
// which exercises the segmenter's estimate fallback.
type RoutingProvider struct {
	m map[string]ports.RouteResult
}

func NewRoutingProvider(pairs []RoutePair) *RoutingProvider {
	m := make(map[string]ports.RouteResult, len(pairs))
	for _, p := range pairs {
		m[pairKey(p.From, p.To)] = ports.RouteResult{
			DistanceMeters:  p.Meters,
			DurationSeconds: p.Seconds,
			Payload: map[string]any{
				"distance_meters":  p.Meters,
				"duration_seconds": p.Seconds,
			},
		}
	}
	return &RoutingProvider{m: m}
}

func (p *RoutingProvider) Route(ctx context.Context, origin, destination domain.LatLng) (ports.RouteResult, error) {
	r, ok := p.m[pairKey(origin, destination)]
	if !ok {
		return ports.RouteResult{}, &domain.RouteError{
			From: origin,
			To:   destination,
			Err:  fmt.Errorf("no static route for pair"),
		}
	}
	return r, nil
}

// Geocoder resolves addresses from a fixed table. Lookup is by normalized
// lowercase address with a substring fallback, so "Paris, France" resolves
// against a "paris" entry.
type Geocoder struct {
	m map[string]domain.LatLng
}

func NewGeocoder(entries map[string]domain.LatLng) *Geocoder {
	m := make(map[string]domain.LatLng, len(entries))
	for k, v := range entries {
		m[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &Geocoder{m: m}
}

func (g *Geocoder) Geocode(ctx context.Context, address string) (domain.LatLng, error) {
	key := strings.ToLower(strings.TrimSpace(address))
	if loc, ok := g.m[key]; ok {
		return loc, nil
	}
	for name, loc := range g.m {
		if strings.Contains(key, name) {
			return loc, nil
		}
	}
	return domain.LatLng{}, &domain.GeocodeError{Address: address, Err: fmt.Errorf("no static entry")}
}

// PlacesProvider serves a fixed locality list filtered by distance.
type PlacesProvider struct {
	localities []ports.Locality
}

func NewPlacesProvider(localities []ports.Locality) *PlacesProvider {
	return &PlacesProvider{localities: localities}
}

func (p *PlacesProvider) NearbyLocalities(ctx context.Context, center domain.LatLng, radiusMeters int) ([]ports.Locality, error) {
	radiusKm := float64(radiusMeters) / 1000

	out := make([]ports.Locality, 0)
	for _, l := range p.localities {
		if geo.HaversineKm(center, l.Location) <= radiusKm {
			out = append(out, l)
		}
	}
	return out, nil
}

// CitySource serves a fixed city list, or a fixed error to simulate an
// unavailable dataset.
type CitySource struct {
	cities []domain.City
	err    error
}

func NewCitySource(cities []domain.City) *CitySource {
	return &CitySource{cities: cities}
}

func NewFailingCitySource(err error) *CitySource {
	return &CitySource{err: err}
}

func (s *CitySource) FetchCities(ctx context.Context) ([]domain.City, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.City, len(s.cities))
	copy(out, s.cities)
	return out, nil
}
