package ports

import (
	"context"

	"roadtrip-planner/internal/domain"
)

// Locality is a populated place returned by a places-search provider.
// Population is unknown to such providers and reported as zero.
type Locality struct {
	Name     string
	Location domain.LatLng
	PlaceID  string
}

// Port: supplementary place search used by the city catalog.
type PlacesProvider interface {
	// NearbyLocalities returns localities within radiusMeters of center.
	NearbyLocalities(ctx context.Context, center domain.LatLng, radiusMeters int) ([]Locality, error)
}
