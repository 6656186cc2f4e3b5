package ports

import (
	"context"

	"roadtrip-planner/internal/domain"
)

// Port: resolves free-text addresses to coordinates.
type Geocoder interface {
	// Geocode returns the coordinates of the best match for address.
	// Failures are reported as *domain.GeocodeError.
	Geocode(ctx context.Context, address string) (domain.LatLng, error)
}
