package ports

import (
	"context"

	"roadtrip-planner/internal/domain"
)

// RouteResult is a routing provider's answer for a single driving leg.
// Payload carries the provider-specific route object for downstream
// consumers; the planning core treats it as opaque.
type RouteResult struct {
	DistanceMeters  float64
	DurationSeconds float64
	Payload         any
}

// Port: computes point-to-point driving routes.
type RoutingProvider interface {
	// Route returns the driving route between two coordinates.
	// Failures are reported as *domain.RouteError.
	Route(ctx context.Context, origin, destination domain.LatLng) (RouteResult, error)
}
