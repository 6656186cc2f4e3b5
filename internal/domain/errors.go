package domain

import (
	"errors"
	"fmt"
)

// Pipeline stage names used by PlanningError.
const (
	StageGeocoding    = "geocoding"
	StageDiscovery    = "corridor_discovery"
	StageRouteBuild   = "route_building"
	StageDayAllocate  = "day_allocation"
	StageSegmentation = "segmentation"
)

var (
	// ErrCatalogUnavailable means every catalog data source failed.
	ErrCatalogUnavailable = errors.New("city catalog: all sources unavailable")

	// ErrNoCities means day allocation was invoked with an empty route.
	// The route builder never produces an empty route; this is a defensive check.
	ErrNoCities = errors.New("day allocation: route has no cities")

	// ErrInsufficientCities means segmentation was invoked with fewer than 2 cities.
	ErrInsufficientCities = errors.New("segmentation: need at least 2 cities")

	// ErrTripNotFound means a stored trip id does not exist.
	ErrTripNotFound = errors.New("trip not found")
)

// GeocodeError reports that an address could not be resolved to coordinates.
type GeocodeError struct {
	Address string
	Err     error
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Address, e.Err)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// RouteError reports a routing provider failure for a single leg.
// Segmentation recovers from it locally by substituting an estimate.
type RouteError struct {
	From LatLng
	To   LatLng
	Err  error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("route (%.4f,%.4f) -> (%.4f,%.4f): %v",
		e.From.Lat, e.From.Lng, e.To.Lat, e.To.Lng, e.Err)
}

func (e *RouteError) Unwrap() error { return e.Err }

// PlanningError wraps a fatal stage failure. A plan is either fully assembled
// or not produced; there is no partial result behind a PlanningError.
type PlanningError struct {
	Stage string
	Err   error
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("trip planning: stage %s: %v", e.Stage, e.Err)
}

func (e *PlanningError) Unwrap() error { return e.Err }
