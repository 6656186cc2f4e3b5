// Package geo provides the geometric primitives used by corridor filtering
// and route construction: great-circle distance, point-to-segment distance,
// and directional progress checks.
package geo

import (
	"math"

	"roadtrip-planner/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in
// kilometers. Symmetric; zero for identical points.
func HaversineKm(a, b domain.LatLng) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// PointToLineKm returns the shortest distance in kilometers from point to the
// finite segment [segStart, segEnd].
//
// The projection is computed in raw lat/lng space (local planar
// approximation, projection parameter clamped to [0,1]). Not geodesically
// exact, but consistent and fast enough for corridor filtering at
// country/continent scale.
func PointToLineKm(point, segStart, segEnd domain.LatLng) float64 {
	a := point.Lat - segStart.Lat
	b := point.Lng - segStart.Lng
	c := segEnd.Lat - segStart.Lat
	d := segEnd.Lng - segStart.Lng

	dot := a*c + b*d
	lenSq := c*c + d*d

	param := -1.0
	if lenSq != 0 {
		param = dot / lenSq
	}

	var xx, yy float64
	switch {
	case param < 0:
		xx, yy = segStart.Lat, segStart.Lng
	case param > 1:
		xx, yy = segEnd.Lat, segEnd.Lng
	default:
		xx = segStart.Lat + param*c
		yy = segStart.Lng + param*d
	}

	return HaversineKm(domain.LatLng{Lat: xx, Lng: yy}, point)
}

// PositionAlongRoute returns the unclamped projection parameter of point onto
// the segStart->segEnd line: 0 at the start, 1 at the end. Values outside
// [0,1] mean the closest projection falls beyond an endpoint. A degenerate
// zero-length segment yields 0.
func PositionAlongRoute(point, segStart, segEnd domain.LatLng) float64 {
	a := point.Lat - segStart.Lat
	b := point.Lng - segStart.Lng
	c := segEnd.Lat - segStart.Lat
	d := segEnd.Lng - segStart.Lng

	lenSq := c*c + d*d
	if lenSq == 0 {
		return 0
	}

	return (a*c + b*d) / lenSq
}

// ProgressRatio returns the fractional reduction in remaining distance to
// destination achieved by moving from one point to another. Positive means
// `to` is closer to the destination than `from` was; the result never
// exceeds 1. Returns 0 when `from` is already at the destination.
func ProgressRatio(from, to, destination domain.LatLng) float64 {
	currentDistance := HaversineKm(from, destination)
	if currentDistance == 0 {
		return 0
	}
	nextDistance := HaversineKm(to, destination)

	return (currentDistance - nextDistance) / currentDistance
}

// IsForwardMovement reports whether moving from->to is not opposite to the
// from->target direction, via the dot product of the two vectors in lat/lng
// space. A zero dot product (perpendicular movement) counts as forward.
func IsForwardMovement(from, to, target domain.LatLng) bool {
	toTargetLat := target.Lat - from.Lat
	toTargetLng := target.Lng - from.Lng
	toNextLat := to.Lat - from.Lat
	toNextLng := to.Lng - from.Lng

	dot := toTargetLat*toNextLat + toTargetLng*toNextLng

	return dot >= 0
}
