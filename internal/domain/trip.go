package domain

import "time"

// RouteSegment is the driving leg between two consecutive cities in a route.
//
// ProviderRoute carries the routing provider's opaque result for downstream
// rendering; it is nil when the provider call failed and the distance and
// duration were estimated instead. The core never inspects its internals.
type RouteSegment struct {
	From            City    `json:"from"`
	To              City    `json:"to"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	ProviderRoute   any     `json:"provider_route,omitempty"`
	SegmentIndex    int     `json:"segment_index"`
}

// Estimated reports whether this segment's metrics were substituted from a
// straight-line estimate because the routing provider failed.
func (s RouteSegment) Estimated() bool { return s.ProviderRoute == nil }

// CityStay is the contiguous block of days allocated to a single city.
//
// A stay with Days == 0 (the departure city) has StartDay == EndDay == 0.
// Otherwise EndDay = StartDay + Days - 1, and stays are laid out contiguously
// in route order starting at day 1.
type CityStay struct {
	City     City `json:"city"`
	Days     int  `json:"days"`
	StartDay int  `json:"start_day"`
	EndDay   int  `json:"end_day"`
}

// TripPlan is the assembled output of a planning run.
// It is immutable planning data and contains no side effects.
type TripPlan struct {
	Cities              []City         `json:"cities"`
	Segments            []RouteSegment `json:"segments"`
	CityStays           []CityStay     `json:"city_stays"`
	TotalDays           int            `json:"total_days"`
	TotalDistanceMeters float64        `json:"total_distance_meters"`
	TotalDrivingSeconds float64        `json:"total_driving_seconds"`
	StartDate           time.Time      `json:"start_date"`
	EndDate             time.Time      `json:"end_date"`
}
