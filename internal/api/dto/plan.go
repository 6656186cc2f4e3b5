package dto

import "time"

// PlanTripRequest is the input for both /plans (ephemeral) and /trips
// (persisted). Dates use the 2006-01-02 layout and are inclusive.
type PlanTripRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type LatLngResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CityResponse struct {
	Name       string         `json:"name"`
	Location   LatLngResponse `json:"location"`
	Population int            `json:"population,omitempty"`
	Country    string         `json:"country,omitempty"`
	Importance int            `json:"importance"`
}

type SegmentResponse struct {
	From            CityResponse `json:"from"`
	To              CityResponse `json:"to"`
	DistanceMeters  float64      `json:"distance_meters"`
	DurationSeconds float64      `json:"duration_seconds"`
	Estimated       bool         `json:"estimated"`
	Route           any          `json:"route,omitempty"`
}

type CityStayResponse struct {
	City     CityResponse `json:"city"`
	Days     int          `json:"days"`
	StartDay int          `json:"start_day"`
	EndDay   int          `json:"end_day"`
}

type TripPlanResponse struct {
	Cities              []CityResponse     `json:"cities"`
	Segments            []SegmentResponse  `json:"segments"`
	CityStays           []CityStayResponse `json:"city_stays"`
	TotalDays           int                `json:"total_days"`
	TotalDistanceMeters float64            `json:"total_distance_meters"`
	TotalDrivingSeconds float64            `json:"total_driving_seconds"`
	StartDate           time.Time          `json:"start_date"`
	EndDate             time.Time          `json:"end_date"`
}
