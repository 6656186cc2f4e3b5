package dto

import "time"

type SavedTripResponse struct {
	ID          string           `json:"id"`
	Origin      string           `json:"origin"`
	Destination string           `json:"destination"`
	Plan        TripPlanResponse `json:"plan"`
	CreatedAt   time.Time        `json:"created_at"`
}

type ListTripsResponse struct {
	Trips []SavedTripResponse `json:"trips"`
}
