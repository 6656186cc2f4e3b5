package domain

// City is a candidate or selected stop on a road trip.
//
// Importance is a derived score in [0, 300] combining population tier with
// tourist-destination and capital-city bonuses. It is recomputed whenever a
// city enters a planning run and never supplied by an external source.
type City struct {
	Name       string `json:"name"`
	Location   LatLng `json:"location"`
	Population int    `json:"population"`
	Country    string `json:"country"`
	Importance int    `json:"importance"`
}
