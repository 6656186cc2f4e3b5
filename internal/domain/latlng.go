package domain

// Immutable geographic coordinates in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinates as [lon, lat] for external API compatibility.
func (p LatLng) CoordsToList() []float64 { return []float64{p.Lng, p.Lat} }
