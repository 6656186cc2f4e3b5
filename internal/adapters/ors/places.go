package ors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/platform/obs"
	"roadtrip-planner/internal/ports"
)

type reverseResponse struct {
	Features []struct {
		Properties struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// PlacesProvider finds localities around a point via ORS reverse geocoding
// (/geocode/reverse, locality layer).
type PlacesProvider struct {
	client *Client
}

func NewPlacesProvider(client *Client) *PlacesProvider {
	return &PlacesProvider{client: client}
}

// NearbyLocalities returns localities within radiusMeters of center.
func (p *PlacesProvider) NearbyLocalities(ctx context.Context, center domain.LatLng, radiusMeters int) (_ []ports.Locality, err error) {
	defer obs.Time(ctx, "ors.NearbyLocalities")(&err)

	endpoint := p.client.baseURL + "/geocode/reverse"
	radiusKm := strconv.FormatFloat(float64(radiusMeters)/1000, 'f', -1, 64)

	resp, err := p.client.doWithRetry(ctx, "reverse", func() (*http.Request, error) {
		req, err := p.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("point.lat", strconv.FormatFloat(center.Lat, 'f', -1, 64))
		q.Set("point.lon", strconv.FormatFloat(center.Lng, 'f', -1, 64))
		q.Set("layers", "locality")
		q.Set("boundary.circle.radius", radiusKm)
		q.Set("size", "20")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("nearby localities: %w", err)
	}
	defer resp.Body.Close()

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("nearby localities: decode reverse response: %w", err)
	}

	out := make([]ports.Locality, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		if f.Properties.Name == "" || len(f.Geometry.Coordinates) != 2 {
			continue
		}
		out = append(out, ports.Locality{
			Name:    f.Properties.Name,
			PlaceID: f.Properties.ID,
			Location: domain.LatLng{
				Lat: f.Geometry.Coordinates[1],
				Lng: f.Geometry.Coordinates[0],
			},
		})
	}

	return out, nil
}
