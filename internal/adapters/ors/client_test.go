package ors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"roadtrip-planner/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.baseURL = srv.URL
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestDoWithRetryRecoversFrom429(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))

	resp, err := c.doWithRetry(context.Background(), "test", func() (*http.Request, error) {
		return c.newRequest(context.Background(), http.MethodGet, c.baseURL, nil)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if got := calls.Load(); got != 3 {
		t.Fatalf("server called %d times, want 3", got)
	}
}

func TestDoWithRetryGivesUpOn400(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad coordinates", http.StatusBadRequest)
	}))

	_, err := c.doWithRetry(context.Background(), "test", func() (*http.Request, error) {
		return c.newRequest(context.Background(), http.MethodGet, c.baseURL, nil)
	})

	var he *httpStatusError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("error = %v, want 400 httpStatusError", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("client errors must not be retried, server called %d times", got)
	}
}

func TestGeocode(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("text"); got != "Munich, Germany" {
			t.Errorf("text = %q", got)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"features": []map[string]any{
				{"geometry": map[string]any{"coordinates": []float64{11.5755, 48.1374}}},
			},
		})
	}))

	g := NewGeocoder(c, nil, testLogger())

	// Extra whitespace must normalize away before the query.
	loc, err := g.Geocode(context.Background(), "Munich,   Germany")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Lat != 48.1374 || loc.Lng != 11.5755 {
		t.Fatalf("loc = %+v, coordinates swapped?", loc)
	}
}

func TestGeocodeNoResults(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	}))

	g := NewGeocoder(c, nil, testLogger())

	_, err := g.Geocode(context.Background(), "Atlantis")
	var geoErr *domain.GeocodeError
	if !errors.As(err, &geoErr) {
		t.Fatalf("error = %v, want GeocodeError", err)
	}
	if geoErr.Address != "Atlantis" {
		t.Fatalf("error address = %q", geoErr.Address)
	}
}

func TestRoute(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/directions/driving-car" {
			t.Errorf("path = %q", r.URL.Path)
		}

		var req directionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Coordinates) != 2 {
			t.Errorf("got %d coordinate pairs", len(req.Coordinates))
		}
		// ORS expects [lng, lat].
		if len(req.Coordinates) == 2 && req.Coordinates[0][0] != 11.5755 {
			t.Errorf("first coordinate = %v, want lng first", req.Coordinates[0])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"routes": []map[string]any{
				{"summary": map[string]any{"distance": 842000.0, "duration": 30600.0}},
			},
		})
	}))

	p := NewRoutingProvider(c, nil, testLogger())

	res, err := p.Route(context.Background(),
		domain.LatLng{Lat: 48.1374, Lng: 11.5755},
		domain.LatLng{Lat: 48.8566, Lng: 2.3522},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DistanceMeters != 842000 {
		t.Fatalf("distance = %f", res.DistanceMeters)
	}
	if res.DurationSeconds != 30600 {
		t.Fatalf("duration = %f", res.DurationSeconds)
	}
	if res.Payload == nil {
		t.Fatal("payload missing")
	}
}

func TestRouteNoRoutes(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[]}`))
	}))

	p := NewRoutingProvider(c, nil, testLogger())

	_, err := p.Route(context.Background(), domain.LatLng{}, domain.LatLng{Lat: 1})
	var routeErr *domain.RouteError
	if !errors.As(err, &routeErr) {
		t.Fatalf("error = %v, want RouteError", err)
	}
}

func TestNearbyLocalities(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("layers"); got != "locality" {
			t.Errorf("layers = %q", got)
		}
		if got := q.Get("boundary.circle.radius"); got != "100" {
			t.Errorf("radius = %q, want km", got)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"features": []map[string]any{
				{
					"properties": map[string]any{"id": "loc:1", "name": "Augsburg"},
					"geometry":   map[string]any{"coordinates": []float64{10.8978, 48.3705}},
				},
				{
					// Nameless features are dropped.
					"properties": map[string]any{"id": "loc:2", "name": ""},
					"geometry":   map[string]any{"coordinates": []float64{10.0, 48.0}},
				},
			},
		})
	}))

	p := NewPlacesProvider(c)

	localities, err := p.NearbyLocalities(context.Background(), domain.LatLng{Lat: 48.3, Lng: 10.9}, 100_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(localities) != 1 {
		t.Fatalf("got %d localities, want 1", len(localities))
	}
	if localities[0].Name != "Augsburg" || localities[0].Location.Lat != 48.3705 {
		t.Fatalf("unexpected locality: %+v", localities[0])
	}
}
