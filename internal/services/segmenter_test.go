package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"roadtrip-planner/internal/adapters/static"
	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/geo"
)

func TestSegmentInsufficientCities(t *testing.T) {
	s := NewRouteSegmenter(static.NewRoutingProvider(nil), testLogger())

	for _, route := range [][]domain.City{nil, {munich}} {
		_, err := s.Segment(context.Background(), route)
		if !errors.Is(err, domain.ErrInsufficientCities) {
			t.Fatalf("route of %d: error = %v, want ErrInsufficientCities", len(route), err)
		}
	}
}

func TestSegmentPreservesOrder(t *testing.T) {
	provider := static.NewRoutingProvider([]static.RoutePair{
		{From: munich.Location, To: stuttgart.Location, Meters: 230_000, Seconds: 8100},
		{From: stuttgart.Location, To: strasbourg.Location, Meters: 160_000, Seconds: 6300},
		{From: strasbourg.Location, To: paris.Location, Meters: 490_000, Seconds: 16_800},
	})
	s := NewRouteSegmenter(provider, testLogger())

	segments, err := s.Segment(context.Background(), []domain.City{munich, stuttgart, strasbourg, paris})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	for i, seg := range segments {
		if seg.SegmentIndex != i {
			t.Fatalf("segment %d carries index %d", i, seg.SegmentIndex)
		}
		if seg.Estimated() {
			t.Fatalf("segment %d unexpectedly estimated", i)
		}
	}
	if segments[0].From.Name != "Munich" || segments[0].To.Name != "Stuttgart" {
		t.Fatalf("segment 0 is %s -> %s", segments[0].From.Name, segments[0].To.Name)
	}
	if segments[2].From.Name != "Strasbourg" || segments[2].To.Name != "Paris" {
		t.Fatalf("segment 2 is %s -> %s", segments[2].From.Name, segments[2].To.Name)
	}
	if segments[0].DistanceMeters != 230_000 {
		t.Fatalf("segment 0 distance = %f, want 230000", segments[0].DistanceMeters)
	}
}

func TestSegmentFallsBackToEstimate(t *testing.T) {
	// Only the first leg is routable; the second must degrade to an estimate.
	provider := static.NewRoutingProvider([]static.RoutePair{
		{From: munich.Location, To: stuttgart.Location, Meters: 230_000, Seconds: 8100},
	})
	s := NewRouteSegmenter(provider, testLogger())

	segments, err := s.Segment(context.Background(), []domain.City{munich, stuttgart, paris})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if segments[0].Estimated() {
		t.Fatal("routed segment marked as estimated")
	}
	if !segments[1].Estimated() {
		t.Fatal("failed segment not marked as estimated")
	}

	wantKm := geo.HaversineKm(stuttgart.Location, paris.Location) * roadDistanceFactor
	if math.Abs(segments[1].DistanceMeters-wantKm*1000) > 1 {
		t.Fatalf("estimated distance = %f m, want %f m", segments[1].DistanceMeters, wantKm*1000)
	}
	if math.Abs(segments[1].DurationSeconds-wantKm*estimateSecondsPerKm) > 1 {
		t.Fatalf("estimated duration = %f s, want %f s",
			segments[1].DurationSeconds, wantKm*estimateSecondsPerKm)
	}
}

func TestSegmentCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewRouteSegmenter(static.NewRoutingProvider(nil), testLogger())

	_, err := s.Segment(ctx, []domain.City{munich, paris})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
