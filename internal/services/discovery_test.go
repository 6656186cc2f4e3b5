package services

import (
	"context"
	"testing"

	"roadtrip-planner/internal/adapters/static"
	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/geo"
)

func TestCalculateImportance(t *testing.T) {
	cases := []struct {
		name string
		city domain.City
		want int
	}{
		{"base tier", domain.City{Name: "Plainville", Population: 120_000}, 100},
		{"significant", domain.City{Name: "Somewhere", Population: 300_000}, 130},
		{"regional", domain.City{Name: "Elsewhere", Population: 600_000}, 160},
		{"major", domain.City{Name: "Bigcity", Population: 1_500_000}, 200},
		{"mega", domain.City{Name: "Hugecity", Population: 3_000_000}, 250},
		{"tourist bonus", domain.City{Name: "Venice", Population: 260_000}, 180},
		{"capital bonus", domain.City{Name: "Warsaw", Population: 1_790_000}, 230},
		{"tourist and capital", domain.City{Name: "Paris", Population: 2_100_000}, 330},
		{"substring match", domain.City{Name: "Greater London", Population: 8_900_000}, 330},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CalculateImportance(tc.city); got != tc.want {
				t.Fatalf("importance = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestInCorridor(t *testing.T) {
	origin := munich.Location
	dest := paris.Location

	if !InCorridor(stuttgart.Location, origin, dest) {
		t.Fatal("Stuttgart should be in the Munich-Paris corridor")
	}
	if !InCorridor(nancy.Location, origin, dest) {
		t.Fatal("Nancy should be in the Munich-Paris corridor")
	}

	rome := domain.LatLng{Lat: 41.9028, Lng: 12.4964}
	if InCorridor(rome, origin, dest) {
		t.Fatal("Rome should be far outside the Munich-Paris corridor")
	}

	// Endpoints qualify: position 0 and 1 are inside the tolerance window.
	if !InCorridor(origin, origin, dest) || !InCorridor(dest, origin, dest) {
		t.Fatal("corridor endpoints should qualify")
	}
}

func TestDiscoverFiltersAndScores(t *testing.T) {
	rome := domain.City{Name: "Rome", Location: domain.LatLng{Lat: 41.9028, Lng: 12.4964}, Population: 2_800_000}
	inCorridor := stuttgart
	inCorridor.Population = 630_000

	source := static.NewCitySource([]domain.City{inCorridor, rome})
	catalog := NewCityCatalog(source, nil, testLogger())
	d := NewCorridorDiscovery(catalog, testLogger())

	cities, err := d.Discover(context.Background(), munich.Location, paris.Location)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cities) != 1 {
		t.Fatalf("discovered %d cities, want 1", len(cities))
	}
	if cities[0].Name != "Stuttgart" {
		t.Fatalf("discovered %q, want Stuttgart", cities[0].Name)
	}
	if cities[0].Importance != 160 {
		t.Fatalf("Stuttgart importance = %d, want 160", cities[0].Importance)
	}
}

func TestCorridorSamples(t *testing.T) {
	samples := corridorSamples(munich.Location, paris.Location)

	if len(samples) != corridorSampleSegments+1 {
		t.Fatalf("got %d samples, want %d", len(samples), corridorSampleSegments+1)
	}
	if samples[0] != munich.Location {
		t.Fatalf("first sample %v, want origin", samples[0])
	}
	last := samples[len(samples)-1]
	if geo.HaversineKm(last, paris.Location) > 0.001 {
		t.Fatalf("last sample %v, want destination", last)
	}
}
