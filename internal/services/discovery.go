package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/geo"
)

// Corridor geometry constants. Empirically tuned in the original planner;
// changing them changes route quality, so they are named, not derived.
const (
	// CorridorWidthKm is the maximum lateral distance from the
	// origin-destination line for a city to qualify.
	CorridorWidthKm = 150

	// corridorPositionTolerance allows cities slightly before the origin or
	// beyond the destination (10% of the route length either way).
	corridorPositionTolerance = 0.1

	// corridorSampleSegments controls supplementary place searches: the
	// corridor line is sampled at segment boundaries (N segments, N+1 points).
	corridorSampleSegments = 5

	// DestinationImportance is the fixed score assigned to the trip's final
	// city so day allocation always favors it regardless of its population.
	DestinationImportance = 250
)

// Importance tiers by population.
const (
	megaCityScore        = 250 // >= 2,000,000
	majorCityScore       = 200 // >= 1,000,000
	regionalCapitalScore = 160 // >= 500,000
	significantCityScore = 130 // >= 200,000
	baseCityScore        = 100 // >= 100,000

	touristDestinationBonus = 50
	capitalCityBonus        = 30
)

// Recognized tourist destinations and national capitals, matched by
// case-insensitive substring against the city name. Both bonuses can apply.
var touristDestinations = []string{
	"Paris", "London", "Berlin", "Rome", "Madrid", "Barcelona", "Amsterdam",
	"Vienna", "Prague", "Budapest", "Milan", "Venice", "Florence", "Munich",
	"Zurich", "Geneva", "Lyon", "Nice", "Salzburg", "Bruges", "Krakow",
}

var capitalCities = []string{
	"Paris", "London", "Berlin", "Rome", "Madrid", "Amsterdam", "Vienna",
	"Prague", "Budapest", "Warsaw", "Brussels", "Bern", "Stockholm",
	"Copenhagen", "Oslo", "Helsinki", "Dublin", "Lisbon", "Athens",
}

func foldName(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func equalFoldName(a, b string) bool { return foldName(a) == foldName(b) }

func nameMatchesAny(name string, list []string) bool {
	folded := foldName(name)
	for _, entry := range list {
		if strings.Contains(folded, strings.ToLower(entry)) {
			return true
		}
	}
	return false
}

// CalculateImportance derives a city's 0-300 importance score from its
// population tier plus tourist-destination and capital-city bonuses.
func CalculateImportance(city domain.City) int {
	var score int
	switch {
	case city.Population >= 2_000_000:
		score = megaCityScore
	case city.Population >= 1_000_000:
		score = majorCityScore
	case city.Population >= 500_000:
		score = regionalCapitalScore
	case city.Population >= 200_000:
		score = significantCityScore
	default:
		score = baseCityScore
	}

	if nameMatchesAny(city.Name, touristDestinations) {
		score += touristDestinationBonus
	}
	if nameMatchesAny(city.Name, capitalCities) {
		score += capitalCityBonus
	}

	return score
}

// InCorridor reports whether a point lies within the corridor between origin
// and destination: at most CorridorWidthKm off the line and positioned
// within the tolerated overshoot on either end.
func InCorridor(point, origin, destination domain.LatLng) bool {
	distance := geo.PointToLineKm(point, origin, destination)
	position := geo.PositionAlongRoute(point, origin, destination)

	return distance <= CorridorWidthKm &&
		position >= -corridorPositionTolerance &&
		position <= 1+corridorPositionTolerance
}

// CorridorDiscovery finds and scores candidate cities between two endpoints.
type CorridorDiscovery struct {
	logger  *slog.Logger
	catalog *CityCatalog
}

func NewCorridorDiscovery(catalog *CityCatalog, logger *slog.Logger) *CorridorDiscovery {
	return &CorridorDiscovery{
		logger:  logger,
		catalog: catalog,
	}
}

// Discover returns all catalog cities inside the corridor, each scored.
func (d *CorridorDiscovery) Discover(ctx context.Context, origin, destination domain.LatLng) ([]domain.City, error) {
	ctx, span := otel.Tracer("CorridorDiscovery").Start(ctx, "Discover")
	defer span.End()

	candidates, err := d.catalog.CitiesNear(ctx, corridorSamples(origin, destination))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("discover corridor cities: %w", err)
	}

	discovered := make([]domain.City, 0, len(candidates))
	for _, city := range candidates {
		if !InCorridor(city.Location, origin, destination) {
			continue
		}
		city.Importance = CalculateImportance(city)
		discovered = append(discovered, city)
	}

	d.logger.InfoContext(ctx, "corridor discovery complete",
		slog.Int("candidates", len(candidates)),
		slog.Int("in_corridor", len(discovered)),
	)
	span.SetAttributes(attribute.Int("corridor.cities", len(discovered)))

	return discovered, nil
}

// corridorSamples returns evenly spaced points along the straight line from
// origin to destination, endpoints included.
func corridorSamples(origin, destination domain.LatLng) []domain.LatLng {
	points := make([]domain.LatLng, 0, corridorSampleSegments+1)
	for i := 0; i <= corridorSampleSegments; i++ {
		ratio := float64(i) / corridorSampleSegments
		points = append(points, domain.LatLng{
			Lat: origin.Lat + (destination.Lat-origin.Lat)*ratio,
			Lng: origin.Lng + (destination.Lng-origin.Lng)*ratio,
		})
	}
	return points
}
