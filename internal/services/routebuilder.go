package services

import (
	"log/slog"

	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/geo"
)

// Driving-distance shaping constants. Like the corridor constants these are
// tuned values; the sweet spot keeps daily legs comfortable without
// fragmenting the trip into hops that are too short.
const (
	// maxIntermediateStops bounds the greedy loop.
	maxIntermediateStops = 10

	minDrivingDistanceKm = 100
	maxDrivingDistanceKm = 400

	sweetSpotMinKm = 150
	sweetSpotMaxKm = 250

	// distancePenaltyPerKm shaves score for every km outside the sweet spot.
	distancePenaltyPerKm = 0.5

	// overshootAllowanceKm rejects candidates that end up farther from the
	// destination than the current city by more than this margin.
	overshootAllowanceKm = 50

	// backtrackTolerance admits candidates with slightly negative progress
	// so an important city just behind the line can still be visited.
	backtrackTolerance = -0.1

	// backtrackScore heavily deprioritizes negative-progress candidates
	// without excluding them entirely.
	backtrackScore = -1000

	progressWeight = 200
)

// RouteBuilder greedily selects an ordered path of cities from origin to
// destination. The result is a reasonable single route, not an exhaustively
// searched optimum.
type RouteBuilder struct {
	logger *slog.Logger
}

func NewRouteBuilder(logger *slog.Logger) *RouteBuilder {
	return &RouteBuilder{logger: logger}
}

// BuildRoute returns an ordered city sequence beginning with start and
// ending with end. With no qualifying candidates the route degenerates to
// [start, end].
func (b *RouteBuilder) BuildRoute(start, end domain.City, candidates []domain.City) []domain.City {
	// The destination is appended explicitly at the end; drop it from the pool.
	pool := make([]domain.City, 0, len(candidates))
	for _, city := range candidates {
		if !equalFoldName(city.Name, end.Name) {
			pool = append(pool, city)
		}
	}

	route := []domain.City{start}
	current := start

	for stops := 0; !equalFoldName(current.Name, end.Name) && stops < maxIntermediateStops; stops++ {
		next, ok := b.findBestNextCity(current, end, pool, route)
		if !ok {
			// No viable intermediate stop; go directly to the destination.
			break
		}

		distanceToNext := geo.HaversineKm(current.Location, next.Location)
		distanceToEnd := geo.HaversineKm(current.Location, end.Location)

		// When the destination is closer than the best candidate and within
		// the driving cap, skip the candidate and finish the trip.
		if distanceToEnd < distanceToNext && distanceToEnd <= maxDrivingDistanceKm {
			b.logger.Debug("destination closer than next candidate, finishing route",
				slog.String("skipped", next.Name),
				slog.Float64("distance_to_end_km", distanceToEnd),
			)
			break
		}

		route = append(route, next)
		current = next
	}

	if !equalFoldName(route[len(route)-1].Name, end.Name) {
		route = append(route, end)
	}

	names := make([]string, 0, len(route))
	for _, c := range route {
		names = append(names, c.Name)
	}
	b.logger.Debug("route built", slog.Any("route", names))

	return route
}

// findBestNextCity scans the pool for the highest-scoring viable candidate.
// Candidates are evaluated in slice order and replaced only on a strictly
// higher score, keeping selection deterministic.
func (b *RouteBuilder) findBestNextCity(
	current, end domain.City,
	pool []domain.City,
	route []domain.City,
) (domain.City, bool) {
	distanceToEnd := geo.HaversineKm(current.Location, end.Location)

	var (
		best      domain.City
		bestScore float64
		found     bool
	)

	for _, candidate := range pool {
		if routeContains(route, candidate) || equalFoldName(candidate.Name, current.Name) {
			continue
		}

		progress := candidateProgress(current.Location, candidate.Location, end.Location)
		if progress < backtrackTolerance {
			continue
		}

		distance := geo.HaversineKm(current.Location, candidate.Location)
		if distance < minDrivingDistanceKm || distance > maxDrivingDistanceKm {
			continue
		}

		// Reject stops that would carry the trip past the destination.
		candidateToEnd := geo.HaversineKm(candidate.Location, end.Location)
		if candidateToEnd > distanceToEnd+overshootAllowanceKm {
			continue
		}

		score := ScoreCandidate(candidate, current, end)
		if !found || score > bestScore {
			best = candidate
			bestScore = score
			found = true
		}
	}

	return best, found
}

// ScoreCandidate rates a candidate as the next stop after current on the way
// to destination: progress toward the destination weighted at 200, plus the
// candidate's importance, minus a shaping penalty for hops outside the
// 150-250 km sweet spot. Negative-progress candidates score from a -1000
// floor plus importance.
func ScoreCandidate(candidate, current, destination domain.City) float64 {
	progress := candidateProgress(current.Location, candidate.Location, destination.Location)
	importance := float64(candidate.Importance)

	if progress < 0 {
		return backtrackScore + importance
	}

	score := progress*progressWeight + importance

	distance := geo.HaversineKm(current.Location, candidate.Location)
	if distance < sweetSpotMinKm {
		score -= (sweetSpotMinKm - distance) * distancePenaltyPerKm
	} else if distance > sweetSpotMaxKm {
		score -= (distance - sweetSpotMaxKm) * distancePenaltyPerKm
	}

	return score
}

// candidateProgress combines the progress ratio with a direction check:
// movement opposite to the destination counts as full backtracking (-1)
// regardless of the raw ratio.
func candidateProgress(from, to, destination domain.LatLng) float64 {
	if !geo.IsForwardMovement(from, to, destination) {
		return -1
	}
	return geo.ProgressRatio(from, to, destination)
}

func routeContains(route []domain.City, city domain.City) bool {
	for _, c := range route {
		if equalFoldName(c.Name, city.Name) {
			return true
		}
	}
	return false
}
