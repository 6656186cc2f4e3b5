package services

import (
	"log/slog"

	"roadtrip-planner/internal/domain"
)

// maxDaysPerCity caps the distribution passes; up to a week in a major
// destination before spillover moves elsewhere.
const maxDaysPerCity = 7

// DayAllocator distributes a trip's day budget across the route's stops,
// weighting by city importance.
type DayAllocator struct {
	logger *slog.Logger
}

func NewDayAllocator(logger *slog.Logger) *DayAllocator {
	return &DayAllocator{logger: logger}
}

// AllocateDays assigns totalDays across the route and lays the stays out
// contiguously starting at day 1. The origin always receives 0 days. Every
// day is assigned: leftovers flow to important cities first, then to any
// city under the cap, and finally onto the destination regardless of cap.
//
// Returns domain.ErrNoCities for an empty route.
func (a *DayAllocator) AllocateDays(route []domain.City, totalDays int) ([]domain.CityStay, error) {
	if len(route) == 0 {
		return nil, domain.ErrNoCities
	}

	allocation := make([]int, len(route))

	// Origin is a pure departure point.
	allocation[0] = 0
	remainingDays := totalDays

	for i := 1; i < len(route); i++ {
		base := baseDaysForCity(route[i], i == len(route)-1)
		if base > remainingDays {
			base = remainingDays
		}
		allocation[i] = base
		remainingDays -= base
	}

	if remainingDays > 0 {
		distributeRemainingDays(route, allocation, remainingDays)
	}

	stays := make([]domain.CityStay, 0, len(route))
	currentDay := 1

	for i, city := range route {
		stay := domain.CityStay{City: city, Days: allocation[i]}
		if allocation[i] > 0 {
			stay.StartDay = currentDay
			stay.EndDay = currentDay + allocation[i] - 1
			currentDay += allocation[i]
		}
		stays = append(stays, stay)
	}

	a.logger.Debug("day allocation complete",
		slog.Int("total_days", totalDays),
		slog.Any("allocation", allocation),
	)

	return stays, nil
}

// baseDaysForCity maps importance to an initial day count. The destination
// uses a more generous ladder than intermediate stops.
func baseDaysForCity(city domain.City, isDestination bool) int {
	if isDestination {
		switch {
		case city.Importance >= 250:
			return 5
		case city.Importance >= 200:
			return 4
		case city.Importance >= 150:
			return 3
		default:
			return 2
		}
	}

	switch {
	case city.Importance >= 280:
		return 5
	case city.Importance >= 250:
		return 4
	case city.Importance >= 200:
		return 3
	case city.Importance >= 150:
		return 2
	default:
		return 1
	}
}

// distributeRemainingDays hands out leftover days one at a time. Each full
// pass either places at least one day or falls through to the next pass;
// the final fallback dumps everything on the destination, so the loop
// always terminates.
func distributeRemainingDays(route []domain.City, allocation []int, remainingDays int) {
	for remainingDays > 0 {
		distributed := false

		// First pass: important cities below the cap.
		for i := 1; i < len(route) && remainingDays > 0; i++ {
			if route[i].Importance >= 150 && allocation[i] < maxDaysPerCity {
				allocation[i]++
				remainingDays--
				distributed = true
			}
		}

		// Second pass: any city below the cap.
		if !distributed {
			for i := 1; i < len(route) && remainingDays > 0; i++ {
				if allocation[i] < maxDaysPerCity {
					allocation[i]++
					remainingDays--
					distributed = true
				}
			}
		}

		// Everything is capped: the destination absorbs the rest.
		if !distributed && remainingDays > 0 {
			allocation[len(route)-1] += remainingDays
			remainingDays = 0
		}
	}
}
