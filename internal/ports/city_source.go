package ports

import (
	"context"

	"roadtrip-planner/internal/domain"
)

// Port: a boundary for fetching the raw candidate city set from an external
// dataset. Implementations return cities unscored (Importance == 0).
type CitySource interface {
	// FetchCities returns all cities matching the source's population and
	// region constraints.
	FetchCities(ctx context.Context) ([]domain.City, error)
}
