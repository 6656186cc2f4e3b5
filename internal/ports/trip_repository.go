package ports

import (
	"context"

	"github.com/google/uuid"

	"roadtrip-planner/internal/domain"
)

// Port: a boundary for persisting assembled trip plans.
type TripRepository interface {
	// SaveTripPlan stores a plan and returns its id.
	SaveTripPlan(ctx context.Context, origin, destination string, plan *domain.TripPlan) (uuid.UUID, error)
	// GetTripPlan retrieves a stored plan by id.
	GetTripPlan(ctx context.Context, id uuid.UUID) (*domain.SavedTrip, error)
	// ListTripPlans returns stored plans, newest first.
	ListTripPlans(ctx context.Context) ([]*domain.SavedTrip, error)
}
