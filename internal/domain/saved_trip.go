package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedTrip is a persisted trip plan with its storage metadata.
type SavedTrip struct {
	ID          uuid.UUID `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Plan        TripPlan  `json:"plan"`
	CreatedAt   time.Time `json:"created_at"`
}
