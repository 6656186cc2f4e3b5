package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/platform/obs"
)

// PGTripRepository persists assembled trip plans as JSONB rows.
type PGTripRepository struct {
	DB *sql.DB
}

func NewPGTripRepository(db *sql.DB) *PGTripRepository {
	return &PGTripRepository{DB: db}
}

// SaveTripPlan stores a plan and returns its id.
func (r *PGTripRepository) SaveTripPlan(
	ctx context.Context,
	origin, destination string,
	plan *domain.TripPlan,
) (_ uuid.UUID, err error) {
	defer obs.Time(ctx, "trips.repo.Save")(&err)

	if r.DB == nil {
		return uuid.Nil, errors.New("trip repository: db is nil")
	}
	if plan == nil {
		return uuid.Nil, errors.New("trip repository: plan is nil")
	}

	encoded, err := json.Marshal(plan)
	if err != nil {
		return uuid.Nil, fmt.Errorf("save trip: encode plan: %w", err)
	}

	id := uuid.New()

	q := `
	INSERT INTO trips (id, origin, destination, plan)
    VALUES ($1, $2, $3, $4);
	`

	if _, err := r.DB.ExecContext(ctx, q, id, origin, destination, encoded); err != nil {
		return uuid.Nil, fmt.Errorf("save trip: insert trips table: %w", err)
	}

	return id, nil
}

// GetTripPlan retrieves a stored plan by id.
func (r *PGTripRepository) GetTripPlan(ctx context.Context, id uuid.UUID) (_ *domain.SavedTrip, err error) {
	defer obs.Time(ctx, "trips.repo.Get")(&err)

	if r.DB == nil {
		return nil, errors.New("trip repository: db is nil")
	}

	q := `
	SELECT id, origin, destination, plan, created_at
    FROM trips
    WHERE id = $1;
	`

	var (
		trip    domain.SavedTrip
		encoded []byte
	)
	err = r.DB.QueryRowContext(ctx, q, id).Scan(
		&trip.ID, &trip.Origin, &trip.Destination, &encoded, &trip.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trip: query trips table: %w", err)
	}

	if err := json.Unmarshal(encoded, &trip.Plan); err != nil {
		return nil, fmt.Errorf("get trip: decode plan: %w", err)
	}

	return &trip, nil
}

// ListTripPlans returns stored plans, newest first.
func (r *PGTripRepository) ListTripPlans(ctx context.Context) (_ []*domain.SavedTrip, err error) {
	defer obs.Time(ctx, "trips.repo.List")(&err)

	if r.DB == nil {
		return nil, errors.New("trip repository: db is nil")
	}

	q := `
	SELECT id, origin, destination, plan, created_at
    FROM trips
    ORDER BY created_at DESC
    LIMIT 100;
	`

	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.SavedTrip, 0)
	for rows.Next() {
		var (
			trip    domain.SavedTrip
			encoded []byte
		)
		if err := rows.Scan(&trip.ID, &trip.Origin, &trip.Destination, &encoded, &trip.CreatedAt); err != nil {
			return nil, fmt.Errorf("list trips: scan rows: %w", err)
		}
		if err := json.Unmarshal(encoded, &trip.Plan); err != nil {
			return nil, fmt.Errorf("list trips: decode plan: %w", err)
		}
		out = append(out, &trip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: iterate rows: %w", err)
	}

	return out, nil
}
