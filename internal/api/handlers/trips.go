package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"roadtrip-planner/internal/api/dto"
	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/ports"
	"roadtrip-planner/internal/services"
)

// TripHandler plans and persists trips.
type TripHandler struct {
	Planner *services.TripPlanner
	Repo    ports.TripRepository
}

// Collection dispatches /trips: POST plans and stores a trip, GET lists
// stored trips newest first.
func (h *TripHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *TripHandler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePlanRequest(w, r)
	if !ok {
		return
	}

	plan, err := h.Planner.PlanTrip(r.Context(), req)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	id, err := h.Repo.SaveTripPlan(r.Context(), req.Origin, req.Destination, &plan)
	if err != nil {
		slog.ErrorContext(r.Context(), "save trip failed", slog.Any("error", err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.SavedTripResponse{
		ID:          id.String(),
		Origin:      req.Origin,
		Destination: req.Destination,
		Plan:        toPlanResponse(&plan),
	})
}

func (h *TripHandler) list(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Repo.ListTripPlans(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "list trips failed", slog.Any("error", err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListTripsResponse{Trips: make([]dto.SavedTripResponse, 0, len(trips))}
	for _, t := range trips {
		res.Trips = append(res.Trips, toSavedTripResponse(t))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Get serves /trips/{id}.
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/trips/")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid trip id")
		return
	}

	trip, err := h.Repo.GetTripPlan(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTripNotFound) {
			writeError(w, r, http.StatusNotFound, "trip not found")
			return
		}
		slog.ErrorContext(r.Context(), "get trip failed", slog.Any("error", err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toSavedTripResponse(trip))
}

func toSavedTripResponse(t *domain.SavedTrip) dto.SavedTripResponse {
	return dto.SavedTripResponse{
		ID:          t.ID.String(),
		Origin:      t.Origin,
		Destination: t.Destination,
		Plan:        toPlanResponse(&t.Plan),
		CreatedAt:   t.CreatedAt,
	}
}
