package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"roadtrip-planner/internal/api/dto"
	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/services"
)

// PlanHandler runs one-shot planning without persistence.
type PlanHandler struct {
	Planner *services.TripPlanner
}

// Plan computes a trip plan for the requested endpoints and dates and
// returns it without storing anything.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, ok := decodePlanRequest(w, r)
	if !ok {
		return
	}

	plan, err := h.Planner.PlanTrip(r.Context(), req)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(&plan))
}

// decodePlanRequest decodes and validates the shared planning payload,
// writing the error response itself on failure.
func decodePlanRequest(w http.ResponseWriter, r *http.Request) (services.PlanRequest, bool) {
	var body dto.PlanTripRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return services.PlanRequest{}, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return services.PlanRequest{}, false
	}

	if strings.TrimSpace(body.Origin) == "" {
		writeError(w, r, http.StatusBadRequest, "origin is required")
		return services.PlanRequest{}, false
	}
	if strings.TrimSpace(body.Destination) == "" {
		writeError(w, r, http.StatusBadRequest, "destination is required")
		return services.PlanRequest{}, false
	}

	start, err := time.Parse(time.DateOnly, body.StartDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return services.PlanRequest{}, false
	}
	end, err := time.Parse(time.DateOnly, body.EndDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return services.PlanRequest{}, false
	}
	if end.Before(start) {
		writeError(w, r, http.StatusBadRequest, "end_date must not be before start_date")
		return services.PlanRequest{}, false
	}

	return services.PlanRequest{
		Origin:      body.Origin,
		Destination: body.Destination,
		StartDate:   start,
		EndDate:     end,
	}, true
}

// writePlanError maps pipeline failures to HTTP statuses: unresolvable
// addresses are the caller's problem, unavailable upstream data is not.
func writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	var geoErr *domain.GeocodeError
	if errors.As(err, &geoErr) {
		writeError(w, r, http.StatusUnprocessableEntity, "could not geocode "+geoErr.Address)
		return
	}

	if errors.Is(err, domain.ErrCatalogUnavailable) {
		writeError(w, r, http.StatusServiceUnavailable, "city data temporarily unavailable")
		return
	}

	slog.ErrorContext(r.Context(), "trip planning failed", slog.Any("error", err))
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
