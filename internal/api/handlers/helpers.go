package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"roadtrip-planner/internal/api/dto"
	"roadtrip-planner/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "response encode failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func toCityResponse(c domain.City) dto.CityResponse {
	return dto.CityResponse{
		Name:       c.Name,
		Location:   dto.LatLngResponse{Lat: c.Location.Lat, Lng: c.Location.Lng},
		Population: c.Population,
		Country:    c.Country,
		Importance: c.Importance,
	}
}

func toPlanResponse(plan *domain.TripPlan) dto.TripPlanResponse {
	res := dto.TripPlanResponse{
		Cities:              make([]dto.CityResponse, 0, len(plan.Cities)),
		Segments:            make([]dto.SegmentResponse, 0, len(plan.Segments)),
		CityStays:           make([]dto.CityStayResponse, 0, len(plan.CityStays)),
		TotalDays:           plan.TotalDays,
		TotalDistanceMeters: plan.TotalDistanceMeters,
		TotalDrivingSeconds: plan.TotalDrivingSeconds,
		StartDate:           plan.StartDate,
		EndDate:             plan.EndDate,
	}

	for _, c := range plan.Cities {
		res.Cities = append(res.Cities, toCityResponse(c))
	}
	for _, s := range plan.Segments {
		res.Segments = append(res.Segments, dto.SegmentResponse{
			From:            toCityResponse(s.From),
			To:              toCityResponse(s.To),
			DistanceMeters:  s.DistanceMeters,
			DurationSeconds: s.DurationSeconds,
			Estimated:       s.Estimated(),
			Route:           s.ProviderRoute,
		})
	}
	for _, cs := range plan.CityStays {
		res.CityStays = append(res.CityStays, dto.CityStayResponse{
			City:     toCityResponse(cs.City),
			Days:     cs.Days,
			StartDay: cs.StartDay,
			EndDay:   cs.EndDay,
		})
	}

	return res
}
