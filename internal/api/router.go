package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"roadtrip-planner/internal/api/handlers"
	"roadtrip-planner/internal/ports"
	"roadtrip-planner/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root; handlers stay unaware of
// concrete adapters.
func NewRouter(planner *services.TripPlanner, trips ports.TripRepository) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{Planner: planner}
	tripHandler := &handlers.TripHandler{Planner: planner, Repo: trips}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/trips", tripHandler.Collection)
	mux.HandleFunc("/trips/", tripHandler.Get)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	return c.Handler(requestIDMiddleware(loggingMiddleware(mux)))
}
