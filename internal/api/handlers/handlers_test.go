package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip-planner/internal/adapters/static"
	"roadtrip-planner/internal/api/dto"
	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/services"
)

// memTripRepository keeps saved trips in memory for handler tests.
type memTripRepository struct {
	mu    sync.Mutex
	trips map[uuid.UUID]*domain.SavedTrip
	order []uuid.UUID
}

func newMemTripRepository() *memTripRepository {
	return &memTripRepository{trips: map[uuid.UUID]*domain.SavedTrip{}}
}

func (m *memTripRepository) SaveTripPlan(ctx context.Context, origin, destination string, plan *domain.TripPlan) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.trips[id] = &domain.SavedTrip{
		ID: id, Origin: origin, Destination: destination,
		Plan: *plan, CreatedAt: time.Now(),
	}
	m.order = append(m.order, id)
	return id, nil
}

func (m *memTripRepository) GetTripPlan(ctx context.Context, id uuid.UUID) (*domain.SavedTrip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.trips[id]
	if !ok {
		return nil, domain.ErrTripNotFound
	}
	return t, nil
}

func (m *memTripRepository) ListTripPlans(ctx context.Context) ([]*domain.SavedTrip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.SavedTrip, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.trips[m.order[i]])
	}
	return out, nil
}

func newTestPlanner() *services.TripPlanner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	geocoder := static.NewGeocoder(map[string]domain.LatLng{
		"munich": {Lat: 48.1374, Lng: 11.5755},
		"paris":  {Lat: 48.8566, Lng: 2.3522},
	})
	catalog := services.NewCityCatalog(static.NewCitySource(nil), nil, logger)

	return services.NewTripPlanner(
		geocoder,
		services.NewCorridorDiscovery(catalog, logger),
		services.NewRouteBuilder(logger),
		services.NewDayAllocator(logger),
		services.NewRouteSegmenter(static.NewRoutingProvider(nil), logger),
		logger,
	)
}

func planBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(dto.PlanTripRequest{
		Origin:      "Munich, Germany",
		Destination: "Paris, France",
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-05",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func TestPlanHandler(t *testing.T) {
	h := &PlanHandler{Planner: newTestPlanner()}

	req := httptest.NewRequest(http.MethodPost, "/plans", planBody(t))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.TripPlanResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 5, res.TotalDays)
	require.Len(t, res.Cities, 2)
	assert.Equal(t, "Munich", res.Cities[0].Name)
	assert.Equal(t, "Paris", res.Cities[1].Name)
}

func TestPlanHandlerRejectsBadDates(t *testing.T) {
	h := &PlanHandler{Planner: newTestPlanner()}

	body, _ := json.Marshal(dto.PlanTripRequest{
		Origin: "Munich", Destination: "Paris",
		StartDate: "June 1st", EndDate: "2026-06-05",
	})
	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanHandlerGeocodeFailure(t *testing.T) {
	h := &PlanHandler{Planner: newTestPlanner()}

	body, _ := json.Marshal(dto.PlanTripRequest{
		Origin: "Atlantis", Destination: "Paris",
		StartDate: "2026-06-01", EndDate: "2026-06-05",
	})
	req := httptest.NewRequest(http.MethodPost, "/plans", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPlanHandlerMethodNotAllowed(t *testing.T) {
	h := &PlanHandler{Planner: newTestPlanner()}

	req := httptest.NewRequest(http.MethodGet, "/plans", nil)
	rec := httptest.NewRecorder()
	h.Plan(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestTripHandlerCreateGetList(t *testing.T) {
	repo := newMemTripRepository()
	h := &TripHandler{Planner: newTestPlanner(), Repo: repo}

	// Create.
	rec := httptest.NewRecorder()
	h.Collection(rec, httptest.NewRequest(http.MethodPost, "/trips", planBody(t)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created dto.SavedTripResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "Munich, Germany", created.Origin)
	require.NotEmpty(t, created.ID)

	// Get.
	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/trips/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched dto.SavedTripResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, 5, fetched.Plan.TotalDays)

	// List.
	rec = httptest.NewRecorder()
	h.Collection(rec, httptest.NewRequest(http.MethodGet, "/trips", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list dto.ListTripsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Trips, 1)
	assert.Equal(t, created.ID, list.Trips[0].ID)
}

func TestTripHandlerGetNotFound(t *testing.T) {
	h := &TripHandler{Planner: newTestPlanner(), Repo: newMemTripRepository()}

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTripHandlerGetBadID(t *testing.T) {
	h := &TripHandler{Planner: newTestPlanner(), Repo: newMemTripRepository()}

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/trips/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}
