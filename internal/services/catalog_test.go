package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadtrip-planner/internal/adapters/static"
	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/ports"
)

type countingSource struct {
	inner ports.CitySource
	calls int
}

func (c *countingSource) FetchCities(ctx context.Context) ([]domain.City, error) {
	c.calls++
	return c.inner.FetchCities(ctx)
}

func TestCatalogCachesDataset(t *testing.T) {
	source := &countingSource{inner: static.NewCitySource([]domain.City{stuttgart, strasbourg})}
	catalog := NewCityCatalog(source, nil, testLogger())

	for i := 0; i < 3; i++ {
		cities, err := catalog.Cities(context.Background())
		require.NoError(t, err)
		require.Len(t, cities, 2)
	}

	assert.Equal(t, 1, source.calls, "dataset fetched more than once")
}

func TestCatalogFailureNotCached(t *testing.T) {
	boom := errors.New("dataset down")
	source := &countingSource{inner: static.NewFailingCitySource(boom)}
	catalog := NewCityCatalog(source, nil, testLogger())

	_, err := catalog.Cities(context.Background())
	require.Error(t, err)

	// A failed fetch must not poison the cache; the next call retries.
	_, err = catalog.Cities(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCitiesNearMergesPlaces(t *testing.T) {
	source := static.NewCitySource([]domain.City{stuttgart})
	places := static.NewPlacesProvider([]ports.Locality{
		{Name: "Nancy", Location: nancy.Location},
		{Name: "Stuttgart", Location: stuttgart.Location}, // duplicate of dataset entry
	})
	catalog := NewCityCatalog(source, places, testLogger())

	cities, err := catalog.CitiesNear(context.Background(), []domain.LatLng{nancy.Location, stuttgart.Location})
	require.NoError(t, err)

	names := make([]string, 0, len(cities))
	for _, c := range cities {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"Stuttgart", "Nancy"}, names)
}

func TestCitiesNearSurvivesDatasetFailure(t *testing.T) {
	source := static.NewFailingCitySource(errors.New("dataset down"))
	places := static.NewPlacesProvider([]ports.Locality{
		{Name: "Nancy", Location: nancy.Location},
	})
	catalog := NewCityCatalog(source, places, testLogger())

	cities, err := catalog.CitiesNear(context.Background(), []domain.LatLng{nancy.Location})
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Nancy", cities[0].Name)
}

func TestCitiesNearAllSourcesDown(t *testing.T) {
	source := static.NewFailingCitySource(errors.New("dataset down"))
	catalog := NewCityCatalog(source, nil, testLogger())

	_, err := catalog.CitiesNear(context.Background(), []domain.LatLng{nancy.Location})
	require.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestAlternativesNearScoredByImportanceAndDistance(t *testing.T) {
	far := domain.City{Name: "Lyon", Location: domain.LatLng{Lat: 45.7640, Lng: 4.8357}, Population: 520_000}
	near := domain.City{Name: "Troyes", Location: domain.LatLng{Lat: 48.2973, Lng: 4.0744}, Population: 60_000}

	source := static.NewCitySource([]domain.City{far, near, paris})
	catalog := NewCityCatalog(source, nil, testLogger())

	alts, err := catalog.AlternativesNear(context.Background(), reims, 500)
	require.NoError(t, err)
	require.NotEmpty(t, alts)

	// Paris (tourist + capital megacity) dominates despite not being closest.
	assert.Equal(t, "Paris", alts[0].Name)

	// Current city is never its own alternative.
	for _, a := range alts {
		assert.NotEqual(t, "Reims", a.Name)
	}
}
