package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/geo"
	"roadtrip-planner/internal/platform/obs"
	"roadtrip-planner/internal/ports"
)

const (
	catalogCacheKey = "cities:all"

	// placesSearchRadiusMeters is the radius used for supplementary locality
	// searches around corridor sample points.
	placesSearchRadiusMeters = 100_000
)

// CityCatalog supplies the candidate city set for planning runs.
//
// The primary source is the external city dataset, fetched once and cached
// for the lifetime of the catalog. A places-search provider may supplement
// it; failure of one source does not fail the catalog as long as the other
// delivers.
type CityCatalog struct {
	logger *slog.Logger
	source ports.CitySource
	places ports.PlacesProvider

	cache *gocache.Cache
	group singleflight.Group
}

// NewCityCatalog builds a catalog over the given dataset source. The places
// provider is optional; pass nil to disable supplementary searches.
func NewCityCatalog(source ports.CitySource, places ports.PlacesProvider, logger *slog.Logger) *CityCatalog {
	return &CityCatalog{
		logger: logger,
		source: source,
		places: places,
		cache:  gocache.New(gocache.NoExpiration, 0),
	}
}

// Cities returns the full dataset city set, unscored. The first successful
// fetch populates the cache; concurrent first-time callers share a single
// in-flight fetch.
func (c *CityCatalog) Cities(ctx context.Context) ([]domain.City, error) {
	if v, ok := c.cache.Get(catalogCacheKey); ok {
		return v.([]domain.City), nil
	}

	v, err, _ := c.group.Do(catalogCacheKey, func() (any, error) {
		cities, err := c.source.FetchCities(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch cities: %w", err)
		}

		c.cache.Set(catalogCacheKey, cities, gocache.NoExpiration)
		obs.CatalogSize.Set(float64(len(cities)))

		return cities, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.City), nil
}

// CitiesNear returns the candidate set for a corridor, merging the dataset
// with supplementary locality searches around the given sample points.
// Duplicates are dropped by case-insensitive name, first seen wins; dataset
// entries take precedence over places results.
//
// Returns domain.ErrCatalogUnavailable only when every source failed.
func (c *CityCatalog) CitiesNear(ctx context.Context, samples []domain.LatLng) ([]domain.City, error) {
	merged := make([]domain.City, 0, 512)

	datasetErr := error(nil)
	cities, err := c.Cities(ctx)
	if err != nil {
		datasetErr = err
		c.logger.WarnContext(ctx, "city dataset unavailable, continuing with other sources",
			slog.Any("error", err))
	} else {
		merged = append(merged, cities...)
	}

	placesOK := false
	if c.places != nil {
		found := c.searchSamples(ctx, samples)
		if found != nil {
			placesOK = true
			merged = append(merged, found...)
		}
	}

	if datasetErr != nil && !placesOK {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, datasetErr)
	}

	return dedupeByName(merged), nil
}

// AlternativesNear returns catalog cities within maxDistanceKm of a current
// stop, scored and sorted so that important cities rank above merely close
// ones (importance minus half the distance in km).
func (c *CityCatalog) AlternativesNear(ctx context.Context, current domain.City, maxDistanceKm float64) ([]domain.City, error) {
	cities, err := c.Cities(ctx)
	if err != nil {
		if c.places == nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
		cities = nil
	}

	alternatives := make([]domain.City, 0)
	for _, city := range cities {
		if equalFoldName(city.Name, current.Name) {
			continue
		}
		if geo.HaversineKm(current.Location, city.Location) <= maxDistanceKm {
			alternatives = append(alternatives, city)
		}
	}

	if c.places != nil {
		found := c.searchSamples(ctx, []domain.LatLng{current.Location})
		alternatives = append(alternatives, found...)
	}

	alternatives = dedupeByName(alternatives)

	for i := range alternatives {
		alternatives[i].Importance = CalculateImportance(alternatives[i])
	}

	sort.SliceStable(alternatives, func(i, j int) bool {
		di := geo.HaversineKm(current.Location, alternatives[i].Location)
		dj := geo.HaversineKm(current.Location, alternatives[j].Location)
		return float64(alternatives[i].Importance)-di*0.5 > float64(alternatives[j].Importance)-dj*0.5
	})

	return alternatives, nil
}

// searchSamples queries the places provider around each sample point
// concurrently. Individual failures are logged and skipped; the return is
// nil when every search failed.
func (c *CityCatalog) searchSamples(ctx context.Context, samples []domain.LatLng) []domain.City {
	results := make([][]ports.Locality, len(samples))
	failures := make([]error, len(samples))

	var wg sync.WaitGroup
	for i, sample := range samples {
		wg.Add(1)
		go func(i int, sample domain.LatLng) {
			defer wg.Done()
			localities, err := c.places.NearbyLocalities(ctx, sample, placesSearchRadiusMeters)
			if err != nil {
				failures[i] = err
				return
			}
			results[i] = localities
		}(i, sample)
	}
	wg.Wait()

	anyOK := false
	out := make([]domain.City, 0)
	for i := range samples {
		if failures[i] != nil {
			c.logger.WarnContext(ctx, "places search failed for sample point",
				slog.Int("sample", i), slog.Any("error", failures[i]))
			continue
		}
		anyOK = true
		for _, l := range results[i] {
			out = append(out, domain.City{
				Name:     l.Name,
				Location: l.Location,
			})
		}
	}

	if !anyOK {
		return nil
	}
	return out
}

func dedupeByName(cities []domain.City) []domain.City {
	seen := make(map[string]struct{}, len(cities))
	out := make([]domain.City, 0, len(cities))
	for _, city := range cities {
		key := foldName(city.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, city)
	}
	return out
}
