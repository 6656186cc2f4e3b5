// Package opendatasoft fetches the candidate city set from the OpenDataSoft
// GeoNames dataset (all cities with a population over 1000).
package opendatasoft

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/platform/obs"
)

const (
	defaultBaseURL = "https://data.opendatasoft.com/api/explore/v2.1"
	dataset        = "geonames-all-cities-with-a-population-1000@public"

	// pageSize is the dataset's maximum page size; pagination stops as soon
	// as a page comes back short.
	pageSize = 100

	// maxOffset bounds pagination so a misbehaving dataset cannot stall a
	// planning run indefinitely.
	maxOffset = 1000

	// minPopulation filters out towns too small to be trip stops.
	minPopulation = 100000
)

// Client pages through the dataset with a polite request rate.
// It implements ports.CitySource.
type Client struct {
	session        *http.Client
	apiKey         string
	baseURL        string
	timezonePrefix string
	limiter        *rate.Limiter
	logger         *slog.Logger
}

// NewClient builds a dataset client constrained to the region whose IANA
// timezones start with timezonePrefix (e.g. "Europe/"). The API key is
// optional; anonymous access is rate limited harder by the service.
func NewClient(apiKey, timezonePrefix string, logger *slog.Logger) *Client {
	if timezonePrefix == "" {
		timezonePrefix = "Europe/"
	}

	return &Client{
		session:        &http.Client{Timeout: 15 * time.Second},
		apiKey:         apiKey,
		baseURL:        defaultBaseURL,
		timezonePrefix: timezonePrefix,
		limiter:        rate.NewLimiter(rate.Limit(5), 1),
		logger:         logger,
	}
}

type record struct {
	Name        string `json:"name"`
	ASCIIName   string `json:"ascii_name"`
	Coordinates *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coordinates"`
	Population int    `json:"population"`
	CouNameEn  string `json:"cou_name_en"`
}

type recordsResponse struct {
	Results []record `json:"results"`
}

// FetchCities pages through the dataset and returns all cities above the
// population threshold inside the configured region, unscored.
func (c *Client) FetchCities(ctx context.Context) (_ []domain.City, err error) {
	defer obs.Time(ctx, "opendatasoft.FetchCities")(&err)

	all := make([]domain.City, 0, maxOffset)

	for offset := 0; offset < maxOffset; offset += pageSize {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch cities page offset=%d: %w", offset, err)
		}

		for _, r := range page {
			city, ok := toCity(r)
			if ok {
				all = append(all, city)
			}
		}

		if len(page) < pageSize {
			break
		}
	}

	c.logger.InfoContext(ctx, "fetched dataset cities",
		slog.Int("count", len(all)),
		slog.String("region", c.timezonePrefix),
	)

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, offset int) ([]record, error) {
	endpoint := fmt.Sprintf("%s/catalog/datasets/%s/records", c.baseURL, dataset)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("select", "name,ascii_name,coordinates,population,cou_name_en")
	q.Set("where", fmt.Sprintf("population >= %d AND timezone LIKE '%s%%'", minPopulation, c.timezonePrefix))
	q.Set("order_by", "population DESC")
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("offset", strconv.Itoa(offset))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Apikey "+c.apiKey)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		obs.ExternalRequests.WithLabelValues("opendatasoft", "records", "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	obs.ExternalRequests.WithLabelValues("opendatasoft", "records", strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var decoded recordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode records response: %w", err)
	}

	return decoded.Results, nil
}

func toCity(r record) (domain.City, bool) {
	name := r.Name
	if name == "" {
		name = r.ASCIIName
	}

	if name == "" || r.Coordinates == nil || r.Population < minPopulation {
		return domain.City{}, false
	}

	return domain.City{
		Name: name,
		Location: domain.LatLng{
			Lat: r.Coordinates.Lat,
			Lng: r.Coordinates.Lon,
		},
		Population: r.Population,
		Country:    r.CouNameEn,
	}, true
}
