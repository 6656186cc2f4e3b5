package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/platform/obs"
	"roadtrip-planner/internal/ports"
)

// PlanRequest is the input to a full planning run. Dates are inclusive on
// both ends.
type PlanRequest struct {
	Origin      string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
}

// TripPlanner runs the full planning pipeline: geocode both endpoints,
// discover corridor cities, build the route, allocate days, segment into
// driving legs and assemble the totals.
type TripPlanner struct {
	logger    *slog.Logger
	geocoder  ports.Geocoder
	discovery *CorridorDiscovery
	builder   *RouteBuilder
	allocator *DayAllocator
	segmenter *RouteSegmenter
}

func NewTripPlanner(
	geocoder ports.Geocoder,
	discovery *CorridorDiscovery,
	builder *RouteBuilder,
	allocator *DayAllocator,
	segmenter *RouteSegmenter,
	logger *slog.Logger,
) *TripPlanner {
	return &TripPlanner{
		logger:    logger,
		geocoder:  geocoder,
		discovery: discovery,
		builder:   builder,
		allocator: allocator,
		segmenter: segmenter,
	}
}

// PlanTrip produces a complete TripPlan or a *domain.PlanningError naming
// the stage that failed. There is no partial output.
func (p *TripPlanner) PlanTrip(ctx context.Context, req PlanRequest) (plan domain.TripPlan, err error) {
	ctx, span := otel.Tracer("TripPlanner").Start(ctx, "PlanTrip")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
	}()

	timer := prometheus.NewTimer(obs.PlanDuration)
	defer timer.ObserveDuration()

	if err = validatePlanRequest(req); err != nil {
		return domain.TripPlan{}, err
	}

	totalDays := tripDurationDays(req.StartDate, req.EndDate)
	span.SetAttributes(
		attribute.String("trip.origin", req.Origin),
		attribute.String("trip.destination", req.Destination),
		attribute.Int("trip.total_days", totalDays),
	)

	originLoc, err := p.geocoder.Geocode(ctx, req.Origin)
	if err != nil {
		return domain.TripPlan{}, &domain.PlanningError{Stage: domain.StageGeocoding, Err: err}
	}
	destLoc, err := p.geocoder.Geocode(ctx, req.Destination)
	if err != nil {
		return domain.TripPlan{}, &domain.PlanningError{Stage: domain.StageGeocoding, Err: err}
	}

	if err = ctx.Err(); err != nil {
		return domain.TripPlan{}, err
	}

	start := domain.City{
		Name:     ExtractCityName(req.Origin),
		Location: originLoc,
	}
	end := domain.City{
		Name:       ExtractCityName(req.Destination),
		Location:   destLoc,
		Importance: DestinationImportance,
	}

	candidates, err := p.discovery.Discover(ctx, originLoc, destLoc)
	if err != nil {
		return domain.TripPlan{}, &domain.PlanningError{Stage: domain.StageDiscovery, Err: err}
	}

	if err = ctx.Err(); err != nil {
		return domain.TripPlan{}, err
	}

	route := p.builder.BuildRoute(start, end, candidates)

	stays, err := p.allocator.AllocateDays(route, totalDays)
	if err != nil {
		return domain.TripPlan{}, &domain.PlanningError{Stage: domain.StageDayAllocate, Err: err}
	}

	if err = ctx.Err(); err != nil {
		return domain.TripPlan{}, err
	}

	segments, err := p.segmenter.Segment(ctx, route)
	if err != nil {
		return domain.TripPlan{}, &domain.PlanningError{Stage: domain.StageSegmentation, Err: err}
	}

	var totalDistance, totalDriving float64
	for _, seg := range segments {
		totalDistance += seg.DistanceMeters
		totalDriving += seg.DurationSeconds
	}

	p.logger.InfoContext(ctx, "trip planned",
		slog.String("origin", start.Name),
		slog.String("destination", end.Name),
		slog.Int("cities", len(route)),
		slog.Int("total_days", totalDays),
		slog.Float64("total_km", totalDistance/1000),
	)

	return domain.TripPlan{
		Cities:              route,
		Segments:            segments,
		CityStays:           stays,
		TotalDays:           totalDays,
		TotalDistanceMeters: totalDistance,
		TotalDrivingSeconds: totalDriving,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
	}, nil
}

func validatePlanRequest(req PlanRequest) error {
	if strings.TrimSpace(req.Origin) == "" {
		return errors.New("origin is required")
	}
	if strings.TrimSpace(req.Destination) == "" {
		return errors.New("destination is required")
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("end date %s before start date %s",
			req.EndDate.Format(time.DateOnly), req.StartDate.Format(time.DateOnly))
	}
	return nil
}

// tripDurationDays counts inclusive trip days: both the start and end date
// are travel days, so a same-day trip is 1 day.
func tripDurationDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	return int(math.Ceil(hours/24)) + 1
}

// postalCityPattern strips a leading 4-5 digit postal code from a segment
// like "75004 Paris".
var postalCityPattern = regexp.MustCompile(`^\d{4,5}\s+(.+)$`)

// streetKeywords mark a comma segment as a street line rather than a city.
var streetKeywords = []string{"rue", "street", "avenue", "boulevard", "place", "ul"}

// ExtractCityName pulls a city name out of a free-form address. Plain
// "City, Country" inputs resolve to the first comma segment; when that
// segment is a street line (house number or street keyword), the city is the
// following segment with any leading postal code stripped:
// "31 Rue de Rivoli, 75004 Paris, France" -> "Paris".
func ExtractCityName(address string) string {
	segs := make([]string, 0, 4)
	for _, p := range strings.Split(address, ",") {
		if s := strings.TrimSpace(p); s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return strings.TrimSpace(address)
	}

	if len(segs) == 1 || !looksLikeStreet(segs[0]) {
		return segs[0]
	}

	if m := postalCityPattern.FindStringSubmatch(segs[1]); m != nil {
		return m[1]
	}
	if !containsDigit(segs[1]) {
		return segs[1]
	}
	// Second segment is numeric-only (a bare postal code); use the next one.
	if len(segs) > 2 {
		return segs[2]
	}
	return segs[1]
}

func looksLikeStreet(seg string) bool {
	if containsDigit(seg) {
		return true
	}
	for _, field := range strings.Fields(seg) {
		token := strings.ToLower(strings.Trim(field, "."))
		for _, kw := range streetKeywords {
			if token == kw {
				return true
			}
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
