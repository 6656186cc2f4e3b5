package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"roadtrip-planner/internal/domain"
	"roadtrip-planner/internal/geo"
	"roadtrip-planner/internal/platform/obs"
	"roadtrip-planner/internal/ports"
)

const (
	// roadDistanceFactor inflates straight-line distance to approximate
	// road distance when a leg must be estimated.
	roadDistanceFactor = 1.3

	// estimateSecondsPerKm converts estimated road km to driving seconds.
	estimateSecondsPerKm = 40

	// maxConcurrentLegs bounds the routing fan-out per segmentation run.
	maxConcurrentLegs = 4
)

// RouteSegmenter turns an ordered city route into concrete driving legs.
//
// Provider failures are recovered per leg by substituting a straight-line
// estimate; only cancellation aborts the whole segmentation.
type RouteSegmenter struct {
	logger   *slog.Logger
	provider ports.RoutingProvider
}

func NewRouteSegmenter(provider ports.RoutingProvider, logger *slog.Logger) *RouteSegmenter {
	return &RouteSegmenter{
		logger:   logger,
		provider: provider,
	}
}

// Segment returns one RouteSegment per adjacent city pair, in route order.
// Pairs are routed concurrently; results are reassembled by index.
//
// Returns domain.ErrInsufficientCities for routes shorter than 2 cities.
func (s *RouteSegmenter) Segment(ctx context.Context, route []domain.City) ([]domain.RouteSegment, error) {
	if len(route) < 2 {
		return nil, domain.ErrInsufficientCities
	}

	segments := make([]domain.RouteSegment, len(route)-1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLegs)

	for i := 0; i < len(route)-1; i++ {
		g.Go(func() error {
			seg, err := s.buildSegment(ctx, route[i], route[i+1], i)
			if err != nil {
				return err
			}
			segments[i] = seg
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return segments, nil
}

// buildSegment routes a single leg, degrading to an estimate on provider
// failure. Only context cancellation is propagated.
func (s *RouteSegmenter) buildSegment(ctx context.Context, from, to domain.City, index int) (domain.RouteSegment, error) {
	result, err := s.provider.Route(ctx, from.Location, to.Location)
	if err != nil {
		if ctx.Err() != nil {
			return domain.RouteSegment{}, ctx.Err()
		}

		estimatedKm := geo.HaversineKm(from.Location, to.Location) * roadDistanceFactor

		s.logger.WarnContext(ctx, "routing provider failed, using estimate",
			slog.String("from", from.Name),
			slog.String("to", to.Name),
			slog.Float64("estimated_km", estimatedKm),
			slog.Any("error", err),
		)
		obs.SegmentFallbacks.Inc()

		return domain.RouteSegment{
			From:            from,
			To:              to,
			DistanceMeters:  estimatedKm * 1000,
			DurationSeconds: estimatedKm * estimateSecondsPerKm,
			ProviderRoute:   nil,
			SegmentIndex:    index,
		}, nil
	}

	return domain.RouteSegment{
		From:            from,
		To:              to,
		DistanceMeters:  result.DistanceMeters,
		DurationSeconds: result.DurationSeconds,
		ProviderRoute:   result.Payload,
		SegmentIndex:    index,
	}, nil
}
