package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/teerapatch/beankiosk/backend-go/internal/analytics"
	"github.com/teerapatch/beankiosk/backend-go/internal/cache"
	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
	"github.com/teerapatch/beankiosk/backend-go/internal/repository"
)

// ComparisonDeltas carries the headline KPI movements between two periods.
type ComparisonDeltas struct {
	Orders        analytics.KPIDelta `json:"orders"`
	Sales         analytics.KPIDelta `json:"sales"`
	Units         analytics.KPIDelta `json:"units"`
	AvgOrderValue analytics.KPIDelta `json:"avg_order_value"`
}

type ComparisonResult struct {
	Current  *domain.Snapshot `json:"current"`
	Previous *domain.Snapshot `json:"previous,omitempty"`
	Deltas   ComparisonDeltas `json:"deltas"`
}

type AnalyticsService struct {
	orders repository.OrderEventRepository
	cache  cache.SnapshotCache
}

func NewAnalyticsService(orders repository.OrderEventRepository, cacheImpl cache.SnapshotCache) *AnalyticsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSnapshotCache()
	}
	return &AnalyticsService{orders: orders, cache: cacheImpl}
}

// GetSnapshot returns the aggregated view set for a date range, serving from
// cache when a fresh entry exists.
func (s *AnalyticsService) GetSnapshot(ctx context.Context, dateRange *domain.DateRange) (*domain.Snapshot, error) {
	if snapshot, ok, err := s.cache.GetSnapshot(ctx, dateRange); err == nil && ok {
		return snapshot, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analytics: cache get snapshot failed")
	}

	events, err := s.orders.FetchEvents(ctx, dateRange)
	if err != nil {
		return nil, err
	}

	filtered := analytics.FilterByRange(events, dateRange)
	snapshot := analytics.Aggregate(filtered, dateRange)

	if err := s.cache.SetSnapshot(ctx, dateRange, &snapshot); err != nil {
		log.Warn().Err(err).Msg("analytics: cache set snapshot failed")
	}

	return &snapshot, nil
}

// Compare aggregates the requested range and the immediately preceding range
// of equal length, and flags the headline KPI movements between the two.
func (s *AnalyticsService) Compare(ctx context.Context, dateRange *domain.DateRange) (*ComparisonResult, error) {
	current, err := s.GetSnapshot(ctx, dateRange)
	if err != nil {
		return nil, err
	}

	result := &ComparisonResult{Current: current}

	prevRange := analytics.PreviousPeriod(dateRange)
	if prevRange == nil {
		result.Deltas = comparisonDeltas(current, nil)
		return result, nil
	}

	previous, err := s.GetSnapshot(ctx, prevRange)
	if err != nil {
		return nil, err
	}

	result.Previous = previous
	result.Deltas = comparisonDeltas(current, previous)
	return result, nil
}

// Provinces returns the canonical province names geographic views bucket into.
func (s *AnalyticsService) Provinces(ctx context.Context) []string {
	return analytics.ProvinceNames()
}

// InvalidateCache drops all cached snapshots, used after ingesting new events.
func (s *AnalyticsService) InvalidateCache(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("analytics: cache invalidation failed")
	}
}

func comparisonDeltas(current, previous *domain.Snapshot) ComparisonDeltas {
	return ComparisonDeltas{
		Orders:        kpiDelta(current, previous, func(s *domain.Snapshot) float64 { return float64(s.TotalOrders) }),
		Sales:         kpiDelta(current, previous, func(s *domain.Snapshot) float64 { return s.TotalSales }),
		Units:         kpiDelta(current, previous, func(s *domain.Snapshot) float64 { return float64(s.TotalUnits) }),
		AvgOrderValue: kpiDelta(current, previous, func(s *domain.Snapshot) float64 { return s.AvgOrderValue }),
	}
}

func kpiDelta(current, previous *domain.Snapshot, pick func(*domain.Snapshot) float64) analytics.KPIDelta {
	var cur, prev *float64
	if current != nil {
		v := pick(current)
		cur = &v
	}
	if previous != nil {
		v := pick(previous)
		prev = &v
	}
	return analytics.KPIFlag(cur, prev)
}
