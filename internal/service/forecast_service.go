package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/teerapatch/beankiosk/backend-go/internal/analytics"
	"github.com/teerapatch/beankiosk/backend-go/internal/cache"
	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
	"github.com/teerapatch/beankiosk/backend-go/internal/repository"
)

const holidayCountry = "TH"

type ForecastService struct {
	orders   repository.OrderEventRepository
	holidays repository.HolidayRepository
	cache    cache.ForecastCache
	now      func() time.Time
}

func NewForecastService(orders repository.OrderEventRepository, holidays repository.HolidayRepository, cacheImpl cache.ForecastCache) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &ForecastService{
		orders:   orders,
		holidays: holidays,
		cache:    cacheImpl,
		now:      time.Now,
	}
}

// GetForecast projects demand for the next seven days, optionally narrowed to
// one product and one province.
func (s *ForecastService) GetForecast(ctx context.Context, product, province string) (*domain.ForecastResult, error) {
	now := s.now()
	day := now.In(analytics.Bangkok).Format("2006-01-02")

	if result, ok, err := s.cache.GetForecast(ctx, product, province, day); err == nil && ok {
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get failed")
	}

	events, err := s.orders.FetchEvents(ctx, nil)
	if err != nil {
		return nil, err
	}

	holidays, err := s.holidays.GetHolidays(ctx, holidayCountry, holidayYears(now))
	if err != nil {
		// Calendar adjustments degrade gracefully when the holiday table is
		// unreachable; baselines still work.
		log.Warn().Err(err).Msg("forecast: holiday lookup failed")
		holidays = domain.HolidayMap{}
	}

	result := analytics.Forecast(events, product, province, holidays, now)

	if err := s.cache.SetForecast(ctx, product, province, day, &result); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set failed")
	}

	return &result, nil
}

// holidayYears covers the trailing baseline window and the projection window,
// both of which can straddle a year boundary.
func holidayYears(now time.Time) []int {
	return []int{now.Year() - 1, now.Year(), now.Year() + 1}
}
