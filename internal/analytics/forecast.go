package analytics

import (
	"math"
	"time"

	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
)

// FilterAll is the sentinel meaning "no product/province filter".
const FilterAll = "all"

const (
	baselineWindowDays = 56 // trailing 8 weeks

	holidayFactor = 0.2
	bridgeFactor  = 0.6
	paydayFactor  = 1.2

	hotSeasonFactor   = 1.15
	rainySeasonFactor = 0.90
	coolSeasonFactor  = 1.05

	highDemandThreshold = 100
)

// Forecast projects order volume for the next 7 calendar days from a
// per-weekday baseline over the trailing 8 weeks, adjusted for holidays,
// bridge days, payday periods and season. With no historical rows in the
// window it returns an empty projection rather than dividing by zero.
func Forecast(rows []domain.OrderEvent, productFilter, provinceFilter string, holidays domain.HolidayMap, now time.Time) domain.ForecastResult {
	if now.IsZero() {
		now = time.Now()
	}
	today := domain.Midnight(now.In(Bangkok))
	cutoff := today.AddDate(0, 0, -baselineWindowDays)

	daily := map[string]int{}
	for _, row := range rows {
		if !matchesFilter(row.ProductName(), productFilter) {
			continue
		}
		if provinceFilter != "" && provinceFilter != FilterAll &&
			ResolveProvince(row.ApproxLocation()) != provinceFilter {
			continue
		}
		ts, ok := ResolveEventTime(row)
		if !ok {
			continue
		}
		local := ts.In(Bangkok)
		day := domain.Midnight(local)
		if day.Before(cutoff) || day.After(today) {
			continue
		}
		daily[day.Format("2006-01-02")]++
	}

	if len(daily) == 0 {
		return domain.ForecastResult{Days: []domain.ForecastDay{}}
	}

	// Per-weekday averages, skipping holidays so they do not drag down the
	// normal baseline. Weekdays with no non-holiday samples stay at zero.
	var sums, samples [7]float64
	for dateStr, count := range daily {
		if _, isHoliday := holidays[dateStr]; isHoliday {
			continue
		}
		day, err := time.ParseInLocation("2006-01-02", dateStr, Bangkok)
		if err != nil {
			continue
		}
		wd := int(day.Weekday())
		sums[wd] += float64(count)
		samples[wd]++
	}
	var baseline [7]float64
	for wd := range baseline {
		if samples[wd] > 0 {
			baseline[wd] = sums[wd] / samples[wd]
		}
	}

	days := make([]domain.ForecastDay, 0, 7)
	for offset := 1; offset <= 7; offset++ {
		date := today.AddDate(0, 0, offset)
		days = append(days, forecastDay(date, baseline[int(date.Weekday())], holidays))
	}

	result := domain.ForecastResult{Days: days}
	for i := range days {
		if days[i].Count >= highDemandThreshold {
			result.HighDemandAlert = true
		}
		if result.PeakDay == nil || days[i].Count > result.PeakDay.Count {
			result.PeakDay = &days[i]
		}
	}
	return result
}

// forecastDay applies the adjustment factors for one target date. Holiday,
// bridge day and payday are mutually exclusive branches evaluated in that
// priority; the season factor always applies on top.
func forecastDay(date time.Time, baseline float64, holidays domain.HolidayMap) domain.ForecastDay {
	value := baseline
	day := domain.ForecastDay{
		Date:    date.Format("2006-01-02"),
		Weekday: date.Weekday().String(),
		Factors: []domain.ForecastFactor{},
		Impact:  domain.ImpactNeutral,
	}

	switch {
	case holidays[day.Date] != "":
		value *= holidayFactor
		day.Impact = domain.ImpactNegative
		day.Factors = append(day.Factors, domain.ForecastFactor{
			Label:  holidays[day.Date],
			Impact: domain.ImpactNegative,
		})
	case isBridgeDay(date, holidays):
		value *= bridgeFactor
		day.Impact = domain.ImpactNegative
		day.Factors = append(day.Factors, domain.ForecastFactor{
			Label:  "Bridge day",
			Impact: domain.ImpactNegative,
		})
	case date.Day() >= 25 || date.Day() <= 5:
		value *= paydayFactor
		day.Impact = domain.ImpactPositive
		day.Factors = append(day.Factors, domain.ForecastFactor{
			Label:  "Payday period",
			Impact: domain.ImpactPositive,
		})
	}

	switch season(date.Month()) {
	case seasonHot:
		value *= hotSeasonFactor
		day.Weather = "Sunny"
		day.Factors = append(day.Factors, domain.ForecastFactor{
			Label:  "Hot season",
			Impact: domain.ImpactPositive,
		})
	case seasonRainy:
		value *= rainySeasonFactor
		day.Weather = "Rainy"
		day.Factors = append(day.Factors, domain.ForecastFactor{
			Label:  "Rainy season",
			Impact: domain.ImpactNegative,
		})
	default:
		// Cool season is the baseline; it adjusts the value but is not worth a
		// factor label.
		value *= coolSeasonFactor
		day.Weather = "Cool"
	}

	day.Count = int(math.Round(value))
	return day
}

// isBridgeDay reports whether date is the Monday before or Friday after a
// holiday. Only the single adjacent weekday is checked; multi-day holiday
// clusters are not chained.
func isBridgeDay(date time.Time, holidays domain.HolidayMap) bool {
	switch date.Weekday() {
	case time.Monday:
		next := date.AddDate(0, 0, 1).Format("2006-01-02")
		return holidays[next] != ""
	case time.Friday:
		prev := date.AddDate(0, 0, -1).Format("2006-01-02")
		return holidays[prev] != ""
	}
	return false
}

type seasonKind int

const (
	seasonCool seasonKind = iota
	seasonHot
	seasonRainy
)

// season buckets Thai months: hot Mar-May, rainy Jun-Oct, cool Nov-Feb.
func season(m time.Month) seasonKind {
	switch {
	case m >= time.March && m <= time.May:
		return seasonHot
	case m >= time.June && m <= time.October:
		return seasonRainy
	default:
		return seasonCool
	}
}

func matchesFilter(value, filter string) bool {
	return filter == "" || filter == FilterAll || value == filter
}
