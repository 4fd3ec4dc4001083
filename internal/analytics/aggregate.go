package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
)

const (
	unknownCategory = "Unknown"
	unknownBrand    = "Unknown"
	noSweetness     = "N/A"

	topProductLimit = 10
	feedbackLimit   = 5
)

var weekdayLabels = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type salesTally struct {
	count int
	sales decimal.Decimal
}

type promoTally struct {
	count    int
	discount decimal.Decimal
	sales    decimal.Decimal
}

// Aggregate reduces a filtered row set into a fully-populated Snapshot in a
// single pass. It is pure: the same inputs always produce the same output,
// rows are never mutated, and malformed data degrades to documented defaults
// instead of errors. Empty input yields a zero-valued snapshot with every
// collection present, so consumers can render "no data" states uniformly.
func Aggregate(rows []domain.OrderEvent, dateRange *domain.DateRange) domain.Snapshot {
	var (
		sales       = decimal.Zero
		units       int
		likes       int
		dislikes    int
		hours       [24]int
		weekdays    [7]int
		daily       = map[string]int{}
		unresolved  int
		products    = newTallyMap()
		categories  = newSalesMap()
		brands      = newSalesMap()
		provinces   = newTallyMap()
		sweetness   = newTallyMap()
		actions     = newTallyMap()
		uiLang      = newTallyMap()
		browserLang = newTallyMap()
		scanLoc     = newTallyMap()
		storeZones  = newTallyMap()
		promos      = newPromoMap()
		promoUsed   int
		feedback    []string
	)

	for _, row := range rows {
		price := row.Price()
		sales = sales.Add(price)
		units += row.Quantity()

		if row.Liked() {
			likes++
		}
		if row.Disliked() {
			dislikes++
		}

		if ts, ok := ResolveEventTime(row); ok {
			local := ts.In(Bangkok)
			hours[local.Hour()]++
			weekdays[int(local.Weekday())]++
			daily[local.Format("2006-01-02")]++
		} else {
			unresolved++
		}

		if name := row.ProductName(); !isNoise(name) {
			products.add(name)
		}

		categories.add(sentinelValue(row.Category(), unknownCategory), price)
		brands.add(sentinelValue(row.Brand(), unknownBrand), price)
		sweetness.add(sentinelValue(row.Sweetness(), noSweetness))

		if province := ResolveProvince(row.ApproxLocation()); province != "" {
			provinces.add(province)
		} else {
			provinces.add(UnknownProvince)
		}

		if action := row.Action(); !isNoise(action) {
			actions.add(action)
		}
		if lang := row.Language(); !isNoise(lang) {
			uiLang.add(NormalizeLanguage(lang))
		}
		if lang := row.BrowserLanguage(); !isNoise(lang) {
			browserLang.add(NormalizeLanguage(lang))
		}
		if loc := row.ScanLocation(); !isNoise(loc) {
			scanLoc.add(loc)
		}
		if zone := row.StoreZone(); !isNoise(zone) {
			storeZones.add(zone)
		}

		discount := row.PromotionDiscount()
		if name := row.PromotionName(); !isNoise(name) {
			promos.add(name, discount, price)
		}
		// A used flag OR a positive discount marks the row as promotion-used.
		// Upstream flagging is inconsistent, so this stays lenient even though
		// it can exceed the named-promotion rollup total.
		if row.PromotionUsedFlag() || discount.IsPositive() {
			promoUsed++
		}

		if improve := row.Improve(); improve != "" {
			feedback = append(feedback, improve)
		}
	}

	total := len(rows)
	snap := domain.Snapshot{
		TotalOrders:          total,
		TotalSales:           sales.InexactFloat64(),
		TotalUnits:           units,
		LikeRate:             roundPct(likes, total),
		NotLikeRate:          roundPct(dislikes, total),
		PromotionUsageRate:   roundPct(promoUsed, total),
		UnresolvedTimestamps: unresolved,
	}
	if total > 0 {
		snap.AvgOrderValue = sales.Div(decimal.NewFromInt(int64(total))).InexactFloat64()
	}
	if dateRange != nil {
		days := dateRange.Days()
		if days > 0 {
			snap.AvgDailySales = snap.TotalSales / float64(days)
			snap.AvgDailyUnits = float64(units) / float64(days)
		}
	}

	snap.ByHour = make([]domain.HourCount, 24)
	for h := range hours {
		snap.ByHour[h] = domain.HourCount{Hour: h, Count: hours[h]}
	}
	snap.ByDayOfWeek = make([]domain.WeekdayCount, 7)
	for d := range weekdays {
		snap.ByDayOfWeek[d] = domain.WeekdayCount{Weekday: weekdayLabels[d], Count: weekdays[d]}
	}

	snap.DailySeries = make([]domain.DailyCount, 0, len(daily))
	for date, count := range daily {
		snap.DailySeries = append(snap.DailySeries, domain.DailyCount{Date: date, Count: count})
	}
	sort.Slice(snap.DailySeries, func(i, j int) bool {
		return snap.DailySeries[i].Date < snap.DailySeries[j].Date
	})

	snap.TopProducts = products.counts()
	sort.SliceStable(snap.TopProducts, func(i, j int) bool {
		return snap.TopProducts[i].Count > snap.TopProducts[j].Count
	})
	if len(snap.TopProducts) > topProductLimit {
		snap.TopProducts = snap.TopProducts[:topProductLimit]
	}

	snap.ByCategory = categories.rollups()
	snap.ByBrand = brands.rollups()

	snap.ByProvince = provinces.buckets()
	snap.BySweetness = sweetness.buckets()
	snap.ByAction = actions.buckets()
	snap.ByLanguage = uiLang.buckets()
	snap.ByBrowserLanguage = browserLang.buckets()
	snap.ByScanLocation = scanLoc.buckets()
	snap.ByStoreZone = storeZones.buckets()

	snap.Promotions = promos.rollups()

	snap.RecentFeedback = make([]string, 0, feedbackLimit)
	for i := len(feedback) - 1; i >= 0 && len(snap.RecentFeedback) < feedbackLimit; i-- {
		snap.RecentFeedback = append(snap.RecentFeedback, feedback[i])
	}

	return snap
}

// FilterByRange keeps rows whose reconciled event date falls inside the range.
// Rows with an unresolvable timestamp are kept: they still belong in the
// timestamp-independent totals and are reported via UnresolvedTimestamps.
func FilterByRange(rows []domain.OrderEvent, dateRange *domain.DateRange) []domain.OrderEvent {
	if dateRange == nil {
		return rows
	}
	filtered := make([]domain.OrderEvent, 0, len(rows))
	for _, row := range rows {
		ts, ok := ResolveEventTime(row)
		if !ok || dateRange.Contains(ts.In(Bangkok)) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// isNoise reports whether a dimension value carries no information and should
// be excluded from its histogram.
func isNoise(v string) bool {
	if v == "" {
		return true
	}
	return strings.EqualFold(v, "n/a") || strings.EqualFold(v, "unknown")
}

// sentinelValue cleans a dimension value for the dimensions that keep an
// explicit fallback bucket so totals still sum to total row count.
func sentinelValue(v, sentinel string) string {
	if isNoise(v) {
		return sentinel
	}
	return v
}

func roundPct(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// tallyMap counts occurrences per key while remembering first-seen order, so
// sorts can break ties deterministically.
type tallyMap struct {
	byKey map[string]int
	order []string
}

func newTallyMap() *tallyMap {
	return &tallyMap{byKey: map[string]int{}}
}

func (m *tallyMap) add(key string) {
	if _, seen := m.byKey[key]; !seen {
		m.order = append(m.order, key)
	}
	m.byKey[key]++
}

func (m *tallyMap) counts() []domain.ProductCount {
	out := make([]domain.ProductCount, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, domain.ProductCount{Name: key, Count: m.byKey[key]})
	}
	return out
}

func (m *tallyMap) buckets() []domain.ValueCount {
	out := make([]domain.ValueCount, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, domain.ValueCount{Value: key, Count: m.byKey[key]})
	}
	return out
}

type salesMap struct {
	tallies map[string]*salesTally
	order   []string
}

func newSalesMap() *salesMap {
	return &salesMap{tallies: map[string]*salesTally{}}
}

func (m *salesMap) add(key string, price decimal.Decimal) {
	t, seen := m.tallies[key]
	if !seen {
		t = &salesTally{}
		m.tallies[key] = t
		m.order = append(m.order, key)
	}
	t.count++
	t.sales = t.sales.Add(price)
}

func (m *salesMap) rollups() []domain.SalesRollup {
	out := make([]domain.SalesRollup, 0, len(m.order))
	for _, key := range m.order {
		t := m.tallies[key]
		out = append(out, domain.SalesRollup{Name: key, Count: t.count, Sales: t.sales.InexactFloat64()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sales > out[j].Sales })
	return out
}

type promoMap struct {
	tallies map[string]*promoTally
	order   []string
}

func newPromoMap() *promoMap {
	return &promoMap{tallies: map[string]*promoTally{}}
}

func (m *promoMap) add(key string, discount, sales decimal.Decimal) {
	t, seen := m.tallies[key]
	if !seen {
		t = &promoTally{}
		m.tallies[key] = t
		m.order = append(m.order, key)
	}
	t.count++
	t.discount = t.discount.Add(discount)
	t.sales = t.sales.Add(sales)
}

func (m *promoMap) rollups() []domain.PromotionRollup {
	out := make([]domain.PromotionRollup, 0, len(m.order))
	for _, key := range m.order {
		t := m.tallies[key]
		out = append(out, domain.PromotionRollup{
			Name:          key,
			Count:         t.count,
			TotalDiscount: t.discount.InexactFloat64(),
			TotalSales:    t.sales.InexactFloat64(),
		})
	}
	return out
}
