package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
)

// evt builds a raw order event using upstream column names.
func evt(fields map[string]any) domain.OrderEvent {
	return domain.OrderEvent(fields)
}

func TestAggregateEmptyInput(t *testing.T) {
	snap := Aggregate(nil, nil)

	assert.Zero(t, snap.TotalOrders)
	assert.Zero(t, snap.TotalSales)
	assert.Zero(t, snap.TotalUnits)
	assert.Zero(t, snap.AvgOrderValue)
	assert.Zero(t, snap.LikeRate)
	assert.Zero(t, snap.NotLikeRate)

	require.Len(t, snap.ByHour, 24)
	for h, bucket := range snap.ByHour {
		assert.Equal(t, h, bucket.Hour)
		assert.Zero(t, bucket.Count)
	}

	require.Len(t, snap.ByDayOfWeek, 7)
	assert.Equal(t, "Sunday", snap.ByDayOfWeek[0].Weekday)
	assert.Equal(t, "Saturday", snap.ByDayOfWeek[6].Weekday)

	assert.NotNil(t, snap.DailySeries)
	assert.Empty(t, snap.DailySeries)
	assert.NotNil(t, snap.TopProducts)
	assert.Empty(t, snap.TopProducts)
	assert.NotNil(t, snap.ByCategory)
	assert.NotNil(t, snap.ByBrand)
	assert.NotNil(t, snap.ByProvince)
	assert.NotNil(t, snap.ByLanguage)
	assert.NotNil(t, snap.Promotions)
	assert.NotNil(t, snap.RecentFeedback)
	assert.Empty(t, snap.RecentFeedback)
}

func TestAggregateTotalsAndRates(t *testing.T) {
	rows := []domain.OrderEvent{
		evt(map[string]any{"Price": 100.0, "Like": true, "Timestamp": "2025-06-02T03:00:00Z"}),
		evt(map[string]any{"Price": "50.5", "NotLike": "true", "Timestamp": "2025-06-02T04:00:00Z"}),
		evt(map[string]any{"Price": 49.5, "Timestamp": "not a time"}),
	}

	snap := Aggregate(rows, nil)

	assert.Equal(t, 3, snap.TotalOrders)
	assert.InDelta(t, 200.0, snap.TotalSales, 1e-9)
	assert.Equal(t, 3, snap.TotalUnits, "quantity defaults to one per row")
	assert.InDelta(t, 200.0/3, snap.AvgOrderValue, 1e-9)
	assert.Equal(t, 33, snap.LikeRate)
	assert.Equal(t, 33, snap.NotLikeRate)
	assert.Equal(t, 1, snap.UnresolvedTimestamps)

	// Rows with an unresolved timestamp are excluded from time buckets but
	// still counted in totals.
	hourSum := 0
	for _, b := range snap.ByHour {
		hourSum += b.Count
	}
	assert.Equal(t, snap.TotalOrders, hourSum+snap.UnresolvedTimestamps)
}

func TestAggregateProvinceReconciliation(t *testing.T) {
	rows := []domain.OrderEvent{
		evt(map[string]any{"ApproxLocation": "เชียงใหม่"}),
		evt(map[string]any{"ApproxLocation": "bkk"}),
		evt(map[string]any{"ApproxLocation": "Narnia"}),
		evt(map[string]any{}),
	}

	snap := Aggregate(rows, nil)

	total := 0
	unknown := 0
	for _, p := range snap.ByProvince {
		total += p.Count
		if p.Value == UnknownProvince {
			unknown = p.Count
		}
	}
	assert.Equal(t, snap.TotalOrders, total, "province buckets must reconcile to total orders")
	assert.Equal(t, 2, unknown)
}

func TestAggregateTopProducts(t *testing.T) {
	var rows []domain.OrderEvent
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("เมนู %d", i)
		for j := 0; j <= i; j++ {
			rows = append(rows, evt(map[string]any{"CommonNameTH": name}))
		}
	}

	snap := Aggregate(rows, nil)

	require.Len(t, snap.TopProducts, 10)
	for i := 1; i < len(snap.TopProducts); i++ {
		assert.GreaterOrEqual(t, snap.TopProducts[i-1].Count, snap.TopProducts[i].Count)
	}
	assert.Equal(t, "เมนู 11", snap.TopProducts[0].Name)
	assert.Equal(t, 12, snap.TopProducts[0].Count)
}

func TestAggregateCategorySortedBySales(t *testing.T) {
	rows := []domain.OrderEvent{
		evt(map[string]any{"Category": "Tea", "Price": 40.0}),
		evt(map[string]any{"Category": "Coffee", "Price": 120.0}),
		evt(map[string]any{"Category": "Coffee", "Price": 80.0}),
		evt(map[string]any{"Price": 10.0}), // lands in the Unknown sentinel
	}

	snap := Aggregate(rows, nil)

	require.Len(t, snap.ByCategory, 3)
	assert.Equal(t, "Coffee", snap.ByCategory[0].Name)
	assert.InDelta(t, 200.0, snap.ByCategory[0].Sales, 1e-9)
	assert.Equal(t, "Tea", snap.ByCategory[1].Name)
	assert.Equal(t, unknownCategory, snap.ByCategory[2].Name)

	counted := 0
	for _, c := range snap.ByCategory {
		counted += c.Count
	}
	assert.Equal(t, snap.TotalOrders, counted)
}

func TestAggregatePromotionLeniency(t *testing.T) {
	rows := []domain.OrderEvent{
		evt(map[string]any{"PromotionName": "Summer", "PromotionUsed": true, "PromotionDiscount": 10.0, "Price": 90.0}),
		// Discount without a name still counts as used; this inflates the
		// usage rate relative to the named rollup on purpose.
		evt(map[string]any{"PromotionDiscount": 5.0, "Price": 95.0}),
		evt(map[string]any{"Price": 100.0}),
	}

	snap := Aggregate(rows, nil)

	assert.Equal(t, 67, snap.PromotionUsageRate)
	require.Len(t, snap.Promotions, 1)
	assert.Equal(t, "Summer", snap.Promotions[0].Name)
	assert.Equal(t, 1, snap.Promotions[0].Count)
	assert.InDelta(t, 10.0, snap.Promotions[0].TotalDiscount, 1e-9)
	assert.InDelta(t, 90.0, snap.Promotions[0].TotalSales, 1e-9)
}

func TestAggregateFeedbackNewestFirst(t *testing.T) {
	var rows []domain.OrderEvent
	for i := 1; i <= 7; i++ {
		rows = append(rows, evt(map[string]any{"Improve": fmt.Sprintf("feedback %d", i)}))
	}

	snap := Aggregate(rows, nil)

	require.Len(t, snap.RecentFeedback, 5)
	assert.Equal(t, "feedback 7", snap.RecentFeedback[0])
	assert.Equal(t, "feedback 3", snap.RecentFeedback[4])
}

func TestAggregateAvgPerDay(t *testing.T) {
	r := domain.NewDateRange(
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 4, 0, 0, 0, 0, time.UTC),
	)
	rows := []domain.OrderEvent{
		evt(map[string]any{"Price": 100.0, "Quantity": 2.0}),
		evt(map[string]any{"Price": 100.0}),
	}

	snap := Aggregate(rows, r)

	assert.InDelta(t, 50.0, snap.AvgDailySales, 1e-9)
	assert.InDelta(t, 0.75, snap.AvgDailyUnits, 1e-9)
	assert.Equal(t, 3, snap.TotalUnits)
}

func TestAggregateIdempotent(t *testing.T) {
	rows := []domain.OrderEvent{
		evt(map[string]any{"Price": 55.0, "Category": "Coffee", "ApproxLocation": "chonburi", "Timestamp": "2025-06-02T03:00:00Z", "Improve": "more ice"}),
		evt(map[string]any{"Price": 45.0, "Sweetness": "50%", "BrowserLanguage": "jp"}),
	}
	r := domain.NewDateRange(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, Aggregate(rows, r), Aggregate(rows, r))
}

func TestAggregateBrowserLanguageNormalized(t *testing.T) {
	rows := []domain.OrderEvent{
		evt(map[string]any{"BrowserLanguage": "jp"}),
		evt(map[string]any{"BrowserLanguage": "ja-JP"}),
		evt(map[string]any{"BrowserLanguage": "fr-CA"}),
		evt(map[string]any{"BrowserLanguage": "N/A"}),
	}

	snap := Aggregate(rows, nil)

	require.Len(t, snap.ByBrowserLanguage, 2)
	assert.Equal(t, "ja-JP", snap.ByBrowserLanguage[0].Value)
	assert.Equal(t, 2, snap.ByBrowserLanguage[0].Count)
	assert.Equal(t, "fr-CA", snap.ByBrowserLanguage[1].Value)
}

func TestAggregateUILanguageNormalized(t *testing.T) {
	rows := []domain.OrderEvent{
		evt(map[string]any{"Language": "th"}),
		evt(map[string]any{"Language": "TH-th"}),
		evt(map[string]any{"Language": "en"}),
		evt(map[string]any{"Language": ""}),
	}

	snap := Aggregate(rows, nil)

	require.Len(t, snap.ByLanguage, 2)
	assert.Equal(t, domain.ValueCount{Value: "th-TH", Count: 2}, snap.ByLanguage[0])
	assert.Equal(t, domain.ValueCount{Value: "en-US", Count: 1}, snap.ByLanguage[1])
}

func TestFilterByRange(t *testing.T) {
	rows := []domain.OrderEvent{
		evt(map[string]any{"Timestamp": "2025-06-02T03:00:00Z"}),
		evt(map[string]any{"Timestamp": "2025-07-15T03:00:00Z"}),
		evt(map[string]any{"Timestamp": "garbled"}),
	}
	r := domain.NewDateRange(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC))

	filtered := FilterByRange(rows, r)

	// In-range row and the unresolved row survive; July is dropped.
	require.Len(t, filtered, 2)
	assert.Nil(t, FilterByRange(nil, nil))
}
