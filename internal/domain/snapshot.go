package domain

// Snapshot is the full set of derived statistics for one (row set, date range)
// pair. It is computed fresh per call and never mutated afterwards; every
// collection is non-nil so consumers can render empty states uniformly.
type Snapshot struct {
	TotalOrders   int     `json:"total_orders"`
	TotalSales    float64 `json:"total_sales"`
	TotalUnits    int     `json:"total_units"`
	AvgOrderValue float64 `json:"avg_order_value"`

	// LikeRate and NotLikeRate are integer percentages in [0, 100].
	LikeRate    int `json:"like_rate"`
	NotLikeRate int `json:"not_like_rate"`

	// Per-day averages, populated only when the snapshot was computed against
	// a date range.
	AvgDailySales float64 `json:"avg_daily_sales"`
	AvgDailyUnits float64 `json:"avg_daily_units"`

	ByHour      []HourCount    `json:"by_hour"`        // 24 buckets, 0..23
	ByDayOfWeek []WeekdayCount `json:"by_day_of_week"` // 7 buckets, Sun..Sat
	DailySeries []DailyCount   `json:"daily_series"`   // ascending by date

	TopProducts []ProductCount `json:"top_products"` // at most 10, by count desc

	ByCategory []SalesRollup `json:"by_category"` // by sales desc
	ByBrand    []SalesRollup `json:"by_brand"`    // by sales desc

	ByProvince        []ValueCount `json:"by_province"`
	BySweetness       []ValueCount `json:"by_sweetness"`
	ByAction          []ValueCount `json:"by_action"`
	ByLanguage        []ValueCount `json:"by_language"` // kiosk UI language
	ByBrowserLanguage []ValueCount `json:"by_browser_language"`
	ByScanLocation    []ValueCount `json:"by_scan_location"`
	ByStoreZone       []ValueCount `json:"by_store_zone"`

	Promotions         []PromotionRollup `json:"promotions"`
	PromotionUsageRate int               `json:"promotion_usage_rate"`

	// RecentFeedback holds the five most recently seen free-text improvement
	// entries, newest first.
	RecentFeedback []string `json:"recent_feedback"`

	// UnresolvedTimestamps counts rows excluded from time-bucketed views
	// because no event time could be reconciled.
	UnresolvedTimestamps int `json:"unresolved_timestamps"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type WeekdayCount struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

type ProductCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type SalesRollup struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Sales float64 `json:"sales"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type PromotionRollup struct {
	Name          string  `json:"name"`
	Count         int     `json:"count"`
	TotalDiscount float64 `json:"total_discount"`
	TotalSales    float64 `json:"total_sales"`
}
