package domain

// HolidayMap maps an ISO date string (YYYY-MM-DD) to the local holiday name.
type HolidayMap map[string]string

// FactorImpact classifies a forecast adjustment as raising, lowering or not
// moving expected demand.
type FactorImpact string

const (
	ImpactPositive FactorImpact = "positive"
	ImpactNegative FactorImpact = "negative"
	ImpactNeutral  FactorImpact = "neutral"
)

// ForecastFactor is one human-readable adjustment applied to a forecast day.
type ForecastFactor struct {
	Label  string       `json:"label"`
	Impact FactorImpact `json:"impact"`
}

// ForecastDay is one entry of the fixed 7-day projection, regenerated fully on
// every forecast call.
type ForecastDay struct {
	Date    string           `json:"date"` // YYYY-MM-DD
	Weekday string           `json:"weekday"`
	Count   int              `json:"count"`
	Factors []ForecastFactor `json:"factors"`
	Impact  FactorImpact     `json:"impact"`
	Weather string           `json:"weather"`
}

// ForecastResult bundles the 7-day projection with its derived flags. With no
// historical data Days is empty and PeakDay is nil.
type ForecastResult struct {
	Days            []ForecastDay `json:"forecast"`
	PeakDay         *ForecastDay  `json:"peak_day"`
	HighDemandAlert bool          `json:"high_demand_alert"`
}
