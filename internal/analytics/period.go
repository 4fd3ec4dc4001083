package analytics

import (
	"math"

	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
)

// Tone classifies the direction of a period-over-period delta.
type Tone string

const (
	ToneUp      Tone = "up"
	ToneDown    Tone = "down"
	ToneNeutral Tone = "neutral"
)

// kpiAlertThreshold is the absolute percent delta above which a KPI card gets
// an attention icon.
const kpiAlertThreshold = 15.0

const kpiAlertIcon = "alert"

// KPIDelta is the comparison result shown on a KPI card. DeltaPct and Icon are
// nil when there is no trend data.
type KPIDelta struct {
	DeltaPct *float64 `json:"delta_pct"`
	Tone     Tone     `json:"tone"`
	Icon     *string  `json:"icon"`
}

// PreviousPeriod derives the immediately preceding range of equal length,
// ending the day before the given range starts. It returns nil for an absent
// or single-day range: one day has no meaningful previous-period trend.
func PreviousPeriod(r *domain.DateRange) *domain.DateRange {
	if r == nil {
		return nil
	}
	days := r.Days()
	if days <= 1 {
		return nil
	}
	to := r.From.AddDate(0, 0, -1)
	from := to.AddDate(0, 0, -(days - 1))
	return &domain.DateRange{From: from, To: to}
}

// KPIFlag computes the signed percent delta between a current and previous
// scalar, with a coarse tone and an attention icon above the 15% threshold.
// Missing or non-finite values and a zero previous value all produce "no trend
// data": nil delta, neutral tone, no icon. Infinity and NaN never escape.
func KPIFlag(current, previous *float64) KPIDelta {
	neutral := KPIDelta{Tone: ToneNeutral}
	if current == nil || previous == nil {
		return neutral
	}
	cur, prev := *current, *previous
	if math.IsNaN(cur) || math.IsInf(cur, 0) || math.IsNaN(prev) || math.IsInf(prev, 0) || prev == 0 {
		return neutral
	}

	delta := (cur - prev) / prev * 100
	out := KPIDelta{DeltaPct: &delta, Tone: ToneNeutral}
	switch {
	case delta > 0:
		out.Tone = ToneUp
	case delta < 0:
		out.Tone = ToneDown
	}
	if math.Abs(delta) > kpiAlertThreshold {
		icon := kpiAlertIcon
		out.Icon = &icon
	}
	return out
}
