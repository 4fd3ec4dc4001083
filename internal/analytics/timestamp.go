package analytics

import (
	"strings"
	"time"

	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
)

// Bangkok is the fixed UTC+7 zone all kiosk wall-clock values are expressed in.
var Bangkok = time.FixedZone("ICT", 7*60*60)

const wallClockOffset = 7 * time.Hour

// localLayouts are tried in order against "<date> <time>" concatenations.
// Go's "2/1/2006" layout accepts both one and two digit day/month.
var localLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// timestampLayouts extends localLayouts with the comma-separated variants seen
// in the single timestamp fallback field.
var timestampLayouts = append([]string{
	"2/1/2006, 15:04:05",
	"2/1/2006, 15:04",
	"2006-01-02, 15:04:05",
	"2006-01-02, 15:04",
}, localLayouts...)

// lenientLayouts approximate a native date-string parse, tried last.
var lenientLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.UnixDate,
	time.ANSIC,
	"Mon Jan 02 2006 15:04:05",
}

// ResolveEventTime resolves a record's event time to an absolute instant.
// It never panics; ok is false when no encoding matched and the record must be
// treated as unresolved (excluded from time-bucketed views, never defaulted to
// now).
func ResolveEventTime(e domain.OrderEvent) (time.Time, bool) {
	dateStr, timeStr := e.DateField(), e.TimeField()

	if d, t, ok := parseUTCPair(dateStr, timeStr); ok {
		return stitchWallClock(d, t), true
	}

	if dateStr != "" && timeStr != "" {
		if ts, ok := parseLayouts(dateStr+" "+timeStr, localLayouts); ok {
			return ts, true
		}
	}

	if raw := e.TimestampField(); raw != "" {
		if ts, ok := parseLayouts(raw, timestampLayouts); ok {
			return ts, true
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts, true
		}
		if ts, ok := parseLayouts(raw, lenientLayouts); ok {
			return ts, true
		}
	}

	return time.Time{}, false
}

// parseUTCPair matches the upstream encoding where date and time arrive as two
// separately Z-suffixed ISO strings.
func parseUTCPair(dateStr, timeStr string) (time.Time, time.Time, bool) {
	if !strings.HasSuffix(dateStr, "Z") || !strings.HasSuffix(timeStr, "Z") {
		return time.Time{}, time.Time{}, false
	}
	d, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return d, t, true
}

// stitchWallClock recombines a date instant and a time instant that each encode
// a Bangkok wall-clock value inside a Z-suffixed string. Both are shifted into
// wall-clock space, the date's calendar components are joined with the time's
// clock components as if they were UTC, and the result is shifted back out.
// The upstream writes the two fields independently, so this exact recombination
// is required to keep cross-field times in sync.
func stitchWallClock(d, t time.Time) time.Time {
	dw := d.Add(wallClockOffset).UTC()
	tw := t.Add(wallClockOffset).UTC()
	combined := time.Date(dw.Year(), dw.Month(), dw.Day(),
		tw.Hour(), tw.Minute(), tw.Second(), tw.Nanosecond(), time.UTC)
	return combined.Add(-wallClockOffset)
}

func parseLayouts(value string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, value, Bangkok); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
