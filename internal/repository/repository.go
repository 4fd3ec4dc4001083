package repository

import (
	"context"
	"time"

	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
)

// OrderEventRepository supplies raw kiosk order-event rows. Rows with an
// unresolvable event date are always included so timestamp-independent totals
// stay complete.
type OrderEventRepository interface {
	// FetchEvents returns rows whose event date falls inside the range, plus
	// rows with no event date. A nil range means all time.
	FetchEvents(ctx context.Context, dateRange *domain.DateRange) ([]domain.OrderEvent, error)

	// InsertEvent stores one raw event payload with its reconciled event date
	// (nil when unresolved).
	InsertEvent(ctx context.Context, payload domain.OrderEvent, eventDate *time.Time) error
}

// HolidayRepository supplies the holiday map for the years a forecast or
// trend chart spans.
type HolidayRepository interface {
	GetHolidays(ctx context.Context, country string, years []int) (domain.HolidayMap, error)
	UpsertHoliday(ctx context.Context, country, date, name string) error
}
