package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
)

type OrderEventRepository struct {
	db *DB
}

func NewOrderEventRepository(db *DB) *OrderEventRepository {
	return &OrderEventRepository{db: db}
}

type orderEventRow struct {
	ID        string     `db:"id"`
	Payload   []byte     `db:"payload"`
	EventDate *time.Time `db:"event_date"`
}

// FetchEvents returns order events whose event date falls inside the range.
// Rows with no resolvable event date are always included so the caller can
// count them against the aggregate totals.
func (r *OrderEventRepository) FetchEvents(ctx context.Context, dateRange *domain.DateRange) ([]domain.OrderEvent, error) {
	query := `
		SELECT id, payload, event_date
		FROM order_events
	`
	args := []interface{}{}

	if dateRange != nil {
		query += ` WHERE event_date IS NULL OR (event_date >= $1 AND event_date < $2)`
		args = append(args, dateRange.From, dateRange.To.AddDate(0, 0, 1))
	}

	query += ` ORDER BY event_date NULLS LAST`

	var rows []orderEventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("could not fetch order events: %w", err)
	}

	events := make([]domain.OrderEvent, 0, len(rows))
	for _, row := range rows {
		var ev domain.OrderEvent
		if err := json.Unmarshal(row.Payload, &ev); err != nil {
			return nil, fmt.Errorf("could not decode order event %s: %w", row.ID, err)
		}
		events = append(events, ev)
	}

	return events, nil
}

// InsertEvent stores a raw order event payload. eventDate is nil when the
// event's timestamps could not be reconciled.
func (r *OrderEventRepository) InsertEvent(ctx context.Context, payload domain.OrderEvent, eventDate *time.Time) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not encode order event: %w", err)
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_events (id, payload, event_date, created_at)
			VALUES ($1, $2, $3, NOW())
		`, uuid.New().String(), body, eventDate)
		if err != nil {
			return fmt.Errorf("could not insert order event: %w", err)
		}
		return nil
	})
}
