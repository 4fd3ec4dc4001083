package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
)

type HolidayRepository struct {
	db *DB
}

func NewHolidayRepository(db *DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// GetHolidays returns the public holidays for a country keyed by ISO date.
func (r *HolidayRepository) GetHolidays(ctx context.Context, country string, years []int) (domain.HolidayMap, error) {
	type holidayRow struct {
		Date string `db:"holiday_date"`
		Name string `db:"name"`
	}

	var rows []holidayRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT to_char(holiday_date, 'YYYY-MM-DD') AS holiday_date, name
		FROM holidays
		WHERE country = $1
		  AND EXTRACT(YEAR FROM holiday_date) = ANY($2)
	`, country, pq.Array(years))
	if err != nil {
		return nil, fmt.Errorf("could not fetch holidays: %w", err)
	}

	holidays := make(domain.HolidayMap, len(rows))
	for _, row := range rows {
		holidays[row.Date] = row.Name
	}

	return holidays, nil
}

func (r *HolidayRepository) UpsertHoliday(ctx context.Context, country, date, name string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO holidays (country, holiday_date, name)
			VALUES ($1, $2, $3)
			ON CONFLICT (country, holiday_date) DO UPDATE SET name = EXCLUDED.name
		`, country, date, name)
		if err != nil {
			return fmt.Errorf("could not upsert holiday: %w", err)
		}
		return nil
	})
}
