// Package ingest loads kiosk order-event CSV exports into the event store.
// Kiosk firmware revisions disagree on column sets and timestamp formats, so
// rows are stored as-is and only the event date is derived up front.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/teerapatch/beankiosk/backend-go/internal/analytics"
	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
	"github.com/teerapatch/beankiosk/backend-go/internal/repository"
)

// Result summarizes one ingest job.
type Result struct {
	JobID      string `json:"job_id"`
	Source     string `json:"source"`
	Rows       int    `json:"rows"`
	Inserted   int    `json:"inserted"`
	Skipped    int    `json:"skipped"`
	Unresolved int    `json:"unresolved"`
}

type Ingester struct {
	orders repository.OrderEventRepository
}

func NewIngester(orders repository.OrderEventRepository) *Ingester {
	return &Ingester{orders: orders}
}

// IngestFile reads a CSV file from disk and stores its rows.
func (i *Ingester) IngestFile(ctx context.Context, filePath string) (*Result, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return i.IngestCSV(ctx, filePath, file)
}

// IngestCSV reads order-event rows from r and stores them. Rows whose
// timestamps cannot be reconciled are still stored, with no event date;
// the aggregation layer counts them separately.
func (i *Ingester) IngestCSV(ctx context.Context, source string, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for idx, col := range header {
		colMap[strings.TrimSpace(col)] = idx
	}

	result := &Result{
		JobID:  uuid.New().String(),
		Source: source,
	}

	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		result.Rows++

		getValue := func(col string) string {
			idx, ok := colMap[col]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		event := domain.OrderEvent{}
		for col, idx := range colMap {
			if idx >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[idx])
			if value == "" {
				continue
			}
			event[col] = value
		}

		if len(event) == 0 {
			result.Skipped++
			continue
		}

		if price := getValue("Price"); price != "" {
			if _, err := decimal.NewFromString(price); err != nil {
				log.Warn().
					Str("job_id", result.JobID).
					Str("price", price).
					Int("row", result.Rows).
					Msg("unparseable price, row kept")
			}
		}

		var eventDate *time.Time
		if ts, ok := analytics.ResolveEventTime(event); ok {
			utc := ts.UTC()
			eventDate = &utc
		} else {
			result.Unresolved++
		}

		if err := i.orders.InsertEvent(ctx, event, eventDate); err != nil {
			return nil, fmt.Errorf("failed to store row %d: %w", result.Rows, err)
		}
		result.Inserted++
	}

	log.Info().
		Str("job_id", result.JobID).
		Str("source", source).
		Int("rows", result.Rows).
		Int("inserted", result.Inserted).
		Int("unresolved", result.Unresolved).
		Msg("ingest completed")

	return result, nil
}
