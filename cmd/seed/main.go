package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
	"github.com/teerapatch/beankiosk/backend-go/internal/ingest"
	"github.com/teerapatch/beankiosk/backend-go/internal/repository/postgres"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newWorkersFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "workers",
		Usage: "Number of files ingested in parallel",
		Value: 4,
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load kiosk order events and reference data into the database",
		Commands: []*cli.Command{
			{
				Name:  "events",
				Usage: "Ingest order-event CSV exports from a local directory",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing order-event CSV files",
						Value:   "./data/seeds/events",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
					newWorkersFlag(),
				},
				Action: seedEvents,
			},
			{
				Name:  "holidays",
				Usage: "Seed the public holiday calendar from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "CSV file with date,name rows",
						Value:   "./data/seeds/holidays.csv",
						EnvVars: []string{"HOLIDAYS_FILE"},
					},
					&cli.StringFlag{
						Name:  "country",
						Usage: "ISO country code for the calendar",
						Value: "TH",
					},
				},
				Action: seedHolidays,
			},
			{
				Name:  "archive",
				Usage: "Pull nightly CSV archives from object storage and ingest them",
				Flags: append([]cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix to pull",
						Value: "exports/",
					},
					newWorkersFlag(),
				}, archiveFlags()...),
				Action: seedFromArchive,
			},
			{
				Name:  "archive-push",
				Usage: "Upload local order-event CSV exports to the archive bucket",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing order-event CSV files",
						Value:   "./data/seeds/events",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix to upload under",
						Value: "exports/",
					},
				}, archiveFlags()...),
				Action: pushToArchive,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// eventStore adapts the seeder's plain sql connection to the ingester.
type eventStore struct {
	db *sql.DB
}

func (s *eventStore) FetchEvents(ctx context.Context, dateRange *domain.DateRange) ([]domain.OrderEvent, error) {
	return nil, fmt.Errorf("seeder store is write-only")
}

func (s *eventStore) InsertEvent(ctx context.Context, payload domain.OrderEvent, eventDate *time.Time) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO order_events (id, payload, event_date, created_at)
		VALUES ($1, $2, $3, NOW())
	`, uuid.New().String(), body, eventDate)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func seedEvents(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return ingestDirectory(c.Context, db, c.String("data-dir"), c.Int("workers"))
}

func ingestDirectory(ctx context.Context, db *sql.DB, dataDir string, workers int) error {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return fmt.Errorf("failed to read data dir %s: %w", dataDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dataDir, entry.Name()))
	}
	if len(files) == 0 {
		return fmt.Errorf("no CSV files found in %s", dataDir)
	}
	sort.Strings(files)

	ingester := ingest.NewIngester(&eventStore{db: db})
	batch, err := ingester.IngestBatch(ctx, files, workers)
	if err != nil {
		return err
	}

	for _, result := range batch.Results {
		log.Printf("Ingested %s: %d rows, %d unresolved timestamps", result.Source, result.Inserted, result.Unresolved)
	}
	if batch.Failed > 0 {
		return fmt.Errorf("%d of %d files failed to ingest", batch.Failed, batch.Files)
	}
	return nil
}

// holidayUpserter is the slice of the holiday repository the seeder writes
// through.
type holidayUpserter interface {
	UpsertHoliday(ctx context.Context, country, date, name string) error
}

func seedHolidays(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	file, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open holidays file: %w", err)
	}
	defer file.Close()

	store := postgres.NewHolidayRepository(postgres.NewDBFromConn(db, "pgx"))

	country := c.String("country")
	count, err := seedHolidaysFromCSV(c.Context, store, file, country)
	if err != nil {
		return err
	}

	log.Printf("Seeded %d holidays for %s", count, country)
	return nil
}

func seedHolidaysFromCSV(ctx context.Context, store holidayUpserter, r io.Reader, country string) (int, error) {
	reader := csv.NewReader(r)
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}

	count := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return count, fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) < 2 {
			return count, fmt.Errorf("invalid holiday record (expected date,name): %v", record)
		}

		date := strings.TrimSpace(record[0])
		name := strings.TrimSpace(record[1])
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return count, fmt.Errorf("invalid holiday date %q: %w", date, err)
		}

		if err := store.UpsertHoliday(ctx, country, date, name); err != nil {
			return count, fmt.Errorf("failed to upsert holiday %s: %w", date, err)
		}
		count++
	}

	return count, nil
}
