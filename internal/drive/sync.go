package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/teerapatch/beankiosk/backend-go/internal/ingest"
	"github.com/teerapatch/beankiosk/backend-go/internal/kvstore"
)

const (
	ingestedKeyPrefix = "drive:ingested:"

	// ingestedTTL bounds how long a file ID is remembered. Kiosks rotate
	// export files daily, so a month is plenty.
	ingestedTTL = 30 * 24 * time.Hour
)

// SyncSummary reports one pass over the export folder.
type SyncSummary struct {
	Scanned  int              `json:"scanned"`
	Ingested int              `json:"ingested"`
	Skipped  int              `json:"skipped"`
	Results  []*ingest.Result `json:"results"`
}

// SnapshotInvalidator drops derived caches once new events have landed, so
// dashboards do not serve pre-ingest snapshots for a full TTL.
type SnapshotInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// driveClient is the slice of the Drive service the sync loop uses.
type driveClient interface {
	FindFolderByPath(path string) (string, error)
	ListFiles(folderID string) ([]*File, error)
	DownloadFile(fileID string, w io.Writer) error
}

// SyncService pulls new kiosk exports from a Drive folder and feeds them to
// the ingester. Already-ingested file IDs are remembered in the shared store
// so multiple instances do not double-ingest.
type SyncService struct {
	drive      driveClient
	ingester   *ingest.Ingester
	seen       kvstore.Store
	folderPath string
	invalidate SnapshotInvalidator
}

func NewSyncService(driveService *Service, ingester *ingest.Ingester, seen kvstore.Store, folderPath string, invalidator SnapshotInvalidator) *SyncService {
	if seen == nil {
		seen = kvstore.NewMemoryStore()
	}
	return &SyncService{
		drive:      driveService,
		ingester:   ingester,
		seen:       seen,
		folderPath: folderPath,
		invalidate: invalidator,
	}
}

// SyncFolder ingests every new CSV or XLSX export in the configured folder.
func (s *SyncService) SyncFolder(ctx context.Context) (*SyncSummary, error) {
	folderID, err := s.drive.FindFolderByPath(s.folderPath)
	if err != nil {
		return nil, err
	}

	files, err := s.drive.ListFiles(folderID)
	if err != nil {
		return nil, err
	}

	summary := &SyncSummary{Results: []*ingest.Result{}}
	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		ext := strings.ToLower(filepath.Ext(f.Name))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}
		summary.Scanned++

		if _, done, err := s.seen.Get(ctx, ingestedKeyPrefix+f.ID); err == nil && done {
			summary.Skipped++
			continue
		} else if err != nil {
			log.Warn().Err(err).Str("file", f.Name).Msg("drive sync: seen lookup failed")
		}

		result, err := s.ingestDriveFile(ctx, f, ext)
		if err != nil {
			log.Error().Err(err).Str("file", f.Name).Msg("drive sync: ingest failed")
			continue
		}

		if err := s.seen.Set(ctx, ingestedKeyPrefix+f.ID, f.Name, ingestedTTL); err != nil {
			log.Warn().Err(err).Str("file", f.Name).Msg("drive sync: could not mark file ingested")
		}

		summary.Ingested++
		summary.Results = append(summary.Results, result)
	}

	if summary.Ingested > 0 && s.invalidate != nil {
		s.invalidate.InvalidateCache(ctx)
	}

	return summary, nil
}

// Run polls the folder on a fixed interval until the context is cancelled.
func (s *SyncService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if summary, err := s.SyncFolder(ctx); err != nil {
			log.Error().Err(err).Msg("drive sync pass failed")
		} else {
			log.Info().
				Int("scanned", summary.Scanned).
				Int("ingested", summary.Ingested).
				Int("skipped", summary.Skipped).
				Msg("drive sync pass completed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// IngestByID ingests a single Drive file on demand, regardless of whether it
// was seen before.
func (s *SyncService) IngestByID(ctx context.Context, fileID string) (*ingest.Result, error) {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(s.drive.DownloadFile(fileID, pw))
	}()

	result, err := s.ingester.IngestCSV(ctx, "drive:"+fileID, pr)
	if err != nil {
		return nil, err
	}
	if result.Inserted > 0 && s.invalidate != nil {
		s.invalidate.InvalidateCache(ctx)
	}
	return result, nil
}

func (s *SyncService) ingestDriveFile(ctx context.Context, f *File, ext string) (*ingest.Result, error) {
	if ext == ".csv" {
		pr, pw := io.Pipe()
		go func() {
			pw.CloseWithError(s.drive.DownloadFile(f.ID, pw))
		}()
		return s.ingester.IngestCSV(ctx, "drive:"+f.Name, pr)
	}

	// XLSX goes through a temp file; the converter needs random access.
	tmpDir, err := os.MkdirTemp("", "kiosk-sync-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	xlsxPath := filepath.Join(tmpDir, f.Name)
	out, err := os.Create(xlsxPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp xlsx: %w", err)
	}
	if err := s.drive.DownloadFile(f.ID, out); err != nil {
		out.Close()
		return nil, fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	out.Close()

	csvPath := strings.TrimSuffix(xlsxPath, filepath.Ext(xlsxPath)) + ".csv"
	if err := convertXLSXToCSV(xlsxPath, csvPath); err != nil {
		return nil, fmt.Errorf("failed to convert %s to csv: %w", f.Name, err)
	}

	return s.ingester.IngestFile(ctx, csvPath)
}
