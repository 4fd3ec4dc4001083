package drive

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
	"github.com/teerapatch/beankiosk/backend-go/internal/ingest"
	"github.com/teerapatch/beankiosk/backend-go/internal/kvstore"
)

type fakeDrive struct {
	files   []*File
	content map[string]string
}

func (d *fakeDrive) FindFolderByPath(path string) (string, error) { return "folder-1", nil }

func (d *fakeDrive) ListFiles(folderID string) ([]*File, error) { return d.files, nil }

func (d *fakeDrive) DownloadFile(fileID string, w io.Writer) error {
	_, err := io.WriteString(w, d.content[fileID])
	return err
}

type recordingRepo struct {
	inserted int
}

func (r *recordingRepo) FetchEvents(ctx context.Context, dateRange *domain.DateRange) ([]domain.OrderEvent, error) {
	return nil, nil
}

func (r *recordingRepo) InsertEvent(ctx context.Context, payload domain.OrderEvent, eventDate *time.Time) error {
	r.inserted++
	return nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCache(ctx context.Context) { c.calls++ }

func newTestSyncService(d *fakeDrive, inv SnapshotInvalidator) (*SyncService, *recordingRepo) {
	repo := &recordingRepo{}
	return &SyncService{
		drive:      d,
		ingester:   ingest.NewIngester(repo),
		seen:       kvstore.NewMemoryStore(),
		folderPath: "kiosk-exports",
		invalidate: inv,
	}, repo
}

func TestSyncFolderInvalidatesSnapshotsAfterIngest(t *testing.T) {
	d := &fakeDrive{
		files: []*File{{ID: "f1", Name: "day1.csv"}},
		content: map[string]string{
			"f1": "Timestamp,Price\n2025-06-10T03:30:00.000Z,120\n",
		},
	}
	inv := &countingInvalidator{}
	svc, repo := newTestSyncService(d, inv)

	summary, err := svc.SyncFolder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Ingested)
	assert.Equal(t, 1, repo.inserted)
	assert.Equal(t, 1, inv.calls)

	// A pass that ingests nothing leaves the cached snapshots alone.
	summary, err = svc.SyncFolder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Ingested)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, inv.calls)
}

func TestIngestByIDInvalidatesSnapshots(t *testing.T) {
	d := &fakeDrive{
		content: map[string]string{
			"f9": "Timestamp,Price\n2025-06-10T03:30:00.000Z,80\n",
		},
	}
	inv := &countingInvalidator{}
	svc, _ := newTestSyncService(d, inv)

	result, err := svc.IngestByID(context.Background(), "f9")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, inv.calls)
}
