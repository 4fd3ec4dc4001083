package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teerapatch/beankiosk/backend-go/internal/storage"
)

type fakeHolidayStore struct {
	upserts []string
}

func (s *fakeHolidayStore) UpsertHoliday(ctx context.Context, country, date, name string) error {
	s.upserts = append(s.upserts, country+"|"+date+"|"+name)
	return nil
}

func TestSeedHolidaysFromCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"date,name",
		"2025-01-01,New Year's Day",
		"2025-04-13, Songkran ",
	}, "\n")

	store := &fakeHolidayStore{}
	count, err := seedHolidaysFromCSV(context.Background(), store, strings.NewReader(csvData), "TH")
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	require.Len(t, store.upserts, 2)
	assert.Equal(t, "TH|2025-01-01|New Year's Day", store.upserts[0])
	assert.Equal(t, "TH|2025-04-13|Songkran", store.upserts[1])
}

func TestSeedHolidaysFromCSVRejectsBadDate(t *testing.T) {
	csvData := "date,name\n13-04-2025,Songkran\n"

	store := &fakeHolidayStore{}
	_, err := seedHolidaysFromCSV(context.Background(), store, strings.NewReader(csvData), "TH")
	require.Error(t, err)
	assert.Empty(t, store.upserts)
}

type fakeArchive struct {
	uploads map[string][]byte
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{uploads: map[string][]byte{}}
}

func (a *fakeArchive) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (a *fakeArchive) DownloadObject(ctx context.Context, key, destPath string) error {
	return nil
}

func (a *fakeArchive) UploadObject(ctx context.Context, key string, data []byte) error {
	a.uploads[key] = data
	return nil
}

func TestPushArchives(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-06-10.csv"), []byte("Timestamp,Price\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))

	archive := newFakeArchive()
	count, err := pushArchives(context.Background(), archive, dir, "exports/")
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	require.Len(t, archive.uploads, 1)
	assert.Equal(t, []byte("Timestamp,Price\n"), archive.uploads["exports/2025-06-10.csv"])
}

func TestPushArchivesEmptyDir(t *testing.T) {
	_, err := pushArchives(context.Background(), newFakeArchive(), t.TempDir(), "exports/")
	assert.Error(t, err)
}
