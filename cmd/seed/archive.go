package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/teerapatch/beankiosk/backend-go/internal/config"
	"github.com/teerapatch/beankiosk/backend-go/internal/storage"
)

func archiveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "archive-endpoint",
			Usage:   "S3-compatible endpoint holding the nightly archives",
			EnvVars: []string{"ARCHIVE_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "archive-access-key",
			EnvVars: []string{"ARCHIVE_ACCESS_KEY"},
		},
		&cli.StringFlag{
			Name:    "archive-secret-key",
			EnvVars: []string{"ARCHIVE_SECRET_KEY"},
		},
		&cli.StringFlag{
			Name:    "archive-bucket",
			EnvVars: []string{"ARCHIVE_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "archive-region",
			EnvVars: []string{"ARCHIVE_REGION"},
		},
		&cli.BoolFlag{
			Name:    "archive-use-ssl",
			Value:   true,
			EnvVars: []string{"ARCHIVE_USE_SSL"},
		},
		&cli.StringFlag{
			Name:    "download-dir",
			Usage:   "Local directory archives are downloaded into",
			Value:   "./data/tmp/archive",
			EnvVars: []string{"ARCHIVE_DOWNLOAD_DIR"},
		},
	}
}

func newArchiveClient(c *cli.Context) (storage.ObjectStorage, error) {
	return storage.NewArchiveClient(config.ArchiveConfig{
		Endpoint:  c.String("archive-endpoint"),
		AccessKey: c.String("archive-access-key"),
		SecretKey: c.String("archive-secret-key"),
		Bucket:    c.String("archive-bucket"),
		Region:    c.String("archive-region"),
		UseSSL:    c.Bool("archive-use-ssl"),
	})
}

func seedFromArchive(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	client, err := newArchiveClient(c)
	if err != nil {
		return err
	}

	downloadDir := c.String("download-dir")
	localPaths, err := downloadArchives(c.Context, client, c.String("prefix"), downloadDir)
	if err != nil {
		return err
	}

	for _, dir := range uniqueDirs(localPaths) {
		if err := ingestDirectory(c.Context, db, dir, c.Int("workers")); err != nil {
			return err
		}
	}
	return nil
}

// downloadArchives pulls every CSV under prefix into destDir, preserving the
// key layout below the prefix.
func downloadArchives(ctx context.Context, client storage.ObjectStorage, prefix, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure download dir %s: %w", destDir, err)
	}

	objects, err := client.ListObjects(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list archive objects for prefix %s: %w", prefix, err)
	}

	var keys []string
	for _, obj := range objects {
		if strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			keys = append(keys, obj.Key)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no CSV files found for prefix %s", prefix)
	}

	localPaths := make([]string, 0, len(keys))
	for _, key := range keys {
		localPath := filepath.Join(destDir, objectRelativePath(prefix, key))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to prepare directory for %s: %w", localPath, err)
		}
		if err := client.DownloadObject(ctx, key, localPath); err != nil {
			return nil, err
		}
		localPaths = append(localPaths, localPath)
	}

	sort.Strings(localPaths)
	return localPaths, nil
}

func objectRelativePath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	rel := strings.TrimPrefix(key, prefixTrimmed+"/")
	if rel == "" {
		return filepath.Base(key)
	}
	return rel
}

func pushToArchive(c *cli.Context) error {
	client, err := newArchiveClient(c)
	if err != nil {
		return err
	}

	count, err := pushArchives(c.Context, client, c.String("data-dir"), c.String("prefix"))
	if err != nil {
		return err
	}

	log.Printf("Uploaded %d archive files under prefix %s", count, c.String("prefix"))
	return nil
}

// pushArchives uploads every CSV in dataDir under the given object key
// prefix.
func pushArchives(ctx context.Context, client storage.ObjectStorage, dataDir, prefix string) (int, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read data dir %s: %w", dataDir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dataDir, entry.Name()))
		if err != nil {
			return count, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		if err := client.UploadObject(ctx, objectKey(prefix, entry.Name()), data); err != nil {
			return count, err
		}
		count++
	}
	if count == 0 {
		return 0, fmt.Errorf("no CSV files found in %s", dataDir)
	}

	return count, nil
}

func objectKey(prefix, name string) string {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func uniqueDirs(paths []string) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, p := range paths {
		dir := filepath.Dir(p)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
