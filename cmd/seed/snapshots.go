// cmd/seed/snapshots.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/estoquelab/estoque-advisor/internal/cache"
	"github.com/estoquelab/estoque-advisor/internal/config"
	"github.com/estoquelab/estoque-advisor/internal/snapshot"
	"github.com/estoquelab/estoque-advisor/internal/storage"
	"github.com/urfave/cli/v2"
)

type snapshotLoader interface {
	LoadFile(ctx context.Context, filePath string) (int, error)
}

func runSnapshots(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	dataDir := c.String("data-dir")

	if c.Bool("download") {
		if err := downloadSnapshots(c, dataDir); err != nil {
			return err
		}
	}

	files, err := snapshotFiles(dataDir, c.String("date"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no snapshot files found in %s", dataDir)
	}

	return loadSnapshotFiles(c.Context, snapshot.NewLoader(db), dashboardCache(c), files)
}

// loadSnapshotFiles loads each file and, once at least one snapshot changed,
// drops cached dashboard aggregates so the API stops serving the old data.
func loadSnapshotFiles(ctx context.Context, loader snapshotLoader, dashboards cache.DashboardCache, files []string) error {
	loaded := 0
	for _, file := range files {
		rows, err := loader.LoadFile(ctx, file)
		if err != nil {
			log.Printf("error loading %s: %v", file, err)
			continue
		}
		log.Printf("loaded %d rows from %s", rows, file)
		loaded++
	}

	if loaded == 0 {
		return fmt.Errorf("no snapshot files loaded")
	}

	if err := dashboards.InvalidateAll(ctx); err != nil {
		log.Printf("warning: failed to invalidate dashboard cache: %v", err)
	}

	return nil
}

func dashboardCache(c *cli.Context) cache.DashboardCache {
	url := c.String("redis-url")
	if url == "" {
		return cache.NewNoopDashboardCache()
	}

	dashboards, err := cache.NewDashboardCache(config.CacheConfig{
		Enabled:  true,
		RedisURL: url,
	})
	if err != nil {
		log.Printf("warning: dashboard cache unavailable, skipping invalidation: %v", err)
		return cache.NewNoopDashboardCache()
	}

	return dashboards
}

func downloadSnapshots(c *cli.Context, destDir string) error {
	client, err := storage.NewBucketClient(storage.BucketConfig{
		Endpoint:  c.String("bucket-endpoint"),
		AccessKey: c.String("bucket-access-key"),
		SecretKey: c.String("bucket-secret-key"),
		Bucket:    c.String("bucket-name"),
		UseSSL:    c.Bool("bucket-use-ssl"),
	})
	if err != nil {
		return err
	}

	prefix := c.String("bucket-prefix")
	if date := c.String("date"); date != "" {
		prefix += date
	}

	return downloadObjects(c.Context, client, prefix, destDir)
}

func downloadObjects(ctx context.Context, client storage.ObjectStorage, prefix, destDir string) error {
	objects, err := client.ListObjects(ctx, prefix)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		return fmt.Errorf("no objects found under prefix %s", prefix)
	}

	for _, obj := range objects {
		if !strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			continue
		}
		destPath := filepath.Join(destDir, filepath.Base(obj.Key))
		if err := client.DownloadObject(ctx, obj.Key, destPath); err != nil {
			return err
		}
		log.Printf("downloaded %s (%d bytes)", obj.Key, obj.Size)
	}

	return nil
}

func snapshotFiles(dataDir, date string) ([]string, error) {
	if date != "" {
		file := filepath.Join(dataDir, date+".csv")
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("snapshot file not found: %s", file)
		}
		return []string{file}, nil
	}

	matches, err := filepath.Glob(filepath.Join(dataDir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dataDir, err)
	}

	return matches, nil
}
