package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/vitorfontenele/videos-api/internal/storage"
	"github.com/vitorfontenele/videos-api/internal/videos"
)

// Lister is the part of videos.Service used when exporting.
type Lister interface {
	List(ctx context.Context, search string) ([]videos.Video, error)
}

// ObjectSaver stores an exported document and returns where it landed.
type ObjectSaver interface {
	Save(ctx context.Context, name, contentType string, body io.Reader) (string, error)
}

func runExport(ctx context.Context, args []string) error {
	cfg, logger, closeLog, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeLog()

	key := ""
	if len(args) > 0 {
		key = args[0]
	}

	objects, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	location, count, err := exportCatalog(ctx, videos.NewService(store), objects, key, time.Now())
	if err != nil {
		return err
	}

	logger.Info("catalog exported", "location", location, "videos", count)
	return nil
}

// exportCatalog uploads every video as a JSON array. An empty key derives one
// from now.
func exportCatalog(ctx context.Context, svc Lister, saver ObjectSaver, key string, now time.Time) (string, int, error) {
	all, err := svc.List(ctx, "")
	if err != nil {
		return "", 0, fmt.Errorf("list videos: %w", err)
	}

	payload, err := json.Marshal(all)
	if err != nil {
		return "", 0, fmt.Errorf("encode catalog: %w", err)
	}

	if key == "" {
		key = fmt.Sprintf("exports/videos-%s.json", now.UTC().Format("20060102T150405Z"))
	}

	location, err := saver.Save(ctx, key, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", 0, err
	}
	return location, len(all), nil
}
