package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vitorfontenele/videos-api/internal/videos"
)

// Creator is the part of videos.Service used when seeding.
type Creator interface {
	Create(ctx context.Context, in videos.Input) (videos.Video, error)
}

func runSeed(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected seed file (e.g. seed videos.json)")
	}

	cfg, logger, closeLog, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeLog()

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	created, err := seedVideos(ctx, videos.NewService(store), file)
	if err != nil {
		return err
	}

	logger.Info("seed applied", "file", args[0], "videos", created)
	return nil
}

// seedVideos creates every entry of a JSON array through the service so the
// usual validation applies. It stops at the first rejected entry.
func seedVideos(ctx context.Context, svc Creator, r io.Reader) (int, error) {
	var entries []json.RawMessage
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	for i, entry := range entries {
		in, err := videos.ParseInput(entry)
		if err != nil {
			return i, fmt.Errorf("seed entry %d: %w", i, err)
		}
		if _, err := svc.Create(ctx, in); err != nil {
			return i, fmt.Errorf("seed entry %d: %w", i, err)
		}
	}

	return len(entries), nil
}
