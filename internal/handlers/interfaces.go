package handlers

import (
	"context"

	"github.com/vitorfontenele/videos-api/internal/videos"
)

// VideoService captures the catalog operations required by the video handlers.
type VideoService interface {
	List(ctx context.Context, search string) ([]videos.Video, error)
	Create(ctx context.Context, in videos.Input) (videos.Video, error)
	Update(ctx context.Context, id string, in videos.Input) (videos.Video, error)
	Delete(ctx context.Context, id string) (videos.Video, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
