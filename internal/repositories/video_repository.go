package repositories

import (
	"context"
	"strings"

	"github.com/vitorfontenele/videos-api/internal/models"
)

// VideoRepository exposes data access for the videos table.
//
// UpdateByID and DeleteByID succeed silently when no row matches id; callers
// check existence beforehand.
type VideoRepository interface {
	FindAll(ctx context.Context, search string) ([]models.VideoRecord, error)
	FindByID(ctx context.Context, id string) (models.VideoRecord, error)
	Insert(ctx context.Context, video models.VideoRecord) error
	UpdateByID(ctx context.Context, id string, video models.VideoRecord) error
	DeleteByID(ctx context.Context, id string) error
}

// Store is a VideoRepository that can report whether its backend is reachable.
type Store interface {
	VideoRepository
	Ping(ctx context.Context) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching search as a literal substring.
// Queries using it must declare ESCAPE '\'.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
