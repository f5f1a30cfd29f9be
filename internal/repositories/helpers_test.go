package repositories

import (
	"github.com/google/uuid"

	"github.com/vitorfontenele/videos-api/internal/models"
)

func newTestVideo(title string) models.VideoRecord {
	return models.VideoRecord{
		ID:         uuid.NewString(),
		Title:      title,
		Duration:   123.5,
		UploadedAt: "2024-05-01T12:00:00.000Z",
	}
}
