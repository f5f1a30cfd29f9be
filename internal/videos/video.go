package videos

import (
	"encoding/json"
	"time"

	"github.com/vitorfontenele/videos-api/internal/models"
)

// TimestampLayout formats uploadedAt as UTC ISO-8601 with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Video is an immutable video value. Use merge to derive a modified copy.
type Video struct {
	id         string
	title      string
	duration   float64
	uploadedAt string
}

// New builds a video stamped with the given upload time.
func New(id, title string, duration float64, uploadedAt time.Time) Video {
	return Video{
		id:         id,
		title:      title,
		duration:   duration,
		uploadedAt: uploadedAt.UTC().Format(TimestampLayout),
	}
}

// FromRecord rebuilds a video from its persisted form.
func FromRecord(record models.VideoRecord) Video {
	return Video{
		id:         record.ID,
		title:      record.Title,
		duration:   record.Duration,
		uploadedAt: record.UploadedAt,
	}
}

func (v Video) ID() string         { return v.id }
func (v Video) Title() string      { return v.title }
func (v Video) Duration() float64  { return v.duration }
func (v Video) UploadedAt() string { return v.uploadedAt }

// Record returns the persisted form of the video.
func (v Video) Record() models.VideoRecord {
	return models.VideoRecord{
		ID:         v.id,
		Title:      v.title,
		Duration:   v.duration,
		UploadedAt: v.uploadedAt,
	}
}

type videoJSON struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	UploadedAt string  `json:"uploadedAt"`
}

func (v Video) MarshalJSON() ([]byte, error) {
	return json.Marshal(videoJSON{
		ID:         v.id,
		Title:      v.title,
		Duration:   v.duration,
		UploadedAt: v.uploadedAt,
	})
}

// merge returns a copy where each supplied member replaces the current value
// only when it is truthy: a non-empty string or a non-zero number. uploadedAt
// is always kept.
func (v Video) merge(in Input) Video {
	merged := v
	if id, ok := in.ID.String(); ok && id != "" {
		merged.id = id
	}
	if title, ok := in.Title.String(); ok && title != "" {
		merged.title = title
	}
	if duration, ok := in.Duration.Number(); ok && duration != 0 {
		merged.duration = duration
	}
	return merged
}
