package models

// VideoRecord is the persisted shape of a video row in the videos table.
type VideoRecord struct {
	ID         string
	Title      string
	Duration   float64
	UploadedAt string
}
