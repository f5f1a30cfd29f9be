package repositories

import "errors"

var (
	// ErrNotFound indicates no video is stored under the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the write would reuse an id another video already holds.
	ErrConflict = errors.New("record conflict")
	// ErrEmptyKey indicates the backend cannot store a video under an empty id.
	ErrEmptyKey = errors.New("empty record key")
)
