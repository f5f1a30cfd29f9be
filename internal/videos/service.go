package videos

import (
	"context"
	"errors"
	"time"

	"github.com/vitorfontenele/videos-api/internal/logging"
	"github.com/vitorfontenele/videos-api/internal/repositories"
)

// Service implements the video catalog operations on top of a repository.
// It keeps no state between calls.
type Service struct {
	Store   repositories.VideoRepository
	NowFunc func() time.Time
}

// NewService returns a Service using the wall clock.
func NewService(store repositories.VideoRepository) *Service {
	return &Service{Store: store, NowFunc: time.Now}
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now()
}

// List returns every video, or those whose title contains search.
func (s *Service) List(ctx context.Context, search string) (videos []Video, err error) {
	ctx, span := logging.StartSpan(ctx, "videos.list")
	defer func() { span.RecordError(err); span.End() }()

	records, err := s.Store.FindAll(ctx, search)
	if err != nil {
		return nil, StorageError(err)
	}

	videos = make([]Video, 0, len(records))
	for _, record := range records {
		videos = append(videos, FromRecord(record))
	}
	return videos, nil
}

// Create validates in and stores a new video stamped with the current time.
// Checks run in order and the first failure is returned.
func (s *Service) Create(ctx context.Context, in Input) (video Video, err error) {
	ctx, span := logging.StartSpan(ctx, "videos.create")
	defer func() { span.RecordError(err); span.End() }()

	id, ok := in.ID.String()
	if !ok {
		return Video{}, ValidationError(msgIDType)
	}
	if err := s.ensureAvailable(ctx, id); err != nil {
		return Video{}, err
	}

	title, ok := in.Title.String()
	if !ok {
		return Video{}, ValidationError(msgTitleType)
	}

	duration, err := checkDuration(in.Duration)
	if err != nil {
		return Video{}, err
	}

	video = New(id, title, duration, s.now())
	if err := s.Store.Insert(ctx, video.Record()); err != nil {
		return Video{}, writeError(err)
	}

	return video, nil
}

// Update applies the supplied members of in to the video stored under id.
// Members that are empty strings or zero are ignored by the merge.
func (s *Service) Update(ctx context.Context, id string, in Input) (video Video, err error) {
	ctx, span := logging.StartSpan(ctx, "videos.update")
	defer func() { span.RecordError(err); span.End() }()

	if in.ID.Set {
		newID, ok := in.ID.String()
		if !ok {
			return Video{}, ValidationError(msgIDType)
		}
		if err := s.ensureAvailable(ctx, newID); err != nil {
			return Video{}, err
		}
	}

	if in.Title.Set {
		if _, ok := in.Title.String(); !ok {
			return Video{}, ValidationError(msgTitleType)
		}
	}

	if in.Duration.Set {
		if _, err := checkDuration(in.Duration); err != nil {
			return Video{}, err
		}
	}

	record, err := s.Store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return Video{}, NotFoundError(msgIDNotFound)
		}
		return Video{}, StorageError(err)
	}

	video = FromRecord(record).merge(in)
	if err := s.Store.UpdateByID(ctx, id, video.Record()); err != nil {
		return Video{}, writeError(err)
	}

	return video, nil
}

// Delete removes the video stored under id and returns it.
func (s *Service) Delete(ctx context.Context, id string) (video Video, err error) {
	ctx, span := logging.StartSpan(ctx, "videos.delete")
	defer func() { span.RecordError(err); span.End() }()

	record, err := s.Store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return Video{}, NotFoundError(msgVideoNotFound)
		}
		return Video{}, StorageError(err)
	}

	video = FromRecord(record)
	if err := s.Store.DeleteByID(ctx, id); err != nil {
		return Video{}, StorageError(err)
	}

	return video, nil
}

// ensureAvailable fails with a ConflictError when a video already uses id.
func (s *Service) ensureAvailable(ctx context.Context, id string) error {
	_, err := s.Store.FindByID(ctx, id)
	switch {
	case err == nil:
		return ConflictError(msgIDTaken)
	case errors.Is(err, repositories.ErrNotFound):
		return nil
	default:
		return StorageError(err)
	}
}

// writeError maps a failed store write to the error reported to callers.
func writeError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrConflict):
		return ConflictError(msgIDTaken)
	case errors.Is(err, repositories.ErrEmptyKey):
		return &Error{Kind: ErrValidation, Message: msgIDEmpty, Err: err}
	default:
		return StorageError(err)
	}
}

func checkDuration(field Field) (float64, error) {
	duration, ok := field.Number()
	if !ok {
		return 0, ValidationError(msgDurationType)
	}
	if !(duration > 0) {
		return 0, ValidationError(msgDurationPositive)
	}
	return duration, nil
}
