package repositories

import (
	"context"
	"strings"
	"sync"

	"github.com/vitorfontenele/videos-api/internal/models"
)

// NewInMemoryVideoStore returns a Store backed by an in-memory map.
func NewInMemoryVideoStore() *InMemoryVideoStore {
	return &InMemoryVideoStore{videos: make(map[string]models.VideoRecord)}
}

// InMemoryVideoStore implements Store for tests and local development.
// Listing returns videos in insertion order.
type InMemoryVideoStore struct {
	mu     sync.RWMutex
	videos map[string]models.VideoRecord
	order  []string
}

func (s *InMemoryVideoStore) FindAll(_ context.Context, search string) ([]models.VideoRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	videos := make([]models.VideoRecord, 0, len(s.order))
	for _, id := range s.order {
		video := s.videos[id]
		if search != "" && !strings.Contains(video.Title, search) {
			continue
		}
		videos = append(videos, video)
	}
	return videos, nil
}

func (s *InMemoryVideoStore) FindByID(_ context.Context, id string) (models.VideoRecord, error) {
	s.mu.RLock()
	video, ok := s.videos[id]
	s.mu.RUnlock()
	if !ok {
		return models.VideoRecord{}, ErrNotFound
	}
	return video, nil
}

func (s *InMemoryVideoStore) Insert(_ context.Context, video models.VideoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[video.ID]; ok {
		return ErrConflict
	}
	s.videos[video.ID] = video
	s.order = append(s.order, video.ID)
	return nil
}

func (s *InMemoryVideoStore) UpdateByID(_ context.Context, id string, video models.VideoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[id]; !ok {
		return nil
	}
	if video.ID != id {
		if _, taken := s.videos[video.ID]; taken {
			return ErrConflict
		}
		delete(s.videos, id)
		for i, existing := range s.order {
			if existing == id {
				s.order[i] = video.ID
				break
			}
		}
	}
	s.videos[video.ID] = video
	return nil
}

func (s *InMemoryVideoStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[id]; !ok {
		return nil
	}
	delete(s.videos, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds.
func (s *InMemoryVideoStore) Ping(context.Context) error {
	return nil
}

// Len reports how many videos are stored. Useful for tests.
func (s *InMemoryVideoStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.videos)
}

var _ Store = (*InMemoryVideoStore)(nil)
