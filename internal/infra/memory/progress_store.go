package memory

import (
	"context"
	"sync"

	"etika-quiz-service/internal/domain"
)

// ProgressStore keeps per-login quiz progress in a map; the implementation
// of app.ProgressStore used by tests and the no-redis fallback mode.
type ProgressStore struct {
	mu       sync.RWMutex
	progress map[string]domain.Progress
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{progress: make(map[string]domain.Progress)}
}

func (s *ProgressStore) Get(_ context.Context, token string) (domain.Progress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[token]
	return p, ok, nil
}

func (s *ProgressStore) Save(_ context.Context, token string, p domain.Progress) error {
	s.mu.Lock()
	s.progress[token] = p
	s.mu.Unlock()
	return nil
}

func (s *ProgressStore) Clear(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.progress, token)
	s.mu.Unlock()
	return nil
}
