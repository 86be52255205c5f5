package scores

import (
	"context"
	"sync"
)

// MemoryStore keeps scores in process memory
type MemoryStore struct {
	mu     sync.Mutex
	scores []int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(initial ...int) *MemoryStore {
	return &MemoryStore{scores: append([]int(nil), initial...)}
}

func (m *MemoryStore) Scores(ctx context.Context) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.scores...), nil
}

func (m *MemoryStore) Highest(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maxScore(m.scores), nil
}

func (m *MemoryStore) Record(ctx context.Context, score int) (bool, error) {
	if score < 0 {
		return false, ErrNegativeScore
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if score <= maxScore(m.scores) {
		return false, nil
	}
	m.scores = append(m.scores, score)
	return true, nil
}

func (m *MemoryStore) Close() error { return nil }
