package quiz

import (
	"context"
	"sync"
	"time"
)

// Cache-specific helpers are isolated here so service.go can focus on orchestration.

const DefaultResultTTL = 10 * time.Minute

// ResultCache stores finished attempts by attempt id. Implementations must
// treat a miss as (QuizResult{}, false, nil).
type ResultCache interface {
	GetResult(ctx context.Context, attemptID string) (QuizResult, bool, error)
	SetResult(ctx context.Context, result QuizResult) error
}

// Quizzes are immutable once stored, so cached entries never expire.
func (s *Service) getCachedQuiz(quizID string) (Quiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cached, ok := s.quizCache[quizID]
	return cached, ok
}

func (s *Service) setCachedQuiz(q Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizCache[q.QuizID] = q
}

type memoryEntry struct {
	result    QuizResult
	expiresAt time.Time
}

type MemoryResultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryResultCache(ttl time.Duration) *MemoryResultCache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &MemoryResultCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryResultCache) GetResult(_ context.Context, attemptID string) (QuizResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[attemptID]
	if !ok {
		return QuizResult{}, false, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, attemptID)
		return QuizResult{}, false, nil
	}
	return entry.result, true, nil
}

func (c *MemoryResultCache) SetResult(_ context.Context, result QuizResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[result.AttemptID] = memoryEntry{
		result:    result,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}
