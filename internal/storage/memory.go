package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/letsssgooo/shepherdBot/internal/domain/models"
)

// MemoryStorage реализует Storage в памяти.
type MemoryStorage struct {
	results map[string]*models.ResultModel
	order   []string
	mu      sync.RWMutex
}

// NewMemoryStorage создаёт новый MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		results: make(map[string]*models.ResultModel),
	}
}

// SaveResult сохраняет результат. Пустой ID заполняется новым UUID.
func (s *MemoryStorage) SaveResult(ctx context.Context, result *models.ResultModel) error {
	if result == nil {
		return errors.New("result object is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if result.ID == "" {
		result.ID = uuid.NewString()
	}

	if _, ok := s.results[result.ID]; !ok {
		s.order = append(s.order, result.ID)
	}
	s.results[result.ID] = clone(result)

	return nil
}

// GetResult возвращает результат по ID.
func (s *MemoryStorage) GetResult(ctx context.Context, id string) (*models.ResultModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[id]
	if !ok {
		return nil, ErrNotFound
	}

	return clone(result), nil
}

// ListResults возвращает последние результаты, новые первыми.
func (s *MemoryStorage) ListResults(ctx context.Context, limit int) ([]*models.ResultModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*models.ResultModel, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		results = append(results, clone(s.results[s.order[i]]))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinishedAt.After(results[j].FinishedAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func clone(r *models.ResultModel) *models.ResultModel {
	c := *r
	c.Answers = append([]models.AnswerModel(nil), r.Answers...)
	return &c
}
