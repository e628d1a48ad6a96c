package inmemory

import (
	"context"
	"sync"

	"github.com/admin/astro-services/natal-service/internal/domain"
)

// ChartStore in-memory реализация хранилища карт.
// Используется тестами и как фолбэк, когда Postgres не настроен
type ChartStore struct {
	mu     sync.RWMutex
	charts map[string]*domain.ChartRecord // key.String() -> record
}

// NewChartStore создаёт новое in-memory хранилище карт
func NewChartStore() *ChartStore {
	return &ChartStore{
		charts: make(map[string]*domain.ChartRecord),
	}
}

// Create сохраняет карту; повторная запись существующего ключа - no-op,
// как и ON CONFLICT DO NOTHING в Postgres-реализации
func (s *ChartStore) Create(ctx context.Context, record *domain.ChartRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := record.Key()
	if _, exists := s.charts[key]; exists {
		return nil
	}
	s.charts[key] = cloneRecord(record)
	return nil
}

// GetByKey возвращает карту по ключу или domain.ErrChartNotFound
func (s *ChartStore) GetByKey(ctx context.Context, key domain.ChartKey) (*domain.ChartRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.charts[key.String()]
	if !exists {
		return nil, domain.ErrChartNotFound
	}
	return cloneRecord(record), nil
}

// Len количество сохранённых карт (для тестов)
func (s *ChartStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.charts)
}

// cloneRecord копирует запись, чтобы хранимое содержимое нельзя было
// мутировать через возвращённый указатель
func cloneRecord(record *domain.ChartRecord) *domain.ChartRecord {
	clone := *record
	clone.Positions = make(domain.PositionList, len(record.Positions))
	copy(clone.Positions, record.Positions)
	return &clone
}
