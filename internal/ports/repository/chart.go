package repository

import (
	"context"

	"github.com/admin/astro-services/natal-service/internal/domain"
)

// IChartRepo долговременное хранилище рассчитанных карт.
// GetByKey возвращает domain.ErrChartNotFound, когда записи нет.
// Create обязан быть идемпотентным: повторная запись того же ключа
// не ошибка (содержимое для ключа всегда идентично).
type IChartRepo interface {
	Create(ctx context.Context, record *domain.ChartRecord) error
	GetByKey(ctx context.Context, key domain.ChartKey) (*domain.ChartRecord, error)
}
