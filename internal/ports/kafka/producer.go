package kafka

import (
	"context"

	"github.com/admin/astro-services/natal-service/internal/domain"
)

// IChartEventProducer публикация событий о рассчитанных картах
type IChartEventProducer interface {
	PublishChartComputed(ctx context.Context, record *domain.ChartRecord) error
	Close() error
}
