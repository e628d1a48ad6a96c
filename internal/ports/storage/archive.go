package storage

import (
	"context"

	"github.com/admin/astro-services/natal-service/internal/domain"
)

// IChartArchive архив полных JSON-документов карт (S3)
type IChartArchive interface {
	Store(ctx context.Context, record *domain.ChartRecord) error
}
