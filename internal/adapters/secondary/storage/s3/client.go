package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"github.com/admin/astro-services/natal-service/internal/domain"
	"github.com/admin/astro-services/natal-service/internal/ports/storage"
	"github.com/minio/minio-go/v7"
)

// Client обёртка над minio.Client для архива карт.
// Реализует storage.IChartArchive
type Client struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

// NewClient создаёт новый S3-архив карт
func NewClient(client *minio.Client, bucket string, log *slog.Logger) storage.IChartArchive {
	return &Client{
		client: client,
		bucket: bucket,
		log:    log,
	}
}

// Store записывает полный JSON-документ карты по пути charts/<key>.json
func (c *Client) Store(ctx context.Context, record *domain.ChartRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal chart: %w", err)
	}

	objectName := "charts/" + record.Key() + ".json"
	_, err = c.client.PutObject(ctx, c.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", objectName, err)
	}

	c.log.Debug("chart archived",
		"bucket", c.bucket,
		"object", objectName,
		"size", len(data),
	)
	return nil
}
