package cache

import (
	"context"
	"time"
)

// Cache интерфейс для работы с быстрым кэшем (Redis)
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Close() error
}
