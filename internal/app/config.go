package app

import (
	"fmt"

	server "github.com/admin/astro-services/natal-service/internal/adapters/primary/http"
	"github.com/admin/astro-services/natal-service/internal/adapters/secondary/ephemeris"
	"github.com/admin/astro-services/natal-service/internal/adapters/secondary/geocode"
	kafkaAdapter "github.com/admin/astro-services/natal-service/internal/adapters/secondary/kafka"
	"github.com/admin/astro-services/natal-service/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/astro-services/natal-service/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/astro-services/natal-service/internal/adapters/secondary/storage/s3"
	"github.com/admin/astro-services/natal-service/internal/domain"
	"github.com/admin/astro-services/natal-service/internal/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Log       *logger.Config       `envconfig:"LOG"`
	Server    *server.Config       `envconfig:"APISERVER"`
	Postgres  *pg.Config           `envconfig:"POSTGRES"`
	Redis     *redisAdapter.Config `envconfig:"REDIS"`
	Kafka     *kafkaAdapter.Config `envconfig:"KAFKA"`
	S3        *s3Adapter.Config    `envconfig:"S3"`
	Geocoder  *geocode.Config      `envconfig:"GEOCODER"`
	Ephemeris *ephemeris.Config    `envconfig:"EPHEMERIS"`
	Chart     ChartConfig          `envconfig:"CHART"`
}

// ChartConfig настройки пайплайна расчёта карт
type ChartConfig struct {
	// Bodies отслеживаемые тела через запятую; пусто - список по умолчанию
	Bodies []string `envconfig:"BODIES"`
}

// TrackedBodies возвращает валидированный список тел
func (c *ChartConfig) TrackedBodies() ([]domain.Body, error) {
	if len(c.Bodies) == 0 {
		return domain.DefaultTrackedBodies(), nil
	}
	bodies, err := domain.ParseBodies(c.Bodies)
	if err != nil {
		return nil, fmt.Errorf("invalid chart bodies config: %w", err)
	}
	return bodies, nil
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	if cfg.Ephemeris == nil || cfg.Ephemeris.BaseURL == "" {
		return nil, fmt.Errorf("ephemeris base url is required")
	}

	return cfg, nil
}
