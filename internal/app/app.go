package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	server "github.com/admin/astro-services/natal-service/internal/adapters/primary/http"
	chartController "github.com/admin/astro-services/natal-service/internal/adapters/primary/http/controllers/chart"
	healthcheckController "github.com/admin/astro-services/natal-service/internal/adapters/primary/http/controllers/healthcheck"
	"github.com/admin/astro-services/natal-service/internal/adapters/secondary/ephemeris"
	"github.com/admin/astro-services/natal-service/internal/adapters/secondary/geocode"
	kafkaAdapter "github.com/admin/astro-services/natal-service/internal/adapters/secondary/kafka"
	"github.com/admin/astro-services/natal-service/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/astro-services/natal-service/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/astro-services/natal-service/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/astro-services/natal-service/internal/adapters/secondary/storage/s3"
	"github.com/admin/astro-services/natal-service/internal/adapters/secondary/timezone"
	"github.com/admin/astro-services/natal-service/internal/pkg/logger"
	"github.com/admin/astro-services/natal-service/internal/ports/cache"
	kafkaPorts "github.com/admin/astro-services/natal-service/internal/ports/kafka"
	"github.com/admin/astro-services/natal-service/internal/ports/repository"
	"github.com/admin/astro-services/natal-service/internal/ports/storage"
	chartRepo "github.com/admin/astro-services/natal-service/internal/repository/chart"
	"github.com/admin/astro-services/natal-service/internal/services/location"
	chartService "github.com/admin/astro-services/natal-service/internal/usecases/chart"
	"golang.org/x/sync/errgroup"

	"github.com/jmoiron/sqlx"
)

type App struct {
	Name string
	Cfg  *Config
	Log  *slog.Logger
}

func New(name string, cfg *Config) *App {
	return &App{
		Name: name,
		Cfg:  cfg,
		Log:  logger.New(name, cfg.Log),
	}
}

func (a *App) Run(ctx context.Context) error {
	a.Log.Info("running natal-service")

	var db *sqlx.DB
	var repo repository.IChartRepo

	if a.Cfg.Postgres.Enabled() {
		conn, err := a.initPostgres()
		if err != nil {
			return fmt.Errorf("failed to init postgres: %w", err)
		}
		db = conn
		repo = chartRepo.New(pg.NewDB(db), a.Log)
	} else {
		a.Log.Warn("postgres is not configured, using in-memory chart store")
		repo = inmemory.NewChartStore()
	}

	var chartCache cache.Cache
	if a.Cfg.Redis.Enabled() {
		rdb, err := a.Cfg.Redis.NewConnection()
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		chartCache = redisAdapter.NewClient(rdb)
		a.Log.Info("redis connected successfully")
	}

	var producer kafkaPorts.IChartEventProducer
	if a.Cfg.Kafka.Enabled() {
		p, err := kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
		if err != nil {
			return fmt.Errorf("failed to init kafka producer: %w", err)
		}
		producer = p
	}

	var archive storage.IChartArchive
	if a.Cfg.S3.Enabled() {
		s3Client, err := a.Cfg.S3.NewConnection()
		if err != nil {
			return fmt.Errorf("failed to init s3 client: %w", err)
		}
		archive = s3Adapter.NewClient(s3Client, a.Cfg.S3.Bucket, a.Log)
	}

	tzResolver, err := timezone.NewResolver(a.Log)
	if err != nil {
		return fmt.Errorf("failed to init timezone resolver: %w", err)
	}

	bodies, err := a.Cfg.Chart.TrackedBodies()
	if err != nil {
		return err
	}

	geocoderClient := geocode.NewClient(a.Cfg.Geocoder, a.Log)
	ephemerisClient := ephemeris.NewClient(a.Cfg.Ephemeris, a.Log)
	locationService := location.New(geocoderClient, tzResolver, a.Log)

	charts := chartService.New(
		locationService,
		ephemerisClient,
		repo,
		chartCache,
		producer,
		archive,
		bodies,
		a.Log,
	)

	chartCtrl := chartController.New(charts, a.Log)
	healthCheck := healthcheckController.New(db, a.Log)

	httpServer := server.NewHTTPServer(a.Cfg.Server, a.Log, healthCheck, chartCtrl)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("starting http server",
			"host", a.Cfg.Server.Host,
			"port", a.Cfg.Server.Port)

		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.Log.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.Log.Error("failed to shutdown http server", "error", err)
		}

		if chartCache != nil {
			if err := chartCache.Close(); err != nil {
				a.Log.Error("failed to close redis", "error", err)
			}
		}

		if producer != nil {
			if err := producer.Close(); err != nil {
				a.Log.Error("failed to close kafka producer", "error", err)
			}
		}

		if db != nil {
			if err := db.Close(); err != nil {
				a.Log.Error("failed to close database", "error", err)
			}
		}

		a.Log.Info("application shutdown completed")
		return nil
	})

	if err := g.Wait(); err != nil {
		a.Log.Error("application error", "error", err)
		return err
	}

	return nil
}

func (a *App) initPostgres() (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(db, a.Log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
