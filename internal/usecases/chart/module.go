package chart

import (
	"log/slog"

	"github.com/admin/astro-services/natal-service/internal/domain"
	"github.com/admin/astro-services/natal-service/internal/ports/cache"
	"github.com/admin/astro-services/natal-service/internal/ports/kafka"
	"github.com/admin/astro-services/natal-service/internal/ports/repository"
	"github.com/admin/astro-services/natal-service/internal/ports/service"
	"github.com/admin/astro-services/natal-service/internal/ports/storage"
	"golang.org/x/sync/singleflight"
)

// Service бизнес-логика расчёта натальных карт
type Service struct {
	Location  service.ILocationService
	Ephemeris service.IEphemerisService
	ChartRepo repository.IChartRepo
	Cache     cache.Cache                // опционально, быстрый кэш перед БД
	Producer  kafka.IChartEventProducer  // опционально
	Archive   storage.IChartArchive      // опционально
	Bodies    []domain.Body
	Log       *slog.Logger

	flights singleflight.Group
}

// New создаёт новый сервис расчёта карт.
// Cache, Producer и Archive могут быть nil — соответствующие шаги
// тогда пропускаются.
func New(
	location service.ILocationService,
	ephemeris service.IEphemerisService,
	chartRepo repository.IChartRepo,
	cacheClient cache.Cache,
	producer kafka.IChartEventProducer,
	archive storage.IChartArchive,
	bodies []domain.Body,
	log *slog.Logger,
) *Service {
	if len(bodies) == 0 {
		bodies = domain.DefaultTrackedBodies()
	}
	return &Service{
		Location:  location,
		Ephemeris: ephemeris,
		ChartRepo: chartRepo,
		Cache:     cacheClient,
		Producer:  producer,
		Archive:   archive,
		Bodies:    bodies,
		Log:       log,
	}
}
