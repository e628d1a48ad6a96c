package location

import (
	"context"
	"errors"
	"log/slog"

	"github.com/admin/astro-services/natal-service/internal/domain"
	"github.com/admin/astro-services/natal-service/internal/ports/service"
	"golang.org/x/sync/singleflight"
)

// Service реализует ILocationService: свободный текст места ->
// (широта, долгота, таймзона). Композиция геокодера и резолвера таймзон.
type Service struct {
	geocoder service.IGeocoder
	timezone service.ITimezoneResolver
	log      *slog.Logger
	flights  singleflight.Group
}

// New создаёт новый сервис разрешения мест
func New(geocoder service.IGeocoder, timezone service.ITimezoneResolver, log *slog.Logger) service.ILocationService {
	return &Service{
		geocoder: geocoder,
		timezone: timezone,
		log:      log,
	}
}

// Resolve разрешает текст места в координаты и таймзону.
// Первый кандидат геокодера считается авторитетным: ранжирования и
// снятия неоднозначности нет, это осознанное упрощение. Сбой
// геокодирования ретраится ровно один раз, вторая ошибка отдаётся
// вызывающему. Конкурентные запросы одного текста схлопываются.
func (s *Service) Resolve(ctx context.Context, query string) (domain.ResolvedLocation, error) {
	if query == "" {
		return domain.ResolvedLocation{}, &domain.LocationNotFoundError{Query: query}
	}

	v, err, _ := s.flights.Do(query, func() (interface{}, error) {
		return s.resolve(ctx, query)
	})
	if err != nil {
		return domain.ResolvedLocation{}, err
	}
	return v.(domain.ResolvedLocation), nil
}

func (s *Service) resolve(ctx context.Context, query string) (domain.ResolvedLocation, error) {
	point, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		s.log.Debug("geocoding failed, retrying once", "error", err, "query", query)
		point, err = s.geocoder.Geocode(ctx, query)
	}
	if err != nil {
		var notFound *domain.LocationNotFoundError
		if errors.As(err, &notFound) {
			return domain.ResolvedLocation{}, err
		}
		return domain.ResolvedLocation{}, &domain.LocationNotFoundError{Query: query, Err: err}
	}

	zone, err := s.timezone.Resolve(point.Latitude, point.Longitude)
	if err != nil {
		return domain.ResolvedLocation{}, err
	}

	resolved := domain.ResolvedLocation{
		Latitude:  point.Latitude,
		Longitude: point.Longitude,
		Timezone:  zone,
	}

	s.log.Debug("location resolved",
		"query", query,
		"latitude", resolved.Latitude,
		"longitude", resolved.Longitude,
		"timezone", resolved.Timezone,
	)
	return resolved, nil
}
