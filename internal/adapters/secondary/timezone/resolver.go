package timezone

import (
	"fmt"

	"log/slog"

	"github.com/admin/astro-services/natal-service/internal/domain"
	"github.com/ringsaturn/tzf"
)

// Resolver локальный резолвер таймзоны по координатам.
// Реализует service.ITimezoneResolver поверх tzf (point-in-polygon
// поиск по данным IANA, без сетевых вызовов)
type Resolver struct {
	finder tzf.F
	log    *slog.Logger
}

// NewResolver создаёт новый резолвер таймзон
func NewResolver(log *slog.Logger) (*Resolver, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("failed to init timezone finder: %w", err)
	}
	return &Resolver{
		finder: finder,
		log:    log,
	}, nil
}

// Resolve возвращает IANA-идентификатор таймзоны для точки.
// Для точек на суше зона определяется всегда; пустой результат
// (открытый океан) - domain.TimezoneResolutionError
func (r *Resolver) Resolve(latitude, longitude float64) (string, error) {
	// tzf принимает (lng, lat)
	zone := r.finder.GetTimezoneName(longitude, latitude)
	if zone == "" {
		return "", &domain.TimezoneResolutionError{
			Latitude:  latitude,
			Longitude: longitude,
			Err:       fmt.Errorf("no timezone for point"),
		}
	}
	return zone, nil
}
