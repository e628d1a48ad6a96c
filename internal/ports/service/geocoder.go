package service

import (
	"context"

	"github.com/admin/astro-services/natal-service/internal/domain"
)

// GeoPoint координаты, возвращённые геокодером
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// IGeocoder геокодер: свободный текст места -> координаты.
// Возвращает domain.LocationNotFoundError, когда кандидатов нет.
type IGeocoder interface {
	Geocode(ctx context.Context, query string) (*GeoPoint, error)
}

// ITimezoneResolver резолвер таймзоны по координатам.
// Возвращает domain.TimezoneResolutionError, когда зону определить нельзя.
type ITimezoneResolver interface {
	Resolve(latitude, longitude float64) (string, error)
}

// ILocationService композиция геокодера и резолвера таймзоны
type ILocationService interface {
	Resolve(ctx context.Context, query string) (domain.ResolvedLocation, error)
}
