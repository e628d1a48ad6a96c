package service

import (
	"context"

	"github.com/admin/astro-services/natal-service/internal/domain"
)

// IEphemerisService движок эфемерид: (юлианский день UT, тело) ->
// эклиптическая долгота и её суточная скорость. Потребляется как
// чистая функция; внутренняя модель не наша забота.
type IEphemerisService interface {
	Position(ctx context.Context, jd domain.JulianDay, body domain.Body) (*domain.EphemerisResult, error)
}
