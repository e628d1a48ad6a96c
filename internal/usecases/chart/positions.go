package chart

import (
	"context"
	"fmt"
	"math"

	"github.com/admin/astro-services/natal-service/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DerivePositions рассчитывает позиции всех отслеживаемых тел для
// одного астрономического момента. Запросы к эфемеридам для разных тел
// независимы и выполняются параллельно; результаты собираются в порядке
// списка тел. Ошибка по любому телу фатальна для всей карты.
//
// Постусловие: каждая долгота лежит в [0, 360); если среди тел есть
// Rahu, к результату добавляется синтезированный Ketu (+180°, тот же
// флаг ретроградности).
func (s *Service) DerivePositions(ctx context.Context, jd domain.JulianDay) (domain.PositionList, error) {
	positions := make(domain.PositionList, len(s.Bodies))

	g, gCtx := errgroup.WithContext(ctx)
	for i, body := range s.Bodies {
		i, body := i, body
		g.Go(func() error {
			res, err := s.Ephemeris.Position(gCtx, jd, body)
			if err != nil {
				return &domain.EphemerisError{Body: body, Err: err}
			}
			if math.IsNaN(res.Longitude) || math.IsNaN(res.SpeedPerDay) {
				return &domain.EphemerisError{Body: body, Err: fmt.Errorf("malformed result: longitude=%v, speed=%v", res.Longitude, res.SpeedPerDay)}
			}
			positions[i] = domain.BodyPosition{
				Body:       body,
				Longitude:  normalizeLongitude(res.Longitude),
				Retrograde: res.SpeedPerDay < 0,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range positions {
		if p.Body == domain.BodyRahu {
			positions = append(positions, synthesizeKetu(p))
			break
		}
	}

	return positions, nil
}

// synthesizeKetu нисходящий узел из восходящего: ровно +180° по долготе,
// тот же флаг ретроградности (узлы всегда движутся вместе).
// Ветвление вместо сложения с последующим mod сохраняет точное
// равенство |Rahu - Ketu| == 180 в плавающей арифметике.
func synthesizeKetu(rahu domain.BodyPosition) domain.BodyPosition {
	var lon float64
	if rahu.Longitude >= 180 {
		lon = rahu.Longitude - 180
	} else {
		lon = rahu.Longitude + 180
	}
	return domain.BodyPosition{
		Body:       domain.BodyKetu,
		Longitude:  lon,
		Retrograde: rahu.Retrograde,
	}
}

// normalizeLongitude приводит долготу к [0, 360)
func normalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	if lon >= 360 {
		lon = 0
	}
	return lon
}
