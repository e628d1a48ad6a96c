package chartController

import (
	"github.com/admin/astro-services/natal-service/internal/domain"
)

// computeChartRequest тело запроса расчёта карты.
// Место задаётся либо свободным текстом, либо уже разрешённой тройкой
// (latitude, longitude, timezone)
type computeChartRequest struct {
	BirthDate string   `json:"birth_date" binding:"required"`
	BirthTime string   `json:"birth_time" binding:"required"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timezone  string   `json:"timezone"`
}

// computeChartResponse ответ с картой и признаком попадания в кэш
type computeChartResponse struct {
	Chart  *domain.ChartRecord `json:"chart"`
	Cached bool                `json:"cached"`
}

func (r *computeChartRequest) toDomain() (domain.BirthRequest, error) {
	date, err := domain.ParseCivilDate(r.BirthDate)
	if err != nil {
		return domain.BirthRequest{}, err
	}
	t, err := domain.ParseCivilTime(r.BirthTime)
	if err != nil {
		return domain.BirthRequest{}, err
	}

	req := domain.BirthRequest{
		Date:     date,
		Time:     t,
		Location: r.Location,
	}

	if r.Latitude != nil && r.Longitude != nil && r.Timezone != "" {
		req.Override = &domain.ResolvedLocation{
			Latitude:  *r.Latitude,
			Longitude: *r.Longitude,
			Timezone:  r.Timezone,
		}
	}

	return req, nil
}
