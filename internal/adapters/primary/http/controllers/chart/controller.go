package chartController

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/admin/astro-services/natal-service/internal/domain"
	chartService "github.com/admin/astro-services/natal-service/internal/usecases/chart"
	"github.com/gin-gonic/gin"
)

// ChartController HTTP-контроллер расчёта натальных карт
type ChartController struct {
	service *chartService.Service
	log     *slog.Logger
}

func New(service *chartService.Service, log *slog.Logger) *ChartController {
	return &ChartController{
		service: service,
		log:     log,
	}
}

func (c *ChartController) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/v1/charts", c.computeChart)
}

// computeChart рассчитывает (или достаёт из кэша) натальную карту
func (c *ChartController) computeChart(ctx *gin.Context) {
	var req computeChartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	birthReq, err := req.toDomain()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := c.service.GetOrCreateChart(ctx.Request.Context(), birthReq)
	if err != nil {
		status := errorStatus(err)
		if status >= 500 {
			c.log.Error("chart computation failed", "error", err)
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, computeChartResponse{
		Chart:  record,
		Cached: record.Cached,
	})
}

// errorStatus отображает таксономию ошибок пайплайна в HTTP статусы
func errorStatus(err error) int {
	var invalidTime *domain.InvalidCivilTimeError
	var notFound *domain.LocationNotFoundError
	var tzErr *domain.TimezoneResolutionError
	var ephErr *domain.EphemerisError

	switch {
	case errors.As(err, &invalidTime):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &tzErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ephErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
