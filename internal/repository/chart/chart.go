package chartRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"log/slog"

	"github.com/admin/astro-services/natal-service/internal/domain"
	"github.com/admin/astro-services/natal-service/internal/ports/persistence"
	ports "github.com/admin/astro-services/natal-service/internal/ports/repository"
)

type chartColumns struct {
	TableName   string
	ID          string
	BirthDate   string
	BirthTime   string
	Latitude    string
	Longitude   string
	Timezone    string
	JulianDayUT string
	Positions   string
	CreatedAt   string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns chartColumns
}

// New создаёт новый репозиторий для работы с картами
func New(db persistence.Persistence, log *slog.Logger) ports.IChartRepo {
	cols := chartColumns{
		TableName:   "birth_charts",
		ID:          "id",
		BirthDate:   "birth_date",
		BirthTime:   "birth_time",
		Latitude:    "latitude",
		Longitude:   "longitude",
		Timezone:    "timezone",
		JulianDayUT: "julian_day_ut",
		Positions:   "positions",
		CreatedAt:   "created_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// allColumns возвращает строку со всеми колонками
func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.BirthDate,
		r.columns.BirthTime,
		r.columns.Latitude,
		r.columns.Longitude,
		r.columns.Timezone,
		r.columns.JulianDayUT,
		r.columns.Positions,
		r.columns.CreatedAt)
}

// keyPredicate условие по пяти колонкам ключа кэша ($1..$5)
func (r *Repository) keyPredicate() string {
	return fmt.Sprintf("%s = $1 AND %s = $2 AND %s = $3 AND %s = $4 AND %s = $5",
		r.columns.BirthDate,
		r.columns.BirthTime,
		r.columns.Latitude,
		r.columns.Longitude,
		r.columns.Timezone)
}

// Create сохраняет рассчитанную карту. Повторная вставка того же ключа
// проглатывается через ON CONFLICT DO NOTHING: содержимое записи для
// ключа всегда идентично, дубликат безопасен
func (r *Repository) Create(ctx context.Context, record *domain.ChartRecord) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (%s, %s, %s, %s, %s) DO NOTHING`,
		r.columns.TableName,
		r.allColumns(),
		r.columns.BirthDate,
		r.columns.BirthTime,
		r.columns.Latitude,
		r.columns.Longitude,
		r.columns.Timezone)
	err := r.db.Exec(ctx, query,
		record.ID,
		record.BirthDate,
		record.BirthTime,
		record.Latitude,
		record.Longitude,
		record.Timezone,
		record.JulianDayUT,
		record.Positions,
		record.CreatedAt)
	if err != nil {
		r.Log.Error("failed to create chart",
			"error", err,
			"chart_id", record.ID,
			"key", record.Key())
		return fmt.Errorf("failed to create chart: %w", err)
	}
	r.Log.Debug("chart created successfully",
		"chart_id", record.ID,
		"key", record.Key())
	return nil
}

// GetByKey получает карту по ключу кэша
func (r *Repository) GetByKey(ctx context.Context, key domain.ChartKey) (*domain.ChartRecord, error) {
	var record domain.ChartRecord
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`,
		r.allColumns(),
		r.columns.TableName,
		r.keyPredicate())
	err := r.db.Get(ctx, &record, query,
		key.Date.String(),
		key.Time.String(),
		key.Latitude,
		key.Longitude,
		key.Timezone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChartNotFound
		}
		r.Log.Error("failed to get chart by key",
			"error", err,
			"key", key.String())
		return nil, fmt.Errorf("failed to get chart by key: %w", err)
	}
	r.Log.Debug("chart retrieved successfully", "key", key.String())
	return &record, nil
}
