package chart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/admin/astro-services/natal-service/internal/domain"
	"github.com/google/uuid"
)

const cacheTTL = 24 * time.Hour

// GetOrCreateChart возвращает карту для параметров рождения, считая её
// только при отсутствии в хранилище. Конкурентные запросы одного ключа
// схлопываются в одно вычисление (singleflight); для разных ключей
// координация не нужна.
func (s *Service) GetOrCreateChart(ctx context.Context, req domain.BirthRequest) (*domain.ChartRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var loc domain.ResolvedLocation
	if req.Override != nil {
		loc = *req.Override
	} else {
		resolved, err := s.Location.Resolve(ctx, req.Location)
		if err != nil {
			return nil, err
		}
		loc = resolved
	}

	key := domain.ChartKey{
		Date:      req.Date,
		Time:      req.Time,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Timezone:  loc.Timezone,
	}

	v, err, shared := s.flights.Do(key.String(), func() (interface{}, error) {
		return s.getOrCompute(ctx, key)
	})
	if err != nil {
		return nil, err
	}

	record := v.(*domain.ChartRecord)
	if shared {
		s.Log.Debug("chart computation shared with concurrent request", "key", key.String())
	}
	return record, nil
}

// getOrCompute просматривает кэш-слои, на промахе выполняет полный
// пайплайн и сохраняет результат. Частичных записей не бывает: до
// успешного завершения расчёта хранилище не трогается.
func (s *Service) getOrCompute(ctx context.Context, key domain.ChartKey) (*domain.ChartRecord, error) {
	if record := s.cacheLookup(ctx, key); record != nil {
		return record, nil
	}

	record, err := s.ChartRepo.GetByKey(ctx, key)
	if err == nil {
		record.Cached = true
		s.cacheFill(ctx, record)
		s.Log.Debug("chart served from store", "key", key.String())
		return record, nil
	}
	if !errors.Is(err, domain.ErrChartNotFound) {
		return nil, fmt.Errorf("chart store lookup failed: %w", err)
	}

	jd, err := ToJulianDayUT(key.Date, key.Time, key.Timezone)
	if err != nil {
		return nil, err
	}

	positions, err := s.DerivePositions(ctx, jd)
	if err != nil {
		return nil, err
	}

	// отменённый запрос не персистится: внешние вызовы уже завершены,
	// но результат записывать от его имени нельзя
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	record = &domain.ChartRecord{
		ID:          uuid.New(),
		BirthDate:   key.Date.String(),
		BirthTime:   key.Time.String(),
		Latitude:    key.Latitude,
		Longitude:   key.Longitude,
		Timezone:    key.Timezone,
		JulianDayUT: jd,
		Positions:   positions,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.ChartRepo.Create(ctx, record); err != nil {
		// запись не удалась, но карта рассчитана полностью: отдаём её,
		// следующий идентичный запрос пересчитает
		writeErr := &domain.CacheWriteError{Err: err}
		s.Log.Warn("chart computed but not durably cached",
			"error", writeErr,
			"key", key.String(),
		)
		return record, nil
	}

	s.cacheFill(ctx, record)
	s.publishComputed(ctx, record)
	s.archive(ctx, record)

	s.Log.Info("chart computed and stored",
		"key", key.String(),
		"julian_day_ut", float64(jd),
		"bodies", len(record.Positions),
	)
	return record, nil
}

// cacheLookup быстрый кэш перед БД; любой сбой трактуется как промах
func (s *Service) cacheLookup(ctx context.Context, key domain.ChartKey) *domain.ChartRecord {
	if s.Cache == nil {
		return nil
	}
	val, err := s.Cache.Get(ctx, chartCacheKey(key.String()))
	if err != nil {
		return nil
	}
	var record domain.ChartRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		s.Log.Warn("corrupt chart cache entry, ignoring", "error", err, "key", key.String())
		return nil
	}
	record.Cached = true
	s.Log.Debug("chart served from fast cache", "key", key.String())
	return &record
}

func (s *Service) cacheFill(ctx context.Context, record *domain.ChartRecord) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, chartCacheKey(record.Key()), string(data), cacheTTL); err != nil {
		s.Log.Warn("failed to fill chart cache", "error", err, "key", record.Key())
	}
}

func (s *Service) publishComputed(ctx context.Context, record *domain.ChartRecord) {
	if s.Producer == nil {
		return
	}
	if err := s.Producer.PublishChartComputed(ctx, record); err != nil {
		s.Log.Warn("failed to publish chart.computed event",
			"error", err,
			"chart_id", record.ID,
		)
	}
}

func (s *Service) archive(ctx context.Context, record *domain.ChartRecord) {
	if s.Archive == nil {
		return
	}
	if err := s.Archive.Store(ctx, record); err != nil {
		s.Log.Warn("failed to archive chart",
			"error", err,
			"chart_id", record.ID,
		)
	}
}

func chartCacheKey(key string) string {
	return "astro:chart:" + key
}
