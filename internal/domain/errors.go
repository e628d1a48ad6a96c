package domain

import (
	"errors"
	"fmt"
)

// ErrChartNotFound запись карты отсутствует в хранилище
var ErrChartNotFound = errors.New("chart not found")

// InvalidCivilTimeError невалидная дата или время рождения.
// Не ретраится, сразу отдаётся вызывающему.
type InvalidCivilTimeError struct {
	Reason string
}

func (e *InvalidCivilTimeError) Error() string {
	return fmt.Sprintf("invalid civil time: %s", e.Reason)
}

// LocationNotFoundError геокодер не вернул пригодных кандидатов.
// Внутри пайплайна ретраится один раз, затем отдаётся вызывающему.
type LocationNotFoundError struct {
	Query string
	Err   error
}

func (e *LocationNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("location not found [query=%q]: %v", e.Query, e.Err)
	}
	return fmt.Sprintf("location not found [query=%q]", e.Query)
}

func (e *LocationNotFoundError) Unwrap() error {
	return e.Err
}

// TimezoneResolutionError не удалось определить таймзону —
// ни по координатам, ни по идентификатору зоны для конкретной даты.
// Детерминированная ошибка, не ретраится.
type TimezoneResolutionError struct {
	Zone      string
	Latitude  float64
	Longitude float64
	Err       error
}

func (e *TimezoneResolutionError) Error() string {
	if e.Zone != "" {
		return fmt.Sprintf("timezone resolution failed [zone=%s]: %v", e.Zone, e.Err)
	}
	return fmt.Sprintf("timezone resolution failed [lat=%.4f, lon=%.4f]: %v", e.Latitude, e.Longitude, e.Err)
}

func (e *TimezoneResolutionError) Unwrap() error {
	return e.Err
}

// EphemerisError расчёт позиции тела завершился ошибкой.
// Фатальна для всей карты: карта с молча пропущенными планетами
// не подлежит выдаче.
type EphemerisError struct {
	Body Body
	Err  error
}

func (e *EphemerisError) Error() string {
	return fmt.Sprintf("ephemeris computation failed [body=%s]: %v", e.Body, e.Err)
}

func (e *EphemerisError) Unwrap() error {
	return e.Err
}

// CacheWriteError хранилище отклонило запись после успешного расчёта.
// Не фатальна: рассчитанная карта всё равно возвращается, но повторный
// идентичный запрос пересчитает её заново.
type CacheWriteError struct {
	Err error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("chart cache write failed: %v", e.Err)
}

func (e *CacheWriteError) Unwrap() error {
	return e.Err
}
