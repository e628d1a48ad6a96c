package chart

import (
	"fmt"
	"time"

	// встроенная база таймзон, чтобы не зависеть от наличия системной
	_ "time/tzdata"

	"github.com/admin/astro-services/natal-service/internal/domain"
)

// ToJulianDayUT переводит гражданскую дату/время в указанной таймзоне
// в юлианский день по всемирному времени (UT).
//
// Смещение от UTC берётся из базы таймзон для конкретного гражданского
// момента, не статически: одна и та же зона несёт разные смещения в
// течение года из-за летнего времени. Календарь — пролептический
// григорианский, без особых случаев для дат до 1582 года.
//
// Моменты, попадающие в «дыру» перехода на летнее время (несуществующее
// локальное время), трактуются по смещению, номинально
// действующему для этого значения настенных часов по данным базы зон:
// такие моменты неоднозначны по своей природе, политика зафиксирована
// здесь, а не размазана по вызывающим.
func ToJulianDayUT(d domain.CivilDate, t domain.CivilTime, zone string) (domain.JulianDay, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	if err := t.Validate(); err != nil {
		return 0, err
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return 0, &domain.TimezoneResolutionError{Zone: zone, Err: err}
	}

	// time.Date нормализует несуществующие настенные значения по правилам
	// базы зон; нам от него нужно только действующее смещение
	local := time.Date(d.Year, time.Month(d.Month), d.Day, t.Hour, t.Minute, t.Second, 0, loc)
	_, offsetSeconds := local.Zone()

	jdLocal := julianDay(d, t)
	return jdLocal - domain.JulianDay(float64(offsetSeconds)/86400.0), nil
}

// julianDay юлианский день для гражданских даты и времени без учёта зоны.
// Целая часть — по стандартной формуле для григорианского календаря
// (номер дня на полдень), дробная — доля суток от полуночи.
func julianDay(d domain.CivilDate, t domain.CivilTime) domain.JulianDay {
	a := (14 - d.Month) / 12
	y := d.Year + 4800 - a
	m := d.Month + 12*a - 3

	jdn := d.Day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045

	dayFraction := (float64(t.Hour) + float64(t.Minute)/60.0 + float64(t.Second)/3600.0) / 24.0
	return domain.JulianDay(float64(jdn) - 0.5 + dayFraction)
}

// OffsetInEffect возвращает смещение от UTC в секундах, действующее в
// зоне для конкретного гражданского момента. Единственная точка, где
// смещение читается из базы зон.
func OffsetInEffect(d domain.CivilDate, t domain.CivilTime, zone string) (int, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return 0, &domain.TimezoneResolutionError{Zone: zone, Err: fmt.Errorf("unknown zone: %w", err)}
	}
	local := time.Date(d.Year, time.Month(d.Month), d.Day, t.Hour, t.Minute, t.Second, 0, loc)
	_, offset := local.Zone()
	return offset, nil
}
