package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Body идентификатор отслеживаемого небесного тела
type Body string

const (
	BodySun     Body = "Sun"
	BodyMoon    Body = "Moon"
	BodyMercury Body = "Mercury"
	BodyVenus   Body = "Venus"
	BodyMars    Body = "Mars"
	BodyJupiter Body = "Jupiter"
	BodySaturn  Body = "Saturn"
	BodyUranus  Body = "Uranus"
	BodyNeptune Body = "Neptune"
	BodyPluto   Body = "Pluto"
	// BodyRahu средний восходящий лунный узел (SE_MEAN_NODE)
	BodyRahu Body = "Rahu"
	// BodyKetu нисходящий узел, не считается эфемеридами —
	// всегда синтезируется из Rahu (+180°)
	BodyKetu Body = "Ketu"
)

// DefaultTrackedBodies тела, рассчитываемые для каждой карты по умолчанию.
// Ketu в список не входит: он производный от Rahu.
func DefaultTrackedBodies() []Body {
	return []Body{
		BodySun, BodyMoon, BodyMercury, BodyVenus, BodyMars,
		BodyJupiter, BodySaturn, BodyUranus, BodyNeptune, BodyPluto,
		BodyRahu,
	}
}

// ParseBodies парсит список тел из конфигурации
func ParseBodies(names []string) ([]Body, error) {
	valid := make(map[Body]bool)
	for _, b := range DefaultTrackedBodies() {
		valid[b] = true
	}
	bodies := make([]Body, 0, len(names))
	for _, name := range names {
		b := Body(name)
		if !valid[b] {
			return nil, fmt.Errorf("unknown body: %s", name)
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// JulianDay непрерывная астрономическая шкала времени (юлианский день, UT).
// Единственный временной вход для расчёта позиций.
type JulianDay float64

// CivilDate календарная дата рождения (гражданское время)
type CivilDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// CivilTime время рождения по местным часам
type CivilTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// Validate проверяет, что дата существует в пролептическом григорианском календаре
func (d CivilDate) Validate() error {
	if d.Month < 1 || d.Month > 12 {
		return &InvalidCivilTimeError{Reason: fmt.Sprintf("month %d out of range", d.Month)}
	}
	max := daysInMonth[d.Month]
	if d.Month == 2 && isLeapYear(d.Year) {
		max = 29
	}
	if d.Day < 1 || d.Day > max {
		return &InvalidCivilTimeError{Reason: fmt.Sprintf("day %d out of range for %04d-%02d", d.Day, d.Year, d.Month)}
	}
	return nil
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ParseCivilDate парсит дату в формате YYYY-MM-DD
func ParseCivilDate(s string) (CivilDate, error) {
	var d CivilDate
	if _, err := fmt.Sscanf(s, "%4d-%2d-%2d", &d.Year, &d.Month, &d.Day); err != nil {
		return CivilDate{}, &InvalidCivilTimeError{Reason: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s)}
	}
	if err := d.Validate(); err != nil {
		return CivilDate{}, err
	}
	return d, nil
}

// Validate проверяет, что время валидно по часам
func (t CivilTime) Validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return &InvalidCivilTimeError{Reason: fmt.Sprintf("hour %d out of range", t.Hour)}
	}
	if t.Minute < 0 || t.Minute > 59 {
		return &InvalidCivilTimeError{Reason: fmt.Sprintf("minute %d out of range", t.Minute)}
	}
	if t.Second < 0 || t.Second > 59 {
		return &InvalidCivilTimeError{Reason: fmt.Sprintf("second %d out of range", t.Second)}
	}
	return nil
}

func (t CivilTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// ParseCivilTime парсит время в формате HH:MM или HH:MM:SS
func ParseCivilTime(s string) (CivilTime, error) {
	var t CivilTime
	n, err := fmt.Sscanf(s, "%2d:%2d:%2d", &t.Hour, &t.Minute, &t.Second)
	if err != nil && n < 2 {
		return CivilTime{}, &InvalidCivilTimeError{Reason: fmt.Sprintf("invalid time %q, expected HH:MM or HH:MM:SS", s)}
	}
	if err := t.Validate(); err != nil {
		return CivilTime{}, err
	}
	return t, nil
}

// ResolvedLocation координаты и таймзона места рождения.
// Создаётся один раз на запрос и не мутируется.
type ResolvedLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Validate проверяет диапазоны координат и наличие таймзоны
func (l ResolvedLocation) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", l.Longitude)
	}
	if l.Timezone == "" {
		return fmt.Errorf("timezone is empty")
	}
	return nil
}

// BirthRequest неизменяемые входные параметры расчёта карты
type BirthRequest struct {
	Date     CivilDate
	Time     CivilTime
	Location string
	// Override задаётся, когда место уже разрешено выше по стеку;
	// геокодирование тогда пропускается полностью
	Override *ResolvedLocation
}

// Validate проверяет входные параметры запроса
func (r BirthRequest) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if err := r.Time.Validate(); err != nil {
		return err
	}
	if r.Override != nil {
		if err := r.Override.Validate(); err != nil {
			return &InvalidCivilTimeError{Reason: err.Error()}
		}
		return nil
	}
	if r.Location == "" {
		return &LocationNotFoundError{Query: ""}
	}
	return nil
}

// ChartKey детерминированный ключ кэша карты.
// Строится по разрешённым координатам, не по свободному тексту места:
// разные строки, разрешившиеся в одну точку, делят одну запись.
type ChartKey struct {
	Date      CivilDate
	Time      CivilTime
	Latitude  float64
	Longitude float64
	Timezone  string
}

func (k ChartKey) String() string {
	return fmt.Sprintf("%sT%s_%.4f_%.4f_%s",
		k.Date.String(), k.Time.String(), k.Latitude, k.Longitude, k.Timezone)
}

// BodyPosition позиция одного тела в карте
type BodyPosition struct {
	Body       Body    `json:"body"`
	Longitude  float64 `json:"longitude"`
	Retrograde bool    `json:"retrograde"`
}

// EphemerisResult сырой результат эфемерид для одного тела
type EphemerisResult struct {
	Longitude   float64
	SpeedPerDay float64
}

// PositionList список позиций, хранится в БД как JSONB
type PositionList []BodyPosition

// Value реализует driver.Valuer для записи в JSONB
func (p PositionList) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan реализует sql.Scanner для чтения из JSONB
func (p *PositionList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into PositionList", src)
	}
}

// ChartRecord рассчитанная натальная карта, единица персистентности.
// Создаётся ровно один раз на ключ и после создания не мутируется.
type ChartRecord struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	BirthDate   string       `json:"birth_date" db:"birth_date"`
	BirthTime   string       `json:"birth_time" db:"birth_time"`
	Latitude    float64      `json:"latitude" db:"latitude"`
	Longitude   float64      `json:"longitude" db:"longitude"`
	Timezone    string       `json:"timezone" db:"timezone"`
	JulianDayUT JulianDay    `json:"julian_day_ut" db:"julian_day_ut"`
	Positions   PositionList `json:"positions" db:"positions"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`

	// Cached выставляется координатором при попадании в кэш;
	// не сериализуется и не хранится
	Cached bool `json:"-" db:"-"`
}

// Key восстанавливает ключ кэша из записи
func (r *ChartRecord) Key() string {
	return fmt.Sprintf("%sT%s_%.4f_%.4f_%s",
		r.BirthDate, r.BirthTime, r.Latitude, r.Longitude, r.Timezone)
}
