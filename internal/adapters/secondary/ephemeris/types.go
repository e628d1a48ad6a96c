package ephemeris

// bodyIDs нумерация тел Swiss Ephemeris
// (SE_SUN=0 .. SE_PLUTO=9, SE_MEAN_NODE=10)
var bodyIDs = map[string]int{
	"Sun":     0,
	"Moon":    1,
	"Mercury": 2,
	"Venus":   3,
	"Mars":    4,
	"Jupiter": 5,
	"Saturn":  6,
	"Uranus":  7,
	"Neptune": 8,
	"Pluto":   9,
	"Rahu":    10,
}

// positionRequest запрос позиции одного тела
type positionRequest struct {
	JulianDay float64 `json:"julian_day"`
	BodyID    int     `json:"body_id"`
	WithSpeed bool    `json:"with_speed"`
	EphePath  string  `json:"ephe_path,omitempty"`
}

// positionResponse ответ сервиса эфемерид (используется только для парсинга).
// Указатели, чтобы отличать отсутствующие поля от нулевых значений
type positionResponse struct {
	Longitude      *float64 `json:"longitude"`
	LongitudeSpeed *float64 `json:"longitude_speed"`
	Error          string   `json:"error,omitempty"`
}
