package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParseCivilDate(t *testing.T) {
	d, err := ParseCivilDate("1995-04-12")
	require.NoError(t, err)
	require.Equal(t, CivilDate{Year: 1995, Month: 4, Day: 12}, d)

	// 1996 високосный, 29 февраля валидно
	d, err = ParseCivilDate("1996-02-29")
	require.NoError(t, err)
	require.Equal(t, 29, d.Day)

	for _, s := range []string{"1995-13-01", "1995-02-30", "1900-02-29", "garbage", "12.04.1995"} {
		_, err := ParseCivilDate(s)
		var invalid *InvalidCivilTimeError
		require.True(t, errors.As(err, &invalid), "expected InvalidCivilTimeError for %q, got %v", s, err)
	}
}

func TestParseCivilTime(t *testing.T) {
	ct, err := ParseCivilTime("10:30:45")
	require.NoError(t, err)
	require.Equal(t, CivilTime{Hour: 10, Minute: 30, Second: 45}, ct)

	// секунды опциональны
	ct, err = ParseCivilTime("10:30")
	require.NoError(t, err)
	require.Equal(t, CivilTime{Hour: 10, Minute: 30, Second: 0}, ct)

	for _, s := range []string{"24:00", "10:60", "10:30:60", "garbage"} {
		_, err := ParseCivilTime(s)
		var invalid *InvalidCivilTimeError
		require.True(t, errors.As(err, &invalid), "expected InvalidCivilTimeError for %q, got %v", s, err)
	}
}

func TestCivilStrings(t *testing.T) {
	require.Equal(t, "0895-04-02", CivilDate{Year: 895, Month: 4, Day: 2}.String())
	require.Equal(t, "09:05:00", CivilTime{Hour: 9, Minute: 5}.String())
}

func TestChartKeyMatchesRecordKey(t *testing.T) {
	key := ChartKey{
		Date:      CivilDate{Year: 1995, Month: 4, Day: 12},
		Time:      CivilTime{Hour: 10, Minute: 30},
		Latitude:  22.5726,
		Longitude: 88.3639,
		Timezone:  "Asia/Kolkata",
	}
	record := ChartRecord{
		ID:        uuid.New(),
		BirthDate: key.Date.String(),
		BirthTime: key.Time.String(),
		Latitude:  key.Latitude,
		Longitude: key.Longitude,
		Timezone:  key.Timezone,
	}

	require.Equal(t, key.String(), record.Key())
	require.Equal(t, "1995-04-12T10:30:00_22.5726_88.3639_Asia/Kolkata", key.String())
}

func TestBirthRequestValidate(t *testing.T) {
	base := BirthRequest{
		Date:     CivilDate{Year: 1995, Month: 4, Day: 12},
		Time:     CivilTime{Hour: 10, Minute: 30},
		Location: "Kolkata, India",
	}
	require.NoError(t, base.Validate())

	noLocation := base
	noLocation.Location = ""
	var notFound *LocationNotFoundError
	require.True(t, errors.As(noLocation.Validate(), &notFound))

	// override заменяет геокодирование, пустой текст места допустим
	withOverride := noLocation
	withOverride.Override = &ResolvedLocation{Latitude: 22.57, Longitude: 88.36, Timezone: "Asia/Kolkata"}
	require.NoError(t, withOverride.Validate())

	badOverride := noLocation
	badOverride.Override = &ResolvedLocation{Latitude: 95, Longitude: 88.36, Timezone: "Asia/Kolkata"}
	require.Error(t, badOverride.Validate())
}

func TestParseBodies(t *testing.T) {
	bodies, err := ParseBodies([]string{"Sun", "Moon", "Rahu"})
	require.NoError(t, err)
	require.Equal(t, []Body{BodySun, BodyMoon, BodyRahu}, bodies)

	_, err = ParseBodies([]string{"Sun", "Chiron"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Chiron")
}

func TestDefaultTrackedBodiesExcludeKetu(t *testing.T) {
	for _, b := range DefaultTrackedBodies() {
		require.NotEqual(t, BodyKetu, b)
	}
}
