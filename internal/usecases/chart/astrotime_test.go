package chart

import (
	"errors"
	"testing"

	"github.com/admin/astro-services/natal-service/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestToJulianDayUT_Kolkata(t *testing.T) {
	// 1995-04-12 10:30 Asia/Kolkata (UTC+5:30, без летнего времени)
	// соответствует 1995-04-12T05:00:00Z
	jd, err := ToJulianDayUT(
		domain.CivilDate{Year: 1995, Month: 4, Day: 12},
		domain.CivilTime{Hour: 10, Minute: 30},
		"Asia/Kolkata",
	)
	require.NoError(t, err)

	// JDN на 1995-04-12 равен 2449820 (на полдень), полночь - 2449819.5
	expected := 2449819.5 + 5.0/24.0
	require.InDelta(t, expected, float64(jd), 1e-9)
}

func TestToJulianDayUT_NonIntegerOffset(t *testing.T) {
	// Asia/Kathmandu несёт смещение +5:45
	offset, err := OffsetInEffect(
		domain.CivilDate{Year: 2000, Month: 1, Day: 1},
		domain.CivilTime{Hour: 12},
		"Asia/Kathmandu",
	)
	require.NoError(t, err)
	require.Equal(t, 5*3600+45*60, offset)

	jd, err := ToJulianDayUT(
		domain.CivilDate{Year: 2000, Month: 1, Day: 1},
		domain.CivilTime{Hour: 12},
		"Asia/Kathmandu",
	)
	require.NoError(t, err)

	utc, err := ToJulianDayUT(
		domain.CivilDate{Year: 2000, Month: 1, Day: 1},
		domain.CivilTime{Hour: 12},
		"UTC",
	)
	require.NoError(t, err)
	require.InDelta(t, float64(utc)-5.75/24.0, float64(jd), 1e-9)
}

func TestToJulianDayUT_MonotonicWithinZone(t *testing.T) {
	date := domain.CivilDate{Year: 2010, Month: 6, Day: 15}

	var prev domain.JulianDay
	for hour := 0; hour < 24; hour++ {
		jd, err := ToJulianDayUT(date, domain.CivilTime{Hour: hour}, "Asia/Kolkata")
		require.NoError(t, err)
		if hour > 0 {
			require.Greater(t, float64(jd), float64(prev), "hour %d", hour)
		}
		prev = jd
	}
}

func TestToJulianDayUT_NextDayAdvancesByOne(t *testing.T) {
	clock := domain.CivilTime{Hour: 10, Minute: 30}

	jd1, err := ToJulianDayUT(domain.CivilDate{Year: 1995, Month: 4, Day: 12}, clock, "Asia/Kolkata")
	require.NoError(t, err)

	jd2, err := ToJulianDayUT(domain.CivilDate{Year: 1995, Month: 4, Day: 13}, clock, "Asia/Kolkata")
	require.NoError(t, err)

	require.InDelta(t, 1.0, float64(jd2)-float64(jd1), 1e-9)
}

func TestToJulianDayUT_MidnightBoundary(t *testing.T) {
	// 00:00 следующего дня ровно на сутки позже 00:00 текущего
	jd, err := ToJulianDayUT(
		domain.CivilDate{Year: 2020, Month: 2, Day: 29}, // високосный год
		domain.CivilTime{},
		"UTC",
	)
	require.NoError(t, err)

	next, err := ToJulianDayUT(
		domain.CivilDate{Year: 2020, Month: 3, Day: 1},
		domain.CivilTime{},
		"UTC",
	)
	require.NoError(t, err)
	require.InDelta(t, 1.0, float64(next)-float64(jd), 1e-9)
}

func TestToJulianDayUT_DSTGapPolicy(t *testing.T) {
	// 2021-03-14 02:30 в America/New_York не существует: часы прыгают
	// с 02:00 на 03:00. Политика: берём смещение, номинально действующее
	// для этого настенного значения по базе зон (EDT, -4)
	date := domain.CivilDate{Year: 2021, Month: 3, Day: 14}
	clock := domain.CivilTime{Hour: 2, Minute: 30}

	offset, err := OffsetInEffect(date, clock, "America/New_York")
	require.NoError(t, err)
	require.Equal(t, -4*3600, offset)

	jd, err := ToJulianDayUT(date, clock, "America/New_York")
	require.NoError(t, err)

	utc, err := ToJulianDayUT(date, clock, "UTC")
	require.NoError(t, err)
	require.InDelta(t, float64(utc)+4.0/24.0, float64(jd), 1e-9)
}

func TestToJulianDayUT_DSTAwareOffset(t *testing.T) {
	// Одна зона, разные смещения в течение года
	winter, err := OffsetInEffect(
		domain.CivilDate{Year: 2021, Month: 1, Day: 15},
		domain.CivilTime{Hour: 12},
		"America/New_York",
	)
	require.NoError(t, err)
	require.Equal(t, -5*3600, winter)

	summer, err := OffsetInEffect(
		domain.CivilDate{Year: 2021, Month: 7, Day: 15},
		domain.CivilTime{Hour: 12},
		"America/New_York",
	)
	require.NoError(t, err)
	require.Equal(t, -4*3600, summer)
}

func TestToJulianDayUT_InvalidInputs(t *testing.T) {
	cases := []struct {
		name string
		date domain.CivilDate
		time domain.CivilTime
	}{
		{"month out of range", domain.CivilDate{Year: 1990, Month: 13, Day: 1}, domain.CivilTime{}},
		{"day out of range", domain.CivilDate{Year: 1990, Month: 2, Day: 30}, domain.CivilTime{}},
		{"feb 29 non-leap", domain.CivilDate{Year: 1900, Month: 2, Day: 29}, domain.CivilTime{}},
		{"hour out of range", domain.CivilDate{Year: 1990, Month: 1, Day: 1}, domain.CivilTime{Hour: 24}},
		{"negative minute", domain.CivilDate{Year: 1990, Month: 1, Day: 1}, domain.CivilTime{Minute: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToJulianDayUT(tc.date, tc.time, "UTC")
			var invalid *domain.InvalidCivilTimeError
			require.True(t, errors.As(err, &invalid), "expected InvalidCivilTimeError, got %v", err)
		})
	}
}

func TestToJulianDayUT_UnknownZone(t *testing.T) {
	_, err := ToJulianDayUT(
		domain.CivilDate{Year: 1990, Month: 1, Day: 1},
		domain.CivilTime{},
		"Mars/Olympus_Mons",
	)
	var tzErr *domain.TimezoneResolutionError
	require.True(t, errors.As(err, &tzErr), "expected TimezoneResolutionError, got %v", err)
}

func TestToJulianDayUT_ProlepticGregorian(t *testing.T) {
	// Дата до 1582 года считается по тем же григорианским правилам,
	// без специальных случаев
	jd, err := ToJulianDayUT(
		domain.CivilDate{Year: 1500, Month: 1, Day: 1},
		domain.CivilTime{Hour: 12},
		"UTC",
	)
	require.NoError(t, err)
	// JDN 1500-01-01 (пролептический григорианский) равен 2268924
	require.InDelta(t, 2268924.0, float64(jd), 1e-9)
}
