package chart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"testing"

	"log/slog"

	"github.com/admin/astro-services/natal-service/internal/domain"
	"github.com/stretchr/testify/require"
)

// fakeEphemeris отдаёт заранее заданные результаты по телам
type fakeEphemeris struct {
	results map[domain.Body]domain.EphemerisResult
	errs    map[domain.Body]error
	calls   atomic.Int64
}

func (f *fakeEphemeris) Position(ctx context.Context, jd domain.JulianDay, body domain.Body) (*domain.EphemerisResult, error) {
	f.calls.Add(1)
	if err, ok := f.errs[body]; ok {
		return nil, err
	}
	res, ok := f.results[body]
	if !ok {
		return nil, fmt.Errorf("no result for body %s", body)
	}
	return &res, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPositionsService(eph *fakeEphemeris, bodies []domain.Body) *Service {
	return New(nil, eph, nil, nil, nil, nil, bodies, discardLogger())
}

func TestDerivePositions_Classification(t *testing.T) {
	eph := &fakeEphemeris{
		results: map[domain.Body]domain.EphemerisResult{
			domain.BodySun:     {Longitude: 21.9, SpeedPerDay: 0.97},
			domain.BodyMercury: {Longitude: 35.2, SpeedPerDay: -1.2},
		},
	}
	s := newPositionsService(eph, []domain.Body{domain.BodySun, domain.BodyMercury})

	positions, err := s.DerivePositions(context.Background(), 2449819.7)
	require.NoError(t, err)
	require.Len(t, positions, 2)

	require.Equal(t, domain.BodySun, positions[0].Body)
	require.False(t, positions[0].Retrograde)
	require.Equal(t, domain.BodyMercury, positions[1].Body)
	require.True(t, positions[1].Retrograde)
}

func TestDerivePositions_NormalizesLongitudes(t *testing.T) {
	eph := &fakeEphemeris{
		results: map[domain.Body]domain.EphemerisResult{
			domain.BodySun:  {Longitude: -20.0, SpeedPerDay: 1},
			domain.BodyMoon: {Longitude: 370.5, SpeedPerDay: 13},
			domain.BodyMars: {Longitude: 360.0, SpeedPerDay: 0.5},
		},
	}
	s := newPositionsService(eph, []domain.Body{domain.BodySun, domain.BodyMoon, domain.BodyMars})

	positions, err := s.DerivePositions(context.Background(), 2449819.7)
	require.NoError(t, err)

	require.InDelta(t, 340.0, positions[0].Longitude, 1e-12)
	require.InDelta(t, 10.5, positions[1].Longitude, 1e-12)
	require.InDelta(t, 0.0, positions[2].Longitude, 1e-12)

	for _, p := range positions {
		require.GreaterOrEqual(t, p.Longitude, 0.0)
		require.Less(t, p.Longitude, 360.0)
	}
}

func TestDerivePositions_SynthesizesKetu(t *testing.T) {
	cases := []struct {
		rahu float64
		ketu float64
	}{
		{21.5, 201.5},
		{200.25, 20.25},
		{0, 180},
		{359.5, 179.5},
	}

	for _, tc := range cases {
		eph := &fakeEphemeris{
			results: map[domain.Body]domain.EphemerisResult{
				domain.BodyRahu: {Longitude: tc.rahu, SpeedPerDay: -0.05},
			},
		}
		s := newPositionsService(eph, []domain.Body{domain.BodyRahu})

		positions, err := s.DerivePositions(context.Background(), 2449819.7)
		require.NoError(t, err)
		require.Len(t, positions, 2)

		rahu, ketu := positions[0], positions[1]
		require.Equal(t, domain.BodyRahu, rahu.Body)
		require.Equal(t, domain.BodyKetu, ketu.Body)

		require.Equal(t, tc.ketu, ketu.Longitude)
		// узлы разнесены ровно на 180° - точное равенство, не приближение
		require.Equal(t, 180.0, math.Mod(math.Abs(rahu.Longitude-ketu.Longitude), 360.0))
		// узлы всегда движутся вместе
		require.Equal(t, rahu.Retrograde, ketu.Retrograde)
		require.True(t, ketu.Retrograde)
	}
}

func TestDerivePositions_NoKetuWithoutRahu(t *testing.T) {
	eph := &fakeEphemeris{
		results: map[domain.Body]domain.EphemerisResult{
			domain.BodySun: {Longitude: 10, SpeedPerDay: 1},
		},
	}
	s := newPositionsService(eph, []domain.Body{domain.BodySun})

	positions, err := s.DerivePositions(context.Background(), 2449819.7)
	require.NoError(t, err)
	require.Len(t, positions, 1)
}

func TestDerivePositions_BodyFailureFailsChart(t *testing.T) {
	eph := &fakeEphemeris{
		results: map[domain.Body]domain.EphemerisResult{
			domain.BodySun:  {Longitude: 10, SpeedPerDay: 1},
			domain.BodyMoon: {Longitude: 120, SpeedPerDay: 13},
		},
		errs: map[domain.Body]error{
			domain.BodySaturn: errors.New("response is missing longitude_speed"),
		},
	}
	s := newPositionsService(eph, []domain.Body{domain.BodySun, domain.BodyMoon, domain.BodySaturn})

	_, err := s.DerivePositions(context.Background(), 2449819.7)
	var ephErr *domain.EphemerisError
	require.True(t, errors.As(err, &ephErr), "expected EphemerisError, got %v", err)
	require.Equal(t, domain.BodySaturn, ephErr.Body)
}

func TestDerivePositions_NaNIsMalformed(t *testing.T) {
	eph := &fakeEphemeris{
		results: map[domain.Body]domain.EphemerisResult{
			domain.BodySun: {Longitude: math.NaN(), SpeedPerDay: 1},
		},
	}
	s := newPositionsService(eph, []domain.Body{domain.BodySun})

	_, err := s.DerivePositions(context.Background(), 2449819.7)
	var ephErr *domain.EphemerisError
	require.True(t, errors.As(err, &ephErr))
	require.Equal(t, domain.BodySun, ephErr.Body)
}
