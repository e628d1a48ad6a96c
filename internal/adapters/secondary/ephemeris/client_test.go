package ephemeris

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/admin/astro-services/natal-service/internal/domain"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	cfg := &Config{
		BaseURL:    baseURL,
		ApiVersion: "v1",
		ApiKey:     "test-key",
		EphePath:   "/ephe",
		Timeout:    5,
	}
	return NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPosition_ParsesResponse(t *testing.T) {
	var gotReq positionRequest
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"longitude": 201.5, "longitude_speed": -0.0529}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Position(context.Background(), 2449819.7083333335, domain.BodyRahu)
	require.NoError(t, err)
	require.Equal(t, 201.5, res.Longitude)
	require.Equal(t, -0.0529, res.SpeedPerDay)

	require.Equal(t, "/v1/positions", gotPath)
	require.Equal(t, "Bearer test-key", gotAuth)
	require.Equal(t, 10, gotReq.BodyID)
	require.True(t, gotReq.WithSpeed)
	require.Equal(t, "/ephe", gotReq.EphePath)
	require.InDelta(t, 2449819.7083333335, gotReq.JulianDay, 1e-9)
}

func TestPosition_MissingSpeedIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"longitude": 201.5}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Position(context.Background(), 2449819.7, domain.BodySun)
	require.Error(t, err)
	require.Contains(t, err.Error(), "longitude_speed")
}

func TestPosition_MissingLongitudeIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"longitude_speed": 1.02}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Position(context.Background(), 2449819.7, domain.BodySun)
	require.Error(t, err)
	require.Contains(t, err.Error(), "longitude")
}

func TestPosition_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": "ephemeris file not found"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Position(context.Background(), 2449819.7, domain.BodySun)
	require.Error(t, err)
	require.Contains(t, err.Error(), "ephemeris file not found")
}

func TestPosition_Non200Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Position(context.Background(), 2449819.7, domain.BodySun)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=500")
}

func TestPosition_UnknownBody(t *testing.T) {
	// запрос к серверу не уходит вовсе
	client := newTestClient("http://127.0.0.1:1")

	_, err := client.Position(context.Background(), 2449819.7, domain.Body("Chiron"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Chiron")
}

func TestPosition_KetuNeverRequested(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	// Ketu производный, бэкенд его не считает
	_, err := client.Position(context.Background(), 2449819.7, domain.BodyKetu)
	require.Error(t, err)
}
