package geocode

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/admin/astro-services/natal-service/internal/domain"
	"github.com/admin/astro-services/natal-service/internal/ports/service"
)

// truncateString обрезает строку до указанной длины
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Client - клиент Nominatim-совместимого геокодера.
// Реализует service.IGeocoder
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
}

// NewClient создаёт новый клиент геокодера
func NewClient(cfg *Config, log *slog.Logger) *Client {
	transport := &http.Transport{}

	if cfg.ShouldSkipSSL() {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		Log: log,
	}
}

// candidate один кандидат из ответа Nominatim (используется только для парсинга)
type candidate struct {
	Lat         *string `json:"lat"`
	Lon         *string `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// Geocode разрешает текст места в координаты.
// Берётся первый кандидат из ответа; пустой список кандидатов или
// кандидат без координат - domain.LocationNotFoundError.
func (c *Client) Geocode(ctx context.Context, query string) (*service.GeoPoint, error) {
	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/search?" + url.Values{
		"q":      []string{query},
		"format": []string{"json"},
		"limit":  []string{"1"},
	}.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	// Nominatim требует осмысленный User-Agent
	httpReq.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("geocoder returned non-200 status",
			"status_code", resp.StatusCode,
			"body_preview", truncateString(string(body), 200),
		)
		return nil, fmt.Errorf("geocoder error [status=%d]: %s", resp.StatusCode, truncateString(string(body), 500))
	}

	var candidates []candidate
	if err := json.Unmarshal(body, &candidates); err != nil {
		c.Log.Debug("failed to unmarshal geocoder response",
			"error", err,
			"body_preview", truncateString(string(body), 200),
		)
		return nil, fmt.Errorf("geocoder unmarshal failed: %w", err)
	}

	if len(candidates) == 0 {
		return nil, &domain.LocationNotFoundError{Query: query}
	}

	first := candidates[0]
	if first.Lat == nil || first.Lon == nil {
		return nil, &domain.LocationNotFoundError{Query: query, Err: fmt.Errorf("candidate %q has no coordinates", first.DisplayName)}
	}

	lat, err := strconv.ParseFloat(*first.Lat, 64)
	if err != nil {
		return nil, &domain.LocationNotFoundError{Query: query, Err: fmt.Errorf("invalid latitude %q: %w", *first.Lat, err)}
	}
	lon, err := strconv.ParseFloat(*first.Lon, 64)
	if err != nil {
		return nil, &domain.LocationNotFoundError{Query: query, Err: fmt.Errorf("invalid longitude %q: %w", *first.Lon, err)}
	}

	return &service.GeoPoint{Latitude: lat, Longitude: lon}, nil
}
