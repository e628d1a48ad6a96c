package ephemeris

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"log/slog"

	"github.com/admin/astro-services/natal-service/internal/domain"
)

const getPosition = "positions"

// truncateString обрезает строку до указанной длины
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Client - клиент сервиса Swiss Ephemeris.
// Реализует service.IEphemerisService
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
}

// NewClient создаёт новый клиент сервиса эфемерид
func NewClient(cfg *Config, log *slog.Logger) *Client {
	transport := &http.Transport{}

	if cfg.ShouldSkipSSL() {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
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

// buildURL собирает полный URL из BaseURL, ApiVersion и endpoint
func (c *Client) buildURL(endpoint string) string {
	baseURL := strings.TrimSuffix(c.cfg.BaseURL, "/")
	return baseURL + "/" + path.Join(c.cfg.ApiVersion, endpoint)
}

// setHeaders устанавливает стандартные заголовки для запросов к API
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.ApiKey)
	}
}

// Position возвращает эклиптическую долготу тела и её суточную скорость
// для юлианского дня UT. Ответ без долготы или без скорости считается
// некорректным: по скорости классифицируется ретроградность, молча
// подставлять ноль нельзя.
func (c *Client) Position(ctx context.Context, jd domain.JulianDay, body domain.Body) (*domain.EphemerisResult, error) {
	bodyID, ok := bodyIDs[string(body)]
	if !ok {
		return nil, fmt.Errorf("body %s is not supported by ephemeris backend", body)
	}

	req := positionRequest{
		JulianDay: float64(jd),
		BodyID:    bodyID,
		WithSpeed: true,
		EphePath:  c.cfg.EphePath,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	url := c.buildURL(getPosition)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	c.setHeaders(httpReq)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	rawJSON := string(respBody)

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("ephemeris API returned non-200 status",
			"status_code", resp.StatusCode,
			"body", string(body),
			"body_preview", truncateString(rawJSON, 200),
		)
		return nil, fmt.Errorf("ephemeris API error [status=%d]: %s", resp.StatusCode, truncateString(rawJSON, 500))
	}

	var posResp positionResponse
	if err := json.Unmarshal(respBody, &posResp); err != nil {
		c.Log.Debug("failed to unmarshal ephemeris response",
			"error", err,
			"body_preview", truncateString(rawJSON, 200),
		)
		return nil, fmt.Errorf("ephemeris API unmarshal failed: %w", err)
	}

	if posResp.Error != "" {
		return nil, fmt.Errorf("ephemeris API returned error: %s", posResp.Error)
	}
	if posResp.Longitude == nil {
		return nil, fmt.Errorf("ephemeris API response is missing longitude")
	}
	if posResp.LongitudeSpeed == nil {
		return nil, fmt.Errorf("ephemeris API response is missing longitude_speed")
	}

	return &domain.EphemerisResult{
		Longitude:   *posResp.Longitude,
		SpeedPerDay: *posResp.LongitudeSpeed,
	}, nil
}
