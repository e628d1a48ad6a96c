package geocode

// Config конфигурация геокодера (Nominatim-совместимый API)
type Config struct {
	BaseURL   string `envconfig:"BASE_URL" default:"https://nominatim.openstreetmap.org"`
	UserAgent string `envconfig:"USER_AGENT" default:"natal-service/1.0"`
	Timeout   int    `envconfig:"TIMEOUT" default:"10"` // в секундах
	SkipSSL   string `envconfig:"SKIP_SSL"`             // Railway требует строки вместо bool
}

func (c *Config) ShouldSkipSSL() bool {
	return c.SkipSSL == "true" || c.SkipSSL == "1" || c.SkipSSL == "True"
}
