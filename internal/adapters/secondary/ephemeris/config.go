package ephemeris

// Config конфигурация клиента сервиса эфемерид.
// EphePath - путь к файлам эфемерид на стороне сервиса; передаётся
// явно при создании клиента, никакого процесс-глобального состояния
type Config struct {
	BaseURL    string `envconfig:"BASE_URL"`
	ApiVersion string `envconfig:"VERSION" default:"v1"`
	ApiKey     string `envconfig:"API_KEY"`
	EphePath   string `envconfig:"EPHE_PATH"`
	Timeout    int    `envconfig:"TIMEOUT" default:"30"` // в секундах
	SkipSSL    string `envconfig:"SKIP_SSL"`             // Railway требует строки вместо bool
}

func (c *Config) ShouldSkipSSL() bool {
	return c.SkipSSL == "true" || c.SkipSSL == "1" || c.SkipSSL == "True"
}
