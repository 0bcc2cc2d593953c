package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/ai-compass/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr  string   `env:"SERVER_ADDR" envDefault:":8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Remote assessment API
	AssessmentAPICfg AssessmentAPIConfig `envPrefix:"ASSESSMENT_API_"`

	// Session and submission workflow
	FunnelCfg FunnelConfig `envPrefix:"FUNNEL_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type AssessmentAPIConfig struct {
	HTTPClientConfig
	CreateCompanyEndpoint  string               `env:"CREATE_COMPANY_ENDPOINT" envDefault:"/companies/"`
	CreateResponseEndpoint string               `env:"CREATE_RESPONSE_ENDPOINT" envDefault:"/responses/"`
	QuestionnaireEndpoint  string               `env:"QUESTIONNAIRE_ENDPOINT" envDefault:"/questionnaire/"`
	RecordAnswerEndpoint   string               `env:"RECORD_ANSWER_ENDPOINT" envDefault:"/responses/%d/items"`
	CompleteEndpoint       string               `env:"COMPLETE_ENDPOINT" envDefault:"/responses/%d/complete"`
	ResultsEndpoint        string               `env:"RESULTS_ENDPOINT" envDefault:"/responses/%d/results"`
	ReportEndpoint         string               `env:"REPORT_ENDPOINT" envDefault:"/responses/%d/pdf"`
	Retry                  pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	TLSHandshakeTimeout   time.Duration `env:"TLS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	MaxIdleConnsPerHost   int           `env:"MAX_IDLE_CONNS_PER_HOST" envDefault:"10"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"http://localhost:8000/api/v1"`
	// Empty honours HTTP(S)_PROXY; "direct" disables proxying.
	ProxyURL              string        `env:"PROXY_URL"`
}

// FunnelConfig tunes the visitor-facing workflow
type FunnelConfig struct {
	MinDisplayDuration  time.Duration `env:"MIN_DISPLAY_DURATION" envDefault:"3s"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	PrefetchTimeout     time.Duration `env:"PREFETCH_TIMEOUT" envDefault:"30s"`
	DownloadDir         string        `env:"DOWNLOAD_DIR" envDefault:"reports"`
	SecureCookies       bool          `env:"SECURE_COOKIES" envDefault:"false"`
	StartRatePerMinute  int           `env:"START_RATE_PER_MINUTE" envDefault:"6"`
	StartBurst          int           `env:"START_BURST" envDefault:"3"`
	ReportRatePerMinute int           `env:"REPORT_RATE_PER_MINUTE" envDefault:"12"`
	ReportBurst         int           `env:"REPORT_BURST" envDefault:"4"`
}

// LoadConfig reads .env.<environment> when present and parses the environment.
func LoadConfig(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	return parse(environment)
}

func parse(environment string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.FunnelCfg.MinDisplayDuration < 0 || cfg.FunnelCfg.MinDisplayDuration > time.Minute {
		errors = append(errors, fmt.Sprintf("FUNNEL_MIN_DISPLAY_DURATION must be between 0 and 1m, got %s", cfg.FunnelCfg.MinDisplayDuration))
	}

	if cfg.FunnelCfg.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("FUNNEL_SESSION_TTL must be at least 1m, got %s", cfg.FunnelCfg.SessionTTL))
	}

	if cfg.FunnelCfg.StartRatePerMinute < 1 {
		errors = append(errors, fmt.Sprintf("FUNNEL_START_RATE_PER_MINUTE must be positive, got %d", cfg.FunnelCfg.StartRatePerMinute))
	}

	if cfg.FunnelCfg.ReportRatePerMinute < 1 {
		errors = append(errors, fmt.Sprintf("FUNNEL_REPORT_RATE_PER_MINUTE must be positive, got %d", cfg.FunnelCfg.ReportRatePerMinute))
	}

	if cfg.FunnelCfg.DownloadDir == "" {
		errors = append(errors, "FUNNEL_DOWNLOAD_DIR must not be empty")
	}

	if !cfg.EnableMocks && cfg.AssessmentAPICfg.Url == "" {
		errors = append(errors, "ASSESSMENT_API_SERVICE_URL is required when mocks are disabled")
	}

	if cfg.AssessmentAPICfg.Retry.Attempts < 1 || cfg.AssessmentAPICfg.Retry.Attempts > 10 {
		errors = append(errors, fmt.Sprintf("ASSESSMENT_API_RETRY_ATTEMPTS must be between 1 and 10, got %d", cfg.AssessmentAPICfg.Retry.Attempts))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
