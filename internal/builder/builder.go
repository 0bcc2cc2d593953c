package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/futig/ai-compass/internal/api"
	funnelapi "github.com/futig/ai-compass/internal/api/funnel"
	"github.com/futig/ai-compass/internal/config"
	"github.com/futig/ai-compass/internal/integration/assessment"
	"github.com/futig/ai-compass/internal/pkg/logger"
	"github.com/futig/ai-compass/internal/pkg/mindelay"
	"github.com/futig/ai-compass/internal/pkg/validator"
	"github.com/futig/ai-compass/internal/usecase/funnel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Build creates the HTTP application for the given environment
func Build(environment string) (*App, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize assessment API connector (with mock support)
	connector, err := newConnector(cfg, log)
	if err != nil {
		return nil, err
	}

	// Initialize browsing session registry
	registry := funnel.NewRegistry(connector, cfg.FunnelCfg, mindelay.RealClock(), log)
	log.Info("Visitor registry initialized",
		zap.Duration("session_ttl", cfg.FunnelCfg.SessionTTL),
		zap.Duration("min_display_duration", cfg.FunnelCfg.MinDisplayDuration),
	)

	// Setup API handlers
	funnelHandler := funnelapi.NewHandler(registry, validator.New())
	log.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(api.RouterConfig{
		CORSOrigins:         cfg.CORSOrigins,
		SecureCookies:       cfg.FunnelCfg.SecureCookies,
		RequestTimeout:      requestTimeout(cfg),
		StartRatePerMinute:  cfg.FunnelCfg.StartRatePerMinute,
		StartBurst:          cfg.FunnelCfg.StartBurst,
		ReportRatePerMinute: cfg.FunnelCfg.ReportRatePerMinute,
		ReportBurst:         cfg.FunnelCfg.ReportBurst,
	}, funnelHandler, log)
	log.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout(cfg) + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:   server,
		registry: registry,
		logger:   log,
	}, nil
}

// Walkthrough is a single browsing session driven from the terminal
type Walkthrough struct {
	Visitor     *funnel.Visitor
	DownloadDir string
	Logger      *zap.Logger

	registry *funnel.Registry
}

// Close ends the browsing session and flushes logs
func (w *Walkthrough) Close() {
	w.registry.Close()
	_ = w.Logger.Sync()
}

// BuildWalkthrough creates one browsing session for the given environment
func BuildWalkthrough(environment string) (*Walkthrough, error) {
	cfg, err := config.LoadConfig(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	connector, err := newConnector(cfg, log)
	if err != nil {
		return nil, err
	}

	registry := funnel.NewRegistry(connector, cfg.FunnelCfg, mindelay.RealClock(), log)

	return &Walkthrough{
		Visitor:     registry.Visitor(uuid.NewString()),
		DownloadDir: cfg.FunnelCfg.DownloadDir,
		Logger:      log,
		registry:    registry,
	}, nil
}

func newConnector(cfg *config.Config, log *zap.Logger) (funnel.Connector, error) {
	if cfg.EnableMocks {
		log.Info("Using mock connector for the assessment API")
		return assessment.NewMockConnector(log), nil
	}

	log.Info("Using real connector for the assessment API",
		zap.String("url", cfg.AssessmentAPICfg.Url),
	)
	connector, err := assessment.NewConnector(cfg.AssessmentAPICfg, log)
	if err != nil {
		return nil, err
	}
	return connector, nil
}

// requestTimeout leaves room for the minimum display hold on top of a slow
// backend call.
func requestTimeout(cfg *config.Config) time.Duration {
	return cfg.AssessmentAPICfg.RequestTimeout + cfg.FunnelCfg.MinDisplayDuration + 5*time.Second
}
