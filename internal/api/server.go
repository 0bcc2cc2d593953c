package api

import (
	"net/http"
	"time"

	"github.com/futig/ai-compass/internal/api/docs"
	funnelapi "github.com/futig/ai-compass/internal/api/funnel"
	"github.com/futig/ai-compass/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig holds the knobs of the HTTP surface
type RouterConfig struct {
	CORSOrigins         []string
	SecureCookies       bool
	RequestTimeout      time.Duration
	StartRatePerMinute  int
	StartBurst          int
	ReportRatePerMinute int
	ReportBurst         int
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(cfg RouterConfig, funnelHandler *funnelapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	// Middleware stack
	r.Use(chimiddleware.Recoverer)               // Recover from panics
	r.Use(chimiddleware.RealIP)                  // Client address for rate limits
	r.Use(chimiddleware.RequestID)               // Add request ID
	r.Use(middleware.Logger(logger))             // Log requests
	r.Use(middleware.CORS(cfg.CORSOrigins))      // Handle CORS
	r.Use(chimiddleware.Timeout(timeout))        // Default timeout
	r.Use(middleware.Visitor(cfg.SecureCookies)) // Browsing session cookie

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	funnelapi.RegisterRoutes(r, funnelHandler, funnelapi.RouteLimits{
		Start:  middleware.NewRateLimiter(cfg.StartRatePerMinute, cfg.StartBurst).Handler,
		Report: middleware.NewRateLimiter(cfg.ReportRatePerMinute, cfg.ReportBurst).Handler,
	})

	return r
}
