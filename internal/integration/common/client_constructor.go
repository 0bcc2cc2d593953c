package common

import (
	"github.com/futig/ai-compass/internal/config"
	pkgRetry "github.com/futig/ai-compass/internal/pkg/retry"
	pkgHTTP "github.com/futig/ai-compass/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds the HTTP connector of a backend. Idempotent reads are
// retried per retryCfg; every request carries the bearer token and is logged at
// debug level.
func NewBaseConnector(cfg config.HTTPClientConfig, retryCfg pkgRetry.RetryConfig, logger *zap.Logger) (*pkgHTTP.Connector, error) {
	return pkgHTTP.NewConnector(
		&pkgHTTP.ConnectorConfig{
			Logger:  logger,
			BaseURL: cfg.Url,
			Client: pkgHTTP.ClientConfig{
				ConnTimeout:           cfg.ConnTimeout,
				RequestTimeout:        cfg.RequestTimeout,
				KeepAlive:             cfg.KeepAlive,
				TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
				ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
				IdleConnTimeout:       cfg.IdleConnTimeout,
				MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
				Proxy:                 cfg.ProxyURL,
			},
		},
		pkgHTTP.WithRetry(retryCfg.ToRetryOptions()...),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(cfg.Token),
	)
}
