package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	baseURL    string
	httpClient *http.Client
	retry      []retry.Option
	logger     *zap.Logger
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
	Client  ClientConfig
}

func NewConnector(config *ConnectorConfig, options ...HttpOpts) (*Connector, error) {
	opts := &connectorOptions{}
	for _, opt := range options {
		opt(opts)
	}

	client, err := newClient(config.Client, opts.transports)
	if err != nil {
		return nil, fmt.Errorf("build http client for %s: %w", config.BaseURL, err)
	}

	return &Connector{
		baseURL:    config.BaseURL,
		httpClient: client,
		retry:      opts.retry,
		logger:     config.Logger,
	}, nil
}

type RequestOpt func(*requestConfig)

type requestConfig struct {
	query map[string]string
}

// WithQuery adds a query parameter to the request URL.
func WithQuery(key, value string) RequestOpt {
	return func(c *requestConfig) {
		if c.query == nil {
			c.query = make(map[string]string)
		}
		c.query[key] = value
	}
}

// RawResponse is a successful response whose body is returned as is.
type RawResponse struct {
	Body               []byte
	ContentType        string
	ContentDisposition string
}

// DoRequest sends reqBody as JSON and decodes a JSON response into respBody.
func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	var payload []byte
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = jsonData
		// Attach payload to context for logging transport
		ctx = context.WithValue(ctx, payloadContextKey{}, jsonData)
	}

	headers := map[string]string{"Accept": "application/json"}
	if reqBody != nil {
		headers["Content-Type"] = "application/json"
	}

	raw, err := c.do(ctx, method, endpoint, payload, headers, opts...)
	if err != nil {
		return err
	}

	if respBody != nil && len(raw.Body) > 0 {
		if err := json.Unmarshal(raw.Body, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// DoRawRequest performs a body-less request and returns the undecoded payload,
// used for binary documents.
func (c *Connector) DoRawRequest(ctx context.Context, method, endpoint string, opts ...RequestOpt) (*RawResponse, error) {
	return c.do(ctx, method, endpoint, nil, map[string]string{"Accept": "*/*"}, opts...)
}

func (c *Connector) do(
	ctx context.Context,
	method, endpoint string,
	payload []byte,
	headers map[string]string,
	opts ...RequestOpt,
) (*RawResponse, error) {
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(c.retry) == 0 || !idempotent(method) {
		return c.send(ctx, method, endpoint, payload, headers, cfg)
	}

	var raw *RawResponse
	retryOpts := append(append([]retry.Option{}, c.retry...),
		retry.Context(ctx),
		retry.RetryIf(IsTransient),
		retry.OnRetry(func(n uint, err error) {
			ctxzap.Warn(ctx, "retrying HTTP request",
				zap.String("method", method),
				zap.String("endpoint", endpoint),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	err := retry.Do(func() error {
		var err error
		raw, err = c.send(ctx, method, endpoint, payload, headers, cfg)
		return err
	}, retryOpts...)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Connector) send(
	ctx context.Context,
	method, endpoint string,
	payload []byte,
	headers map[string]string,
	cfg *requestConfig,
) (*RawResponse, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if len(cfg.query) > 0 {
		q := req.URL.Query()
		for key, value := range cfg.query {
			q.Set(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(bodyBytes),
		}
	}

	return &RawResponse{
		Body:               bodyBytes,
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
	}, nil
}

func idempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// IsTransient reports whether a failed request may succeed on a later attempt.
func IsTransient(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}

	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Temporary()
}

// HTTPError represents an HTTP error response
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether the server side failure may succeed on a later attempt.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// NetworkError represents a network-level error (connection, timeout, etc.)
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
