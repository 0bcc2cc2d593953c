package http

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// ProxyDirect disables proxying, including proxies named by the environment.
const ProxyDirect = "direct"

type TransportFunc func(http.RoundTripper) http.RoundTripper

// ClientConfig holds the connection settings of one backend. Zero values fall
// back to defaults.
type ClientConfig struct {
	ConnTimeout           time.Duration
	RequestTimeout        time.Duration
	KeepAlive             time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	IdleConnTimeout       time.Duration
	MaxIdleConnsPerHost   int
	// Proxy is a forward proxy URL, ProxyDirect, or empty to honour
	// HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
	Proxy string
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.ConnTimeout <= 0 {
		c.ConnTimeout = 30 * time.Second
	}
	if c.RequestTimeout < 0 {
		c.RequestTimeout = 0
	}
	if c.KeepAlive <= 0 {
		c.KeepAlive = 90 * time.Second
	}
	if c.TLSHandshakeTimeout <= 0 {
		c.TLSHandshakeTimeout = 10 * time.Second
	}
	if c.ResponseHeaderTimeout <= 0 {
		c.ResponseHeaderTimeout = 10 * time.Second
	}
	if c.IdleConnTimeout <= 0 {
		c.IdleConnTimeout = 90 * time.Second
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = 10
	}
	return c
}

func proxyFunc(raw string) (func(*http.Request) (*url.URL, error), error) {
	switch raw {
	case "":
		return http.ProxyFromEnvironment, nil
	case ProxyDirect:
		return nil, nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid proxy url %q", raw)
	}
	return http.ProxyURL(u), nil
}

func newClient(cfg ClientConfig, transports []TransportFunc) (*http.Client, error) {
	cfg = cfg.withDefaults()

	proxy, err := proxyFunc(cfg.Proxy)
	if err != nil {
		return nil, err
	}

	dialer := net.Dialer{
		Timeout:   cfg.ConnTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	var transport http.RoundTripper = &http.Transport{
		Proxy:                 proxy,
		DialContext:           dialer.DialContext,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		IdleConnTimeout:       cfg.IdleConnTimeout,
	}
	for _, transportFunc := range transports {
		transport = transportFunc(transport)
	}

	return &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: transport,
	}, nil
}
