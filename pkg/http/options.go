package http

import (
	"github.com/avast/retry-go/v4"
)

type HttpOpts func(*connectorOptions)

type connectorOptions struct {
	transports []TransportFunc
	retry      []retry.Option
}

func WithTransport(transport TransportFunc) HttpOpts {
	return func(c *connectorOptions) {
		c.transports = append(c.transports, transport)
	}
}

// WithRetry repeats idempotent requests (GET and HEAD) that fail with a
// network error or a temporary HTTP status. Other methods are sent once.
func WithRetry(opts ...retry.Option) HttpOpts {
	return func(c *connectorOptions) {
		c.retry = append(c.retry, opts...)
	}
}
