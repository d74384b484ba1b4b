package jsonrpc

import "time"

type Config struct {
	URL         string
	HTTPHeaders map[string]string
	// MaxRetries and RequestTimeout fall back to the package defaults when zero
	MaxRetries     int
	RequestTimeout time.Duration
}

func (c Config) maxRetries() int {
	if c.MaxRetries > 0 {
		return c.MaxRetries
	}
	return MaxRetries
}

func (c Config) requestTimeout() time.Duration {
	if c.RequestTimeout > 0 {
		return c.RequestTimeout
	}
	return DefaultRequestTimeout
}
