package jsonrpc

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

//go:generate moq -out ../../mocks/jsonrpc/httpclient.go -pkg jsonrpc_mock . HTTPClient
type HTTPClient interface {
	Do(req *retryablehttp.Request) (*http.Response, error)
}

// NewHTTPClient retries connection errors, 429 and 5xx responses. Waits honor the node's
// Retry-After header when it sends one.
func NewHTTPClient(log *slog.Logger, cfg Config) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.maxRetries()
	client.Logger = log
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		yes, err2 := retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		if !yes {
			return false, err2
		}
		if resp == nil {
			log.Warn("Retrying request to RPC node", "url", cfg.URL, "error", err2)
		} else {
			log.Warn("Retrying request to RPC node", "url", cfg.URL, "statusCode", resp.Status, "error", err2)
		}
		return true, err2
	}
	client.Backoff = retryablehttp.DefaultBackoff
	client.HTTPClient.Timeout = cfg.requestTimeout()
	return client
}
