package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/duneanalytics/block-to-payload/lib/hexutils"
	"github.com/duneanalytics/block-to-payload/models"
	"github.com/hashicorp/go-retryablehttp"
)

//go:generate moq -out ../../mocks/jsonrpc/rpcnode.go -pkg jsonrpc_mock . BlockchainClient
type BlockchainClient interface {
	LatestBlockNumber() (int64, error)
	BlockByRef(ctx context.Context, ref models.BlockRef) (models.RPCBlock, error)
	Close() error
}

const (
	MaxRetries            = 10
	DefaultRequestTimeout = 30 * time.Second
)

type rpcClient struct {
	client  HTTPClient
	cfg     Config
	log     *slog.Logger
	bufPool *sync.Pool
}

var _ BlockchainClient = &rpcClient{}

func NewClient(log *slog.Logger, cfg Config) (*rpcClient, error) { // revive:disable-line:unexported-return
	return NewRPCClient(log, NewHTTPClient(log, cfg), cfg)
}

func NewRPCClient(log *slog.Logger, httpClient HTTPClient, cfg Config) (*rpcClient, error) { // revive:disable-line:unexported-return
	rpc := &rpcClient{
		client: httpClient,
		cfg:    cfg,
		log:    log.With("module", "jsonrpc"),
		bufPool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
	// lets validate RPC node is up & reachable
	_, err := rpc.LatestBlockNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to jsonrpc: %w", err)
	}
	rpc.log.Info("Connected to jsonrpc", "url", cfg.URL)
	return rpc, nil
}

func (c *rpcClient) LatestBlockNumber() (int64, error) {
	buf := c.bufPool.Get().(*bytes.Buffer)
	defer c.putBuffer(buf)

	err := c.getResponseBody(context.Background(), "eth_blockNumber", []any{}, buf)
	if err != nil {
		c.log.Error("Failed to get response for jsonRPC",
			"method", "eth_blockNumber",
			"error", err,
		)
		return 0, err
	}
	resp := struct {
		Result string `json:"result"`
	}{}
	if err := json.NewDecoder(buf).Decode(&resp); err != nil {
		c.log.Error("Failed to decode response for jsonRPC", "error", err)
		return 0, err
	}
	return hexutils.IntFromHex(resp.Result)
}

// BlockByRef fetches a block with full transaction objects, as needed to build its payload.
// The payload is the raw JSON-RPC response, decoding is left to models.ParseBlock.
func (c *rpcClient) BlockByRef(ctx context.Context, ref models.BlockRef) (models.RPCBlock, error) {
	tStart := time.Now()
	defer func() {
		c.log.Debug("BlockByRef", "block", ref.String(), "duration", time.Since(tStart))
	}()

	method := "eth_getBlockByNumber"
	var params []any
	switch {
	case ref.Hash != nil:
		method = "eth_getBlockByHash"
		params = []any{ref.Hash.Hex(), true}
	case ref.Latest:
		params = []any{"latest", true}
	default:
		params = []any{fmt.Sprintf("0x%x", ref.Number), true}
	}

	buf := c.bufPool.Get().(*bytes.Buffer)
	defer c.putBuffer(buf)
	if err := c.getResponseBody(ctx, method, params, buf); err != nil {
		c.log.Error("Failed to get response for jsonRPC",
			"block", ref.String(),
			"method", method,
			"error", err,
		)
		return models.RPCBlock{}, err
	}

	// the buffer goes back to the pool, the block keeps its own copy
	payload := make([]byte, buf.Len())
	copy(payload, buf.Bytes())
	fetchedBlockBytes.WithLabelValues(method).Observe(float64(len(payload)))
	return models.RPCBlock{
		Source:  fmt.Sprintf("%s %s", method, ref.String()),
		Payload: payload,
	}, nil
}

// getResponseBody sends a request to the server and returns the response body
func (c *rpcClient) getResponseBody(
	ctx context.Context, method string, params []interface{}, output *bytes.Buffer,
) error {
	reqData := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	}
	encoder := json.NewEncoder(output)
	if err := encoder.Encode(reqData); err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, output)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.cfg.HTTPHeaders {
		req.Header.Set(k, v)
	}

	t0 := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		observeRPCRequestErr(err, method, t0)
		return fmt.Errorf("failed to send request for method %s: %w", method, err)
	}
	defer resp.Body.Close()
	observeRPCRequestCode(resp.StatusCode, method, t0)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("response for method %s has status code %d", method, resp.StatusCode)
	}

	output.Reset()
	if _, err := output.ReadFrom(resp.Body); err != nil {
		return fmt.Errorf("failed to read response body for method %s: %w", method, err)
	}
	return nil
}

func (c *rpcClient) putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	c.bufPool.Put(buf)
}

func (c *rpcClient) Close() error {
	return nil
}
