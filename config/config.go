package config

import (
	"errors"
	"log/slog"
	"time"

	"github.com/duneanalytics/block-to-payload/models"
	"github.com/duneanalytics/block-to-payload/output"
	flags "github.com/jessevdk/go-flags"
)

type RPCClient struct {
	NodeURL     string            `long:"rpc-node-url" env:"RPC_NODE_URL" description:"URL for the blockchain node to fetch blocks from"`                                    // nolint:lll
	Blocks      []models.BlockRef `long:"block" env:"BLOCK" env-delim:"," description:"Block to fetch: a number, a 0x hash or 'latest'. Can be repeated"`                    // nolint:lll
	MaxRetries  int               `long:"rpc-max-retries" env:"RPC_MAX_RETRIES" description:"Retries for failed node requests" default:"10"`                                 // nolint:lll
	Timeout     time.Duration     `long:"rpc-timeout" env:"RPC_TIMEOUT" description:"Timeout of a single node request" default:"30s"`                                        // nolint:lll
	HTTPHeaders map[string]string `long:"rpc-http-header" env:"RPC_HTTP_HEADERS" env-delim:"," description:"Extra HTTP header for the node, as name:value. Can be repeated"` // nolint:lll
}

func (r RPCClient) Enabled() bool {
	return r.NodeURL != "" || len(r.Blocks) > 0
}

func (r RPCClient) HasError() error {
	if r.NodeURL == "" {
		return errors.New("RPC node URL is required to fetch blocks")
	}
	if len(r.Blocks) == 0 {
		return errors.New("at least one --block is required with --rpc-node-url")
	}
	if r.MaxRetries < 0 || r.Timeout < 0 {
		return errors.New("RPC retries and timeout must be >= 0")
	}
	return nil
}

type Output struct {
	Format        string `long:"output-format" env:"OUTPUT_FORMAT" description:"How to print each newPayload call" choice:"json" choice:"ndjson" choice:"cast" choice:"curl" default:"json"` // nolint:lll
	Path          string `long:"output" env:"OUTPUT" description:"File to write to instead of stdout"`                                                                                       // nolint:lll
	EngineURL     string `long:"engine-url" env:"ENGINE_URL" description:"Engine API endpoint used by the cast and curl formats" default:"http://localhost:8551"`                            // nolint:lll
	JWTSecretPath string `long:"jwt-secret" env:"JWT_SECRET" description:"File holding the hex encoded engine API JWT secret, for the cast and curl formats"`                                // nolint:lll
}

func (o Output) HasError() error {
	_, err := output.ParseFormat(o.Format)
	return err
}

type Config struct {
	Files struct {
		Paths []string `positional-arg-name:"BLOCK_FILE" description:"Block JSON documents, optionally gzip or zstd compressed"`
	} `positional-args:"yes"`
	RPCNode         RPCClient
	Output          Output
	Workers         int    `long:"workers" env:"WORKERS" description:"Goroutines canonicalizing the transactions of a block, 0 is sequential" default:"0"`     // nolint:lll
	StrictBlockHash bool   `long:"strict-block-hash" env:"STRICT_BLOCK_HASH" description:"Fail when the recomputed block hash differs from the node's"`        // nolint:lll
	MetricsTextfile string `long:"metrics-textfile" env:"METRICS_TEXTFILE" description:"Write Prometheus metrics to this file when done"`                      // nolint:lll
	LogLevel        string `long:"log-level" env:"LOG_LEVEL" description:"Log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"` // nolint:lll
	LogFormat       string `long:"log-format" env:"LOG_FORMAT" description:"Log format" choice:"text" choice:"json" default:"text"`                            // nolint:lll
}

func (c Config) HasError() error {
	hasFiles := len(c.Files.Paths) > 0
	switch {
	case hasFiles && c.RPCNode.Enabled():
		return errors.New("give either block files or --rpc-node-url with --block, not both")
	case !hasFiles && !c.RPCNode.Enabled():
		return errors.New("no blocks to convert: give block files or --rpc-node-url with --block")
	case c.RPCNode.Enabled():
		if err := c.RPCNode.HasError(); err != nil {
			return err
		}
	}
	if err := c.Output.HasError(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return errors.New("workers must be >= 0")
	}
	return nil
}

func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func Parse() (*Config, error) {
	return ParseArgs(nil)
}

// ParseArgs parses args, or the process arguments when args is nil.
func ParseArgs(args []string) (*Config, error) {
	var config Config
	parser := flags.NewParser(&config, flags.Default)
	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		return nil, err
	}
	if err := config.HasError(); err != nil {
		return nil, err
	}
	return &config, nil
}
