package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/duneanalytics/block-to-payload/config"
	"github.com/stretchr/testify/require"
)

func TestParseFiles(t *testing.T) {
	cfg, err := config.ParseArgs([]string{"--output-format", "cast", "a.json", "b.json.zst"})
	require.NoError(t, err)
	require.Equal(t, []string{"a.json", "b.json.zst"}, cfg.Files.Paths)
	require.Equal(t, "cast", cfg.Output.Format)
	require.Equal(t, "http://localhost:8551", cfg.Output.EngineURL)
	require.Equal(t, 0, cfg.Workers)
	require.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	require.False(t, cfg.RPCNode.Enabled())
}

func TestParseNodeBlocks(t *testing.T) {
	cfg, err := config.ParseArgs([]string{
		"--rpc-node-url", "http://localhost:8545",
		"--block", "latest",
		"--block", "0x12a05f2",
		"--rpc-http-header", "x-api-key:secret",
		"--log-level", "debug",
		"--workers", "4",
	})
	require.NoError(t, err)
	require.Len(t, cfg.RPCNode.Blocks, 2)
	require.True(t, cfg.RPCNode.Blocks[0].Latest)
	require.Equal(t, int64(19531250), cfg.RPCNode.Blocks[1].Number)
	require.Equal(t, map[string]string{"x-api-key": "secret"}, cfg.RPCNode.HTTPHeaders)
	require.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, 10, cfg.RPCNode.MaxRetries)
	require.Equal(t, 30*time.Second, cfg.RPCNode.Timeout)
}

func TestParseErrors(t *testing.T) {
	cases := map[string][]string{
		"nothing to convert":  {},
		"files and node":      {"--rpc-node-url", "http://localhost:8545", "--block", "1", "a.json"},
		"node without blocks": {"--rpc-node-url", "http://localhost:8545"},
		"blocks without node": {"--block", "1"},
		"bad block reference": {"--rpc-node-url", "http://localhost:8545", "--block", "pending"},
		"unknown format":      {"--output-format", "yaml", "a.json"},
		"negative workers":    {"--workers", "-1", "a.json"},
		"unknown log level":   {"--log-level", "trace", "a.json"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.ParseArgs(args)
			require.Error(t, err)
		})
	}
}
