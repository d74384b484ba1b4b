package main

// block-to-payload converts RPC block documents into engine API newPayload calls.
// Blocks come either from files or from a node, and each call is printed as soon as its
// block is converted.

import (
	"context"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/duneanalytics/block-to-payload/client/jsonrpc"
	"github.com/duneanalytics/block-to-payload/config"
	"github.com/duneanalytics/block-to-payload/converter"
	"github.com/duneanalytics/block-to-payload/output"
	"github.com/go-errors/errors"
	flags "github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	// always use UTC
	time.Local = time.UTC
}

func main() {
	cfg, err := config.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		stdlog.Fatal(err)
	}

	logOptions := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, logOptions)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, logOptions)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, logger, cfg)
	if cfg.MetricsTextfile != "" {
		if werr := prometheus.WriteToTextfile(cfg.MetricsTextfile, prometheus.DefaultGatherer); werr != nil {
			logger.Error("Failed to write metrics", "path", cfg.MetricsTextfile, "error", werr)
		}
	}
	if err != nil {
		logger.Error("block-to-payload failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	opts := output.Options{EngineURL: cfg.Output.EngineURL, Now: time.Now}
	if cfg.Output.JWTSecretPath != "" {
		opts.JWTSecret, err = output.LoadJWTSecret(cfg.Output.JWTSecretPath)
		if err != nil {
			return err
		}
	}
	formatter, err := output.New(format, opts)
	if err != nil {
		return err
	}

	out := os.Stdout
	if cfg.Output.Path != "" {
		out, err = os.Create(cfg.Output.Path)
		if err != nil {
			return errors.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()
	}

	sources, closeSources, err := buildSources(logger, cfg)
	if err != nil {
		return err
	}
	defer closeSources()

	conv := converter.New(logger, formatter, out, converter.Config{
		Workers:         cfg.Workers,
		StrictBlockHash: cfg.StrictBlockHash,
	})
	if err := conv.Run(ctx, sources); err != nil {
		return err
	}
	if cfg.Output.Path != "" {
		return out.Sync()
	}
	return nil
}

func buildSources(logger *slog.Logger, cfg *config.Config) ([]converter.Source, func(), error) {
	if len(cfg.Files.Paths) > 0 {
		sources := make([]converter.Source, 0, len(cfg.Files.Paths))
		for _, path := range cfg.Files.Paths {
			sources = append(sources, converter.FileSource{Path: path})
		}
		return sources, func() {}, nil
	}

	rpcClient, err := jsonrpc.NewClient(logger, jsonrpc.Config{
		URL:            cfg.RPCNode.NodeURL,
		HTTPHeaders:    cfg.RPCNode.HTTPHeaders,
		MaxRetries:     cfg.RPCNode.MaxRetries,
		RequestTimeout: cfg.RPCNode.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	sources := make([]converter.Source, 0, len(cfg.RPCNode.Blocks))
	for _, ref := range cfg.RPCNode.Blocks {
		sources = append(sources, converter.NodeSource{Client: rpcClient, Ref: ref})
	}
	closeClient := func() {
		if err := rpcClient.Close(); err != nil {
			logger.Warn("Failed to close jsonrpc client", "error", err)
		}
	}
	return sources, closeClient, nil
}
