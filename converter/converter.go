package converter

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/duneanalytics/block-to-payload/canonical"
	"github.com/duneanalytics/block-to-payload/engine"
	"github.com/duneanalytics/block-to-payload/models"
	"github.com/duneanalytics/block-to-payload/output"
	"github.com/go-errors/errors"
)

var ErrBlockHashMismatch = errors.New("sealed header hash differs from the block hash reported by the node")

type Converter interface {
	// Run converts the blocks one after the other and writes each newPayload call as soon as
	// its block is done. It stops at the first error: calls already written stay written,
	// nothing is written for the failing block.
	Run(ctx context.Context, sources []Source) error

	// Convert turns one raw block document into the call that submits it.
	Convert(block models.RPCBlock) (*engine.NewPayloadRequest, error)

	Info() Info
}

type Config struct {
	// Workers canonicalizing the transactions of a block, 0 or 1 means sequential
	Workers int
	// StrictBlockHash fails on a hash mismatch instead of logging it
	StrictBlockHash bool
}

type converter struct {
	log       *slog.Logger
	formatter output.Formatter
	out       io.Writer
	cfg       Config
	info      Info
}

func New(log *slog.Logger, formatter output.Formatter, out io.Writer, cfg Config) Converter {
	return &converter{
		log:       log.With("module", "converter"),
		formatter: formatter,
		out:       out,
		cfg:       cfg,
		info:      NewInfo(),
	}
}

func (c *converter) Info() Info {
	return c.info
}

func (c *converter) Run(ctx context.Context, sources []Source) error {
	c.log.Info("Starting converter", "blocks", len(sources), "workers", c.cfg.Workers)

	var buf bytes.Buffer
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		startTime := time.Now()

		block, err := source.Load(ctx)
		if err != nil {
			observeBlock("load_error", "", startTime)
			c.log.Error("Failed to load block", "source", source.String(), "error", err)
			return errors.Errorf("failed to load block %s: %w", source, err)
		}
		loadElapsed := time.Since(startTime)

		req, err := c.Convert(block)
		if err != nil {
			observeBlock("error", "", startTime)
			c.log.Error("Failed to convert block", "source", source.String(), "error", err)
			return errors.Errorf("failed to convert block %s: %w", source, err)
		}

		buf.Reset()
		if err := c.formatter.Format(&buf, req); err != nil {
			observeBlock("error", req.Version().String(), startTime)
			return errors.Errorf("failed to format block %s: %w", source, err)
		}
		if _, err := c.out.Write(buf.Bytes()); err != nil {
			return errors.Errorf("failed to write block %s: %w", source, err)
		}
		observeBlock("ok", req.Version().String(), startTime)

		c.log.Info("Converted block",
			"source", source.String(),
			"blockNumber", uint64(req.Payload.Common().BlockNumber),
			"blockHash", req.Payload.Common().BlockHash.Hex(),
			"method", req.Method(),
			"transactions", len(req.Payload.Common().Transactions),
			"loadElapsed", loadElapsed,
			"elapsed", time.Since(startTime),
		)
	}

	c.log.Info("Finished converting", c.info.LogFields()...)
	return nil
}

func (c *converter) Convert(raw models.RPCBlock) (*engine.NewPayloadRequest, error) {
	if raw.Empty() {
		return nil, errors.Errorf("%s: empty block document", raw.Source)
	}
	tStart := time.Now()
	block, err := models.ParseBlock(raw.Payload)
	if err != nil {
		return nil, err
	}
	parseElapsed := time.Since(tStart)

	sealed, err := canonical.ConvertBlock(block, c.cfg.Workers)
	if err != nil {
		return nil, err
	}
	canonicalElapsed := time.Since(tStart) - parseElapsed

	if err := c.checkBlockHash(block, sealed); err != nil {
		return nil, err
	}

	req, err := engine.NewRequest(sealed)
	if err != nil {
		return nil, err
	}
	c.log.Debug("Convert",
		"blockNumber", sealed.Number(),
		"version", req.Version().String(),
		"parseElapsed", parseElapsed,
		"canonicalElapsed", canonicalElapsed,
		"payloadElapsed", time.Since(tStart)-parseElapsed-canonicalElapsed,
	)

	for _, tx := range sealed.Transactions() {
		convertedTransactions.WithLabelValues(tx.Type().String()).Inc()
	}
	c.info.Blocks++
	c.info.Transactions += int64(len(sealed.Transactions()))
	c.info.BlobHashes += int64(len(req.VersionedHashes))
	c.info.Versions[req.Version()]++
	c.info.LastBlock = sealed.Number()
	return req, nil
}

// checkBlockHash compares the recomputed hash with the one the node reported. A mismatch
// usually means a field the node serves is not part of the header we rebuild.
func (c *converter) checkBlockHash(block *models.Block, sealed *canonical.SealedBlock) error {
	if block.Hash == nil || *block.Hash == sealed.Hash() {
		return nil
	}
	if c.cfg.StrictBlockHash {
		return errors.Errorf("block %d: got %s, node reported %s: %w",
			sealed.Number(), sealed.Hash().Hex(), block.Hash.Hex(), ErrBlockHashMismatch)
	}
	c.info.HashMismatches++
	c.log.Warn("Block hash mismatch",
		"blockNumber", sealed.Number(),
		"sealedHash", sealed.Hash().Hex(),
		"reportedHash", block.Hash.Hex(),
	)
	return nil
}
