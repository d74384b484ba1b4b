package converter

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/duneanalytics/block-to-payload/client/jsonrpc"
	"github.com/duneanalytics/block-to-payload/models"
	"github.com/go-errors/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Source produces the raw JSON of one block.
type Source interface {
	Load(ctx context.Context) (models.RPCBlock, error)
	String() string
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// FileSource reads a block document from disk. gzip and zstd compressed files are detected
// by their magic bytes, whatever the file is called.
type FileSource struct {
	Path string
}

func (s FileSource) String() string {
	return s.Path
}

func (s FileSource) Load(_ context.Context) (models.RPCBlock, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return models.RPCBlock{}, errors.Errorf("failed to read block file: %w", err)
	}
	payload, err := decompress(raw)
	if err != nil {
		return models.RPCBlock{}, errors.Errorf("failed to decompress %s: %w", s.Path, err)
	}
	return models.RPCBlock{Source: s.Path, Payload: payload}, nil
}

func decompress(raw []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(raw, gzipMagic):
		reader, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return io.ReadAll(reader)
	case bytes.HasPrefix(raw, zstdMagic):
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer decoder.Close()
		return decoder.DecodeAll(raw, nil)
	default:
		return raw, nil
	}
}

// NodeSource fetches a block from a node with full transaction objects.
type NodeSource struct {
	Client jsonrpc.BlockchainClient
	Ref    models.BlockRef
}

func (s NodeSource) String() string {
	return s.Ref.String()
}

func (s NodeSource) Load(ctx context.Context) (models.RPCBlock, error) {
	return s.Client.BlockByRef(ctx, s.Ref)
}
