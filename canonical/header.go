package canonical

import (
	"math/big"

	"github.com/duneanalytics/block-to-payload/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// SealedHeader is a header bound to its block hash. It is immutable: Header returns a copy.
type SealedHeader struct {
	header *types.Header
	hash   common.Hash
}

// Seal computes the block hash (keccak of the RLP header) of a private copy of h.
func Seal(h *types.Header) SealedHeader {
	cpy := types.CopyHeader(h)
	return SealedHeader{header: cpy, hash: cpy.Hash()}
}

func (s SealedHeader) Hash() common.Hash {
	return s.hash
}

func (s SealedHeader) Header() *types.Header {
	return types.CopyHeader(s.header)
}

func (s SealedHeader) Number() uint64 {
	return s.header.Number.Uint64()
}

// CanonicalizeHeader maps the RPC header onto the consensus header. number and nonce are
// mandatory, everything the RPC marks optional stays nil when absent.
func CanonicalizeHeader(rpcHeader *models.Header) (*types.Header, error) {
	f := newFields(RecordHeader, -1)

	number := f.uint64("number", rpcHeader.Number)
	if rpcHeader.Nonce == nil {
		f.fail("nonce", ErrMissingField)
	}
	gasLimit := f.uint64("gasLimit", &rpcHeader.GasLimit)
	gasUsed := f.uint64("gasUsed", &rpcHeader.GasUsed)
	timestamp := f.uint64("timestamp", &rpcHeader.Timestamp)
	difficulty := f.uint256("difficulty", &rpcHeader.Difficulty)
	baseFee := f.optionalUint64("baseFeePerGas", rpcHeader.BaseFeePerGas)
	blobGasUsed := f.optionalUint64("blobGasUsed", rpcHeader.BlobGasUsed)
	excessBlobGas := f.optionalUint64("excessBlobGas", rpcHeader.ExcessBlobGas)
	if err := f.err(); err != nil {
		return nil, err
	}

	extra := make([]byte, len(rpcHeader.ExtraData))
	copy(extra, rpcHeader.ExtraData)

	header := &types.Header{
		ParentHash:       rpcHeader.ParentHash,
		UncleHash:        rpcHeader.UnclesHash,
		Coinbase:         rpcHeader.Miner,
		Root:             rpcHeader.StateRoot,
		TxHash:           rpcHeader.TransactionsRoot,
		ReceiptHash:      rpcHeader.ReceiptsRoot,
		Bloom:            rpcHeader.LogsBloom,
		Difficulty:       difficulty.ToBig(),
		Number:           new(big.Int).SetUint64(number),
		GasLimit:         gasLimit,
		GasUsed:          gasUsed,
		Time:             timestamp,
		Extra:            extra,
		MixDigest:        rpcHeader.MixHash,
		Nonce:            *rpcHeader.Nonce,
		WithdrawalsHash:  copyHash(rpcHeader.WithdrawalsRoot),
		BlobGasUsed:      blobGasUsed,
		ExcessBlobGas:    excessBlobGas,
		ParentBeaconRoot: copyHash(rpcHeader.ParentBeaconBlockRoot),
	}
	if baseFee != nil {
		header.BaseFee = new(big.Int).SetUint64(*baseFee)
	}
	return header, nil
}

func SealHeader(rpcHeader *models.Header) (SealedHeader, error) {
	header, err := CanonicalizeHeader(rpcHeader)
	if err != nil {
		return SealedHeader{}, err
	}
	return Seal(header), nil
}

func copyHash(h *common.Hash) *common.Hash {
	if h == nil {
		return nil
	}
	cpy := *h
	return &cpy
}
