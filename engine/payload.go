package engine

import (
	"math/big"

	"github.com/duneanalytics/block-to-payload/canonical"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-errors/errors"
)

var ErrMissingBeaconRoot = errors.New("a V3 payload is submitted with its parent beacon block root")

type Version int

const (
	V1 Version = 1
	V2 Version = 2
	V3 Version = 3
)

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	case V3:
		return "v3"
	default:
		return "unknown"
	}
}

// ExecutionPayload is one of *ExecutionPayloadV1, *ExecutionPayloadV2 or *ExecutionPayloadV3.
type ExecutionPayload interface {
	Version() Version
	// Common gives the fields every version shares.
	Common() *ExecutionPayloadV1
}

type ExecutionPayloadV1 struct {
	ParentHash    common.Hash     `json:"parentHash"`
	FeeRecipient  common.Address  `json:"feeRecipient"`
	StateRoot     common.Hash     `json:"stateRoot"`
	ReceiptsRoot  common.Hash     `json:"receiptsRoot"`
	LogsBloom     hexutil.Bytes   `json:"logsBloom"`
	PrevRandao    common.Hash     `json:"prevRandao"`
	BlockNumber   hexutil.Uint64  `json:"blockNumber"`
	GasLimit      hexutil.Uint64  `json:"gasLimit"`
	GasUsed       hexutil.Uint64  `json:"gasUsed"`
	Timestamp     hexutil.Uint64  `json:"timestamp"`
	ExtraData     hexutil.Bytes   `json:"extraData"`
	BaseFeePerGas *hexutil.Big    `json:"baseFeePerGas"`
	BlockHash     common.Hash     `json:"blockHash"`
	Transactions  []hexutil.Bytes `json:"transactions"`
}

type ExecutionPayloadV2 struct {
	ExecutionPayloadV1
	Withdrawals types.Withdrawals `json:"withdrawals"`
}

type ExecutionPayloadV3 struct {
	ExecutionPayloadV2
	BlobGasUsed   hexutil.Uint64 `json:"blobGasUsed"`
	ExcessBlobGas hexutil.Uint64 `json:"excessBlobGas"`
}

func (p *ExecutionPayloadV1) Version() Version            { return V1 }
func (p *ExecutionPayloadV2) Version() Version            { return V2 }
func (p *ExecutionPayloadV3) Version() Version            { return V3 }
func (p *ExecutionPayloadV1) Common() *ExecutionPayloadV1 { return p }

// SelectVersion derives the payload version from which optional header and body fields
// are present. Transaction count and contents never matter. A parent beacon block root
// makes the payload V3 whether or not the blob gas fields came with it.
func SelectVersion(block *canonical.SealedBlock) Version {
	switch {
	case block.Header().Header().ParentBeaconRoot != nil:
		return V3
	case block.Withdrawals() != nil:
		return V2
	default:
		return V1
	}
}

// NewPayload builds the execution payload of the version SelectVersion picks.
func NewPayload(block *canonical.SealedBlock) (ExecutionPayload, error) {
	version := SelectVersion(block)
	header := block.Header().Header()
	// pre-London headers have no base fee, the payload carries zero
	baseFee := new(big.Int)
	if header.BaseFee != nil {
		baseFee = header.BaseFee
	}

	txs := make([]hexutil.Bytes, 0, len(block.Transactions()))
	for i, tx := range block.Transactions() {
		raw, err := canonical.EncodeTransaction(tx)
		if err != nil {
			return nil, errors.Errorf("failed to encode transaction %d: %w", i, err)
		}
		txs = append(txs, raw)
	}

	extra := header.Extra
	if extra == nil {
		extra = []byte{}
	}
	v1 := ExecutionPayloadV1{
		ParentHash:    header.ParentHash,
		FeeRecipient:  header.Coinbase,
		StateRoot:     header.Root,
		ReceiptsRoot:  header.ReceiptHash,
		LogsBloom:     header.Bloom.Bytes(),
		PrevRandao:    header.MixDigest,
		BlockNumber:   hexutil.Uint64(header.Number.Uint64()),
		GasLimit:      hexutil.Uint64(header.GasLimit),
		GasUsed:       hexutil.Uint64(header.GasUsed),
		Timestamp:     hexutil.Uint64(header.Time),
		ExtraData:     extra,
		BaseFeePerGas: (*hexutil.Big)(baseFee),
		BlockHash:     block.Hash(),
		Transactions:  txs,
	}
	if version == V1 {
		return &v1, nil
	}

	withdrawals := block.Withdrawals()
	if withdrawals == nil {
		withdrawals = types.Withdrawals{}
	}
	v2 := ExecutionPayloadV2{ExecutionPayloadV1: v1, Withdrawals: withdrawals}
	if version == V2 {
		return &v2, nil
	}

	v3 := &ExecutionPayloadV3{ExecutionPayloadV2: v2}
	if header.BlobGasUsed != nil {
		v3.BlobGasUsed = hexutil.Uint64(*header.BlobGasUsed)
	}
	if header.ExcessBlobGas != nil {
		v3.ExcessBlobGas = hexutil.Uint64(*header.ExcessBlobGas)
	}
	return v3, nil
}
