package models

import (
	"bytes"
	"encoding/json"

	"github.com/duneanalytics/block-to-payload/lib/hexutils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-errors/errors"
)

var ErrNoBlock = errors.New("response has no block")

// Block is the eth_getBlockByNumber / eth_getBlockByHash response shape.
type Block struct {
	Header
	Transactions Transactions  `json:"transactions"`
	Withdrawals  []Withdrawal  `json:"withdrawals"` // nil when the block predates withdrawals
	Uncles       []common.Hash `json:"uncles"`
}

type Header struct {
	Hash                  *common.Hash       `json:"hash"`
	ParentHash            common.Hash        `json:"parentHash"`
	UnclesHash            common.Hash        `json:"sha3Uncles"`
	Miner                 common.Address     `json:"miner"`
	StateRoot             common.Hash        `json:"stateRoot"`
	TransactionsRoot      common.Hash        `json:"transactionsRoot"`
	ReceiptsRoot          common.Hash        `json:"receiptsRoot"`
	LogsBloom             types.Bloom        `json:"logsBloom"`
	Difficulty            hexutils.Quantity  `json:"difficulty"`
	Number                *hexutils.Quantity `json:"number"`
	GasLimit              hexutils.Quantity  `json:"gasLimit"`
	GasUsed               hexutils.Quantity  `json:"gasUsed"`
	Timestamp             hexutils.Quantity  `json:"timestamp"`
	ExtraData             hexutil.Bytes      `json:"extraData"`
	MixHash               common.Hash        `json:"mixHash"`
	Nonce                 *types.BlockNonce  `json:"nonce"`
	BaseFeePerGas         *hexutils.Quantity `json:"baseFeePerGas"`
	WithdrawalsRoot       *common.Hash       `json:"withdrawalsRoot"`
	BlobGasUsed           *hexutils.Quantity `json:"blobGasUsed"`
	ExcessBlobGas         *hexutils.Quantity `json:"excessBlobGas"`
	ParentBeaconBlockRoot *common.Hash       `json:"parentBeaconBlockRoot"`
}

// Transaction is a full transaction object as embedded in a block with full=true.
// Every field a given type may lack is a pointer, so that absence can be told apart from zero.
type Transaction struct {
	Hash                 *common.Hash       `json:"hash"`
	Type                 *hexutils.Quantity `json:"type"`
	ChainID              *hexutils.Quantity `json:"chainId"`
	Nonce                *hexutils.Quantity `json:"nonce"`
	To                   *common.Address    `json:"to"`
	Value                *hexutils.Quantity `json:"value"`
	Input                hexutil.Bytes      `json:"input"`
	Gas                  *hexutils.Quantity `json:"gas"`
	GasPrice             *hexutils.Quantity `json:"gasPrice"`
	MaxFeePerGas         *hexutils.Quantity `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutils.Quantity `json:"maxPriorityFeePerGas"`
	MaxFeePerBlobGas     *hexutils.Quantity `json:"maxFeePerBlobGas"`
	BlobVersionedHashes  []common.Hash      `json:"blobVersionedHashes"`
	AccessList           *types.AccessList  `json:"accessList"`
	V                    *hexutils.Quantity `json:"v"`
	R                    *hexutils.Quantity `json:"r"`
	S                    *hexutils.Quantity `json:"s"`
	YParity              *hexutils.Quantity `json:"yParity"`
}

type Withdrawal struct {
	Index          hexutils.Quantity `json:"index"`
	ValidatorIndex hexutils.Quantity `json:"validatorIndex"`
	Address        common.Address    `json:"address"`
	Amount         hexutils.Quantity `json:"amount"`
}

type TransactionsKind int

const (
	// TransactionsUncle is what an uncle query returns: no transaction list at all.
	TransactionsUncle TransactionsKind = iota
	TransactionsHashes
	TransactionsFull
)

func (k TransactionsKind) String() string {
	switch k {
	case TransactionsHashes:
		return "hashes"
	case TransactionsFull:
		return "full"
	default:
		return "uncle"
	}
}

// Transactions is the block's transaction list, which a node serves either as hashes or as
// full objects depending on the request's full flag.
type Transactions struct {
	Kind   TransactionsKind
	Hashes []common.Hash
	Full   []Transaction
}

func (t *Transactions) UnmarshalJSON(input []byte) error {
	input = bytes.TrimSpace(input)
	if bytes.Equal(input, []byte("null")) {
		*t = Transactions{Kind: TransactionsUncle}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(input, &raw); err != nil {
		return errors.Errorf("transactions must be an array: %w", err)
	}
	if len(raw) == 0 {
		*t = Transactions{Kind: TransactionsFull, Full: []Transaction{}}
		return nil
	}
	first := bytes.TrimSpace(raw[0])
	switch {
	case len(first) > 0 && first[0] == '"':
		var hashes []common.Hash
		if err := json.Unmarshal(input, &hashes); err != nil {
			return errors.Errorf("failed to decode transaction hashes: %w", err)
		}
		*t = Transactions{Kind: TransactionsHashes, Hashes: hashes}
	case len(first) > 0 && first[0] == '{':
		var full []Transaction
		if err := json.Unmarshal(input, &full); err != nil {
			return errors.Errorf("failed to decode transaction objects: %w", err)
		}
		*t = Transactions{Kind: TransactionsFull, Full: full}
	default:
		return errors.Errorf("unexpected transaction list element %s", first)
	}
	return nil
}

func (t Transactions) Len() int {
	if t.Kind == TransactionsHashes {
		return len(t.Hashes)
	}
	return len(t.Full)
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ParseBlock decodes a block document. Both a bare block object and a full JSON-RPC
// response envelope ({"jsonrpc":..., "result": {...}}) are accepted.
func ParseBlock(payload []byte) (*Block, error) {
	var envelope struct {
		JSONRPC string          `json:"jsonrpc"`
		Result  json.RawMessage `json:"result"`
		Error   *rpcError       `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, errors.Errorf("failed to decode block document: %w", err)
	}
	if envelope.Error != nil {
		return nil, errors.Errorf("node returned error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}
	if envelope.JSONRPC != "" || envelope.Result != nil {
		payload = envelope.Result
		if len(payload) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
			return nil, ErrNoBlock
		}
	}

	var block Block
	if err := json.Unmarshal(payload, &block); err != nil {
		return nil, errors.Errorf("failed to decode block: %w", err)
	}
	return &block, nil
}
