package canonical

import (
	"math/big"

	"github.com/duneanalytics/block-to-payload/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-errors/errors"
	"github.com/holiman/uint256"
)

type TxType uint8

const (
	LegacyTxType     TxType = types.LegacyTxType
	AccessListTxType TxType = types.AccessListTxType
	DynamicFeeTxType TxType = types.DynamicFeeTxType
	BlobTxType       TxType = types.BlobTxType
)

func (t TxType) String() string {
	switch t {
	case LegacyTxType:
		return "legacy"
	case AccessListTxType:
		return "access_list"
	case DynamicFeeTxType:
		return "dynamic_fee"
	case BlobTxType:
		return "blob"
	default:
		return "unknown"
	}
}

// Transaction is a signed transaction in exactly one of the supported envelopes:
// *LegacyTx, *AccessListTx, *DynamicFeeTx or *BlobTx.
type Transaction interface {
	Type() TxType
	Signature() Signature
	// BlobVersionedHashes is empty for everything but blob transactions.
	BlobVersionedHashes() []common.Hash
	// Signed carries the same fields as a go-ethereum transaction, for encoding and hashing.
	Signed() *types.Transaction

	isTransaction()
}

// LegacyTx has a chain id only when its signature is EIP-155 replay protected.
type LegacyTx struct {
	ChainID  *uint64
	Nonce    uint64
	GasPrice *uint256.Int
	GasLimit uint64
	To       *common.Address // nil for contract creation
	Value    *uint256.Int
	Input    []byte
	Sig      Signature
}

type AccessListTx struct {
	ChainID    uint64
	Nonce      uint64
	GasPrice   *uint256.Int
	GasLimit   uint64
	To         *common.Address
	Value      *uint256.Int
	AccessList types.AccessList
	Input      []byte
	Sig        Signature
}

type DynamicFeeTx struct {
	ChainID              uint64
	Nonce                uint64
	GasLimit             uint64
	MaxFeePerGas         *uint256.Int
	MaxPriorityFeePerGas *uint256.Int
	To                   *common.Address
	Value                *uint256.Int
	AccessList           types.AccessList
	Input                []byte
	Sig                  Signature
}

type BlobTx struct {
	ChainID              uint64
	Nonce                uint64
	GasLimit             uint64
	MaxFeePerGas         *uint256.Int
	MaxPriorityFeePerGas *uint256.Int
	To                   common.Address
	Value                *uint256.Int
	AccessList           types.AccessList
	BlobHashes           []common.Hash
	MaxFeePerBlobGas     *uint256.Int
	Input                []byte
	Sig                  Signature
}

func (*LegacyTx) Type() TxType     { return LegacyTxType }
func (*AccessListTx) Type() TxType { return AccessListTxType }
func (*DynamicFeeTx) Type() TxType { return DynamicFeeTxType }
func (*BlobTx) Type() TxType       { return BlobTxType }

func (tx *LegacyTx) Signature() Signature     { return tx.Sig }
func (tx *AccessListTx) Signature() Signature { return tx.Sig }
func (tx *DynamicFeeTx) Signature() Signature { return tx.Sig }
func (tx *BlobTx) Signature() Signature       { return tx.Sig }

func (*LegacyTx) BlobVersionedHashes() []common.Hash     { return nil }
func (*AccessListTx) BlobVersionedHashes() []common.Hash { return nil }
func (*DynamicFeeTx) BlobVersionedHashes() []common.Hash { return nil }
func (tx *BlobTx) BlobVersionedHashes() []common.Hash    { return tx.BlobHashes }

func (*LegacyTx) isTransaction()     {}
func (*AccessListTx) isTransaction() {}
func (*DynamicFeeTx) isTransaction() {}
func (*BlobTx) isTransaction()       {}

func (tx *LegacyTx) Signed() *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    tx.Nonce,
		GasPrice: tx.GasPrice.ToBig(),
		Gas:      tx.GasLimit,
		To:       tx.To,
		Value:    tx.Value.ToBig(),
		Data:     tx.Input,
		V:        tx.Sig.legacyV(tx.ChainID),
		R:        tx.Sig.R.ToBig(),
		S:        tx.Sig.S.ToBig(),
	})
}

func (tx *AccessListTx) Signed() *types.Transaction {
	return types.NewTx(&types.AccessListTx{
		ChainID:    new(big.Int).SetUint64(tx.ChainID),
		Nonce:      tx.Nonce,
		GasPrice:   tx.GasPrice.ToBig(),
		Gas:        tx.GasLimit,
		To:         tx.To,
		Value:      tx.Value.ToBig(),
		Data:       tx.Input,
		AccessList: tx.AccessList,
		V:          new(big.Int).SetUint64(tx.Sig.parity()),
		R:          tx.Sig.R.ToBig(),
		S:          tx.Sig.S.ToBig(),
	})
}

func (tx *DynamicFeeTx) Signed() *types.Transaction {
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:    new(big.Int).SetUint64(tx.ChainID),
		Nonce:      tx.Nonce,
		GasTipCap:  tx.MaxPriorityFeePerGas.ToBig(),
		GasFeeCap:  tx.MaxFeePerGas.ToBig(),
		Gas:        tx.GasLimit,
		To:         tx.To,
		Value:      tx.Value.ToBig(),
		Data:       tx.Input,
		AccessList: tx.AccessList,
		V:          new(big.Int).SetUint64(tx.Sig.parity()),
		R:          tx.Sig.R.ToBig(),
		S:          tx.Sig.S.ToBig(),
	})
}

func (tx *BlobTx) Signed() *types.Transaction {
	return types.NewTx(&types.BlobTx{
		ChainID:    uint256.NewInt(tx.ChainID),
		Nonce:      tx.Nonce,
		GasTipCap:  tx.MaxPriorityFeePerGas,
		GasFeeCap:  tx.MaxFeePerGas,
		Gas:        tx.GasLimit,
		To:         tx.To,
		Value:      tx.Value,
		Data:       tx.Input,
		AccessList: tx.AccessList,
		BlobFeeCap: tx.MaxFeePerBlobGas,
		BlobHashes: tx.BlobHashes,
		V:          uint256.NewInt(tx.Sig.parity()),
		R:          tx.Sig.R,
		S:          tx.Sig.S,
	})
}

// EncodeTransaction returns the EIP-2718 envelope: the RLP list for legacy transactions,
// type byte || RLP payload for the others.
func EncodeTransaction(tx Transaction) ([]byte, error) {
	return tx.Signed().MarshalBinary()
}

func TransactionHash(tx Transaction) common.Hash {
	return tx.Signed().Hash()
}

func resolveTxType(f *fields, tag *models.Transaction) TxType {
	if tag.Type == nil {
		return LegacyTxType
	}
	raw := f.uint64("type", tag.Type)
	if f.err() != nil {
		return LegacyTxType
	}
	switch raw {
	case uint64(LegacyTxType):
		return LegacyTxType
	case uint64(AccessListTxType):
		return AccessListTxType
	case uint64(DynamicFeeTxType):
		return DynamicFeeTxType
	case uint64(BlobTxType):
		return BlobTxType
	default:
		f.fail("type", errors.Errorf("0x%x: %w", raw, ErrUnsupportedTxType))
		return LegacyTxType
	}
}

// CanonicalizeTransaction maps the RPC transaction at position index in its block to a
// signed canonical transaction. The envelope is chosen by the type tag alone (absent means
// legacy), never by which fee fields happen to be present. Every field the envelope needs
// is validated before anything is built.
func CanonicalizeTransaction(index int, rpcTx *models.Transaction) (Transaction, error) {
	f := newFields(RecordTransaction, index)
	txType := resolveTxType(f, rpcTx)

	nonce := f.uint64("nonce", rpcTx.Nonce)
	gasLimit := f.uint64("gas", rpcTx.Gas)
	value := f.uint256("value", rpcTx.Value)
	sig := resolveSignature(f, rpcTx)
	if err := f.err(); err != nil {
		return nil, err
	}

	input := []byte(rpcTx.Input)
	if input == nil {
		input = []byte{}
	}

	switch txType {
	case LegacyTxType:
		gasPrice := f.uint128("gasPrice", rpcTx.GasPrice)
		chainID := legacyChainID(f, rpcTx)
		if err := f.err(); err != nil {
			return nil, err
		}
		return &LegacyTx{
			ChainID:  chainID,
			Nonce:    nonce,
			GasPrice: gasPrice,
			GasLimit: gasLimit,
			To:       copyAddress(rpcTx.To),
			Value:    value,
			Input:    input,
			Sig:      sig,
		}, nil

	case AccessListTxType:
		chainID := f.uint64("chainId", rpcTx.ChainID)
		gasPrice := f.uint128("gasPrice", rpcTx.GasPrice)
		if err := f.err(); err != nil {
			return nil, err
		}
		return &AccessListTx{
			ChainID:    chainID,
			Nonce:      nonce,
			GasPrice:   gasPrice,
			GasLimit:   gasLimit,
			To:         copyAddress(rpcTx.To),
			Value:      value,
			AccessList: accessList(rpcTx.AccessList),
			Input:      input,
			Sig:        sig,
		}, nil

	case DynamicFeeTxType:
		chainID := f.uint64("chainId", rpcTx.ChainID)
		maxFee := f.uint128("maxFeePerGas", rpcTx.MaxFeePerGas)
		maxPriorityFee := f.uint128("maxPriorityFeePerGas", rpcTx.MaxPriorityFeePerGas)
		if err := f.err(); err != nil {
			return nil, err
		}
		return &DynamicFeeTx{
			ChainID:              chainID,
			Nonce:                nonce,
			GasLimit:             gasLimit,
			MaxFeePerGas:         maxFee,
			MaxPriorityFeePerGas: maxPriorityFee,
			To:                   copyAddress(rpcTx.To),
			Value:                value,
			AccessList:           accessList(rpcTx.AccessList),
			Input:                input,
			Sig:                  sig,
		}, nil

	case BlobTxType:
		chainID := f.uint64("chainId", rpcTx.ChainID)
		maxFee := f.uint128("maxFeePerGas", rpcTx.MaxFeePerGas)
		maxPriorityFee := f.uint128("maxPriorityFeePerGas", rpcTx.MaxPriorityFeePerGas)
		maxFeePerBlobGas := f.uint128("maxFeePerBlobGas", rpcTx.MaxFeePerBlobGas)
		if rpcTx.To == nil {
			f.fail("to", ErrBlobTxCreate)
		}
		if err := f.err(); err != nil {
			return nil, err
		}
		hashes := make([]common.Hash, len(rpcTx.BlobVersionedHashes))
		copy(hashes, rpcTx.BlobVersionedHashes)
		return &BlobTx{
			ChainID:              chainID,
			Nonce:                nonce,
			GasLimit:             gasLimit,
			MaxFeePerGas:         maxFee,
			MaxPriorityFeePerGas: maxPriorityFee,
			To:                   *rpcTx.To,
			Value:                value,
			AccessList:           accessList(rpcTx.AccessList),
			BlobHashes:           hashes,
			MaxFeePerBlobGas:     maxFeePerBlobGas,
			Input:                input,
			Sig:                  sig,
		}, nil

	default:
		return nil, &FieldError{Record: RecordTransaction, Index: index, Field: "type", Err: ErrUnsupportedTxType}
	}
}

func resolveSignature(f *fields, rpcTx *models.Transaction) Signature {
	r := f.uint256("r", rpcTx.R)
	s := f.uint256("s", rpcTx.S)
	if f.err() != nil {
		return Signature{}
	}
	var v, yParity *uint256.Int
	if rpcTx.V != nil {
		v = rpcTx.V.Uint256()
	}
	if rpcTx.YParity != nil {
		yParity = rpcTx.YParity.Uint256()
	}
	parity, err := ResolveYParity(v, yParity)
	if err != nil {
		field := "v"
		if yParity != nil {
			field = "yParity"
		}
		f.fail(field, err)
		return Signature{}
	}
	return Signature{YParity: parity, R: r, S: s}
}

// legacyChainID keeps the chain id of a replay protected legacy transaction. An unprotected
// (v = 27/28) signature never gets one, even when the node reports a chain id, since adding
// it would change the signed payload.
func legacyChainID(f *fields, rpcTx *models.Transaction) *uint64 {
	var v *uint256.Int
	if rpcTx.V != nil {
		v = rpcTx.V.Uint256()
	}
	if isPreEIP155(v) {
		return nil
	}
	if rpcTx.ChainID != nil {
		return f.optionalUint64("chainId", rpcTx.ChainID)
	}
	id, ok, err := ChainIDFromV(v)
	if err != nil {
		f.fail("v", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &id
}

func accessList(list *types.AccessList) types.AccessList {
	out := types.AccessList{}
	if list == nil {
		return out
	}
	for _, tuple := range *list {
		keys := make([]common.Hash, len(tuple.StorageKeys))
		copy(keys, tuple.StorageKeys)
		out = append(out, types.AccessTuple{Address: tuple.Address, StorageKeys: keys})
	}
	return out
}

func copyAddress(addr *common.Address) *common.Address {
	if addr == nil {
		return nil
	}
	cpy := *addr
	return &cpy
}
