package canonical

import (
	"github.com/duneanalytics/block-to-payload/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-errors/errors"
)

// SealedBlock is a sealed header with its body. Ommers are always empty: payloads carry none.
type SealedBlock struct {
	header       SealedHeader
	transactions []Transaction
	withdrawals  types.Withdrawals
}

// AssembleBlock puts a block together as is. Roots and hashes are not checked against the body.
func AssembleBlock(header SealedHeader, txs []Transaction, withdrawals types.Withdrawals) *SealedBlock {
	if txs == nil {
		txs = []Transaction{}
	}
	return &SealedBlock{header: header, transactions: txs, withdrawals: withdrawals}
}

func (b *SealedBlock) Header() SealedHeader           { return b.header }
func (b *SealedBlock) Hash() common.Hash              { return b.header.Hash() }
func (b *SealedBlock) Number() uint64                 { return b.header.Number() }
func (b *SealedBlock) Transactions() []Transaction    { return b.transactions }
func (b *SealedBlock) Withdrawals() types.Withdrawals { return b.withdrawals }
func (b *SealedBlock) Ommers() []*types.Header        { return []*types.Header{} }

// BlobVersionedHashes is the V3 submission sidecar, in transaction order.
func (b *SealedBlock) BlobVersionedHashes() []common.Hash {
	return BlobVersionedHashes(b.transactions)
}

// ConvertBlock runs the whole canonicalization for one RPC block. The transaction list must
// hold full transaction objects; this is checked before any other field is looked at.
func ConvertBlock(block *models.Block, workers int) (*SealedBlock, error) {
	switch block.Transactions.Kind {
	case models.TransactionsFull:
	case models.TransactionsHashes:
		return nil, errors.Errorf("got %d transaction hashes, request the block with full=true: %w",
			len(block.Transactions.Hashes), ErrUnsupportedTransactions)
	default:
		return nil, errors.Errorf("got an uncle (no transaction list), request the canonical block: %w",
			ErrUnsupportedTransactions)
	}

	header, err := SealHeader(&block.Header)
	if err != nil {
		return nil, err
	}
	txs, err := CanonicalizeTransactions(block.Transactions.Full, workers)
	if err != nil {
		return nil, err
	}
	withdrawals, err := CanonicalizeWithdrawals(block.Withdrawals)
	if err != nil {
		return nil, err
	}
	return AssembleBlock(header, txs, withdrawals), nil
}
