package canonical

import "github.com/ethereum/go-ethereum/common"

// BlobVersionedHashes concatenates the blob hashes of every blob transaction in block order.
func BlobVersionedHashes(txs []Transaction) []common.Hash {
	hashes := []common.Hash{}
	for _, tx := range txs {
		if tx.Type() != BlobTxType {
			continue
		}
		hashes = append(hashes, tx.BlobVersionedHashes()...)
	}
	return hashes
}
