package canonical

import (
	"sync"

	"github.com/duneanalytics/block-to-payload/lib/reorder"
	"github.com/duneanalytics/block-to-payload/models"
	"github.com/go-errors/errors"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"
)

type canonicalized struct {
	tx  Transaction
	err error
}

// CanonicalizeTransactions canonicalizes a block's transactions, keeping their order.
// With more than one worker the work is spread over a bounded pool and the results are
// put back in index order before use, so the error reported is always the one of the
// lowest failing index.
func CanonicalizeTransactions(txs []models.Transaction, workers int) ([]Transaction, error) {
	if workers <= 1 || len(txs) < 2 {
		out := make([]Transaction, 0, len(txs))
		for i := range txs {
			tx, err := CanonicalizeTransaction(i, &txs[i])
			if err != nil {
				return nil, err
			}
			out = append(out, tx)
		}
		return out, nil
	}

	pool, err := ants.NewPool(min(workers, len(txs)))
	if err != nil {
		return nil, errors.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	// Buffered for every transaction: workers never block, even after the collector quit.
	results := make(chan reorder.Item[canonicalized], len(txs))
	out := make([]Transaction, 0, len(txs))

	var group errgroup.Group
	group.Go(func() error {
		buffer := reorder.New[canonicalized](0)
		for result := range results {
			buffer.Add(result.Index, result.Value)
			for _, ready := range buffer.Drain() {
				if ready.err != nil {
					return ready.err
				}
				out = append(out, ready.tx)
			}
		}
		if buffer.NextIndex() != len(txs) {
			return errors.Errorf("released %d of %d transactions, %d held back",
				buffer.NextIndex(), len(txs), buffer.Pending())
		}
		return nil
	})

	var wg sync.WaitGroup
	var submitErr error
	for i := range txs {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			tx, err := CanonicalizeTransaction(i, &txs[i])
			results <- reorder.Item[canonicalized]{Index: i, Value: canonicalized{tx: tx, err: err}}
		})
		if err != nil {
			wg.Done()
			submitErr = errors.Errorf("failed to schedule transaction %d: %w", i, err)
			break
		}
	}
	wg.Wait()
	close(results)

	groupErr := group.Wait()
	if submitErr != nil {
		return nil, submitErr
	}
	if groupErr != nil {
		return nil, groupErr
	}
	return out, nil
}
