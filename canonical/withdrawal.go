package canonical

import (
	"github.com/duneanalytics/block-to-payload/models"
	"github.com/ethereum/go-ethereum/core/types"
)

func CanonicalizeWithdrawal(index int, w *models.Withdrawal) (*types.Withdrawal, error) {
	f := newFields(RecordWithdrawal, index)
	out := &types.Withdrawal{
		Index:     f.uint64("index", &w.Index),
		Validator: f.uint64("validatorIndex", &w.ValidatorIndex),
		Address:   w.Address,
		Amount:    f.uint64("amount", &w.Amount),
	}
	if err := f.err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CanonicalizeWithdrawals keeps the distinction between a block without withdrawals (nil)
// and one with an empty list.
func CanonicalizeWithdrawals(ws []models.Withdrawal) (types.Withdrawals, error) {
	if ws == nil {
		return nil, nil
	}
	out := make(types.Withdrawals, 0, len(ws))
	for i := range ws {
		w, err := CanonicalizeWithdrawal(i, &ws[i])
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}
