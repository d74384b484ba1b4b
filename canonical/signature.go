package canonical

import (
	"math/big"

	"github.com/go-errors/errors"
	"github.com/holiman/uint256"
)

var (
	eip155Offset = uint256.NewInt(35)
	legacyV27    = uint256.NewInt(27)
	legacyV28    = uint256.NewInt(28)
)

// Signature is a recoverable ECDSA signature with the recovery bit already decoded from
// whichever convention the node used for v.
type Signature struct {
	YParity bool
	R       *uint256.Int
	S       *uint256.Int
}

// ResolveYParity decodes the recovery bit. The checks run in a fixed order:
//  1. an explicit yParity wins,
//  2. v >= 35 is EIP-155: (v - 35) mod 2,
//  3. v in {0, 1} is the bit itself,
//  4. v in {27, 28} is pre-EIP-155 legacy,
//  5. anything else is rejected.
func ResolveYParity(v, yParity *uint256.Int) (bool, error) {
	if yParity != nil {
		if !yParity.IsUint64() || yParity.Uint64() > 1 {
			return false, errors.Errorf("yParity %s is not 0 or 1: %w", yParity.Hex(), ErrUnknownSignatureScheme)
		}
		return yParity.Uint64() == 1, nil
	}
	if v == nil {
		return false, ErrMissingField
	}
	switch {
	case !v.Lt(eip155Offset):
		rel := new(uint256.Int).Sub(v, eip155Offset)
		return rel.Uint64()&1 != 0, nil
	case v.IsUint64() && v.Uint64() <= 1:
		return v.Uint64() == 1, nil
	case v.Eq(legacyV27) || v.Eq(legacyV28):
		return v.Eq(legacyV28), nil
	default:
		return false, errors.Errorf("v = %s: %w", v.Dec(), ErrUnknownSignatureScheme)
	}
}

// ChainIDFromV recovers the EIP-155 chain id, floor((v - 35) / 2). ok is false when v does
// not carry one.
func ChainIDFromV(v *uint256.Int) (chainID uint64, ok bool, err error) {
	if v == nil || v.Lt(eip155Offset) {
		return 0, false, nil
	}
	id := new(uint256.Int).Sub(v, eip155Offset)
	id.Rsh(id, 1)
	if !id.IsUint64() {
		return 0, false, errors.Errorf("chain id derived from v = %s: %w", v.Dec(), ErrOverflow)
	}
	return id.Uint64(), true, nil
}

// isPreEIP155 reports whether v is the unprotected 27/28 encoding.
func isPreEIP155(v *uint256.Int) bool {
	return v != nil && (v.Eq(legacyV27) || v.Eq(legacyV28))
}

func (s Signature) parity() uint64 {
	if s.YParity {
		return 1
	}
	return 0
}

// legacyV re-encodes v for a legacy transaction: 35 + 2*chainID + parity when replay
// protected, 27 + parity otherwise.
func (s Signature) legacyV(chainID *uint64) *big.Int {
	if chainID == nil {
		return new(big.Int).SetUint64(27 + s.parity())
	}
	v := new(big.Int).SetUint64(*chainID)
	v.Lsh(v, 1)
	return v.Add(v, big.NewInt(int64(35+s.parity())))
}
