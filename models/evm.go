package models

import (
	"strconv"
	"strings"

	"github.com/duneanalytics/block-to-payload/lib/hexutils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-errors/errors"
)

// BlockRef identifies a block on a node: by number, by hash, or the chain tip.
type BlockRef struct {
	Number int64
	Hash   *common.Hash
	Latest bool
}

func ParseBlockRef(value string) (BlockRef, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "latest":
		return BlockRef{Latest: true}, nil
	case strings.HasPrefix(value, "0x") && len(value) == 2+2*common.HashLength:
		hash := common.HexToHash(value)
		return BlockRef{Hash: &hash}, nil
	case strings.HasPrefix(value, "0x"):
		n, err := hexutils.IntFromHex(value)
		if err != nil {
			return BlockRef{}, err
		}
		return BlockRef{Number: n}, nil
	default:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return BlockRef{}, errors.Errorf("invalid block reference '%s': want a number, a 0x hash or 'latest'", value)
		}
		return BlockRef{Number: n}, nil
	}
}

// UnmarshalFlag lets go-flags parse --block values directly.
func (r *BlockRef) UnmarshalFlag(value string) error {
	ref, err := ParseBlockRef(value)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

func (r BlockRef) String() string {
	switch {
	case r.Latest:
		return "latest"
	case r.Hash != nil:
		return r.Hash.Hex()
	default:
		return strconv.FormatInt(r.Number, 10)
	}
}
