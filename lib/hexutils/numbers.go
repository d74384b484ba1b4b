package hexutils

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-errors/errors"
	"github.com/holiman/uint256"
)

var (
	ErrOverflow    = errors.New("value overflows the target width")
	ErrNotQuantity = errors.New("not a hex quantity")
)

func IntFromHex(hexNumber string) (int64, error) {
	// Empty string is OK
	if len(hexNumber) == 0 {
		return 0, nil
	}
	if len(hexNumber) < 2 || hexNumber[:2] != "0x" {
		return 0, errors.Errorf("couldn't parse '%s' as number, must start with '0x'", hexNumber)
	}
	n, err := strconv.ParseInt(hexNumber[2:], 16, 64)
	if err != nil {
		return 0, errors.Errorf("failed to parse '%s' as int: %w", hexNumber, err)
	}
	return n, nil
}

// Uint256FromHex parses a 0x-prefixed quantity of at most 256 bits.
// Unlike the engine API encoding, leading zeros are accepted: nodes are not consistent about them.
func Uint256FromHex(hexNumber string) (*uint256.Int, error) {
	if len(hexNumber) < 3 || (hexNumber[:2] != "0x" && hexNumber[:2] != "0X") {
		return nil, errors.Errorf("couldn't parse '%s' as number, must start with '0x': %w", hexNumber, ErrNotQuantity)
	}
	digits := strings.TrimLeft(hexNumber[2:], "0")
	if digits == "" {
		digits = "0"
	}
	v, err := uint256.FromHex("0x" + digits)
	switch {
	case errors.Is(err, uint256.ErrBig256Range):
		return nil, errors.Errorf("'%s' does not fit in 256 bits: %w", hexNumber, ErrOverflow)
	case err != nil:
		return nil, errors.Errorf("failed to parse '%s' as number: %w", hexNumber, ErrNotQuantity)
	}
	return v, nil
}

// Quantity is a JSON-RPC hex quantity as served by a node. It keeps the full 256-bit value,
// narrowing to a canonical width is explicit and checked.
type Quantity struct {
	v uint256.Int
}

func NewQuantity(v uint64) Quantity {
	var q Quantity
	q.v.SetUint64(v)
	return q
}

func (q *Quantity) UnmarshalJSON(input []byte) error {
	if bytes.Equal(input, []byte("null")) {
		return errors.Errorf("quantity cannot be null: %w", ErrNotQuantity)
	}
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return errors.Errorf("quantity must be a JSON string, got %s: %w", input, ErrNotQuantity)
	}
	v, err := Uint256FromHex(s)
	if err != nil {
		return err
	}
	q.v = *v
	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.v.Hex())
}

// Uint256 returns a copy of the value.
func (q Quantity) Uint256() *uint256.Int {
	return new(uint256.Int).Set(&q.v)
}

func (q Quantity) Uint64() (uint64, error) {
	if !q.v.IsUint64() {
		return 0, errors.Errorf("%s does not fit in 64 bits: %w", q.v.Hex(), ErrOverflow)
	}
	return q.v.Uint64(), nil
}

// Uint128 returns the value when it fits in 128 bits (fee fields are u128 on the canonical side).
func (q Quantity) Uint128() (*uint256.Int, error) {
	if q.v.BitLen() > 128 {
		return nil, errors.Errorf("%s does not fit in 128 bits: %w", q.v.Hex(), ErrOverflow)
	}
	return q.Uint256(), nil
}

func (q Quantity) String() string {
	return q.v.Hex()
}
