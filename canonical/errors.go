package canonical

import (
	"fmt"

	"github.com/duneanalytics/block-to-payload/lib/hexutils"
	"github.com/go-errors/errors"
	"github.com/holiman/uint256"
)

var (
	ErrUnsupportedTransactions = errors.New("block transactions are not full transaction objects")
	ErrMissingField            = errors.New("missing required field")
	ErrUnknownSignatureScheme  = errors.New("signature v matches no known scheme")
	ErrUnsupportedTxType       = errors.New("unsupported transaction type")
	ErrBlobTxCreate            = errors.New("blob transaction cannot create a contract")
	ErrOverflow                = hexutils.ErrOverflow
)

const (
	RecordHeader      = "header"
	RecordTransaction = "transaction"
	RecordWithdrawal  = "withdrawal"
)

// FieldError locates a conversion failure: which record (and which one of them) and which field.
type FieldError struct {
	Record string
	Index  int // position in the block, -1 for the header
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s field %s: %v", e.Record, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %d field %s: %v", e.Record, e.Index, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// fields reads RPC values into canonical widths for one record. The first failure sticks:
// later reads are no-ops and err() reports the failing field.
type fields struct {
	record string
	index  int
	first  error
}

func newFields(record string, index int) *fields {
	return &fields{record: record, index: index}
}

func (f *fields) fail(name string, err error) {
	if f.first == nil {
		f.first = &FieldError{Record: f.record, Index: f.index, Field: name, Err: err}
	}
}

func (f *fields) err() error {
	return f.first
}

func (f *fields) uint64(name string, q *hexutils.Quantity) uint64 {
	if f.first != nil {
		return 0
	}
	if q == nil {
		f.fail(name, ErrMissingField)
		return 0
	}
	v, err := q.Uint64()
	if err != nil {
		f.fail(name, err)
	}
	return v
}

func (f *fields) optionalUint64(name string, q *hexutils.Quantity) *uint64 {
	if q == nil || f.first != nil {
		return nil
	}
	v := f.uint64(name, q)
	if f.first != nil {
		return nil
	}
	return &v
}

func (f *fields) uint128(name string, q *hexutils.Quantity) *uint256.Int {
	if f.first != nil {
		return nil
	}
	if q == nil {
		f.fail(name, ErrMissingField)
		return nil
	}
	v, err := q.Uint128()
	if err != nil {
		f.fail(name, err)
	}
	return v
}

func (f *fields) uint256(name string, q *hexutils.Quantity) *uint256.Int {
	if f.first != nil {
		return nil
	}
	if q == nil {
		f.fail(name, ErrMissingField)
		return nil
	}
	return q.Uint256()
}
