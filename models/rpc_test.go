package models_test

import (
	"encoding/json"
	"testing"

	"github.com/duneanalytics/block-to-payload/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestTransactionsVariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    models.TransactionsKind
		length  int
		wantErr bool
	}{
		{
			name:   "absent",
			input:  `{"number":"0x1"}`,
			kind:   models.TransactionsUncle,
			length: 0,
		},
		{
			name:   "null",
			input:  `{"transactions":null}`,
			kind:   models.TransactionsUncle,
			length: 0,
		},
		{
			name:   "empty list is full",
			input:  `{"transactions":[]}`,
			kind:   models.TransactionsFull,
			length: 0,
		},
		{
			name: "hashes",
			input: `{"transactions":[
				"0x19ee83020d4dad7e96dbb2c01ce2441e75717ee038a022fc6a3b61300b1b801c",
				"0x4e805891b568698f8419f8e162d70ed9675e42a32e4972cbeb7f78d7fd51de76"]}`,
			kind:   models.TransactionsHashes,
			length: 2,
		},
		{
			name:   "full",
			input:  `{"transactions":[{"nonce":"0x1","gas":"0x5208"}, {"nonce":"0x2","gas":"0x5208"}]}`,
			kind:   models.TransactionsFull,
			length: 2,
		},
		{
			name: "mixed",
			input: `{"transactions":[{"nonce":"0x1"},
				"0x4e805891b568698f8419f8e162d70ed9675e42a32e4972cbeb7f78d7fd51de76"]}`,
			wantErr: true,
		},
		{
			name:    "not a list",
			input:   `{"transactions":"0x1"}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := models.ParseBlock([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.kind, block.Transactions.Kind)
			require.Equal(t, tt.length, block.Transactions.Len())
		})
	}
}

func TestParseBlockEnvelope(t *testing.T) {
	bare := `{"number":"0x10","nonce":"0x0000000000000000","transactions":[]}`
	envelope := `{"jsonrpc":"2.0","id":1,"result":` + bare + `}`

	for _, input := range []string{bare, envelope} {
		block, err := models.ParseBlock([]byte(input))
		require.NoError(t, err)
		require.NotNil(t, block.Number)
		n, err := block.Number.Uint64()
		require.NoError(t, err)
		require.Equal(t, uint64(16), n)
		require.NotNil(t, block.Nonce)
		require.Nil(t, block.Withdrawals)
	}

	_, err := models.ParseBlock([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`))
	require.ErrorIs(t, err, models.ErrNoBlock)

	_, err = models.ParseBlock([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"header not found"}}`))
	require.ErrorContains(t, err, "header not found")
}

func TestTransactionOptionalFields(t *testing.T) {
	var tx models.Transaction
	err := json.Unmarshal([]byte(`{
		"type":"0x2",
		"to":null,
		"accessList":[{"address":"0x00000000000000000000000000000000000000aa","storageKeys":[
			"0x0000000000000000000000000000000000000000000000000000000000000001"]}],
		"input":"0x6080"
	}`), &tx)
	require.NoError(t, err)
	require.Nil(t, tx.To)
	require.Nil(t, tx.GasPrice)
	require.Nil(t, tx.YParity)
	require.NotNil(t, tx.AccessList)
	require.Len(t, *tx.AccessList, 1)
	require.Equal(t, common.HexToAddress("0xaa"), (*tx.AccessList)[0].Address)
	require.Equal(t, []byte{0x60, 0x80}, []byte(tx.Input))
}

func TestParseBlockRef(t *testing.T) {
	ref, err := models.ParseBlockRef("latest")
	require.NoError(t, err)
	require.True(t, ref.Latest)

	ref, err = models.ParseBlockRef("19000000")
	require.NoError(t, err)
	require.Equal(t, int64(19000000), ref.Number)

	ref, err = models.ParseBlockRef("0x7a549b")
	require.NoError(t, err)
	require.Equal(t, int64(8017051), ref.Number)

	hash := "0x4e805891b568698f8419f8e162d70ed9675e42a32e4972cbeb7f78d7fd51de76"
	ref, err = models.ParseBlockRef(hash)
	require.NoError(t, err)
	require.NotNil(t, ref.Hash)
	require.Equal(t, hash, ref.String())

	_, err = models.ParseBlockRef("pending")
	require.Error(t, err)
	_, err = models.ParseBlockRef("-1")
	require.Error(t, err)
}
