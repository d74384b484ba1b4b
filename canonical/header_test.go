package canonical_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/duneanalytics/block-to-payload/canonical"
	"github.com/duneanalytics/block-to-payload/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

const headerDoc = `{
	"parentHash":"0x1111111111111111111111111111111111111111111111111111111111111111",
	"sha3Uncles":"0x1dcc4de8dec75d7aab85b567b6ccd41ad312451b948a7413f0a142fd40d49347",
	"miner":"0x95222290dd7278aa3ddd389cc1e1d165cc4bafe5",
	"stateRoot":"0x2222222222222222222222222222222222222222222222222222222222222222",
	"transactionsRoot":"0x3333333333333333333333333333333333333333333333333333333333333333",
	"receiptsRoot":"0x4444444444444444444444444444444444444444444444444444444444444444",
	"difficulty":"0x0",
	"number":"0x12a05f2",
	"gasLimit":"0x1c9c380",
	"gasUsed":"0x5208",
	"timestamp":"0x65f1b057",
	"extraData":"0x6265617665726275696c642e6f7267",
	"mixHash":"0x5555555555555555555555555555555555555555555555555555555555555555",
	"nonce":"0x0000000000000000",
	"baseFeePerGas":"0x3b9aca00"
}`

func rpcHeader(t *testing.T, doc string) *models.Header {
	t.Helper()
	var header models.Header
	require.NoError(t, json.Unmarshal([]byte(doc), &header))
	return &header
}

func TestCanonicalizeHeader(t *testing.T) {
	header, err := canonical.CanonicalizeHeader(rpcHeader(t, headerDoc))
	require.NoError(t, err)

	require.Equal(t, types.EmptyUncleHash, header.UncleHash)
	require.Equal(t, common.HexToAddress("0x95222290dd7278aa3ddd389cc1e1d165cc4bafe5"), header.Coinbase)
	require.Equal(t, big.NewInt(19531250), header.Number)
	require.Equal(t, uint64(30_000_000), header.GasLimit)
	require.Equal(t, uint64(21000), header.GasUsed)
	require.Equal(t, big.NewInt(1_000_000_000), header.BaseFee)
	require.Equal(t, "beaverbuild.org", string(header.Extra))
	require.Equal(t, 0, header.Difficulty.Sign())
	require.Nil(t, header.WithdrawalsHash)
	require.Nil(t, header.BlobGasUsed)
	require.Nil(t, header.ExcessBlobGas)
	require.Nil(t, header.ParentBeaconRoot)
}

func TestSealIsDeterministic(t *testing.T) {
	first, err := canonical.SealHeader(rpcHeader(t, headerDoc))
	require.NoError(t, err)
	second, err := canonical.SealHeader(rpcHeader(t, headerDoc))
	require.NoError(t, err)
	require.Equal(t, first.Hash(), second.Hash())
	require.Equal(t, first.Header().Hash(), first.Hash())
	require.Equal(t, uint64(19531250), first.Number())

	// the sealed header can't be changed through what it hands out
	leaked := first.Header()
	leaked.GasUsed++
	require.Equal(t, second.Hash(), first.Hash())
	require.Equal(t, first.Hash(), first.Header().Hash())

	other := rpcHeader(t, headerDoc)
	other.GasUsed = other.GasLimit
	third, err := canonical.SealHeader(other)
	require.NoError(t, err)
	require.NotEqual(t, first.Hash(), third.Hash())
}

func TestSealCopiesInput(t *testing.T) {
	header, err := canonical.CanonicalizeHeader(rpcHeader(t, headerDoc))
	require.NoError(t, err)
	sealed := canonical.Seal(header)
	hash := sealed.Hash()

	header.Number.SetUint64(1)
	require.Equal(t, hash, sealed.Header().Hash())
}

func TestCanonicalizeHeaderRequiredFields(t *testing.T) {
	noNumber := rpcHeader(t, headerDoc)
	noNumber.Number = nil
	_, err := canonical.CanonicalizeHeader(noNumber)
	requireFieldError(t, err, -1, "number", canonical.ErrMissingField)
	require.Contains(t, err.Error(), "header field number")

	noNonce := rpcHeader(t, headerDoc)
	noNonce.Nonce = nil
	_, err = canonical.CanonicalizeHeader(noNonce)
	requireFieldError(t, err, -1, "nonce", canonical.ErrMissingField)

	// optional fields stay optional
	noBaseFee := rpcHeader(t, headerDoc)
	noBaseFee.BaseFeePerGas = nil
	header, err := canonical.CanonicalizeHeader(noBaseFee)
	require.NoError(t, err)
	require.Nil(t, header.BaseFee)
}

func TestCanonicalizeHeaderOverflow(t *testing.T) {
	doc := `{"number":"0x1","nonce":"0x0000000000000000","gasLimit":"0x10000000000000000"}`
	_, err := canonical.CanonicalizeHeader(rpcHeader(t, doc))
	requireFieldError(t, err, -1, "gasLimit", canonical.ErrOverflow)
}

func TestCanonicalizeWithdrawals(t *testing.T) {
	withdrawals, err := canonical.CanonicalizeWithdrawals(nil)
	require.NoError(t, err)
	require.Nil(t, withdrawals)

	withdrawals, err = canonical.CanonicalizeWithdrawals([]models.Withdrawal{})
	require.NoError(t, err)
	require.NotNil(t, withdrawals)
	require.Empty(t, withdrawals)

	var ws []models.Withdrawal
	require.NoError(t, json.Unmarshal([]byte(`[
		{"index":"0x2a","validatorIndex":"0x3e8","address":"`+recipient+`","amount":"0x1bc0dfc74"},
		{"index":"0x2b","validatorIndex":"0x3e9","address":"`+recipient+`","amount":"0x0"}]`), &ws))
	withdrawals, err = canonical.CanonicalizeWithdrawals(ws)
	require.NoError(t, err)
	require.Equal(t, types.Withdrawals{
		{Index: 42, Validator: 1000, Address: common.HexToAddress(recipient), Amount: 7_450_000_500},
		{Index: 43, Validator: 1001, Address: common.HexToAddress(recipient), Amount: 0},
	}, withdrawals)

	require.NoError(t, json.Unmarshal([]byte(`[
		{"index":"0x1","validatorIndex":"0x1","address":"`+recipient+`","amount":"0x1"},
		{"index":"0x2","validatorIndex":"0x1","address":"`+recipient+`","amount":"0x10000000000000000"}]`), &ws))
	_, err = canonical.CanonicalizeWithdrawals(ws)
	requireFieldError(t, err, 1, "amount", canonical.ErrOverflow)
}
