package canonical_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/duneanalytics/block-to-payload/canonical"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const signerKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

// nodeJSON renders a signed transaction the way a node serves it in a full block.
// go-ethereum only emits yParity for typed transactions. withYParity adds it to legacy
// ones, without it typed ones lose it and v alone carries the parity.
func nodeJSON(t *testing.T, tx *types.Transaction, withYParity bool) string {
	t.Helper()
	raw, err := json.Marshal(tx)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	switch {
	case !withYParity:
		delete(doc, "yParity")
	case tx.Type() == types.LegacyTxType:
		v, _, _ := tx.RawSignatureValues()
		parity := v.Uint64() - 27
		if tx.Protected() {
			parity = (v.Uint64() - 35) % 2
		}
		doc["yParity"] = "0x" + big.NewInt(int64(parity)).Text(16)
	}

	raw, err = json.Marshal(doc)
	require.NoError(t, err)
	return string(raw)
}

func TestSignedTransactionsRoundTrip(t *testing.T) {
	key, err := crypto.HexToECDSA(signerKey)
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)

	chainID := big.NewInt(1)
	to := common.HexToAddress(recipient)
	gwei := big.NewInt(1_000_000_000)
	accessList := types.AccessList{{
		Address:     to,
		StorageKeys: []common.Hash{common.HexToHash("0x01"), common.HexToHash("0x02")},
	}}
	latest := types.LatestSignerForChainID(chainID)

	tests := []struct {
		name   string
		signer types.Signer
		data   types.TxData
	}{
		{
			name:   "homestead legacy",
			signer: types.HomesteadSigner{},
			data: &types.LegacyTx{
				Nonce: 7, GasPrice: new(big.Int).Mul(gwei, big.NewInt(30)), Gas: 21_000,
				To: &to, Value: big.NewInt(1_000_000_000_000_000_000),
			},
		},
		{
			name:   "eip155 legacy contract creation",
			signer: types.NewEIP155Signer(chainID),
			data: &types.LegacyTx{
				Nonce: 8, GasPrice: gwei, Gas: 100_000, Data: []byte{0x60, 0x80, 0x60, 0x40},
			},
		},
		{
			name:   "access list",
			signer: latest,
			data: &types.AccessListTx{
				ChainID: chainID, Nonce: 9, GasPrice: gwei, Gas: 50_000,
				To: &to, Value: big.NewInt(5), Data: []byte{0xa9, 0x05, 0x9c, 0xbb}, AccessList: accessList,
			},
		},
		{
			name:   "dynamic fee",
			signer: latest,
			data: &types.DynamicFeeTx{
				ChainID: chainID, Nonce: 10, GasTipCap: big.NewInt(2), GasFeeCap: new(big.Int).Mul(gwei, big.NewInt(40)),
				Gas: 60_000, To: &to, Value: big.NewInt(0), AccessList: accessList,
			},
		},
		{
			name:   "blob",
			signer: latest,
			data: &types.BlobTx{
				ChainID: uint256.NewInt(1), Nonce: 11, GasTipCap: uint256.NewInt(2), GasFeeCap: uint256.NewInt(40_000_000_000),
				Gas: 21_000, To: to, Value: uint256.NewInt(0), BlobFeeCap: uint256.NewInt(3),
				BlobHashes: []common.Hash{common.HexToHash(blobHash1), common.HexToHash(blobHash2)},
				AccessList: types.AccessList{},
			},
		},
	}
	for _, tt := range tests {
		signed := types.MustSignNewTx(key, tt.signer, tt.data)
		for _, withYParity := range []bool{true, false} {
			name := tt.name + " without yParity"
			if withYParity {
				name = tt.name + " with yParity"
			}
			t.Run(name, func(t *testing.T) {
				got := canonicalize(t, nodeJSON(t, signed, withYParity))
				require.Equal(t, signed.Type(), got.Signed().Type())
				require.Equal(t, signed.Hash(), canonical.TransactionHash(got))

				raw, err := canonical.EncodeTransaction(got)
				require.NoError(t, err)
				want, err := signed.MarshalBinary()
				require.NoError(t, err)
				require.Equal(t, want, raw)

				from, err := types.Sender(tt.signer, got.Signed())
				require.NoError(t, err)
				require.Equal(t, sender, from)
			})
		}
	}
}

func TestSealMatchesHeaderHash(t *testing.T) {
	withdrawalsRoot := common.HexToHash("0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")
	beaconRoot := common.HexToHash("0x6666666666666666666666666666666666666666666666666666666666666666")
	base := func() *types.Header {
		return &types.Header{
			ParentHash:  common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111"),
			UncleHash:   types.EmptyUncleHash,
			Coinbase:    common.HexToAddress("0x95222290dd7278aa3ddd389cc1e1d165cc4bafe5"),
			Root:        common.HexToHash("0x2222222222222222222222222222222222222222222222222222222222222222"),
			TxHash:      common.HexToHash("0x3333333333333333333333333333333333333333333333333333333333333333"),
			ReceiptHash: common.HexToHash("0x4444444444444444444444444444444444444444444444444444444444444444"),
			Bloom:       types.BytesToBloom([]byte{0x80, 0x01}),
			Difficulty:  big.NewInt(0),
			Number:      big.NewInt(19_426_587),
			GasLimit:    30_000_000,
			GasUsed:     12_345_678,
			Time:        1_710_338_135,
			Extra:       []byte("beaverbuild.org"),
			MixDigest:   common.HexToHash("0x5555555555555555555555555555555555555555555555555555555555555555"),
		}
	}

	frontier := base()
	frontier.Difficulty = big.NewInt(17_171_480_576)
	frontier.Number = big.NewInt(46_147)
	frontier.Nonce = types.EncodeNonce(0x539bd4979fef1ec4)
	frontier.Extra = []byte{}

	london := base()
	london.BaseFee = big.NewInt(25_000_000_000)

	shanghai := base()
	shanghai.BaseFee = big.NewInt(25_000_000_000)
	shanghai.WithdrawalsHash = &withdrawalsRoot

	cancun := base()
	cancun.BaseFee = big.NewInt(25_000_000_000)
	cancun.WithdrawalsHash = &withdrawalsRoot
	cancun.BlobGasUsed = ptr(uint64(393_216))
	cancun.ExcessBlobGas = ptr(uint64(0))
	cancun.ParentBeaconRoot = &beaconRoot

	for name, header := range map[string]*types.Header{
		"frontier": frontier,
		"london":   london,
		"shanghai": shanghai,
		"cancun":   cancun,
	} {
		t.Run(name, func(t *testing.T) {
			raw, err := json.Marshal(header)
			require.NoError(t, err)
			sealed, err := canonical.SealHeader(rpcHeader(t, string(raw)))
			require.NoError(t, err)
			require.Equal(t, header.Hash(), sealed.Hash())
		})
	}
}
