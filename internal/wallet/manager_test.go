package wallet_test

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/stewsale/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrivKeyHex = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testSignerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func newManager(t *testing.T) *wallet.Manager {
	t.Helper()
	return wallet.NewManager(wallet.NewMemoryKeystore(), wallet.WithInMemoryStore())
}

func TestImportDerivesAddress(t *testing.T) {
	mgr := newManager(t)

	w, err := mgr.Import("owner", testPrivKeyHex)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testSignerAddr), w.Address)
	assert.NotEmpty(t, w.CreatedAt)

	got, err := mgr.Get("owner")
	require.NoError(t, err)
	assert.Equal(t, w, got)
}

func TestImportInvalidKey(t *testing.T) {
	_, err := newManager(t).Import("bad", "not-a-valid-key")
	assert.ErrorIs(t, err, wallet.ErrInvalidKey)
}

func TestImportDuplicate(t *testing.T) {
	mgr := newManager(t)
	_, err := mgr.Import("dup", testPrivKeyHex)
	require.NoError(t, err)

	_, err = mgr.Generate("dup")
	assert.ErrorIs(t, err, wallet.ErrWalletExists)
}

func TestGenerateDistinctAccounts(t *testing.T) {
	mgr := newManager(t)

	a, err := mgr.Generate("acc1")
	require.NoError(t, err)
	b, err := mgr.Generate("acc2")
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, b.Address)

	list, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "acc1", list[0].Name)
	assert.Equal(t, "acc2", list[1].Name)
}

func TestGetNotFound(t *testing.T) {
	_, err := newManager(t).Get("nobody")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestLookupNameOrAddress(t *testing.T) {
	mgr := newManager(t)
	w, err := mgr.Import("owner", testPrivKeyHex)
	require.NoError(t, err)

	byName, err := mgr.Lookup("owner")
	require.NoError(t, err)
	assert.Equal(t, w.Address, byName)

	raw := "0x00000000000000000000000000000000000000aa"
	byAddr, err := mgr.Lookup(raw)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(raw), byAddr)

	_, err = mgr.Lookup("ghost")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

func TestRemoveDeletesKey(t *testing.T) {
	ks := wallet.NewMemoryKeystore()
	mgr := wallet.NewManager(ks, wallet.WithInMemoryStore())
	w, err := mgr.Import("gone", testPrivKeyHex)
	require.NoError(t, err)

	require.NoError(t, mgr.Remove("gone"))
	_, err = mgr.Get("gone")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	_, err = ks.Retrieve(w.KeyRef)
	assert.ErrorIs(t, err, wallet.ErrKeyNotFound)

	assert.ErrorIs(t, mgr.Remove("gone"), wallet.ErrWalletNotFound)
}

func TestJSONStorePersistsAcrossManagers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	ks := wallet.NewMemoryKeystore()

	first := wallet.NewManager(ks, wallet.WithStore(wallet.NewJSONStore(path)))
	w, err := first.Import("owner", testPrivKeyHex)
	require.NoError(t, err)

	second := wallet.NewManager(ks, wallet.WithStore(wallet.NewJSONStore(path)))
	got, err := second.Get("owner")
	require.NoError(t, err)
	assert.Equal(t, w.Address, got.Address)
	assert.Equal(t, w.KeyRef, got.KeyRef)
}

func TestJSONStoreMissingFile(t *testing.T) {
	wallets, err := wallet.NewJSONStore(filepath.Join(t.TempDir(), "none.json")).Load()
	require.NoError(t, err)
	assert.Empty(t, wallets)
}

func TestSignerSignsForChain(t *testing.T) {
	mgr := newManager(t)
	_, err := mgr.Import("owner", testPrivKeyHex)
	require.NoError(t, err)

	s, err := mgr.Signer("owner")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testSignerAddr), s.Address())
	assert.Equal(t, "owner", s.Name())

	chainID := big.NewInt(1337)
	to := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	tx := types.NewTx(&types.LegacyTx{Nonce: 3, Gas: 21000, GasPrice: big.NewInt(0), To: &to, Value: big.NewInt(1)})

	signed, err := s.SignTx(tx, chainID)
	require.NoError(t, err)

	from, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), from)
	assert.Equal(t, chainID, signed.ChainId())
}

func TestSignerMissingKey(t *testing.T) {
	w := &wallet.Wallet{Name: "ghost", KeyRef: "stewsale.ghost"}
	s := wallet.NewSigner(w, wallet.NewMemoryKeystore())

	to := common.Address{}
	_, err := s.SignTx(types.NewTx(&types.LegacyTx{To: &to, Gas: 21000}), big.NewInt(1))
	assert.ErrorIs(t, err, wallet.ErrKeyNotFound)
}
