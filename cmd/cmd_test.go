package cmd

import (
	"context"
	"testing"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/ownable"
	"github.com/Mohsinsiddi/stewsale/internal/sale"
	"github.com/Mohsinsiddi/stewsale/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes one CLI invocation against dir the way Execute does,
// persisting the devnet afterwards.
func run(t *testing.T, dir string, args ...string) error {
	t.Helper()
	fromAcct, backend, registry, wallets = "", nil, nil, nil
	tokenSupply, tokenYes, saleYes, initForce, accountYes = "", false, false, false, false
	txsPlain, txsFailed, txsLast = false, false, 0

	rootCmd.SetArgs(append([]string{"--config", dir}, args...))
	err := rootCmd.Execute()
	if perr := persist(); perr != nil && err == nil {
		err = perr
	}
	return err
}

func mustRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	require.NoError(t, run(t, dir, args...), "stewsale %v", args)
}

func requireReverted(t *testing.T, err error, want string) {
	t.Helper()
	require.Error(t, err)
	reason, ok := chain.RevertReason(err)
	require.True(t, ok, "not a revert: %v", err)
	assert.Equal(t, want, reason)
}

func TestCommandsNeedInit(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, run(t, dir, "token", "info"), errNotInitialised)
	assert.ErrorIs(t, run(t, dir, "account", "list"), errNotInitialised)
	assert.NoError(t, run(t, dir, "builtins"))
}

func TestInitRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	assert.ErrorContains(t, run(t, dir, "init"), "--force")
	mustRun(t, dir, "init", "--force")
}

func TestInitReusesKeys(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	mustRun(t, dir, "account", "list")
	first, err := resolveAccount("acc1")
	require.NoError(t, err)

	mustRun(t, dir, "init", "--force")
	mustRun(t, dir, "account", "list")
	second, err := resolveAccount("acc1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, chain.Ether(cfg.GenesisBalance), backend.BalanceAt(second))
}

func TestAccountRemove(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	_, err := resolveAccount("acc2")
	require.NoError(t, err)

	mustRun(t, dir, "account", "remove", "acc2", "--yes")
	mustRun(t, dir, "account", "list")
	_, err = resolveAccount("acc2")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	_, err = resolveAccount("acc1")
	assert.NoError(t, err)

	assert.ErrorIs(t, run(t, dir, "account", "remove", "acc2", "--yes"), wallet.ErrWalletNotFound)
}

func TestTokenAndSaleFlow(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	mustRun(t, dir, "init")
	mustRun(t, dir, "token", "deploy")
	mustRun(t, dir, "sale", "deploy")
	mustRun(t, dir, "token", "fund", "147000")
	mustRun(t, dir, "sale", "whitelist", "add", "whitelist1", "whitelist2")

	requireReverted(t, run(t, dir, "sale", "buy", "1", "--from", "whitelist1"), sale.ReasonNotStarted)
	requireReverted(t, run(t, dir, "sale", "start", "--from", "acc1"), ownable.ReasonNotOwner)

	mustRun(t, dir, "sale", "start")
	mustRun(t, dir, "sale", "buy", "2", "--from", "whitelist1")
	requireReverted(t, run(t, dir, "sale", "buy", "1", "--from", "acc1"), sale.ReasonNotWhitelisted)

	mustRun(t, dir, "sale", "toggle")
	mustRun(t, dir, "sale", "buy", "20", "--from", "acc1")
	mustRun(t, dir, "sale", "status")

	stew, err := loadSTEW()
	require.NoError(t, err)
	wl1, err := resolveAccount("whitelist1")
	require.NoError(t, err)
	acc1, err := resolveAccount("acc1")
	require.NoError(t, err)

	bal, err := stew.BalanceOf(ctx, wl1)
	require.NoError(t, err)
	assert.Equal(t, chain.Ether("30"), bal)
	bal, err = stew.BalanceOf(ctx, acc1)
	require.NoError(t, err)
	assert.Equal(t, chain.Ether("240"), bal)

	s, err := loadSale()
	require.NoError(t, err)
	assert.Equal(t, chain.Ether("22"), backend.BalanceAt(s.Address))

	mustRun(t, dir, "sale", "withdraw", "--yes")
	mustRun(t, dir, "sale", "end")
	mustRun(t, dir, "sale", "reclaim", "--yes")

	s, err = loadSale()
	require.NoError(t, err)
	assert.Zero(t, backend.BalanceAt(s.Address).Sign())
	available, err := s.AvailableSTEWs(ctx)
	require.NoError(t, err)
	assert.Zero(t, available.Sign())
	state, err := s.SaleState(ctx)
	require.NoError(t, err)
	assert.Equal(t, sale.Ended, state)

	mustRun(t, dir, "txs", "--plain")
	mustRun(t, dir, "txs", "--plain", "--failed")
}

func TestTokenCommands(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mustRun(t, dir, "init")
	mustRun(t, dir, "token", "deploy", "--supply", "1000")
	mustRun(t, dir, "token", "info")
	mustRun(t, dir, "token", "transfer", "acc1", "100")
	mustRun(t, dir, "token", "burn", "acc1", "40")
	mustRun(t, dir, "token", "balance", "acc1")
	requireReverted(t, run(t, dir, "token", "decimals", "8", "--from", "acc1"), ownable.ReasonNotOwner)
	mustRun(t, dir, "token", "withdraw", "--yes")

	stew, err := loadSTEW()
	require.NoError(t, err)
	acc1, err := resolveAccount("acc1")
	require.NoError(t, err)
	bal, err := stew.BalanceOf(ctx, acc1)
	require.NoError(t, err)
	assert.Equal(t, chain.Ether("60"), bal)
	supply, err := stew.TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, chain.Ether("960"), supply)

	mustRun(t, dir, "token", "decimals", "6")
	// each run reopens the devnet, so bind again to read the new state
	stew, err = loadSTEW()
	require.NoError(t, err)
	d, err := stew.Decimals(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), d)
}

func TestUnknownAccount(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	mustRun(t, dir, "token", "deploy")
	assert.ErrorContains(t, run(t, dir, "token", "transfer", "nobody", "1"), `unknown account "nobody"`)
	assert.ErrorContains(t, run(t, dir, "token", "balance", "--from", "nobody"), `unknown account "nobody"`)
}

func TestScenarioRun(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, run(t, dir, "scenario", "run"))
	assert.ErrorContains(t, run(t, dir, "scenario", "run", "nope"), `unknown scenario "nope"`)
}
