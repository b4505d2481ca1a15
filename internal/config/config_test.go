package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/stewsale/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, int64(1337), cfg.ChainID)
	assert.Equal(t, uint64(6_721_975), cfg.GasLimit)
	assert.Equal(t, "10000", cfg.GenesisBalance)
	assert.Equal(t, "210000", cfg.InitialSupply)
	assert.Equal(t, "owner", cfg.DefaultAccount)
	assert.Equal(t, []string{"owner", "acc1", "acc2", "whitelist1", "whitelist2", "whitelist3"}, cfg.Accounts)
	assert.Equal(t, dir, cfg.Dir())
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.ChainID = 97
	cfg.GenesisBalance = "50000"
	cfg.Accounts = []string{"deployer", "buyer"}
	cfg.DefaultAccount = "deployer"
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(97), reloaded.ChainID)
	assert.Equal(t, "50000", reloaded.GenesisBalance)
	assert.Equal(t, []string{"deployer", "buyer"}, reloaded.Accounts)
	assert.Equal(t, "deployer", reloaded.DefaultAccount)
}

func TestSaveFilePermissions(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"chain_id": 56}`), 0o600))
	t.Setenv("STEWSALE_INITIAL_SUPPLY", "1000")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(56), cfg.ChainID)
	assert.Equal(t, "1000", cfg.InitialSupply)
}

func TestEnvOverridesChainID(t *testing.T) {
	t.Setenv("STEWSALE_CHAIN_ID", "31337")
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, int64(31337), cfg.ChainID)
	assert.Equal(t, "31337", cfg.ChainIDBig().String())
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600))

	_, err := config.Load(dir)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDefaultAccount(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"accounts": ["a", "b"], "default_account": "c"}`), 0o600))

	_, err := config.Load(dir)
	assert.ErrorContains(t, err, "default_account")
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "state.json"), cfg.StatePath())
	assert.Equal(t, filepath.Join(dir, "accounts.json"), cfg.AccountsPath())
	assert.Equal(t, filepath.Join(dir, "contracts.json"), cfg.ContractsPath())
	assert.Equal(t, filepath.Join(dir, "keyring"), cfg.KeyringDir())
}
