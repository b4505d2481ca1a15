package config

// Defaults written by Load when neither config.json nor the environment
// set a value.
const (
	DefaultChainID        = int64(1337)
	DefaultGasLimit       = uint64(6_721_975)
	DefaultGenesisBalance = "10000"
	DefaultInitialSupply  = "210000"
	DefaultAccount        = "owner"
	DefaultKeyringPass    = "stewsale"

	envPrefix = "STEWSALE"
)

// DefaultAccounts are the named devnet accounts created by init.
var DefaultAccounts = []string{"owner", "acc1", "acc2", "whitelist1", "whitelist2", "whitelist3"}

const (
	configFile    = "config.json"
	stateFile     = "state.json"
	accountsFile  = "accounts.json"
	contractsFile = "contracts.json"
	keyringDir    = "keyring"
)
