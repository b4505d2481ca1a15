package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Load reads config from dir, layering config.json and STEWSALE_* environment
// variables over the defaults. dir defaults to ~/.stewsale.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".stewsale")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(filepath.Join(dir, configFile))
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !isMissing(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.configDir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.ChainID <= 0:
		return fmt.Errorf("chain_id must be positive, got %d", c.ChainID)
	case c.GasLimit == 0:
		return errors.New("gas_limit must be positive")
	case len(c.Accounts) == 0:
		return errors.New("accounts must not be empty")
	case !slices.Contains(c.Accounts, c.DefaultAccount):
		return fmt.Errorf("default_account %q is not in accounts", c.DefaultAccount)
	}
	return nil
}

// ChainIDBig returns the chain id as a *big.Int.
func (c *Config) ChainIDBig() *big.Int {
	return big.NewInt(c.ChainID)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// StatePath is the devnet snapshot file.
func (c *Config) StatePath() string {
	return filepath.Join(c.configDir, stateFile)
}

// AccountsPath is the wallet metadata file.
func (c *Config) AccountsPath() string {
	return filepath.Join(c.configDir, accountsFile)
}

// ContractsPath is the deployments registry file.
func (c *Config) ContractsPath() string {
	return filepath.Join(c.configDir, contractsFile)
}

// KeyringDir is where the file keyring keeps encrypted keys.
func (c *Config) KeyringDir() string {
	return filepath.Join(c.configDir, keyringDir)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chain_id", DefaultChainID)
	v.SetDefault("gas_limit", DefaultGasLimit)
	v.SetDefault("genesis_balance", DefaultGenesisBalance)
	v.SetDefault("accounts", DefaultAccounts)
	v.SetDefault("default_account", DefaultAccount)
	v.SetDefault("keyring_password", DefaultKeyringPass)
	v.SetDefault("initial_supply", DefaultInitialSupply)
}

func isMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
