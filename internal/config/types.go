package config

// Config holds all stewsale configuration.
type Config struct {
	ChainID         int64    `json:"chain_id"         mapstructure:"chain_id"`
	GasLimit        uint64   `json:"gas_limit"        mapstructure:"gas_limit"`
	GenesisBalance  string   `json:"genesis_balance"  mapstructure:"genesis_balance"` // whole coins per account
	Accounts        []string `json:"accounts"         mapstructure:"accounts"`
	DefaultAccount  string   `json:"default_account"  mapstructure:"default_account"`
	KeyringPassword string   `json:"keyring_password" mapstructure:"keyring_password"`
	InitialSupply   string   `json:"initial_supply"   mapstructure:"initial_supply"` // whole STEW minted at deploy

	// internal: config dir path used for Save()
	configDir string
}
