package scenario

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/config"
	"github.com/Mohsinsiddi/stewsale/internal/contract"
	"github.com/Mohsinsiddi/stewsale/internal/token"
	"github.com/Mohsinsiddi/stewsale/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Roster is the set of named accounts every scenario can use.
var Roster = []string{"owner", "acc1", "acc2", "whitelist1", "whitelist2", "whitelist3"}

// Env is a fresh devnet with funded, named accounts.
type Env struct {
	Backend       *chain.Backend
	Wallets       *wallet.Manager
	GasLimit      uint64
	InitialSupply *big.Int

	// Contracts deployed by earlier steps of the running scenario.
	STEW *contract.STEW
	Sale *contract.SaleBNBSTEW

	signers map[string]*wallet.Signer
}

// NewEnv builds a devnet from cfg. Keys are generated into an in-memory
// keyring and never touch disk.
func NewEnv(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Env, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	genesis, err := chain.ParseUnits(cfg.GenesisBalance, chain.EtherDecimals)
	if err != nil {
		return nil, fmt.Errorf("genesis_balance: %w", err)
	}
	supply, err := chain.ParseUnits(cfg.InitialSupply, int(token.DefaultDecimals))
	if err != nil {
		return nil, fmt.Errorf("initial_supply: %w", err)
	}

	mgr := wallet.NewManager(wallet.NewMemoryKeystore(), wallet.WithInMemoryStore())
	env := &Env{
		Wallets:       mgr,
		GasLimit:      cfg.GasLimit,
		InitialSupply: supply,
		signers:       make(map[string]*wallet.Signer),
	}

	alloc := make(map[common.Address]*big.Int)
	for _, name := range names(cfg) {
		if _, err := mgr.Generate(name); err != nil {
			return nil, err
		}
		s, err := mgr.Signer(name)
		if err != nil {
			return nil, err
		}
		env.signers[name] = s
		alloc[s.Address()] = new(big.Int).Set(genesis)
	}

	env.Backend = chain.NewBackend(cfg.ChainIDBig(), alloc,
		chain.WithLogger(logger),
		chain.WithContracts(contract.Natives()...))
	return env, nil
}

// names is Roster followed by any extra configured accounts.
func names(cfg *config.Config) []string {
	out := append([]string(nil), Roster...)
	seen := make(map[string]bool, len(out))
	for _, n := range out {
		seen[n] = true
	}
	for _, n := range cfg.Accounts {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// Opts returns transaction options for the named account. It panics on an
// unknown name since scenario tables are static.
func (e *Env) Opts(name string) *contract.TransactOpts {
	s, ok := e.signers[name]
	if !ok {
		panic(fmt.Sprintf("scenario: unknown account %q", name))
	}
	return &contract.TransactOpts{Signer: s, GasLimit: e.GasLimit}
}

// Pay returns options for name attaching coins whole native coins.
func (e *Env) Pay(name, coins string) *contract.TransactOpts {
	return e.Opts(name).WithValue(chain.Ether(coins))
}

// Addr returns the address of the named account.
func (e *Env) Addr(name string) common.Address {
	return e.Opts(name).Signer.Address()
}

// DeploySTEW deploys a ledger minting the configured supply to owner and
// makes it the current one.
func (e *Env) DeploySTEW(ctx context.Context) error {
	t, _, err := contract.DeploySTEW(ctx, e.Backend, e.Opts("owner"), e.InitialSupply)
	if err != nil {
		return err
	}
	e.STEW = t
	return nil
}

// DeploySale deploys a sale bound to the current ledger and makes it the
// current one.
func (e *Env) DeploySale(ctx context.Context) error {
	if e.STEW == nil {
		return fmt.Errorf("no STEW deployed")
	}
	s, _, err := contract.DeploySaleBNBSTEW(ctx, e.Backend, e.Opts("owner"), e.STEW.Address)
	if err != nil {
		return err
	}
	e.Sale = s
	return nil
}
