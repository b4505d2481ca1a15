package cmd

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/config"
	"github.com/Mohsinsiddi/stewsale/internal/contract"
	"github.com/Mohsinsiddi/stewsale/internal/logging"
	"github.com/Mohsinsiddi/stewsale/internal/ui"
	"github.com/Mohsinsiddi/stewsale/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/stewsale/cmd.Version=1.2.3" .
var Version = "0.1.0"

// annotationNoDevnet marks commands that run without the persisted devnet.
const annotationNoDevnet = "no-devnet"

var (
	cfgDir   string
	cfg      *config.Config
	verbose  bool
	fromAcct string

	logger   *zap.Logger
	wallets  *wallet.Manager
	backend  *chain.Backend
	registry *contract.Registry
)

// errNotInitialised is returned when a command needs the devnet before
// `stewsale init` has run.
var errNotInitialised = errors.New("no devnet state found; run `stewsale init` first")

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "stewsale",
	Short: "StewCoin ledger and token sale on a local devnet",
	Long: `stewsale runs the STEW token ledger and the SaleBNBSTEW sale controller
on an in-process devnet whose state persists between invocations.

  stewsale init                      create accounts and the genesis state
  stewsale token deploy              deploy the ledger
  stewsale sale deploy               deploy the sale bound to it
  stewsale scenario run              replay the end-to-end flows

The --from flag picks the signing account (default: owner).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger, err = logging.New(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		if fromAcct == "" {
			fromAcct = cfg.DefaultAccount
		}
		if _, skip := cmd.Annotations[annotationNoDevnet]; skip {
			return nil
		}
		return openDevnet(false)
	},
}

// Execute runs the root command. The devnet is written back even when the
// command fails, since reverted transactions still consume nonces.
func Execute() {
	err := rootCmd.Execute()
	if perr := persist(); perr != nil && err == nil {
		err = perr
	}
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errLine(err))
		os.Exit(1)
	}
}

func init() {
	// STEWSALE_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("STEWSALE_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.stewsale)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&fromAcct, "from", "", "signing account (default: config default_account)")

	rootCmd.AddCommand(
		initCmd,
		accountCmd,
		tokenCmd,
		saleCmd,
		scenarioCmd,
		txsCmd,
		builtinsCmd,
	)
}

// openDevnet opens the keyring, account store, contract registry and the
// persisted devnet. With genesis set a missing state file is fine.
func openDevnet(genesis bool) error {
	ks, err := wallet.OpenFileKeystore(cfg.KeyringDir(), cfg.KeyringPassword)
	if err != nil {
		return fmt.Errorf("opening keyring: %w", err)
	}
	wallets = wallet.NewManager(ks, wallet.WithStore(wallet.NewJSONStore(cfg.AccountsPath())))

	registry = contract.NewRegistry(cfg.ContractsPath())
	if err := registry.Load(); err != nil {
		return fmt.Errorf("loading contracts: %w", err)
	}

	if genesis {
		return nil
	}
	b := newBackend(nil)
	ok, err := b.LoadState(cfg.StatePath())
	if err != nil {
		return err
	}
	if !ok {
		return errNotInitialised
	}
	backend = b
	return nil
}

func newBackend(alloc map[common.Address]*big.Int) *chain.Backend {
	return chain.NewBackend(cfg.ChainIDBig(), alloc,
		chain.WithLogger(logger),
		chain.WithContracts(contract.Natives()...))
}

// persist writes the devnet and the contract registry back to disk.
func persist() error {
	if backend == nil {
		return nil
	}
	if err := backend.SaveState(cfg.StatePath()); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	if registry != nil {
		if err := registry.Save(); err != nil {
			return fmt.Errorf("saving contracts: %w", err)
		}
	}
	return nil
}

// errLine renders err for the terminal, surfacing revert reasons.
func errLine(err error) string {
	if reason, ok := chain.RevertReason(err); ok {
		if reason == "" {
			return ui.Err("transaction reverted")
		}
		return ui.Err("reverted: " + reason)
	}
	return ui.Err(err.Error())
}
