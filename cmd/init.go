package cmd

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/ui"
	"github.com/Mohsinsiddi/stewsale/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:         "init",
	Short:       "Create the devnet accounts and genesis state",
	Annotations: map[string]string{annotationNoDevnet: ""},
	Long: `Create one key per configured account, fund each with genesis_balance
coins and write a fresh devnet state. Existing keys are reused.

--force discards the current devnet state and deployments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.Banner())

		if _, err := os.Stat(cfg.StatePath()); err == nil && !initForce {
			return errors.New("devnet already initialised; pass --force to reset it")
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		if err := openDevnet(true); err != nil {
			return err
		}

		genesis, err := chain.ParseUnits(cfg.GenesisBalance, chain.EtherDecimals)
		if err != nil {
			return fmt.Errorf("genesis_balance: %w", err)
		}

		t := ui.NewTable([]ui.Column{
			{Title: "ACCOUNT", Width: 12},
			{Title: "ADDRESS", Width: 42},
			{Title: "BALANCE", Width: 16},
		})
		alloc := make(map[common.Address]*big.Int)
		for _, name := range cfg.Accounts {
			w, err := wallets.Get(name)
			if errors.Is(err, wallet.ErrWalletNotFound) {
				w, err = wallets.Generate(name)
			}
			if err != nil {
				return fmt.Errorf("account %s: %w", name, err)
			}
			alloc[w.Address] = new(big.Int).Set(genesis)
			t.AddRow(ui.Row{name, w.Address.Hex(), formatCoins(genesis)})
		}

		registry.Reset()
		backend = newBackend(alloc)

		fmt.Println(t.Render())
		fmt.Println(ui.Success(fmt.Sprintf("devnet ready (chain %d) in %s", cfg.ChainID, cfg.Dir())))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "reset an existing devnet")
}
