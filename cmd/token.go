package cmd

import (
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/contract"
	"github.com/Mohsinsiddi/stewsale/internal/token"
	"github.com/Mohsinsiddi/stewsale/internal/ui"
	"github.com/spf13/cobra"
)

// ── flag vars ─────────────────────────────────────────────────────────────────

var (
	tokenSupply string
	tokenYes    bool
)

// ── root token command ────────────────────────────────────────────────────────

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Deploy and operate the STEW ledger",
	Long: `Deploy and operate the STEW ledger.

Amounts are whole tokens at the ledger's current decimals. Owner-only
commands must be signed by the owner (see --from).`,
}

// ── token deploy ──────────────────────────────────────────────────────────────

var tokenDeployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the ledger, minting the initial supply to the signer",
	Example: `  stewsale token deploy
  stewsale token deploy --supply 1000000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		supply := tokenSupply
		if supply == "" {
			supply = cfg.InitialSupply
		}
		amount, err := chain.ParseUnits(supply, int(token.DefaultDecimals))
		if err != nil {
			return fmt.Errorf("invalid supply %q: %w", supply, err)
		}
		opts, err := txOpts()
		if err != nil {
			return err
		}

		stew, receipt, err := contract.DeploySTEW(cmd.Context(), backend, opts, amount)
		if err != nil {
			return fmt.Errorf("deploying STEW: %w", err)
		}
		registry.Add(&contract.Entry{
			Name:    contract.STEWDeployment,
			Builtin: contract.STEWBuiltin,
			Address: stew.Address,
			Block:   receipt.BlockNumber.Uint64(),
		})
		fmt.Println(ui.Success("STEW deployed at " + ui.Addr(stew.Address.Hex())))
		fmt.Println(ui.Meta(fmt.Sprintf("  minted %s to %s", supply, fromAcct)))
		return nil
	},
}

// ── token info ────────────────────────────────────────────────────────────────

var tokenInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show ledger metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stew, err := loadSTEW()
		if err != nil {
			return err
		}
		name, err := stew.Name(ctx)
		if err != nil {
			return err
		}
		symbol, err := stew.Symbol(ctx)
		if err != nil {
			return err
		}
		decimals, err := stew.Decimals(ctx)
		if err != nil {
			return err
		}
		supply, err := stew.TotalSupply(ctx)
		if err != nil {
			return err
		}
		owner, err := stew.Owner(ctx)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("STEW ledger", [][2]string{
			{"Address", stew.Address.Hex()},
			{"Name", name},
			{"Symbol", symbol},
			{"Decimals", strconv.Itoa(int(decimals))},
			{"Total supply", formatSTEW(ctx, stew, supply)},
			{"Owner", owner.Hex()},
			{"Coin balance", formatCoins(backend.BalanceAt(stew.Address))},
		}))
		return nil
	},
}

// ── token balance ─────────────────────────────────────────────────────────────

var tokenBalanceCmd = &cobra.Command{
	Use:   "balance [account]",
	Short: "Show an account's STEW balance",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stew, err := loadSTEW()
		if err != nil {
			return err
		}
		who := fromAcct
		if len(args) == 1 {
			who = args[0]
		}
		addr, err := resolveAccount(who)
		if err != nil {
			return err
		}
		bal, err := stew.BalanceOf(ctx, addr)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", ui.Addr(addr.Hex()), ui.Val(formatSTEW(ctx, stew, bal)))
		return nil
	},
}

// ── token transfer ────────────────────────────────────────────────────────────

var tokenTransferCmd = &cobra.Command{
	Use:     "transfer <to> <amount>",
	Short:   "Transfer STEW from the signer",
	Args:    cobra.ExactArgs(2),
	Example: `  stewsale token transfer acc1 100 --from owner`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stew, err := loadSTEW()
		if err != nil {
			return err
		}
		to, err := resolveAccount(args[0])
		if err != nil {
			return err
		}
		amount, err := parseSTEW(ctx, stew, args[1])
		if err != nil {
			return err
		}
		opts, err := txOpts()
		if err != nil {
			return err
		}
		receipt, err := stew.Transfer(ctx, opts, to, amount)
		return report(fmt.Sprintf("transferred %s STEW to %s", args[1], args[0]), receipt, err)
	},
}

// ── token burn ────────────────────────────────────────────────────────────────

var tokenBurnCmd = &cobra.Command{
	Use:   "burn <account> <amount>",
	Short: "Destroy STEW held by an account (owner only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stew, err := loadSTEW()
		if err != nil {
			return err
		}
		account, err := resolveAccount(args[0])
		if err != nil {
			return err
		}
		amount, err := parseSTEW(ctx, stew, args[1])
		if err != nil {
			return err
		}
		opts, err := txOpts()
		if err != nil {
			return err
		}
		receipt, err := stew.Burn(ctx, opts, account, amount)
		return report(fmt.Sprintf("burned %s STEW from %s", args[1], args[0]), receipt, err)
	},
}

// ── token decimals ────────────────────────────────────────────────────────────

var tokenDecimalsCmd = &cobra.Command{
	Use:   "decimals <n>",
	Short: "Change the display decimals (owner only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return fmt.Errorf("invalid decimals %q: %w", args[0], err)
		}
		stew, err := loadSTEW()
		if err != nil {
			return err
		}
		opts, err := txOpts()
		if err != nil {
			return err
		}
		receipt, err := stew.UpdateDecimals(cmd.Context(), opts, uint8(n))
		return report(fmt.Sprintf("decimals set to %d", n), receipt, err)
	},
}

// ── token fund ────────────────────────────────────────────────────────────────

var tokenFundCmd = &cobra.Command{
	Use:   "fund <amount>",
	Short: "Move STEW from the signer into the deployed sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stew, err := loadSTEW()
		if err != nil {
			return err
		}
		s, err := loadSale()
		if err != nil {
			return err
		}
		amount, err := parseSTEW(ctx, stew, args[0])
		if err != nil {
			return err
		}
		opts, err := txOpts()
		if err != nil {
			return err
		}
		receipt, err := stew.Transfer(ctx, opts, s.Address, amount)
		return report(fmt.Sprintf("funded the sale with %s STEW", args[0]), receipt, err)
	},
}

// ── token withdraw ────────────────────────────────────────────────────────────

var tokenWithdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Send every coin held by the ledger to its owner (owner only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		stew, err := loadSTEW()
		if err != nil {
			return err
		}
		held := backend.BalanceAt(stew.Address)
		if !confirmed(tokenYes, fmt.Sprintf("Withdraw %s from the ledger?", formatCoins(held))) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		opts, err := txOpts()
		if err != nil {
			return err
		}
		receipt, err := stew.WithdrawAll(cmd.Context(), opts)
		return report("withdrew "+formatCoins(held), receipt, err)
	},
}

func init() {
	tokenDeployCmd.Flags().StringVar(&tokenSupply, "supply", "", "initial supply in whole tokens (default: config initial_supply)")
	tokenWithdrawCmd.Flags().BoolVarP(&tokenYes, "yes", "y", false, "skip confirmation")

	tokenCmd.AddCommand(
		tokenDeployCmd,
		tokenInfoCmd,
		tokenBalanceCmd,
		tokenTransferCmd,
		tokenBurnCmd,
		tokenDecimalsCmd,
		tokenFundCmd,
		tokenWithdrawCmd,
	)
}
