package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/stewsale/internal/contract"
	"github.com/Mohsinsiddi/stewsale/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/spf13/cobra"
)

var saleYes bool

var saleCmd = &cobra.Command{
	Use:   "sale",
	Short: "Deploy and operate the SaleBNBSTEW sale",
	Long: `Deploy and operate the SaleBNBSTEW sale.

The sale starts in the presale phase, where only whitelisted accounts can
buy, at 15 STEW per coin. The public phase sells to anyone at 12 STEW per
coin. Every purchase must be at least 1 coin.`,
}

var saleDeployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a sale bound to the current STEW ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		stew, err := loadSTEW()
		if err != nil {
			return err
		}
		opts, err := txOpts()
		if err != nil {
			return err
		}
		s, receipt, err := contract.DeploySaleBNBSTEW(cmd.Context(), backend, opts, stew.Address)
		if err != nil {
			return fmt.Errorf("deploying sale: %w", err)
		}
		registry.Add(&contract.Entry{
			Name:    contract.SaleDeployment,
			Builtin: contract.SaleBuiltin,
			Address: s.Address,
			Block:   receipt.BlockNumber.Uint64(),
		})
		fmt.Println(ui.Success("SaleBNBSTEW deployed at " + ui.Addr(s.Address.Hex())))
		fmt.Println(ui.Meta("  fund it with: stewsale token fund <amount>"))
		return nil
	},
}

var saleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sale state, phase, rate and remaining supply",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := loadSale()
		if err != nil {
			return err
		}
		stew, err := loadSTEW()
		if err != nil {
			return err
		}
		state, err := s.SaleState(ctx)
		if err != nil {
			return err
		}
		phase, err := s.SalePhase(ctx)
		if err != nil {
			return err
		}
		rate, err := s.Rate(ctx)
		if err != nil {
			return err
		}
		minimum, err := s.MinimumPurchase(ctx)
		if err != nil {
			return err
		}
		available, err := s.AvailableSTEWs(ctx)
		if err != nil {
			return err
		}
		owner, err := s.Owner(ctx)
		if err != nil {
			return err
		}
		token, err := s.STEWContract(ctx)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("SaleBNBSTEW", [][2]string{
			{"Address", s.Address.Hex()},
			{"STEW ledger", token.Hex()},
			{"Owner", owner.Hex()},
			{"State", state.String()},
			{"Phase", phase.String()},
			{"Rate", fmt.Sprintf("%s STEW per coin", rate)},
			{"Minimum purchase", formatCoins(minimum)},
			{"Available", formatSTEW(ctx, stew, available)},
			{"Raised", formatCoins(backend.BalanceAt(s.Address))},
		}))
		return nil
	},
}

// ── whitelist ─────────────────────────────────────────────────────────────────

var saleWhitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Manage presale buyers",
}

var saleWhitelistAddCmd = &cobra.Command{
	Use:   "add <account>...",
	Short: "Whitelist accounts in one transaction (owner only)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSale()
		if err != nil {
			return err
		}
		addrs := make([]common.Address, 0, len(args))
		for _, a := range args {
			addr, err := resolveAccount(a)
			if err != nil {
				return err
			}
			addrs = append(addrs, addr)
		}
		opts, err := txOpts()
		if err != nil {
			return err
		}
		receipt, err := s.AddWhitelistAddresses(cmd.Context(), opts, addrs)
		return report(fmt.Sprintf("whitelisted %d account(s)", len(addrs)), receipt, err)
	},
}

var saleWhitelistCheckCmd = &cobra.Command{
	Use:   "check <account>",
	Short: "Report whether an account is whitelisted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSale()
		if err != nil {
			return err
		}
		addr, err := resolveAccount(args[0])
		if err != nil {
			return err
		}
		ok, err := s.IsAddressWhiteListed(cmd.Context(), addr)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", ui.Addr(addr.Hex()), ui.Status(ok))
		return nil
	},
}

// ── lifecycle ─────────────────────────────────────────────────────────────────

type saleAction func(*contract.SaleBNBSTEW, context.Context, *contract.TransactOpts) (*types.Receipt, error)

// lifecycleCmd builds an owner-only command that sends one no-argument
// sale transaction.
func lifecycleCmd(use, short, done string, fn saleAction) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSale()
			if err != nil {
				return err
			}
			opts, err := txOpts()
			if err != nil {
				return err
			}
			receipt, err := fn(s, cmd.Context(), opts)
			return report(done, receipt, err)
		},
	}
}

var (
	saleStartCmd   = lifecycleCmd("start", "Open the sale (owner only)", "sale started", (*contract.SaleBNBSTEW).StartSale)
	salePauseCmd   = lifecycleCmd("pause", "Pause an active sale (owner only)", "sale paused", (*contract.SaleBNBSTEW).PauseSale)
	saleUnpauseCmd = lifecycleCmd("unpause", "Resume a paused sale (owner only)", "sale resumed", (*contract.SaleBNBSTEW).UnPauseSale)
	saleEndCmd     = lifecycleCmd("end", "End the sale permanently (owner only)", "sale ended", (*contract.SaleBNBSTEW).EndSale)
	saleToggleCmd  = lifecycleCmd("toggle", "Switch between presale and public phase (owner only)", "sale phase toggled", (*contract.SaleBNBSTEW).ToggleSalePreToPublic)
)

// ── buy / withdraw / reclaim ──────────────────────────────────────────────────

var saleBuyCmd = &cobra.Command{
	Use:     "buy <coins>",
	Short:   "Buy STEW with native coin",
	Args:    cobra.ExactArgs(1),
	Example: `  stewsale sale buy 2 --from whitelist1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := loadSale()
		if err != nil {
			return err
		}
		stew, err := loadSTEW()
		if err != nil {
			return err
		}
		opts, err := payOpts(args[0])
		if err != nil {
			return err
		}
		before, err := stew.BalanceOf(ctx, opts.Signer.Address())
		if err != nil {
			return err
		}
		receipt, err := s.BuySTEWs(ctx, opts)
		if err != nil {
			return report("buy", receipt, err)
		}
		after, err := stew.BalanceOf(ctx, opts.Signer.Address())
		if err != nil {
			return err
		}
		return report(fmt.Sprintf("bought %s for %s BNB", formatSTEW(ctx, stew, after.Sub(after, before)), args[0]), receipt, nil)
	},
}

var saleWithdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Send the raised coins to the sale owner (owner only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSale()
		if err != nil {
			return err
		}
		raised := backend.BalanceAt(s.Address)
		if !confirmed(saleYes, fmt.Sprintf("Withdraw %s from the sale?", formatCoins(raised))) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		opts, err := txOpts()
		if err != nil {
			return err
		}
		receipt, err := s.WithdrawBNBs(cmd.Context(), opts)
		return report("withdrew "+formatCoins(raised), receipt, err)
	},
}

var saleReclaimCmd = &cobra.Command{
	Use:   "reclaim",
	Short: "Return the unsold STEW to the sale owner (owner only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := loadSale()
		if err != nil {
			return err
		}
		stew, err := loadSTEW()
		if err != nil {
			return err
		}
		available, err := s.AvailableSTEWs(ctx)
		if err != nil {
			return err
		}
		if !confirmed(saleYes, fmt.Sprintf("Reclaim %s from the sale?", formatSTEW(ctx, stew, available))) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		opts, err := txOpts()
		if err != nil {
			return err
		}
		receipt, err := s.TransferSTEWs(ctx, opts)
		return report("reclaimed "+formatSTEW(ctx, stew, available), receipt, err)
	},
}

func init() {
	saleWithdrawCmd.Flags().BoolVarP(&saleYes, "yes", "y", false, "skip confirmation")
	saleReclaimCmd.Flags().BoolVarP(&saleYes, "yes", "y", false, "skip confirmation")

	saleWhitelistCmd.AddCommand(saleWhitelistAddCmd, saleWhitelistCheckCmd)
	saleCmd.AddCommand(
		saleDeployCmd,
		saleStatusCmd,
		saleWhitelistCmd,
		saleStartCmd,
		salePauseCmd,
		saleUnpauseCmd,
		saleEndCmd,
		saleToggleCmd,
		saleBuyCmd,
		saleWithdrawCmd,
		saleReclaimCmd,
	)
}
