package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/stewsale/internal/ui"
	"github.com/spf13/cobra"
)

var accountYes bool

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Inspect and manage devnet accounts",
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts with their coin and STEW balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		list, err := wallets.List()
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println(ui.Meta("No accounts. Run `stewsale init`."))
			return nil
		}
		stew, _ := loadSTEW()

		t := ui.NewTable([]ui.Column{
			{Title: "ACCOUNT", Width: 12},
			{Title: "ADDRESS", Width: 42},
			{Title: "BNB", Width: 24},
			{Title: "STEW", Width: 28},
		})
		for _, w := range list {
			name := w.Name
			if name == fromAcct {
				name += " *"
			}
			stewBal := "-"
			if stew != nil {
				bal, err := stew.BalanceOf(ctx, w.Address)
				if err != nil {
					return err
				}
				stewBal = formatSTEW(ctx, stew, bal)
			}
			t.AddRow(ui.Row{name, w.Address.Hex(), formatCoins(backend.BalanceAt(w.Address)), stewBal})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var accountRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Forget an account and delete its key",
	Long: `Forget an account and delete its key from the keyring.

Coins and STEW held by the address stay on the devnet but can no longer
be moved. ` + "`stewsale init --force`" + ` recreates configured accounts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		w, err := wallets.Get(name)
		if err != nil {
			return fmt.Errorf("unknown account %q: %w", name, err)
		}
		if !confirmed(accountYes, fmt.Sprintf("Delete the key for %s (%s)?", name, w.Address.Hex())) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		if err := wallets.Remove(name); err != nil {
			return fmt.Errorf("removing %s: %w", name, err)
		}
		fmt.Println(ui.Success("removed account " + name))
		return nil
	},
}

func init() {
	accountRemoveCmd.Flags().BoolVarP(&accountYes, "yes", "y", false, "skip confirmation")
	accountCmd.AddCommand(accountListCmd, accountRemoveCmd)
}
