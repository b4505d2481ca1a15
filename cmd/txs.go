package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	"github.com/Mohsinsiddi/stewsale/internal/ui"
	"github.com/spf13/cobra"
)

var (
	txsLast   int
	txsPlain  bool
	txsFailed bool
)

var txsCmd = &cobra.Command{
	Use:   "txs",
	Short: "Browse mined transactions",
	Long: `Browse the transactions mined on the devnet. Opens an interactive
browser unless --plain is given or there is nothing to show.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records := backend.Records()
		if txsFailed {
			var only []chain.Record
			for _, r := range records {
				if !r.Success() {
					only = append(only, r)
				}
			}
			records = only
		}
		if txsLast > 0 && len(records) > txsLast {
			records = records[len(records)-txsLast:]
		}

		if len(records) == 0 {
			fmt.Println(ui.Meta("No transactions found."))
			return nil
		}
		title := fmt.Sprintf("Transactions (chain %d, block %d)", cfg.ChainID, backend.BlockNumber())
		if !txsPlain {
			return ui.RunTxList(title, records)
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render(title))
		fmt.Println(ui.RecordTable(records).Render())
		return nil
	},
}

func init() {
	txsCmd.Flags().IntVarP(&txsLast, "last", "n", 0, "only the most recent n transactions")
	txsCmd.Flags().BoolVar(&txsPlain, "plain", false, "print a table instead of the interactive browser")
	txsCmd.Flags().BoolVar(&txsFailed, "failed", false, "only reverted transactions")
}
