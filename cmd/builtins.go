package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/stewsale/internal/contract"
	"github.com/Mohsinsiddi/stewsale/internal/ui"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:         "builtins [id]",
	Short:       "List the built-in contracts and their methods",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationNoDevnet: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := contract.AllBuiltins()
		if len(args) == 1 {
			b, ok := contract.GetBuiltin(args[0])
			if !ok {
				return fmt.Errorf("unknown builtin %q", args[0])
			}
			kinds = []contract.BuiltinKind{b}
		}

		for _, b := range kinds {
			fmt.Printf("%s  %s\n", ui.StyleTitle.Render(b.ID), ui.Meta(b.Name))
			fmt.Println(ui.Meta("  " + b.Description))
			t := ui.NewTable([]ui.Column{
				{Title: "SELECTOR", Width: 10},
				{Title: "SIGNATURE", Width: 44},
				{Title: "MUTABILITY", Width: 10},
			})
			for _, m := range contract.Summarize(b.ABI) {
				t.AddRow(ui.Row{m.Selector, m.Signature, m.StateMutability})
			}
			fmt.Println(t.Render())
		}
		return nil
	},
}
