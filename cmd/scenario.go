package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mohsinsiddi/stewsale/internal/scenario"
	"github.com/Mohsinsiddi/stewsale/internal/ui"
	"github.com/spf13/cobra"
)

var scenarioShowTxs bool

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Replay end-to-end ledger and sale flows",
	Long: `Replay end-to-end flows against a throwaway devnet. The persisted devnet
is never touched.`,
}

var scenarioListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List the available scenarios",
	Annotations: map[string]string{annotationNoDevnet: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		t := ui.NewTable([]ui.Column{
			{Title: "NAME", Width: 10},
			{Title: "STEPS", Width: 6},
			{Title: "DESCRIPTION", Width: 60},
		})
		for _, sc := range scenario.All() {
			t.AddRow(ui.Row{sc.Name, fmt.Sprintf("%d", len(sc.Steps)), sc.Description})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var scenarioRunCmd = &cobra.Command{
	Use:         "run [name...]",
	Short:       "Run scenarios (all when no name is given)",
	Annotations: map[string]string{annotationNoDevnet: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		var selected []scenario.Scenario
		if len(args) == 0 {
			selected = scenario.All()
		}
		for _, name := range args {
			sc, ok := scenario.Get(name)
			if !ok {
				return fmt.Errorf("unknown scenario %q", name)
			}
			selected = append(selected, sc)
		}

		runner := scenario.NewRunner(cfg, logger)
		var failed []string
		for _, sc := range selected {
			rep, err := runner.Run(cmd.Context(), sc)
			if err != nil {
				return err
			}
			printReport(sc, rep)
			if !rep.Passed() {
				failed = append(failed, sc.Name)
			}
		}
		if len(failed) > 0 {
			return errors.New("failed scenarios: " + strings.Join(failed, ", "))
		}
		return nil
	},
}

func printReport(sc scenario.Scenario, rep scenario.Report) {
	fmt.Printf("%s  %s\n\n", ui.StyleTitle.Render(sc.Name), ui.Meta(sc.Description))

	t := ui.NewTable([]ui.Column{
		{Title: "", Width: 2},
		{Title: "STEP", Width: 48},
		{Title: "DETAIL", Width: 44},
		{Title: "TIME", Width: 8},
	})
	for _, r := range rep.Results {
		mark := ui.Status(r.Passed)
		if r.Skipped {
			mark = ui.Meta("-")
		}
		t.AddRow(ui.Row{mark, r.Name, r.Detail, r.Duration.Round(time.Microsecond).String()})
	}
	fmt.Println(t.Render())

	passed, failed, skipped := rep.Counts()
	summary := fmt.Sprintf("%d passed, %d failed, %d skipped, %d transactions", passed, failed, skipped, len(rep.Records))
	if rep.Passed() {
		fmt.Println(ui.Success(summary))
	} else {
		fmt.Println(ui.Err(summary))
	}
	if scenarioShowTxs {
		fmt.Println(ui.RecordTable(rep.Records).Render())
	}
	fmt.Println()
}

func init() {
	scenarioRunCmd.Flags().BoolVar(&scenarioShowTxs, "txs", false, "print every transaction the scenario mined")
	scenarioCmd.AddCommand(scenarioListCmd, scenarioRunCmd)
}
