package cli

import (
	"fmt"

	"github.com/felixgeelhaar/triage/internal/ranking/application"
	"github.com/spf13/cobra"
)

var (
	suggestCount int
	suggestDemo  bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [file|-]",
	Short: "Suggest the tasks to work on next",
	Long: `Suggest the top tasks from the batch, ranked with smart_balance, each with
the reasons it was picked. --demo uses a built-in sample batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(outputFormat); err != nil {
			return err
		}
		if suggestCount < 0 {
			return fmt.Errorf("--count must not be negative")
		}
		a, err := requireApp()
		if err != nil {
			return err
		}

		var batch application.Batch
		if suggestDemo {
			batch.Tasks = a.Analyzer.DemoTasks()
		} else if batch, err = readBatch(cmd, args); err != nil {
			return err
		}
		if suggestCount > 0 {
			batch.Count = suggestCount
		}

		result, err := a.Analyzer.Suggest(cmd.Context(), application.SuggestRequest{
			Tasks: batch.Tasks,
			Count: batch.Count,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if done, err := writeStructured(out, outputFormat, result); done {
			return err
		}
		return renderSuggestions(out, result)
	},
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestCount, "count", "n", 0, "number of suggestions (default from TRIAGE_SUGGESTION_COUNT)")
	suggestCmd.Flags().BoolVar(&suggestDemo, "demo", false, "use the built-in sample tasks")
	rootCmd.AddCommand(suggestCmd)
}
