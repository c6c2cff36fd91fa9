package cli

import (
	"github.com/felixgeelhaar/triage/internal/ranking/application"
	"github.com/felixgeelhaar/triage/internal/ranking/domain"
	"github.com/spf13/cobra"
)

var analyzeStrategy string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Rank tasks by priority score",
	Long: `Rank every task in the batch, highest score first, with a score breakdown
and explanation per task. Circular dependencies are reported as warnings.

--strategy overrides a strategy given in the file. Unknown names fall back
to smart_balance.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(outputFormat); err != nil {
			return err
		}
		a, err := requireApp()
		if err != nil {
			return err
		}

		batch, err := readBatch(cmd, args)
		if err != nil {
			return err
		}
		if analyzeStrategy != "" {
			batch.Strategy = analyzeStrategy
		}

		result, err := a.Analyzer.Analyze(cmd.Context(), application.AnalyzeRequest{
			Tasks:    batch.Tasks,
			Strategy: batch.Strategy,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if done, err := writeStructured(out, outputFormat, result); done {
			return err
		}
		strategy, _ := domain.ParseStrategy(result.StrategyUsed)
		return renderAnalysis(out, result, strategy.Description())
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeStrategy, "strategy", "s", "", "smart_balance, fastest_wins, high_impact or deadline_driven")
	rootCmd.AddCommand(analyzeCmd)
}
