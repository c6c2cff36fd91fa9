package cli

import (
	"github.com/spf13/cobra"
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles [file|-]",
	Short: "Report circular dependencies",
	Long:  "Report circular dependencies in the batch. Cycles are advisory: the command succeeds either way.",
	Args:  cobra.MaximumNArgs(1),
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

		warnings, err := a.Analyzer.DetectCycles(cmd.Context(), batch.Tasks)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if done, err := writeStructured(out, outputFormat, map[string][]string{"warnings": warnings}); done {
			return err
		}
		return renderCycles(out, warnings)
	},
}

func init() {
	rootCmd.AddCommand(cyclesCmd)
}
