package cli

import (
	"github.com/spf13/cobra"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List scoring strategies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(outputFormat); err != nil {
			return err
		}
		a, err := requireApp()
		if err != nil {
			return err
		}

		strategies := a.Analyzer.Strategies()
		out := cmd.OutOrStdout()
		if done, err := writeStructured(out, outputFormat, strategies); done {
			return err
		}
		return renderStrategies(out, strategies)
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
