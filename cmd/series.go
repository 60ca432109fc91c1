package cmd

import (
	"github.com/spf13/cobra"
)

var seriesNonNegative bool

// seriesCmd represents the series command
var seriesCmd = &cobra.Command{
	Use:   "series <subject>",
	Short: "Summarize a subject's preprocessed series",
	Long: `Load a subject's acceleration recording, compute the magnitude and
derivative series and print their summary.

Examples:
  sleepspec series 1066528

  # Keep samples recorded before time zero
  sleepspec series --non-negative=false 1066528`,
	Args: cobra.ExactArgs(1),
	RunE: runSeries,
}

func init() {
	rootCmd.AddCommand(seriesCmd)

	seriesCmd.Flags().BoolVar(&seriesNonNegative, "non-negative", true,
		"drop samples with negative timestamps")
}

func runSeries(cmd *cobra.Command, args []string) error {
	featureApp, err := newApp()
	if err != nil {
		return err
	}
	return featureApp.RunSeries(args[0])
}
