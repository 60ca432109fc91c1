package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	batchMaxConcurrency int
	batchScheme         string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <subject>...",
	Short: "Compute label-grouped profiles for many subjects in parallel",
	Long: `Run the features pipeline over every listed subject with bounded
parallelism. A failing subject is reported without stopping the others.

Examples:
  sleepspec batch 1066528 46343 8692923

  # Limit to two subjects at a time and keep raw profiles in the output
  sleepspec batch --max-concurrency 2 -v 1066528 46343 8692923`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchMaxConcurrency, "max-concurrency", 0,
		"subjects processed at once (default from config)")
	batchCmd.Flags().StringVar(&batchScheme, "scheme", "",
		"label grouping scheme (two_class, stages)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	featureApp, err := newApp()
	if err != nil {
		return err
	}
	return featureApp.RunBatch(ctx, args)
}
