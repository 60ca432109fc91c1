package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sleep-spectra/internal/app"
)

var (
	periodogramSource  string
	periodogramMaxFreq float64
)

// periodogramCmd represents the periodogram command
var periodogramCmd = &cobra.Command{
	Use:   "periodogram <subject>",
	Short: "Compute chunked Lomb-Scargle periodograms for a subject",
	Long: `Split a subject's series into overlapping fixed-interval chunks and
evaluate a Lomb-Scargle periodogram of each chunk on a shared frequency grid.

The first chunk covers the first 20 seconds; every later chunk is 30 seconds
long and overlaps its predecessor by 10 seconds.

Examples:
  # Periodograms of the derivative series
  sleepspec periodogram 1066528

  # Periodograms of the raw magnitude up to 5 rad/s
  sleepspec periodogram --source magnitude --max-freq 5 1066528`,
	Args: cobra.ExactArgs(1),
	RunE: runPeriodogram,
}

func init() {
	rootCmd.AddCommand(periodogramCmd)

	periodogramCmd.Flags().StringVar(&periodogramSource, "source", app.SourceDerivative,
		"input series (derivative, magnitude)")
	periodogramCmd.Flags().Float64Var(&periodogramMaxFreq, "max-freq", 0,
		"upper angular frequency of the grid (default from config)")
}

func runPeriodogram(cmd *cobra.Command, args []string) error {
	featureApp, err := newApp()
	if err != nil {
		return err
	}
	return featureApp.RunPeriodogram(args[0], periodogramRequest())
}

// periodogramRequest builds the request from the command flags. A zero
// --max-freq leaves the bound to spectral.max_freq.
func periodogramRequest() app.PeriodogramRequest {
	return app.PeriodogramRequest{
		Source:       periodogramSource,
		MaxFrequency: periodogramMaxFreq,
	}
}
