package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sleep-spectra/internal/sleep"
	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
)

var (
	transformStart   float64
	transformStop    float64
	transformDecibel bool
	transformMean    bool
)

// transformCmd represents the transform command
var transformCmd = &cobra.Command{
	Use:   "transform <subject>",
	Short: "Compute the STFT of one time range of a subject",
	Long: `Compute the short-time Fourier transform of the derivative samples whose
timestamps fall in [start, stop].

Without --mean the full frequency by time matrix is returned.

Examples:
  # Time-averaged decibel profile of the first scored epoch
  sleepspec transform --start 0 --stop 30 --db --mean 1066528

  # Magnitude spectrogram of a 2 minute range
  sleepspec transform --start 600 --stop 720 1066528`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("start") || !cmd.Flags().Changed("stop") {
			return fmt.Errorf("--start and --stop are required")
		}
		return nil
	},
	RunE: runTransform,
}

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().Float64Var(&transformStart, "start", 0,
		"range start in seconds")
	transformCmd.Flags().Float64Var(&transformStop, "stop", 0,
		"range stop in seconds, inclusive")
	transformCmd.Flags().BoolVar(&transformDecibel, "db", false,
		"convert magnitudes to decibels (default from spectral.decibel)")
	transformCmd.Flags().BoolVar(&transformMean, "mean", false,
		"average over time frames")
}

func runTransform(cmd *cobra.Command, args []string) error {
	featureApp, err := newApp()
	if err != nil {
		return err
	}
	return featureApp.RunTransform(args[0],
		sleep.TransformRange{Start: transformStart, Stop: transformStop},
		transformOptions(cmd, featureApp.Features()),
	)
}

// transformOptions reads --db and --mean. An unset --db follows the
// configured spectral.decibel.
func transformOptions(cmd *cobra.Command, features config.FeatureConfig) sleep.TransformOptions {
	decibel := features.Spectral.Decibel
	if cmd.Flags().Changed("db") {
		decibel = transformDecibel
	}
	return sleep.TransformOptions{Decibel: decibel, Mean: transformMean}
}
