package cmd

import (
	"github.com/spf13/cobra"
)

var featuresScheme string

// featuresCmd represents the features command
var featuresCmd = &cobra.Command{
	Use:   "features <subject>",
	Short: "Compute label-grouped spectral profiles for a subject",
	Long: `Compute the time-averaged STFT profile of every scored label window of a
subject and group the profiles by sleep class.

Label windows shorter than the minimum segment length are counted but not
transformed.

Examples:
  # Awake/asleep profiles in decibels
  sleepspec features 1066528

  # One class per scored stage, with per-class statistics
  sleepspec features --scheme stages --detailed 1066528`,
	Args: cobra.ExactArgs(1),
	RunE: runFeatures,
}

func init() {
	rootCmd.AddCommand(featuresCmd)

	featuresCmd.Flags().StringVar(&featuresScheme, "scheme", "",
		"label grouping scheme (two_class, stages)")
}

func runFeatures(cmd *cobra.Command, args []string) error {
	featureApp, err := newApp()
	if err != nil {
		return err
	}
	return featureApp.RunFeatures(args[0])
}
