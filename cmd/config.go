package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sleep-spectra/configs"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display the effective configuration",
	Long: `Load the configuration from defaults, the config file, the environment
and flags, validate it and print the result as YAML.

Examples:
  sleepspec config

  # Check an environment override
  SLEEPSPEC_SPECTRAL_NPERSEG=256 SLEEPSPEC_SPECTRAL_NOVERLAP=128 \
    SLEEPSPEC_SPECTRAL_MIN_SEGMENT_LENGTH=256 sleepspec config`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validationErr := configs.ValidateConfig(config)

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(os.Stderr, "# config file: %s\n", used)
	}

	encoder := yaml.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent(2)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	if validationErr != nil {
		return fmt.Errorf("configuration is invalid: %w", validationErr)
	}
	return nil
}
