package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sleep-spectra/internal/app"
)

const envPrefix = "SLEEPSPEC"

var (
	configFile   string
	profileFile  string
	outputFile   string
	verbose      bool
	logLevel     string
	outputFormat string
	dataDir      string
	detailed     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sleepspec",
	Short: "Actigraphy spectral feature extraction",
	Long: `Extract spectral features from wrist accelerometer recordings for
sleep/wake classification.

Recordings are read from the data directory as whitespace-separated text
files, one acceleration file and one scored label file per subject.

Key features:
- Derivative of the acceleration magnitude series
- Fixed-interval Lomb-Scargle periodograms
- Label-bounded STFT profiles grouped by sleep class
- Parallel multi-subject batches`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/sleepspec/sleepspec.yaml)")
	rootCmd.PersistentFlags().StringVar(&profileFile, "profile", "",
		"extraction profile file (yaml or json) applied over the config")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"directory holding motion/ and labels/ (default is the working directory)")

	// Output and logging flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json",
		"output format (json, table, csv, yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output-file", "",
		"write results to a file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&detailed, "detailed", false,
		"include per-class summary statistics")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("data.dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

// initConfig reads in .env, the config file and ENV variables if set
func initConfig() {
	// A missing .env is not an error
	_ = godotenv.Load()

	if configFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(configFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".config", "sleepspec"))
		viper.AddConfigPath("/etc/sleepspec")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("sleepspec")
		viper.SetConfigType("yaml")
	}

	// Environment variable support
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}
}

// initializeConfig initializes configuration after flags are parsed
func initializeConfig(cmd *cobra.Command) error {
	// Bind all flags to viper
	return bindFlags(cmd, viper.GetViper())
}

// bindFlags binds each local cobra flag to its viper key and environment
// variable. Flag names map to keys through flagKeys.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}

		// Bind the flag to viper
		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}

		// Bind to environment variable
		envVar := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if err := v.BindEnv(key, envVar); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// flagKeys maps command flags that override configuration to viper keys
var flagKeys = map[string]string{
	"max-concurrency": "batch.max_concurrency",
	"scheme":          "labels.scheme",
	"non-negative":    "data.non_negative",
}

// newAppContext builds the application context shared by every command
func newAppContext() *app.Context {
	return &app.Context{
		ProfileFile:      profileFile,
		OutputFile:       outputFile,
		OutputFormat:     viper.GetString("output_format"),
		Verbose:          viper.GetBool("verbose"),
		DetailedAnalysis: detailed,
	}
}

// newApp creates the feature application for a command
func newApp() (*app.FeatureApp, error) {
	featureApp, err := app.NewFeatureApp(newAppContext())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return featureApp, nil
}

// GetConfig returns the current viper instance
func GetConfig() *viper.Viper {
	return viper.GetViper()
}
