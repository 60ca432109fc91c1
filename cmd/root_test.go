package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sleep-spectra/configs"
	"github.com/RyanBlaney/sleep-spectra/internal/app"
	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
)

func resetFlags(t *testing.T, flags *pflag.FlagSet, name, value string) {
	t.Helper()
	t.Cleanup(func() {
		flags.Set(name, value)
		flags.VisitAll(func(f *pflag.Flag) { f.Changed = false })
	})
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"features", "periodogram", "transform", "series", "batch", "config"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestBindFlagsOverridesConfig(t *testing.T) {
	v := viper.New()
	require.NoError(t, batchCmd.Flags().Set("max-concurrency", "7"))
	t.Cleanup(func() {
		batchCmd.Flags().Set("max-concurrency", "0")
		batchCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	})

	require.NoError(t, bindFlags(batchCmd, v))

	cfg, err := configs.LoadConfigFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Batch.MaxConcurrency)
	assert.Equal(t, "two_class", cfg.Labels.Scheme)
}

func TestBindFlagsKeepsDefaultsWhenUnset(t *testing.T) {
	v := viper.New()
	require.NoError(t, bindFlags(batchCmd, v))
	require.NoError(t, bindFlags(seriesCmd, v))

	cfg, err := configs.LoadConfigFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrency)
	assert.True(t, cfg.Data.NonNegative)
	assert.Equal(t, configs.GetDefaultConfig().Spectral.MaxFrequency, cfg.Spectral.MaxFrequency)
}

func TestBindFlagsNonNegative(t *testing.T) {
	v := viper.New()
	require.NoError(t, seriesCmd.Flags().Set("non-negative", "false"))
	resetFlags(t, seriesCmd.Flags(), "non-negative", "true")

	require.NoError(t, bindFlags(seriesCmd, v))

	cfg, err := configs.LoadConfigFrom(v)
	require.NoError(t, err)
	assert.False(t, cfg.Data.NonNegative)
}

func TestPeriodogramRequestMaxFrequency(t *testing.T) {
	assert.Equal(t, app.PeriodogramRequest{Source: app.SourceDerivative}, periodogramRequest())

	require.NoError(t, periodogramCmd.Flags().Set("max-freq", "5"))
	require.NoError(t, periodogramCmd.Flags().Set("source", app.SourceMagnitude))
	resetFlags(t, periodogramCmd.Flags(), "max-freq", "0")
	t.Cleanup(func() { periodogramSource = app.SourceDerivative })

	assert.Equal(t, app.PeriodogramRequest{Source: app.SourceMagnitude, MaxFrequency: 5}, periodogramRequest())
}

func TestTransformDecibelDefaultsFromConfig(t *testing.T) {
	features := config.DefaultFeatureConfig()
	assert.True(t, transformOptions(transformCmd, features).Decibel)

	features.Spectral.Decibel = false
	assert.False(t, transformOptions(transformCmd, features).Decibel)

	require.NoError(t, transformCmd.Flags().Set("db", "true"))
	require.NoError(t, transformCmd.Flags().Set("mean", "true"))
	resetFlags(t, transformCmd.Flags(), "db", "false")
	t.Cleanup(func() { transformMean = false })

	opts := transformOptions(transformCmd, features)
	assert.True(t, opts.Decibel)
	assert.True(t, opts.Mean)

	features.Spectral.Decibel = true
	require.NoError(t, transformCmd.Flags().Set("db", "false"))
	assert.False(t, transformOptions(transformCmd, features).Decibel)
}

func TestTransformRequiresRange(t *testing.T) {
	err := transformCmd.PreRunE(transformCmd, []string{"1"})
	assert.Error(t, err)
}

func TestConfigCommandPrintsYAML(t *testing.T) {
	var out bytes.Buffer
	configCmd.SetOut(&out)
	t.Cleanup(func() { configCmd.SetOut(nil) })

	require.NoError(t, runConfig(configCmd, nil))
	assert.Contains(t, out.String(), "nperseg: 128")
	assert.Contains(t, out.String(), "scheme: two_class")
}
