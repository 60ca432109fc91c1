package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sleep-spectra/configs"
	"github.com/RyanBlaney/sleep-spectra/pkg/actigraphy/config"
)

// Profile is an extraction profile file. Fields present in the file
// override the base configuration; absent fields keep their base value.
type Profile struct {
	Name        string               `json:"name" yaml:"name"`
	Description string               `json:"description" yaml:"description"`
	Features    config.FeatureConfig `json:"features" yaml:"features"`
}

// loadProfileFromFile loads an extraction profile over base
func loadProfileFromFile(filePath string, base config.FeatureConfig) (*Profile, error) {
	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("profile file does not exist: %s", filePath)
	}

	data, err := readFile(filePath)
	if err != nil {
		return nil, err
	}

	// Determine file format
	switch filepath.Ext(filePath) {
	case ".yaml", ".yml":
		return decodeProfileYAML(data, base)
	case ".json":
		return decodeProfileJSON(data, base)
	default:
		// Try YAML first, then JSON
		if profile, err := decodeProfileYAML(data, base); err == nil {
			return profile, nil
		}
		return decodeProfileJSON(data, base)
	}
}

func readFile(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	return data, nil
}

func decodeProfileYAML(data []byte, base config.FeatureConfig) (*Profile, error) {
	profile := &Profile{Features: base}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML profile: %w", err)
	}
	return profile, nil
}

func decodeProfileJSON(data []byte, base config.FeatureConfig) (*Profile, error) {
	profile := &Profile{Features: base}
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse JSON profile: %w", err)
	}
	return profile, nil
}

// loadAndMergeConfig resolves the application configuration and the
// pipeline configuration, applying the optional profile file last.
func loadAndMergeConfig(ctx *Context) (*configs.Config, config.FeatureConfig, error) {
	cfg := ctx.Config
	if cfg == nil {
		var err error
		cfg, err = configs.LoadConfig()
		if err != nil {
			return nil, config.FeatureConfig{}, fmt.Errorf("failed to load base configuration: %w", err)
		}
	}

	if ctx.OutputFormat != "" {
		cfg.OutputFormat = ctx.OutputFormat
	}
	if ctx.MaxConcurrent > 0 {
		cfg.Batch.MaxConcurrency = ctx.MaxConcurrent
	}

	if err := configs.ValidateConfig(cfg); err != nil {
		return nil, config.FeatureConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	features := cfg.FeatureConfig()
	if ctx.ProfileFile != "" {
		profile, err := loadProfileFromFile(ctx.ProfileFile, features)
		if err != nil {
			return nil, config.FeatureConfig{}, fmt.Errorf("failed to load profile: %w", err)
		}
		features = profile.Features
		if err := features.Validate(); err != nil {
			return nil, config.FeatureConfig{}, fmt.Errorf("invalid profile %q: %w", profile.Name, err)
		}
		if err := features.ValidateClasses(); err != nil {
			return nil, config.FeatureConfig{}, fmt.Errorf("invalid profile %q: %w", profile.Name, err)
		}
	}

	return cfg, features, nil
}
