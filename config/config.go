// Package config loads the imgreport run configuration. All settings
// live in one explicit object handed to the pipeline; there is no
// package-global state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds one invocation's settings. Flag values from the CLI
// override anything loaded from file.
type Config struct {
	File            string `yaml:"file"`             // source file name in Drive
	Bucket          string `yaml:"bucket"`           // archival GCS bucket
	Folder          string `yaml:"folder"`           // object name prefix, may be empty
	SheetID         string `yaml:"sheet_id"`         // target spreadsheet ID
	SheetRange      string `yaml:"sheet_range"`      // append range, defaults to Sheet1
	TopLabels       int    `yaml:"top_labels"`       // label count requested from Vision
	CredentialsFile string `yaml:"credentials_file"` // service account key, env-expanded
	APIKey          string `yaml:"api_key"`          // Gemini + Static Maps key, env-expanded
	GenAIModel      string `yaml:"genai_model"`      // Gemini model override
}

// Default returns a configuration with the standard defaults applied.
func Default() *Config {
	return &Config{TopLabels: 5}
}

// LoadFromFile loads a configuration from a YAML file, applying defaults
// for absent fields and expanding environment references in credential
// fields.
func LoadFromFile(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.CredentialsFile = os.ExpandEnv(cfg.CredentialsFile)
	cfg.APIKey = os.ExpandEnv(cfg.APIKey)
	return cfg, nil
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if c.File == "" {
		return fmt.Errorf("'file' is required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("'bucket' is required")
	}
	if c.SheetID == "" {
		return fmt.Errorf("'sheet_id' is required")
	}
	if c.TopLabels <= 0 {
		return fmt.Errorf("'top_labels' must be positive, got %d", c.TopLabels)
	}
	return nil
}
