// Package config loads the training and serving configuration from YAML,
// layering file values over compiled-in defaults.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/socialpulse/addictml/bundle"
	"github.com/socialpulse/addictml/pkg/errors"
)

// Config drives both the train and predict commands.
//
// Thread Safety: safe to read concurrently, not safe to modify after Load.
type Config struct {
	// Data contains dataset input settings.
	Data DataConfig `yaml:"data"`

	// Training contains split and cross-validation settings.
	Training TrainingConfig `yaml:"training"`

	// Output contains artifact destinations.
	Output OutputConfig `yaml:"output"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// DataConfig contains dataset input settings.
type DataConfig struct {
	// Path is the CSV file holding one student per row.
	Path string `yaml:"path" validate:"required"`

	// TargetColumn names the column holding the addiction score.
	TargetColumn string `yaml:"target_column" validate:"required"`
}

// TrainingConfig contains split and cross-validation settings.
type TrainingConfig struct {
	TestSize float64 `yaml:"test_size" validate:"gt=0,lt=1"`
	Seed     uint64  `yaml:"seed"`
	CVFolds  int     `yaml:"cv_folds" validate:"gte=2"`
}

// OutputConfig contains artifact destinations.
type OutputConfig struct {
	// ModelPath is where the winning model package is persisted.
	ModelPath string `yaml:"model_path" validate:"required"`

	// ChartPath is where the comparison chart is written. Empty skips
	// the chart.
	ChartPath string `yaml:"chart_path"`
}

// Default returns the canonical configuration: 80/20 split, seed 42,
// five-fold CV, artifacts in the working directory.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Path:         "students.csv",
			TargetColumn: "Addicted_Score",
		},
		Training: TrainingConfig{
			TestSize: 0.2,
			Seed:     42,
			CVFolds:  5,
		},
		Output: OutputConfig{
			ModelPath: bundle.DefaultPath,
			ChartPath: "model_comparison.png",
		},
		LogLevel: "info",
	}
}

// Load reads path and overlays it on the defaults. An empty path returns
// the defaults untouched.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural constraints on the loaded values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}
