// Package config - environment-driven configuration for the diagnosis CLI
// and server.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config carries every tunable the binaries read. Model paths are the only
// required values; everything else has a working default.
type Config struct {
	ClassifierPath   string
	SegmentationPath string
	LabelsPath       string

	InputSize           int
	ConfidenceThreshold float32
	MaxPredictions      int
	ApplySigmoid        bool

	Port        int
	HistorySize int
	LogLevel    slog.Level
}

// Load reads configuration from the environment, merging an optional .env
// file first. A missing .env is not an error.
//
// Returns:
//   - The resolved configuration.
//   - An error if a set variable fails to parse.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ClassifierPath:      os.Getenv("LEAFLENS_CLASSIFIER_PATH"),
		SegmentationPath:    os.Getenv("LEAFLENS_SEGMENTATION_PATH"),
		LabelsPath:          os.Getenv("LEAFLENS_LABELS_PATH"),
		InputSize:           224,
		ConfidenceThreshold: 0.3,
		MaxPredictions:      5,
		Port:                8080,
		HistorySize:         256,
		LogLevel:            slog.LevelInfo,
	}

	var err error
	if cfg.InputSize, err = intEnv("LEAFLENS_INPUT_SIZE", cfg.InputSize); err != nil {
		return nil, err
	}
	if cfg.MaxPredictions, err = intEnv("LEAFLENS_MAX_PREDICTIONS", cfg.MaxPredictions); err != nil {
		return nil, err
	}
	if cfg.Port, err = intEnv("LEAFLENS_PORT", cfg.Port); err != nil {
		return nil, err
	}
	if cfg.HistorySize, err = intEnv("LEAFLENS_HISTORY_SIZE", cfg.HistorySize); err != nil {
		return nil, err
	}
	if cfg.ConfidenceThreshold, err = floatEnv("LEAFLENS_CONFIDENCE_THRESHOLD", cfg.ConfidenceThreshold); err != nil {
		return nil, err
	}
	if cfg.ApplySigmoid, err = boolEnv("LEAFLENS_APPLY_SIGMOID", false); err != nil {
		return nil, err
	}
	if level := os.Getenv("LEAFLENS_LOG_LEVEL"); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return nil, errors.Wrapf(err, "config: invalid LEAFLENS_LOG_LEVEL %q", level)
		}
	}
	return cfg, nil
}

// Logger builds a JSON logger at the configured level.
func (c *Config) Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.LogLevel}))
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "config: invalid %s %q", key, raw)
	}
	return v, nil
}

func floatEnv(key string, fallback float32) (float32, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "config: invalid %s %q", key, raw)
	}
	return float32(v), nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Wrapf(err, "config: invalid %s %q", key, raw)
	}
	return v, nil
}
