package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"carnorm/internal/config"
	"carnorm/internal/logging"
)

// getWorkDir returns the directory whose .carnorm/ config applies.
func getWorkDir() (string, error) {
	return os.Getwd()
}

// loadConfig loads the effective configuration: defaults, then the config
// file, then CARNORM_* variables, then the persistent log flags.
func loadConfig() (*config.Config, error) {
	dir, err := getWorkDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	if logFormatFlag != "" {
		cfg.Logging.Format = logFormatFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the command logger. Logs go to the command's stderr so
// stdout only carries results.
func newLogger(cmd *cobra.Command, cfg *config.Config) *logging.Logger {
	level, _ := logging.ParseLevel(cfg.Logging.Level)
	return logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  level,
		Output: cmd.ErrOrStderr(),
	})
}
