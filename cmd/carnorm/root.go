package main

import (
	"github.com/spf13/cobra"

	"carnorm/internal/version"
)

var (
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "carnorm",
	Short: "carnorm - car record normalizer",
	Long: `carnorm reads a JSON array of loosely typed car records, coerces every
field into a strict canonical form, sorts the records by model year,
horsepower and name, and writes them back out as canonical JSON (or YAML or
TOML).`,
	Version:       version.Info(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("carnorm version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn or error (default from config)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json (default from config)")
}
