package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"carnorm/internal/config"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect carnorm configuration",
	Long:  "View the configuration loaded from .carnorm/config.{json,yaml,toml} and CARNORM_* variables",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the configuration after defaults, the config file, environment
variables and command-line flags have been applied.

Examples:
  carnorm config show
  carnorm config show --format json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Args:  cobra.NoArgs,
	Run:   runConfigEnv,
}

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "human", "Output format (human, json)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEnvCmd)
	rootCmd.AddCommand(configCmd)
}

// configEntry is one leaf setting.
type configEntry struct {
	Key     string
	Value   interface{}
	Default interface{}
}

func configEntries(cfg, defaults *config.Config) []configEntry {
	return []configEntry{
		{"version", cfg.Version, defaults.Version},
		{"logging.format", cfg.Logging.Format, defaults.Logging.Format},
		{"logging.level", cfg.Logging.Level, defaults.Logging.Level},
		{"output.format", cfg.Output.Format, defaults.Output.Format},
		{"output.indent", cfg.Output.Indent, defaults.Output.Indent},
		{"serve.host", cfg.Serve.Host, defaults.Serve.Host},
		{"serve.port", cfg.Serve.Port, defaults.Serve.Port},
		{"serve.assetsDir", cfg.Serve.AssetsDir, defaults.Serve.AssetsDir},
		{"serve.maxBodyBytes", cfg.Serve.MaxBodyBytes, defaults.Serve.MaxBodyBytes},
		{"input.maxBytes", cfg.Input.MaxBytes, defaults.Input.MaxBytes},
		{"watch.debounceMs", cfg.Watch.DebounceMs, defaults.Watch.DebounceMs},
	}
}


func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "human", "":
		printConfigHuman(cmd.OutOrStdout(), cfg)
	default:
		return fmt.Errorf("unsupported format %q (use human or json)", configFormat)
	}
	return nil
}

func printConfigHuman(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "carnorm configuration")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, e := range configEntries(cfg, config.DefaultConfig()) {
		marker := ""
		if fmt.Sprintf("%v", e.Value) != fmt.Sprintf("%v", e.Default) {
			marker = "  (modified)"
		}
		fmt.Fprintf(w, "  %-20s %v%s\n", e.Key, e.Value, marker)
	}
}

func runConfigEnv(cmd *cobra.Command, args []string) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Supported environment variables:")
	defaults := config.DefaultConfig()
	for _, e := range configEntries(defaults, defaults) {
		if e.Key == "version" {
			continue
		}
		fmt.Fprintf(w, "  %-28s %s (default %v)\n", config.EnvName(e.Key), e.Key, e.Default)
	}
}
