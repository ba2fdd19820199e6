package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"carnorm/internal/export"
	"carnorm/internal/logging"
)

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = 1

// DirName is the per-project config directory.
const DirName = ".carnorm"

// EnvPrefix prefixes environment overrides, e.g. CARNORM_SERVE_PORT.
const EnvPrefix = "CARNORM"

// Config represents the complete carnorm configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
	Output  OutputConfig  `json:"output" mapstructure:"output"`
	Serve   ServeConfig   `json:"serve" mapstructure:"serve"`
	Input   InputConfig   `json:"input" mapstructure:"input"`
	Watch   WatchConfig   `json:"watch" mapstructure:"watch"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// OutputConfig selects how results are rendered
type OutputConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Indent bool   `json:"indent" mapstructure:"indent"`
}

// ServeConfig contains HTTP server configuration
type ServeConfig struct {
	Host         string `json:"host" mapstructure:"host"`
	Port         int    `json:"port" mapstructure:"port"`
	AssetsDir    string `json:"assetsDir" mapstructure:"assetsDir"`
	MaxBodyBytes int64  `json:"maxBodyBytes" mapstructure:"maxBodyBytes"`
}

// InputConfig limits what the file reader accepts
type InputConfig struct {
	MaxBytes int64 `json:"maxBytes" mapstructure:"maxBytes"`
}

// WatchConfig tunes normalize --watch
type WatchConfig struct {
	DebounceMs int `json:"debounceMs" mapstructure:"debounceMs"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
		Output: OutputConfig{
			Format: "json",
			Indent: false,
		},
		Serve: ServeConfig{
			Host:         "localhost",
			Port:         8080,
			MaxBodyBytes: 32 << 20,
		},
		Input: InputConfig{
			MaxBytes: 256 << 20,
		},
		Watch: WatchConfig{
			DebounceMs: 250,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.indent", d.Output.Indent)
	v.SetDefault("serve.host", d.Serve.Host)
	v.SetDefault("serve.port", d.Serve.Port)
	v.SetDefault("serve.assetsDir", d.Serve.AssetsDir)
	v.SetDefault("serve.maxBodyBytes", d.Serve.MaxBodyBytes)
	v.SetDefault("input.maxBytes", d.Input.MaxBytes)
	v.SetDefault("watch.debounceMs", d.Watch.DebounceMs)
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// applyDotEnv copies CARNORM_* values from <dir>/.env into v. Variables
// already set in the process environment win; the environment itself is
// never modified.
func applyDotEnv(v *viper.Viper, dir string) error {
	values, err := godotenv.Read(filepath.Join(dir, ".env"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, key := range v.AllKeys() {
		name := EnvName(key)
		value, ok := values[name]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(key, value)
	}
	return nil
}

// LoadConfig loads configuration from <dir>/.carnorm/config.{json,yaml,toml}
// and applies CARNORM_* overrides from the environment and <dir>/.env.
// Missing files are not an error; defaults and the environment still apply.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(dir, DirName))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	if err := applyDotEnv(v, dir); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to <dir>/.carnorm/config.json
func (c *Config) Save(dir string) error {
	configDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.json"), data, 0o644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}

	switch logging.Format(c.Logging.Format) {
	case logging.HumanFormat, logging.JSONFormat:
	default:
		return &ConfigError{Field: "logging.format", Message: "must be \"human\" or \"json\""}
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return &ConfigError{Field: "logging.level", Message: "must be one of debug, info, warn, error"}
	}

	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		return &ConfigError{Field: "output.format", Message: err.Error()}
	}

	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return &ConfigError{Field: "serve.port", Message: "must be between 0 and 65535"}
	}
	if c.Serve.MaxBodyBytes <= 0 {
		return &ConfigError{Field: "serve.maxBodyBytes", Message: "must be positive"}
	}
	if c.Input.MaxBytes <= 0 {
		return &ConfigError{Field: "input.maxBytes", Message: "must be positive"}
	}
	if c.Watch.DebounceMs < 0 {
		return &ConfigError{Field: "watch.debounceMs", Message: "must not be negative"}
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
