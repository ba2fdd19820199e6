package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	configDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("Failed to create %s dir: %v", DirName, err)
	}
	if err := os.WriteFile(filepath.Join(configDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.Logging.Format != "human" || cfg.Logging.Level != "info" {
		t.Errorf("Logging = %+v, want human/info", cfg.Logging)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want json", cfg.Output.Format)
	}
	if cfg.Output.Indent {
		t.Error("Output.Indent should be off by default")
	}
	if cfg.Serve.Host != "localhost" || cfg.Serve.Port != 8080 {
		t.Errorf("Serve = %s:%d, want localhost:8080", cfg.Serve.Host, cfg.Serve.Port)
	}
	if cfg.Serve.MaxBodyBytes <= 0 {
		t.Error("Serve.MaxBodyBytes should be positive")
	}
	if cfg.Input.MaxBytes <= 0 {
		t.Error("Input.MaxBytes should be positive")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"yaml output", func(c *Config) { c.Output.Format = "yaml" }, ""},
		{"json logging", func(c *Config) { c.Logging.Format = "json" }, ""},
		{"version 0", func(c *Config) { c.Version = 0 }, "version"},
		{"version 2", func(c *Config) { c.Version = 2 }, "version"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad output format", func(c *Config) { c.Output.Format = "csv" }, "output.format"},
		{"negative port", func(c *Config) { c.Serve.Port = -1 }, "serve.port"},
		{"huge port", func(c *Config) { c.Serve.Port = 70000 }, "serve.port"},
		{"zero body limit", func(c *Config) { c.Serve.MaxBodyBytes = 0 }, "serve.maxBodyBytes"},
		{"zero input limit", func(c *Config) { c.Input.MaxBytes = 0 }, "input.maxBytes"},
		{"zero debounce", func(c *Config) { c.Watch.DebounceMs = 0 }, ""},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -1 }, "watch.debounceMs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() returned unexpected error: %v", err)
				}
				return
			}

			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("Validate() error = %v (%T), want *ConfigError", err, err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{
		Field:   "version",
		Message: "unsupported version 99",
	}

	got := err.Error()
	want := "config error in field 'version': unsupported version 99"

	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLoadConfig_Default(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := DefaultConfig()
	if *cfg != *want {
		t.Errorf("LoadConfig() without a file = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json",
			file: "config.json",
			content: `{
				"version": 1,
				"output": {"format": "yaml", "indent": true},
				"serve": {"port": 9000, "assetsDir": "web"}
			}`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `version: 1
output:
  format: yaml
  indent: true
serve:
  port: 9000
  assetsDir: web
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `version = 1

[output]
format = "yaml"
indent = true

[serve]
port = 9000
assetsDir = "web"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeConfig(t, tmpDir, tt.file, tt.content)

			cfg, err := LoadConfig(tmpDir)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}

			if cfg.Output.Format != "yaml" || !cfg.Output.Indent {
				t.Errorf("Output = %+v, want yaml/indent", cfg.Output)
			}
			if cfg.Serve.Port != 9000 {
				t.Errorf("Serve.Port = %d, want 9000", cfg.Serve.Port)
			}
			if cfg.Serve.AssetsDir != "web" {
				t.Errorf("Serve.AssetsDir = %q, want web", cfg.Serve.AssetsDir)
			}
			// Keys absent from the file keep their defaults.
			if cfg.Serve.Host != "localhost" {
				t.Errorf("Serve.Host = %q, want default localhost", cfg.Serve.Host)
			}
			if cfg.Logging.Level != "info" {
				t.Errorf("Logging.Level = %q, want default info", cfg.Logging.Level)
			}
		})
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "config.json", `{"version": `)

	if _, err := LoadConfig(tmpDir); err == nil {
		t.Error("LoadConfig() should fail on a malformed config file")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "config.json", `{"version": 1, "serve": {"port": 9000}}`)

	t.Setenv("CARNORM_SERVE_PORT", "9191")
	t.Setenv("CARNORM_LOGGING_LEVEL", "debug")
	t.Setenv("CARNORM_OUTPUT_INDENT", "true")

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Serve.Port != 9191 {
		t.Errorf("Serve.Port = %d, want 9191 from env", cfg.Serve.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug from env", cfg.Logging.Level)
	}
	if !cfg.Output.Indent {
		t.Error("Output.Indent should be enabled from env")
	}
}

func TestLoadConfig_EnvWithoutFile(t *testing.T) {
	t.Setenv("CARNORM_OUTPUT_FORMAT", "toml")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Output.Format != "toml" {
		t.Errorf("Output.Format = %q, want toml from env", cfg.Output.Format)
	}
}

func TestConfig_Save(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Serve.Port = 4242
	cfg.Output.Format = "toml"

	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	configPath := filepath.Join(tmpDir, DirName, "config.json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() after save error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip = %+v, want %+v", loaded, cfg)
	}
}

func TestEnvName(t *testing.T) {
	tests := map[string]string{
		"serve.port":       "CARNORM_SERVE_PORT",
		"serve.assetsDir":  "CARNORM_SERVE_ASSETSDIR",
		"logging.level":    "CARNORM_LOGGING_LEVEL",
		"watch.debounceMs": "CARNORM_WATCH_DEBOUNCEMS",
	}
	for key, want := range tests {
		if got := EnvName(key); got != want {
			t.Errorf("EnvName(%q) = %q, want %q", key, got, want)
		}
	}
}

func writeDotEnv(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	writeDotEnv(t, tmpDir, "# local overrides\nCARNORM_SERVE_PORT=7070\nCARNORM_WATCH_DEBOUNCEMS=50\nUNRELATED=1\n")

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Serve.Port != 7070 {
		t.Errorf("Serve.Port = %d, want 7070 from .env", cfg.Serve.Port)
	}
	if cfg.Watch.DebounceMs != 50 {
		t.Errorf("Watch.DebounceMs = %d, want 50 from .env", cfg.Watch.DebounceMs)
	}
	if _, ok := os.LookupEnv("CARNORM_SERVE_PORT"); ok {
		t.Error(".env values must not leak into the process environment")
	}
}

func TestLoadConfig_EnvBeatsDotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	writeDotEnv(t, tmpDir, "CARNORM_LOGGING_LEVEL=error\n")
	t.Setenv("CARNORM_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug from the environment", cfg.Logging.Level)
	}
}

func TestLoadConfig_DotEnvBeatsFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "config.yaml", "version: 1\noutput:\n  format: yaml\n")
	writeDotEnv(t, tmpDir, "CARNORM_OUTPUT_FORMAT=toml\n")

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Output.Format != "toml" {
		t.Errorf("Output.Format = %q, want toml from .env", cfg.Output.Format)
	}
}
