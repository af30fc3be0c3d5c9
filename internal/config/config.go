// Package config handles configuration loading for scenguard.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/scenguard/internal/scan"
)

// Config holds all configuration for scenguard.
type Config struct {
	Corpus CorpusConfig `mapstructure:"corpus"`
	Scan   ScanConfig   `mapstructure:"scan"`
	Run    RunConfig    `mapstructure:"run"`
	Policy PolicyConfig `mapstructure:"policy"`
	Report ReportConfig `mapstructure:"report"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Watch  WatchConfig  `mapstructure:"watch"`
}

// CorpusConfig holds settings for the corpus being validated.
type CorpusConfig struct {
	// Root is the corpus directory validated by default.
	Root string `mapstructure:"root"`
	// MaxFileSize caps artifact reads in bytes.
	MaxFileSize int64 `mapstructure:"max_file_size"`
}

// ScanConfig holds evidence scanner settings.
type ScanConfig struct {
	// Matcher selects the reference matcher (substring or word).
	Matcher string `mapstructure:"matcher"`
	// Locations overrides the built-in category location table.
	Locations []scan.Location `mapstructure:"locations"`
}

// RunConfig holds validation run settings.
type RunConfig struct {
	// Workers bounds how many resources are validated concurrently.
	Workers int `mapstructure:"workers"`
}

// PolicyConfig holds policy registry settings.
type PolicyConfig struct {
	// File points at a YAML file merged over the built-in policies.
	File string `mapstructure:"file"`
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	JSON    bool   `mapstructure:"json"`
	Out     string `mapstructure:"out"`
	DB      string `mapstructure:"db"`
	Verbose bool   `mapstructure:"verbose"`
}

// ServerConfig holds report server settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name (debug, info, warn, error).
	Level string `mapstructure:"level"`
	// Format is console or json.
	Format string `mapstructure:"format"`
}

// WatchConfig holds corpus watcher settings.
type WatchConfig struct {
	// Debounce is how long the watcher waits after the last filesystem
	// change before revalidating.
	Debounce time.Duration `mapstructure:"debounce"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (SCENGUARD_*)
// 2. Project config (.scenguard.yaml in current directory or parent)
// 3. User config (~/.config/scenguard/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.SetEnvPrefix("SCENGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in paths
	cfg.Corpus.Root = os.ExpandEnv(cfg.Corpus.Root)
	cfg.Policy.File = os.ExpandEnv(cfg.Policy.File)
	cfg.Report.Out = os.ExpandEnv(cfg.Report.Out)
	cfg.Report.DB = os.ExpandEnv(cfg.Report.DB)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Corpus.Root = os.ExpandEnv(cfg.Corpus.Root)
	cfg.Policy.File = os.ExpandEnv(cfg.Policy.File)

	return cfg, nil
}

// Validate checks settings that have a closed set of legal values.
func (c *Config) Validate() error {
	if _, err := scan.MatcherByName(c.Scan.Matcher); err != nil {
		return fmt.Errorf("scan.matcher: %w", err)
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("run.workers must not be negative, got %d", c.Run.Workers)
	}
	if c.Corpus.MaxFileSize < 0 {
		return fmt.Errorf("corpus.max_file_size must not be negative, got %d", c.Corpus.MaxFileSize)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// Save writes the configuration to the user config file.
// Scanner locations are file-managed and are not written back.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("corpus.root", cfg.Corpus.Root)
	v.Set("corpus.max_file_size", cfg.Corpus.MaxFileSize)
	v.Set("scan.matcher", cfg.Scan.Matcher)
	v.Set("run.workers", cfg.Run.Workers)
	v.Set("policy.file", cfg.Policy.File)
	v.Set("report.json", cfg.Report.JSON)
	v.Set("report.out", cfg.Report.Out)
	v.Set("report.db", cfg.Report.DB)
	v.Set("report.verbose", cfg.Report.Verbose)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.shutdown_timeout", cfg.Server.ShutdownTimeout.String())
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("watch.debounce", cfg.Watch.Debounce.String())

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Corpus defaults
	v.SetDefault("corpus.root", ".")
	v.SetDefault("corpus.max_file_size", scan.DefaultMaxFileSize)

	// Scanner defaults
	v.SetDefault("scan.matcher", "substring")

	// Run defaults
	v.SetDefault("run.workers", 4)

	// Policy defaults
	v.SetDefault("policy.file", "")

	// Report defaults
	v.SetDefault("report.json", false)
	v.SetDefault("report.out", "")
	v.SetDefault("report.db", "")
	v.SetDefault("report.verbose", false)

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Watch defaults
	v.SetDefault("watch.debounce", "2s")
}

// getUserConfigDir returns the XDG config directory for scenguard.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "scenguard")
	}

	// Fall back to ~/.config/scenguard
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "scenguard")
	}
	return filepath.Join(home, ".config", "scenguard")
}

// findProjectConfig searches for .scenguard.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".scenguard.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Root:        ".",
			MaxFileSize: scan.DefaultMaxFileSize,
		},
		Scan: ScanConfig{
			Matcher: "substring",
		},
		Run: RunConfig{
			Workers: 4,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Watch: WatchConfig{
			Debounce: 2 * time.Second,
		},
	}
}
