package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/scenguard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify scenguard configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/scenguard/config.yaml
Project-specific overrides can be placed in .scenguard.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values and where they came from.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("corpus.root: %s\n", cfg.Corpus.Root)
	fmt.Printf("corpus.max_file_size: %d\n", cfg.Corpus.MaxFileSize)
	fmt.Printf("scan.matcher: %s\n", cfg.Scan.Matcher)
	fmt.Printf("run.workers: %d\n", cfg.Run.Workers)
	fmt.Printf("policy.file: %s\n", orUnset(cfg.Policy.File))
	fmt.Printf("report.json: %t\n", cfg.Report.JSON)
	fmt.Printf("report.out: %s\n", orUnset(cfg.Report.Out))
	fmt.Printf("report.db: %s\n", orUnset(cfg.Report.DB))
	fmt.Printf("report.verbose: %t\n", cfg.Report.Verbose)
	fmt.Printf("server.addr: %s\n", cfg.Server.Addr)
	fmt.Printf("server.shutdown_timeout: %s\n", cfg.Server.ShutdownTimeout)
	fmt.Printf("log.level: %s\n", cfg.Log.Level)
	fmt.Printf("log.format: %s\n", cfg.Log.Format)
	fmt.Printf("watch.debounce: %s\n", cfg.Watch.Debounce)

	fmt.Println()
	switch config.GetConfigSource() {
	case config.SourceProject:
		fmt.Printf("Source: project config (%s)\n", config.GetProjectConfigPath())
	case config.SourceUser:
		fmt.Printf("Source: user config (%s)\n", config.GetUserConfigPath())
	default:
		fmt.Println("Source: built-in defaults")
	}

	if overrides := config.EnvOverrides(); len(overrides) > 0 {
		fmt.Println("Environment overrides:")
		for _, kv := range overrides {
			fmt.Printf("  %s\n", kv)
		}
	}
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "corpus.root":
		return cfg.Corpus.Root, nil
	case "corpus.max_file_size":
		return strconv.FormatInt(cfg.Corpus.MaxFileSize, 10), nil
	case "scan.matcher":
		return cfg.Scan.Matcher, nil
	case "run.workers":
		return strconv.Itoa(cfg.Run.Workers), nil
	case "policy.file":
		return orUnset(cfg.Policy.File), nil
	case "report.json":
		return strconv.FormatBool(cfg.Report.JSON), nil
	case "report.out":
		return orUnset(cfg.Report.Out), nil
	case "report.db":
		return orUnset(cfg.Report.DB), nil
	case "report.verbose":
		return strconv.FormatBool(cfg.Report.Verbose), nil
	case "server.addr":
		return cfg.Server.Addr, nil
	case "server.shutdown_timeout":
		return cfg.Server.ShutdownTimeout.String(), nil
	case "log.level":
		return cfg.Log.Level, nil
	case "log.format":
		return cfg.Log.Format, nil
	case "watch.debounce":
		return cfg.Watch.Debounce.String(), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "corpus.root":
		cfg.Corpus.Root = value
	case "corpus.max_file_size":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for max_file_size: %w", err)
		}
		cfg.Corpus.MaxFileSize = n
	case "scan.matcher":
		cfg.Scan.Matcher = value
	case "run.workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for workers: %w", err)
		}
		cfg.Run.Workers = n
	case "policy.file":
		cfg.Policy.File = value
	case "report.json":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for report.json: %w", err)
		}
		cfg.Report.JSON = b
	case "report.out":
		cfg.Report.Out = value
	case "report.db":
		cfg.Report.DB = value
	case "report.verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for report.verbose: %w", err)
		}
		cfg.Report.Verbose = b
	case "server.addr":
		cfg.Server.Addr = value
	case "server.shutdown_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for server.shutdown_timeout: %w", err)
		}
		cfg.Server.ShutdownTimeout = d
	case "log.level":
		cfg.Log.Level = value
	case "log.format":
		cfg.Log.Format = value
	case "watch.debounce":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for watch.debounce: %w", err)
		}
		cfg.Watch.Debounce = d
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	return nil
}

// orUnset substitutes a placeholder for empty optional values.
func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
