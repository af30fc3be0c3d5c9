package config

import (
	"os"
	"strings"
)

// Source represents where the effective configuration was loaded from.
type Source string

const (
	SourceProject  Source = "project_config"
	SourceUser     Source = "user_config"
	SourceDefaults Source = "defaults"
)

// GetConfigSource returns the highest-precedence config file in effect.
// Environment overrides apply on top of whichever source is reported.
func GetConfigSource() Source {
	if findProjectConfig() != "" {
		return SourceProject
	}
	if _, err := os.Stat(GetUserConfigPath()); err == nil {
		return SourceUser
	}
	return SourceDefaults
}

// EnvOverrides lists the SCENGUARD_* environment variables currently set,
// for display in diagnostics.
func EnvOverrides() []string {
	var overrides []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "SCENGUARD_") {
			overrides = append(overrides, kv)
		}
	}
	return overrides
}
