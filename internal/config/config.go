// Copyright (c) 2026 Keymaster Team
// Keymaster - SSH key management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads sshkeyfield settings from defaults, YAML files,
// SSHKEYFIELD_* environment variables and command-line flags, and writes
// the user configuration back to disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`
	Language string `mapstructure:"language" yaml:"language"`
	Field    struct {
		Algorithms []string `mapstructure:"algorithms" yaml:"algorithms"`
	} `mapstructure:"field" yaml:"field"`
	Format struct {
		Prefix string `mapstructure:"prefix" yaml:"prefix"`
		Suffix string `mapstructure:"suffix" yaml:"suffix"`
	} `mapstructure:"format" yaml:"format"`
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// Defaults are the values used when neither file, environment nor flags
// provide a setting.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":    "sqlite",
		"database.dsn":     "./sshkeyfield.db",
		"language":         "en",
		"field.algorithms": []string{"ssh-rsa", "ssh-ed25519"},
		"format.prefix":    "",
		"format.suffix":    "",
		"debug":            false,
	}
}

// FlagBindings maps config keys to the command-line flags that override them.
var FlagBindings = map[string]string{
	"database.type":    "db-type",
	"database.dsn":     "db-dsn",
	"language":         "lang",
	"field.algorithms": "algorithm",
	"debug":            "debug",
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "sshkeyfield")
		default: // Linux, macOS, etc.
			configDir = "/etc/sshkeyfield"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "sshkeyfield")
	}

	return filepath.Join(configDir, "sshkeyfield.yaml"), nil
}

// LoadConfig resolves T from defaults, the first sshkeyfield.yaml found (or
// the explicit file at path), environment variables and the flags of cmd.
// A missing config file is reported as viper.ConfigFileNotFoundError
// together with the fully resolved config.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, path *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("sshkeyfield")
	v.SetConfigType("yaml")
	if path != nil && *path != "" {
		v.SetConfigFile(*path)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
		notFound = err
	}

	mergeLegacyConfig(v)

	v.SetEnvPrefix("sshkeyfield")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for key, flag := range FlagBindings {
			if f := cmd.Flags().Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return c, err
				}
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, notFound
}

// mergeLegacyConfig merges a `.sshkeyfield.yaml` in the current directory,
// if present. Malformed legacy files are ignored.
func mergeLegacyConfig(v *viper.Viper) {
	legacyConfigFile := ".sshkeyfield.yaml"
	if _, err := os.Stat(legacyConfigFile); err == nil {
		v.SetConfigFile(legacyConfigFile)
		_ = v.MergeInConfig()
		v.SetConfigFile("")
	}
}

// WriteConfigFile writes c as YAML to the user (or system) config path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}
	return WriteConfigFileTo(c, path)
}

// WriteConfigFileTo writes c as YAML to path, creating parent directories.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}
	return os.WriteFile(path, data, 0600)
}
