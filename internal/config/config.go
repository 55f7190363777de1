// SPDX-License-Identifier: MPL-2.0

// Package config loads graphrun's global settings: which command runner
// kind to use, an optional shell override, and the default runfile name.
// Settings come from a TOML config file in the platform config directory,
// overridable through GRAPHRUN_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"graphrun/internal/runfile"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "graphrun"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"

	// RunnerSystem executes commands through the host system shell.
	RunnerSystem RunnerKind = "system"
	// RunnerVirtual executes commands in the embedded mvdan/sh interpreter.
	RunnerVirtual RunnerKind = "virtual"
)

// ErrInvalidRunnerKind is returned when a runner value is not recognized.
var ErrInvalidRunnerKind = errors.New("invalid runner kind")

type (
	// RunnerKind selects which command-execution collaborator the CLI wires
	// into the engine.
	RunnerKind string

	// Settings holds the resolved global configuration.
	Settings struct {
		// Runner selects the command runner kind.
		Runner RunnerKind `mapstructure:"runner"`
		// Shell overrides the system runner's shell resolution.
		Shell string `mapstructure:"shell"`
		// Runfile is the runfile name looked for in the working directory.
		Runfile string `mapstructure:"runfile"`
	}
)

// Validate reports whether k is a recognized runner kind.
func (k RunnerKind) Validate() error {
	switch k {
	case RunnerSystem, RunnerVirtual:
		return nil
	default:
		return fmt.Errorf("%w: %q (valid: %s, %s)", ErrInvalidRunnerKind, k, RunnerSystem, RunnerVirtual)
	}
}

// ConfigDir returns the graphrun configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string
	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads settings from the config file and environment. A missing
// config file is not an error; defaults apply.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetDefault("runner", string(RunnerSystem))
	v.SetDefault("shell", "")
	v.SetDefault("runfile", runfile.DefaultName)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.AutomaticEnv()

	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileExt)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := settings.Runner.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}
