package main

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config keys. Each is also a flag and a MESHCHECK_* environment variable.
const (
	keyConfig        = "config"
	keyLogLevel      = "log-level"
	keyWorkers       = "workers"
	keyAll           = "all"
	keyStrictNormals = "strict-normals"
	keyTrustNormals  = "trust-normals"
	keyCells         = "cells"
)

// Settings is the resolved configuration for one invocation.
type Settings struct {
	LogLevel      string `mapstructure:"log-level"`
	Workers       int    `mapstructure:"workers"`
	All           bool   `mapstructure:"all"`
	StrictNormals bool   `mapstructure:"strict-normals"`
	TrustNormals  bool   `mapstructure:"trust-normals"`
	Cells         int    `mapstructure:"cells"`
}

// newViper returns a viper instance reading MESHCHECK_* variables, with
// dashes in keys mapped to underscores.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("meshcheck")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadSettings binds the command's flags and resolves flag > env > config
// file > default, then applies the log level.
func loadSettings(v *viper.Viper, cmd *cobra.Command) (*Settings, error) {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			bindErr = errors.Join(bindErr, err)
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		log.LogVf("Using config file %s", v.ConfigFileUsed())
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if s.Workers < 0 {
		return nil, fmt.Errorf("%s must be >= 0, got %d", keyWorkers, s.Workers)
	}
	if s.Cells < 0 {
		return nil, fmt.Errorf("%s must be >= 0, got %d", keyCells, s.Cells)
	}
	if err := log.SetLogLevelStr(s.LogLevel); err != nil {
		return nil, fmt.Errorf("%s: %w", keyLogLevel, err)
	}
	return &s, nil
}
