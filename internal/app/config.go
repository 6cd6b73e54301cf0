// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package app

import (
	"errors"
	"fmt"
)

const (
	// CommandScan prints the DVC files and pipelines found in the tree.
	CommandScan = "scan"
	// CommandOutputs prints every resolved output of the tree.
	CommandOutputs = "outputs"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Root    string // directory to scan
	Command string

	OutputFormat string // text, json or yaml
	LogFormat    string
	LogLevel     string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Root == "" {
		return nil, errors.New("Root is a required configuration field and cannot be empty")
	}

	switch cfg.Command {
	case CommandScan, CommandOutputs:
	default:
		return nil, fmt.Errorf("unknown command %q: must be '%s' or '%s'", cfg.Command, CommandScan, CommandOutputs)
	}

	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "text"
	}
	switch cfg.OutputFormat {
	case "text", "json", "yaml":
	default:
		return nil, fmt.Errorf("invalid output format %q: must be 'text', 'json' or 'yaml'", cfg.OutputFormat)
	}

	return &cfg, nil
}
