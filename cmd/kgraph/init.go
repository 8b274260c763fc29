// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// runInit creates a new kgraph.yaml configuration file and the per-user
// data directory.
func runInit(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite existing configuration")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: kgraph init [options]

Description:
  Create a new kgraph.yaml configuration file with sensible defaults and
  the per-user data directory it points to.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  kgraph init             Create configuration with defaults
  kgraph init --force     Overwrite existing configuration

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(ExitError)
	}

	if _, err := os.Stat(configPath); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", configPath)
		fmt.Fprintf(os.Stderr, "Use --force to overwrite\n")
		os.Exit(ExitConfig)
	}

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	if err := SaveConfig(cfg, configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitConfig)
	}

	dataDir, err := ResolveDataDir(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitConfig)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: create data dir: %v\n", err)
		os.Exit(ExitStore)
	}

	if !globals.Quiet {
		fmt.Printf("Created %s\n", configPath)
		fmt.Printf("Data directory: %s\n", dataDir)
	}
}
