// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

// Command kgraph is the operator CLI for the knowledge-graph log store:
// inspect, export and delete entities in a per-user data directory.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitError  = 1
	ExitConfig = 2
	ExitStore  = 3
)

// GlobalFlags carries options shared by every subcommand.
type GlobalFlags struct {
	JSON  bool
	Quiet bool
}

func main() {
	fs := flag.NewFlagSet("kgraph", flag.ExitOnError)
	fs.SetInterspersed(false)
	configPath := fs.String("config", "", "Path to kgraph.yaml (default: ./kgraph.yaml)")
	jsonOut := fs.Bool("json", false, "Output as JSON where supported")
	quiet := fs.BoolP("quiet", "q", false, "Suppress informational output")
	fs.Usage = usage

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(ExitError)
	}

	args := fs.Args()
	if len(args) == 0 {
		usage()
		os.Exit(ExitError)
	}

	if *configPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
			os.Exit(ExitError)
		}
		*configPath = ConfigPath(cwd)
	}

	globals := GlobalFlags{JSON: *jsonOut, Quiet: *quiet}

	switch args[0] {
	case "init":
		runInit(args[1:], *configPath, globals)
	case "status":
		runStatus(args[1:], *configPath, globals)
	case "export":
		runExport(args[1:], *configPath, globals)
	case "delete-node":
		runDeleteNode(args[1:], *configPath, globals)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		usage()
		os.Exit(ExitError)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: kgraph [global options] <command> [options]

Commands:
  init         Create a kgraph.yaml configuration and the data directory
  status       Show live entity counts for the configured user
  export       Export live containers or one container's graph as JSON
  delete-node  Delete a node (cascading to exclusively dependent nodes)
  help         Show this help

Global options:
  --config PATH   Configuration file (default: ./kgraph.yaml)
  --json          Output as JSON where supported
  -q, --quiet     Suppress informational output

Run 'kgraph <command> --help' for command options.
`)
}
