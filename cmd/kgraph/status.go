// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/BinhNgo97/AiAgent-TreeKnowlege/pkg/storage"
)

// ContainerStatus is the per-container entity breakdown.
type ContainerStatus struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Sources int    `json:"sources"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
}

// StatusResult represents store status for JSON output.
type StatusResult struct {
	DataDir    string            `json:"data_dir"`
	User       string            `json:"user"`
	Containers []ContainerStatus `json:"containers"`
	Timestamp  time.Time         `json:"timestamp"`
	Error      string            `json:"error,omitempty"`
}

// runStatus displays live entity counts for the configured user.
func runStatus(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: kgraph status [options]

Description:
  Display live entity counts per container for the configured user's
  data directory.

Options (inherited):
  --json    Output as JSON

Examples:
  kgraph status           Human-readable status
  kgraph status --json    JSON output

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(ExitError)
	}

	cfg := loadConfigOrDefault(configPath)
	dataDir, err := ResolveDataDir(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitConfig)
	}

	result := &StatusResult{
		DataDir:   dataDir,
		User:      cfg.User,
		Timestamp: time.Now(),
	}

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		result.Error = "no data found; run 'kgraph init' first"
		printStatus(result, globals)
		return
	}

	store, err := storage.Open(dataDir, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open store: %v\n", err)
		os.Exit(ExitStore)
	}
	defer func() { _ = store.Close() }()

	containers, err := store.ListContainers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitStore)
	}

	for _, c := range containers {
		cs := ContainerStatus{ID: c.ID, Title: c.Title}
		srcs, err := store.ListSources(c.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitStore)
		}
		nodes, err := store.ListNodes(c.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitStore)
		}
		edges, err := store.ListEdges(c.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitStore)
		}
		cs.Sources = len(srcs)
		cs.Nodes = len(nodes)
		cs.Edges = len(edges)
		result.Containers = append(result.Containers, cs)
	}

	printStatus(result, globals)
}

func printStatus(result *StatusResult, globals GlobalFlags) {
	if globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitError)
		}
		return
	}

	fmt.Println("Knowledge Graph Status")
	fmt.Println()
	fmt.Printf("  User:     %s\n", result.User)
	fmt.Printf("  Data dir: %s\n", result.DataDir)
	if result.Error != "" {
		fmt.Printf("  %s\n", result.Error)
		return
	}
	fmt.Printf("  Containers: %d\n", len(result.Containers))
	for _, c := range result.Containers {
		fmt.Printf("    %s  %q  sources=%d nodes=%d edges=%d\n",
			c.ID, c.Title, c.Sources, c.Nodes, c.Edges)
	}
}
