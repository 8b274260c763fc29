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

	"github.com/BinhNgo97/AiAgent-TreeKnowlege/pkg/graph"
	"github.com/BinhNgo97/AiAgent-TreeKnowlege/pkg/storage"
)

// ExportData is the JSON document produced by the export command.
type ExportData struct {
	ExportedAt time.Time          `json:"exported_at"`
	User       string             `json:"user"`
	Containers []*graph.Container `json:"containers"`
	Sources    []*graph.Source    `json:"sources,omitempty"`
	Nodes      []*graph.Node      `json:"nodes,omitempty"`
	Edges      []*graph.Edge      `json:"edges,omitempty"`
}

// runExport dumps live containers, or one container's full graph, as JSON.
func runExport(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	containerID := fs.String("container", "", "Export one container's sources, nodes and edges")
	output := fs.StringP("output", "o", "", "Output file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: kgraph export [options]

Description:
  Export the live view of the store for backup or inspection. Without
  --container, exports the container list only.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  kgraph export                          Container list to stdout
  kgraph export --container KC_ab12cd34ef56
  kgraph export -o backup.json

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

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: no data found at %s\n", dataDir)
		os.Exit(ExitStore)
	}

	store, err := storage.Open(dataDir, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open store: %v\n", err)
		os.Exit(ExitStore)
	}
	defer func() { _ = store.Close() }()

	data := &ExportData{
		ExportedAt: time.Now().UTC(),
		User:       cfg.User,
	}

	if *containerID != "" {
		c, err := store.GetContainer(*containerID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitStore)
		}
		if c == nil {
			fmt.Fprintf(os.Stderr, "Error: container %s not found\n", *containerID)
			os.Exit(ExitError)
		}
		data.Containers = []*graph.Container{c}
		if data.Sources, err = store.ListSources(c.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitStore)
		}
		if data.Nodes, err = store.ListNodes(c.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitStore)
		}
		if data.Edges, err = store.ListEdges(c.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitStore)
		}
	} else {
		if data.Containers, err = store.ListContainers(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitStore)
		}
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitError)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	if *output != "" && !globals.Quiet {
		fmt.Printf("Exported to %s\n", *output)
	}
}
