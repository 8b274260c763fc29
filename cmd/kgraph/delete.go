// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/BinhNgo97/AiAgent-TreeKnowlege/pkg/graph"
	"github.com/BinhNgo97/AiAgent-TreeKnowlege/pkg/storage"
)

// DeleteResult represents a delete-node outcome for JSON output.
type DeleteResult struct {
	Target     string   `json:"target"`
	DeletedIDs []string `json:"deleted_ids"`
}

// runDeleteNode deletes a node. By default the cascade resolver also removes
// every node that exists only because of the target; --no-cascade limits the
// operation to the node and its own edges.
func runDeleteNode(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("delete-node", flag.ExitOnError)
	noCascade := fs.Bool("no-cascade", false, "Delete only the node and its edges")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: kgraph delete-node [options] NODE_ID

Description:
  Tombstone a node and its edges. With cascading (the default), every
  downstream node whose only incoming source is the deleted subgraph is
  removed as well; nodes still reachable from elsewhere survive. Deleting
  an absent node is a no-op.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  kgraph delete-node N_3f2a9c1b7d4e
  kgraph delete-node --no-cascade N_3f2a9c1b7d4e

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(ExitError)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(ExitError)
	}
	nodeID := fs.Arg(0)

	cfg := loadConfigOrDefault(configPath)
	dataDir, err := ResolveDataDir(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitConfig)
	}

	store, err := storage.Open(dataDir, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open store: %v\n", err)
		os.Exit(ExitStore)
	}
	defer func() { _ = store.Close() }()

	var deleted []string
	if *noCascade {
		node, err := store.GetNode(nodeID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitStore)
		}
		if node != nil {
			if err := store.DeleteNode(nodeID); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(ExitStore)
			}
			deleted = []string{nodeID}
		}
	} else {
		resolver := graph.NewResolver(store, nil)
		deleted, err = resolver.ResolveAndDelete(nodeID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			for _, id := range deleted {
				fmt.Fprintf(os.Stderr, "  %s\n", id)
			}
			fmt.Fprintf(os.Stderr, "Run delete-node for each listed ID to finish; deletions are idempotent.\n")
			os.Exit(ExitStore)
		}
	}

	result := DeleteResult{Target: nodeID, DeletedIDs: deleted}
	if globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitError)
		}
		return
	}

	if len(deleted) == 0 {
		if !globals.Quiet {
			fmt.Printf("Node %s not found; nothing to delete\n", nodeID)
		}
		return
	}
	if !globals.Quiet {
		fmt.Printf("Deleted %d node(s):\n", len(deleted))
		for _, id := range deleted {
			fmt.Printf("  %s\n", id)
		}
	}
}
