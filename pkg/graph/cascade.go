// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"
	"log/slog"
)

// Resolver computes dependency-aware cascade deletions. Deleting a node
// takes down every descendant that exists only because of it, while nodes
// that remain reachable from elsewhere survive.
//
// The resolver works on a single snapshot of the container's live nodes and
// edges taken up front; it never mutates logs directly and issues deletions
// only through the Store contract.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// Closure returns the IDs that deleting nodeID would remove, target first,
// in breadth-first discovery order. A child joins the closure only when its
// distinct incoming sources are exactly the node currently being processed:
// multiple parallel edges from one parent count once, and a single edge from
// any other parent keeps the child alive.
//
// A missing or already-deleted target yields an empty closure and no error,
// which keeps the caller's delete operation idempotent.
func (r *Resolver) Closure(nodeID string) ([]string, error) {
	node, err := r.store.GetNode(nodeID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}

	nodes, err := r.store.ListNodes(node.ContainerID)
	if err != nil {
		return nil, err
	}
	edges, err := r.store.ListEdges(node.ContainerID)
	if err != nil {
		return nil, err
	}

	// Outgoing adjacency and distinct incoming sources per live node.
	// Edges into nodes that are no longer live are ignored; edges from a
	// dead source still count as an incoming parent, matching the log's
	// view that the edge itself is live.
	out := make(map[string][]string, len(nodes))
	incoming := make(map[string]map[string]bool, len(nodes))
	for _, n := range nodes {
		incoming[n.ID] = make(map[string]bool)
	}
	for _, e := range edges {
		if _, live := incoming[e.TargetNodeID]; !live {
			continue
		}
		out[e.SourceNodeID] = append(out[e.SourceNodeID], e.TargetNodeID)
		incoming[e.TargetNodeID][e.SourceNodeID] = true
	}

	var toDelete []string
	visited := make(map[string]bool)
	queue := []string{nodeID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		toDelete = append(toDelete, current)

		for _, child := range out[current] {
			parents := incoming[child]
			if len(parents) == 1 && parents[current] {
				queue = append(queue, child)
			}
		}
	}

	return toDelete, nil
}

// ResolveAndDelete computes the closure for nodeID and deletes every node in
// it, each together with its edges, in closure order. The returned slice is
// the full computed closure even when a deletion fails partway: deletions
// are idempotent, so the caller recovers by re-issuing the list rather than
// recomputing against a now-partial graph.
func (r *Resolver) ResolveAndDelete(nodeID string) ([]string, error) {
	closure, err := r.Closure(nodeID)
	if err != nil {
		return nil, err
	}

	for _, id := range closure {
		if err := r.store.DeleteNode(id); err != nil {
			return closure, fmt.Errorf("cascade delete %s: %w", id, err)
		}
	}

	if len(closure) > 0 {
		r.logger.Debug("cascade delete complete",
			"target", nodeID, "deleted", len(closure))
	}
	return closure, nil
}
