// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

// Package storage implements the append-only entity log store backing the
// knowledge graph.
//
// Each entity type gets one newline-delimited JSON log file; every write
// appends a full record snapshot and the most recent record per ID wins on
// read. Deletions never touch the logs: deleted IDs go into a shared
// tombstone set persisted as a JSON sidecar, rewritten atomically on every
// delete. The live view is rebuilt from the files on every read call, which
// trades scan cost for crash-safety and a data directory that stays fully
// human-inspectable.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/BinhNgo97/AiAgent-TreeKnowlege/pkg/graph"
)

// Log file layout inside a data directory.
const (
	containersFile = "containers.jsonl"
	sourcesFile    = "sources.jsonl"
	nodesFile      = "nodes.jsonl"
	edgesFile      = "edges.jsonl"
	deletedFile    = "deleted_ids.json"
)

// FileStore is the JSONL-backed implementation of graph.Store for one data
// directory. All operations are synchronous file I/O; the store holds an
// exclusive directory lock from Open until Close.
type FileStore struct {
	dir        string
	containers *entityLog[*graph.Container]
	sources    *entityLog[*graph.Source]
	nodes      *entityLog[*graph.Node]
	edges      *entityLog[*graph.Edge]
	deleted    *tombstones
	lock       *dirLock
	logger     *slog.Logger
}

var _ graph.Store = (*FileStore)(nil)

// Open creates the data directory if needed, takes the exclusive directory
// lock and loads the tombstone set. Returns ErrLocked when another store
// instance already owns the directory.
func Open(dir string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	lock, err := acquireDirLock(dir)
	if err != nil {
		return nil, err
	}
	deleted, err := loadTombstones(filepath.Join(dir, deletedFile))
	if err != nil {
		lock.release()
		return nil, err
	}

	return &FileStore{
		dir: dir,
		containers: newEntityLog(filepath.Join(dir, containersFile),
			func(c *graph.Container) string { return c.ID }),
		sources: newEntityLog(filepath.Join(dir, sourcesFile),
			func(s *graph.Source) string { return s.ID }),
		nodes: newEntityLog(filepath.Join(dir, nodesFile),
			func(n *graph.Node) string { return n.ID }),
		edges: newEntityLog(filepath.Join(dir, edgesFile),
			func(e *graph.Edge) string { return e.ID }),
		deleted: deleted,
		lock:    lock,
		logger:  logger,
	}, nil
}

// Close releases the directory lock. The store must not be used afterwards.
func (s *FileStore) Close() error {
	return s.lock.release()
}

// Dir returns the data directory this store is bound to.
func (s *FileStore) Dir() string {
	return s.dir
}

// --- containers ---

// ListContainers returns every live container, creation time ascending.
func (s *FileStore) ListContainers() ([]*graph.Container, error) {
	live, err := s.containers.live(s.deleted)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(live, func(i, j int) bool {
		return live[i].CreatedAt.Before(live[j].CreatedAt)
	})
	return live, nil
}

// GetContainer resolves the most recent record for id, or nil when absent
// or tombstoned.
func (s *FileStore) GetContainer(id string) (*graph.Container, error) {
	c, ok, err := s.containers.get(s.deleted, id)
	if err != nil || !ok {
		return nil, err
	}
	return c, nil
}

// UpsertContainer appends a full snapshot of c.
func (s *FileStore) UpsertContainer(c *graph.Container) error {
	if err := s.containers.append(c); err != nil {
		return err
	}
	s.logger.Debug("container written", "id", c.ID)
	return nil
}

// DeleteContainer tombstones the container and, in the same sidecar
// rewrite, every source, node and edge scoped to it. This is single-level
// fan-out by container membership, not the cascade algorithm.
func (s *FileStore) DeleteContainer(id string) error {
	ids := []string{id}

	srcs, err := s.ListSources(id)
	if err != nil {
		return err
	}
	for _, src := range srcs {
		ids = append(ids, src.ID)
	}
	nodes, err := s.ListNodes(id)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	edges, err := s.ListEdges(id)
	if err != nil {
		return err
	}
	for _, e := range edges {
		ids = append(ids, e.ID)
	}

	if err := s.tombstone(ids...); err != nil {
		return err
	}
	s.logger.Debug("container deleted", "id", id, "swept", len(ids)-1)
	return nil
}

// --- sources ---

// ListSources returns the live sources of one container, creation time
// ascending.
func (s *FileStore) ListSources(containerID string) ([]*graph.Source, error) {
	live, err := s.sources.live(s.deleted)
	if err != nil {
		return nil, err
	}
	out := live[:0]
	for _, src := range live {
		if src.ContainerID == containerID {
			out = append(out, src)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// UpsertSource appends a full snapshot of src.
func (s *FileStore) UpsertSource(src *graph.Source) error {
	return s.sources.append(src)
}

// DeleteSource tombstones the source. Idempotent.
func (s *FileStore) DeleteSource(id string) error {
	return s.tombstone(id)
}

// --- nodes ---

// ListNodes returns the live nodes of one container, creation time
// ascending.
func (s *FileStore) ListNodes(containerID string) ([]*graph.Node, error) {
	live, err := s.nodes.live(s.deleted)
	if err != nil {
		return nil, err
	}
	out := live[:0]
	for _, n := range live {
		if n.ContainerID == containerID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// GetNode resolves the most recent record for id, or nil when absent or
// tombstoned.
func (s *FileStore) GetNode(id string) (*graph.Node, error) {
	n, ok, err := s.nodes.get(s.deleted, id)
	if err != nil || !ok {
		return nil, err
	}
	return n, nil
}

// UpsertNode appends a full snapshot of n. The caller is responsible for
// merging partial updates into the record and bumping Version first; the
// store never rejects based on prior state.
func (s *FileStore) UpsertNode(n *graph.Node) error {
	if err := s.nodes.append(n); err != nil {
		return err
	}
	s.logger.Debug("node written", "id", n.ID, "version", n.Version)
	return nil
}

// DeleteNode tombstones the node together with every edge in its container
// that has the node as source or target. The edges are collected before the
// node is tombstoned, so edges referencing an endpoint that is already dead
// are still swept.
func (s *FileStore) DeleteNode(id string) error {
	ids := []string{id}

	node, err := s.GetNode(id)
	if err != nil {
		return err
	}
	if node != nil {
		edges, err := s.ListEdges(node.ContainerID)
		if err != nil {
			return err
		}
		for _, e := range edges {
			if e.SourceNodeID == id || e.TargetNodeID == id {
				ids = append(ids, e.ID)
			}
		}
	}

	if err := s.tombstone(ids...); err != nil {
		return err
	}
	s.logger.Debug("node deleted", "id", id, "edges", len(ids)-1)
	return nil
}

// --- edges ---

// ListEdges returns the live edges of one container in log order.
func (s *FileStore) ListEdges(containerID string) ([]*graph.Edge, error) {
	live, err := s.edges.live(s.deleted)
	if err != nil {
		return nil, err
	}
	out := live[:0]
	for _, e := range live {
		if e.ContainerID == containerID {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetEdge resolves the most recent record for id, or nil when absent or
// tombstoned.
func (s *FileStore) GetEdge(id string) (*graph.Edge, error) {
	e, ok, err := s.edges.get(s.deleted, id)
	if err != nil || !ok {
		return nil, err
	}
	return e, nil
}

// UpsertEdge appends a full snapshot of e. Endpoint liveness is not checked
// here; callers use graph.CheckEdgeEndpoints first.
func (s *FileStore) UpsertEdge(e *graph.Edge) error {
	return s.edges.append(e)
}

// DeleteEdge tombstones the edge. Idempotent.
func (s *FileStore) DeleteEdge(id string) error {
	return s.tombstone(id)
}

// tombstone adds ids to the shared set and persists it in one atomic
// rewrite. Deleting only already-tombstoned IDs skips the rewrite entirely.
func (s *FileStore) tombstone(ids ...string) error {
	if s.deleted.add(ids...) == 0 {
		return nil
	}
	if err := s.deleted.save(); err != nil {
		return fmt.Errorf("persist tombstones: %w", err)
	}
	return nil
}
