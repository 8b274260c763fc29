// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// tombstones is the set of logically deleted IDs, shared across all entity
// types of one data directory. Deletion is monotone: IDs are only ever
// added, never removed. Persisted as a single human-readable JSON array.
type tombstones struct {
	path string
	ids  map[string]struct{}
}

// loadTombstones reads the sidecar file; a missing file is an empty set.
func loadTombstones(path string) (*tombstones, error) {
	t := &tombstones{path: path, ids: make(map[string]struct{})}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, &CorruptError{Path: path, Line: 1, Err: err}
	}
	for _, id := range ids {
		t.ids[id] = struct{}{}
	}
	return t, nil
}

func (t *tombstones) has(id string) bool {
	_, ok := t.ids[id]
	return ok
}

// add inserts ids into the set and reports how many were actually new, so
// callers can skip the sidecar rewrite for pure no-op deletes.
func (t *tombstones) add(ids ...string) int {
	added := 0
	for _, id := range ids {
		if _, ok := t.ids[id]; !ok {
			t.ids[id] = struct{}{}
			added++
		}
	}
	return added
}

// save rewrites the sidecar as one atomic overwrite: marshal the sorted set,
// write to a temp file in the same directory, sync, rename over the old
// file. A crash mid-save leaves either the old or the new set, never a
// truncated one.
func (t *tombstones) save() error {
	ids := make([]string, 0, len(t.ids))
	for id := range t.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode tombstones: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(t.path), ".deleted_ids-*")
	if err != nil {
		return fmt.Errorf("create temp tombstone file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, t.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", t.path, err)
	}
	return nil
}
