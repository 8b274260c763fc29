// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// maxRecordSize bounds a single log line. Document fields are free text, so
// this is generous; anything larger is treated as corruption.
const maxRecordSize = 4 << 20

// entityLog is one append-only newline-delimited JSON file holding full
// record snapshots of a single entity type. The current value of an ID is
// the last record appended for it; tombstone filtering is the caller's job.
type entityLog[T any] struct {
	path string
	id   func(T) string
}

func newEntityLog[T any](path string, id func(T) string) *entityLog[T] {
	return &entityLog[T]{path: path, id: id}
}

// append writes one full-record snapshot and syncs before returning, so a
// crash between two writes never leaves a half-written record as durable
// state. Appends are never rejected based on prior state: the last writer
// wins at read time.
func (l *entityLog[T]) append(rec T) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append %s: %w", l.path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", l.path, err)
	}
	return nil
}

// replay reads the whole log and returns the latest record per ID, keeping
// each ID at the position it was first seen so creation order survives
// rewrites. A missing file is an empty log; a malformed line fails the whole
// read with a CorruptError.
func (l *entityLog[T]) replay() ([]T, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()

	var out []T
	seen := make(map[string]int)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, &CorruptError{Path: l.path, Line: line, Err: err}
		}
		id := l.id(rec)
		if at, ok := seen[id]; ok {
			out[at] = rec
		} else {
			seen[id] = len(out)
			out = append(out, rec)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", l.path, err)
	}
	return out, nil
}

// live replays the log and drops every tombstoned ID.
func (l *entityLog[T]) live(dead *tombstones) ([]T, error) {
	recs, err := l.replay()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		if !dead.has(l.id(rec)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// get resolves the latest live record for id. The bool reports presence;
// absent covers both never-written and tombstoned.
func (l *entityLog[T]) get(dead *tombstones, id string) (T, bool, error) {
	var zero T
	if dead.has(id) {
		return zero, false, nil
	}
	recs, err := l.replay()
	if err != nil {
		return zero, false, err
	}
	for _, rec := range recs {
		if l.id(rec) == id {
			return rec, true, nil
		}
	}
	return zero, false, nil
}
