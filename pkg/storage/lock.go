// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// dirLock is an exclusive advisory lock on a data directory. The tombstone
// sidecar rewrite is a read-modify-write, so two processes tombstoning
// different IDs at the same instant would lose one update; the lock enforces
// single-writer discipline per directory for the store's whole lifetime.
type dirLock struct {
	f *os.File
}

// acquireDirLock takes a non-blocking exclusive flock on a lock file inside
// dir. Fails fast with ErrLocked when another process holds it.
func acquireDirLock(dir string) (*dirLock, error) {
	path := filepath.Join(dir, ".lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return &dirLock{f: f}, nil
}

func (l *dirLock) release() error {
	if l.f == nil {
		return nil
	}
	flockErr := syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	closeErr := l.f.Close()
	l.f = nil
	if flockErr != nil {
		return fmt.Errorf("unlock: %w", flockErr)
	}
	return closeErr
}
