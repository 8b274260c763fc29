// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package storage

import (
	"errors"
	"fmt"
)

// ErrCorrupt marks an unparseable record during log replay. A corrupt line
// aborts the whole read: skipping it could silently drop a write or let
// tombstoned state resurrect, which is worse than failing loudly.
var ErrCorrupt = errors.New("corrupt log record")

// ErrLocked is returned by Open when another process already holds the
// exclusive lock on the data directory.
var ErrLocked = errors.New("data directory locked by another process")

// CorruptError reports the exact file and line that failed to decode.
type CorruptError struct {
	Path string
	Line int
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCorrupt) match any CorruptError.
func (e *CorruptError) Is(target error) bool { return target == ErrCorrupt }
