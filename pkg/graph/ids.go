// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID creates a random ID with a type prefix.
// Pattern: prefix + "_" + 12 hex chars, e.g. "N_3f2a9c1b7d4e".
// IDs are globally unique within a type and never change across rewrites.
func NewID(prefix string) string {
	u := uuid.New()
	return fmt.Sprintf("%s_%x", prefix, u[:6])
}

// ContainerID generates an ID for a knowledge container.
func ContainerID() string { return NewID("KC") }

// SourceID generates an ID for a source document.
func SourceID() string { return NewID("SRC") }

// NodeID generates an ID for a graph node.
func NodeID() string { return NewID("N") }

// EdgeID generates an ID for a graph edge.
func EdgeID() string { return NewID("E") }
