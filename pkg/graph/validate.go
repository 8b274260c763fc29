// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package graph

import (
	"errors"
	"fmt"
)

// ErrReferentialGap marks an edge whose endpoint does not resolve to a live
// node. The store itself never enforces this; callers check before upserting
// an edge and surface the gap as a request error.
var ErrReferentialGap = errors.New("edge endpoint is not a live node")

// CheckEdgeEndpoints verifies that both endpoints of e currently resolve to
// live nodes in s. Returns an error wrapping ErrReferentialGap naming the
// first missing endpoint.
func CheckEdgeEndpoints(s Store, e *Edge) error {
	for _, id := range []string{e.SourceNodeID, e.TargetNodeID} {
		n, err := s.GetNode(id)
		if err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("%w: %s", ErrReferentialGap, id)
		}
	}
	return nil
}
