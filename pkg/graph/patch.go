// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package graph

import "strings"

// maturityEdgeFloor is the connectivity threshold that guarantees a minimum
// maturity of 3 regardless of document completeness.
const maturityEdgeFloor = 3

// NodePatch is a partial update to a node's document. Nil fields are left
// untouched. The store only ever sees full record snapshots, so callers
// apply the patch first and upsert the result.
type NodePatch struct {
	Title              *string    `json:"title,omitempty"`
	Type               *NodeType  `json:"type,omitempty"`
	State              *NodeState `json:"state,omitempty"`
	Definition         *string    `json:"definition,omitempty"`
	Mechanism          *string    `json:"mechanism,omitempty"`
	BoundaryConditions *string    `json:"boundary_conditions,omitempty"`
	Assumptions        *[]string  `json:"assumptions,omitempty"`
	Tags               *[]string  `json:"tags,omitempty"`
}

// Apply merges the patch into n and finalizes the record for upsert:
// an ACTIVE request without the required document fields is demoted to
// BUILD, a node in EXPLORE is promoted to BUILD once it has a definition,
// the maturity score is recomputed from the merged document and
// connectedEdges, UpdatedAt is refreshed, and Version goes up by exactly 1.
func (p NodePatch) Apply(n *Node, connectedEdges int) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Type != nil && p.Type.Valid() {
		n.Type = *p.Type
	}
	if p.State != nil && p.State.Valid() {
		n.State = *p.State
	}
	if p.Definition != nil {
		n.Definition = *p.Definition
	}
	if p.Mechanism != nil {
		n.Mechanism = *p.Mechanism
	}
	if p.BoundaryConditions != nil {
		n.BoundaryConditions = *p.BoundaryConditions
	}
	if p.Assumptions != nil {
		n.Assumptions = *p.Assumptions
	}
	if p.Tags != nil {
		n.Tags = *p.Tags
	}

	if n.State == StateActive {
		if ok, _ := n.ReadyForActive(); !ok {
			n.State = StateBuild
		}
	}
	if n.State == StateExplore && strings.TrimSpace(n.Definition) != "" {
		n.State = StateBuild
	}

	n.Touch()
	n.Maturity = Maturity(n, connectedEdges)
	n.Version++
}

// Maturity scores a node 0-5 from document completeness: one point each for
// definition, mechanism, boundary conditions and at least one assumption.
// A node connected by maturityEdgeFloor or more edges scores at least 3.
// Level 5 (survived reflection) is set externally and never computed here.
func Maturity(n *Node, connectedEdges int) int {
	score := 0
	if strings.TrimSpace(n.Definition) != "" {
		score++
	}
	if strings.TrimSpace(n.Mechanism) != "" {
		score++
	}
	if strings.TrimSpace(n.BoundaryConditions) != "" {
		score++
	}
	if len(n.Assumptions) >= 1 {
		score++
	}
	if connectedEdges >= maturityEdgeFloor && score < 3 {
		score = 3
	}
	return score
}

// ReadyForActive reports whether the node satisfies the document
// requirements for the ACTIVE state, and which fields are still missing.
func (n *Node) ReadyForActive() (bool, []string) {
	var missing []string
	if strings.TrimSpace(n.Definition) == "" {
		missing = append(missing, "definition")
	}
	if strings.TrimSpace(n.Mechanism) == "" {
		missing = append(missing, "mechanism")
	}
	if strings.TrimSpace(n.BoundaryConditions) == "" {
		missing = append(missing, "boundary_conditions")
	}
	return len(missing) == 0, missing
}
