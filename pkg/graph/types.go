// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package graph

import "time"

// NodeState is the lifecycle state of a node. The store persists whatever
// state it is given; transition checks live with the caller.
type NodeState string

const (
	StateExplore    NodeState = "EXPLORE"
	StateBuild      NodeState = "BUILD"
	StateActive     NodeState = "ACTIVE"
	StateStale      NodeState = "STALE"
	StateConflicted NodeState = "CONFLICTED"
	StateArchived   NodeState = "ARCHIVED"
)

// ValidNodeStates lists the lifecycle states a node may carry.
var ValidNodeStates = []NodeState{
	StateExplore,
	StateBuild,
	StateActive,
	StateStale,
	StateConflicted,
	StateArchived,
}

// NodeType classifies what kind of concept a node captures.
type NodeType string

const (
	TypeOntology      NodeType = "ONTOLOGY"
	TypeMechanism     NodeType = "MECHANISM"
	TypeDomain        NodeType = "DOMAIN"
	TypeAction        NodeType = "ACTION"
	TypeAssumption    NodeType = "ASSUMPTION"
	TypeContradiction NodeType = "CONTRADICTION"
	TypePrediction    NodeType = "PREDICTION"
)

// ValidNodeTypes lists the valid node classifications.
var ValidNodeTypes = []NodeType{
	TypeOntology,
	TypeMechanism,
	TypeDomain,
	TypeAction,
	TypeAssumption,
	TypeContradiction,
	TypePrediction,
}

// RelationType labels a directed edge between two nodes.
type RelationType string

const (
	RelFoundationOf RelationType = "FOUNDATION_OF"
	RelInstanceOf   RelationType = "INSTANCE_OF"
	RelRequires     RelationType = "REQUIRES"
	RelCauses       RelationType = "CAUSES"
	RelAmplifies    RelationType = "AMPLIFIES"
	RelInhibits     RelationType = "INHIBITS"
	RelContradicts  RelationType = "CONTRADICTS"
	RelExampleOf    RelationType = "EXAMPLE_OF"
	RelPartOf       RelationType = "PART_OF"
	RelAppliesTo    RelationType = "APPLIES_TO"
)

// ValidRelationTypes lists the valid edge relation labels.
var ValidRelationTypes = []RelationType{
	RelFoundationOf,
	RelInstanceOf,
	RelRequires,
	RelCauses,
	RelAmplifies,
	RelInhibits,
	RelContradicts,
	RelExampleOf,
	RelPartOf,
	RelAppliesTo,
}

// SourceKind classifies where a source document came from.
type SourceKind string

const (
	SourcePDF  SourceKind = "PDF"
	SourceURL  SourceKind = "URL"
	SourceText SourceKind = "TEXT"
)

// ValidSourceKinds lists the valid source kinds.
var ValidSourceKinds = []SourceKind{SourcePDF, SourceURL, SourceText}

// NodeOrigin records how a node's content entered the graph.
type NodeOrigin string

const (
	OriginDerived   NodeOrigin = "DERIVED"
	OriginObserved  NodeOrigin = "OBSERVED"
	OriginAsserted  NodeOrigin = "ASSERTED"
	OriginGenerated NodeOrigin = "LLM_GENERATED"
)

// Valid reports whether s is a known lifecycle state.
func (s NodeState) Valid() bool {
	for _, v := range ValidNodeStates {
		if v == s {
			return true
		}
	}
	return false
}

// Valid reports whether t is a known node type.
func (t NodeType) Valid() bool {
	for _, v := range ValidNodeTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Valid reports whether r is a known relation label.
func (r RelationType) Valid() bool {
	for _, v := range ValidRelationTypes {
		if v == r {
			return true
		}
	}
	return false
}

// Valid reports whether k is a known source kind.
func (k SourceKind) Valid() bool {
	for _, v := range ValidSourceKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Container is the root scope for sources, nodes and edges. Its ID is
// assigned at construction and never changes across rewrites.
type Container struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Source is a reference document attached to a container. Sources carry no
// graph relationships; they are only removed via container deletion or an
// explicit delete.
type Source struct {
	ID          string     `json:"id"`
	ContainerID string     `json:"container_id"`
	Kind        SourceKind `json:"kind"`
	Label       string     `json:"label"`
	Location    string     `json:"location"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Node is a concept in a container's knowledge graph. Mutations append a new
// full snapshot under the same ID; Version goes up by exactly 1 per write.
type Node struct {
	ID          string    `json:"id"`
	ContainerID string    `json:"container_id"`
	Title       string    `json:"title"`
	Type        NodeType  `json:"type"`
	State       NodeState `json:"state"`

	// Document fields, free text filled in by the caller over time.
	Definition         string   `json:"definition"`
	Mechanism          string   `json:"mechanism"`
	BoundaryConditions string   `json:"boundary_conditions"`
	Assumptions        []string `json:"assumptions"`

	Maturity int        `json:"maturity"`
	Origin   NodeOrigin `json:"origin"`
	Tags     []string   `json:"tags"`
	Version  int        `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Edge is a directed relation between two nodes of the same container.
// Self-loops and parallel edges are permitted; the only uniqueness
// constraint is the edge ID itself. Endpoint liveness is a caller
// obligation, see CheckEdgeEndpoints.
type Edge struct {
	ID           string       `json:"id"`
	ContainerID  string       `json:"container_id"`
	SourceNodeID string       `json:"source_node_id"`
	TargetNodeID string       `json:"target_node_id"`
	Relation     RelationType `json:"relation_type"`
	Weight       float64      `json:"weight"`
	Condition    string       `json:"condition"`
	CreatedAt    time.Time    `json:"created_at"`
}

// NewContainer constructs a container with a fresh ID and timestamps.
func NewContainer(owner, title, description string) *Container {
	now := time.Now().UTC()
	if owner == "" {
		owner = "default"
	}
	return &Container{
		ID:          ContainerID(),
		Owner:       owner,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewSource constructs a source with a fresh ID.
func NewSource(containerID string, kind SourceKind, label, location, notes string) *Source {
	if !kind.Valid() {
		kind = SourceText
	}
	return &Source{
		ID:          SourceID(),
		ContainerID: containerID,
		Kind:        kind,
		Label:       label,
		Location:    location,
		Notes:       notes,
		CreatedAt:   time.Now().UTC(),
	}
}

// NewNode constructs a node in the initial lifecycle state. Unknown types
// and states fall back to ONTOLOGY / EXPLORE.
func NewNode(containerID, title string, typ NodeType, state NodeState) *Node {
	if !typ.Valid() {
		typ = TypeOntology
	}
	if !state.Valid() {
		state = StateExplore
	}
	now := time.Now().UTC()
	return &Node{
		ID:          NodeID(),
		ContainerID: containerID,
		Title:       title,
		Type:        typ,
		State:       state,
		Origin:      OriginAsserted,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewEdge constructs a directed edge with a fresh ID and default weight 1.
func NewEdge(containerID, sourceNodeID, targetNodeID string, relation RelationType) *Edge {
	if !relation.Valid() {
		relation = RelPartOf
	}
	return &Edge{
		ID:           EdgeID(),
		ContainerID:  containerID,
		SourceNodeID: sourceNodeID,
		TargetNodeID: targetNodeID,
		Relation:     relation,
		Weight:       1.0,
		CreatedAt:    time.Now().UTC(),
	}
}

// Touch refreshes the node's update timestamp.
func (n *Node) Touch() {
	n.UpdatedAt = time.Now().UTC()
}

// Store is the entity log store contract. Implementations persist full
// record snapshots append-only and resolve the current value of an ID as
// the most recent write, with tombstoned IDs absent from every result.
//
// Get methods return (nil, nil) when the ID was never written or is
// tombstoned; absence is not an error at this layer.
type Store interface {
	ListContainers() ([]*Container, error)
	GetContainer(id string) (*Container, error)
	UpsertContainer(c *Container) error
	DeleteContainer(id string) error

	ListSources(containerID string) ([]*Source, error)
	UpsertSource(s *Source) error
	DeleteSource(id string) error

	ListNodes(containerID string) ([]*Node, error)
	GetNode(id string) (*Node, error)
	UpsertNode(n *Node) error
	DeleteNode(id string) error

	ListEdges(containerID string) ([]*Edge, error)
	GetEdge(id string) (*Edge, error)
	UpsertEdge(e *Edge) error
	DeleteEdge(id string) error
}
