// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BinhNgo97/AiAgent-TreeKnowlege/pkg/graph"
)

// newTestStore opens a store on an isolated temp directory.
func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// seedContainer writes a container and returns it.
func seedContainer(t *testing.T, s *FileStore) *graph.Container {
	t.Helper()
	c := graph.NewContainer("tester", "Physics", "classical mechanics")
	require.NoError(t, s.UpsertContainer(c))
	return c
}

func TestRoundTripCreationOrder(t *testing.T) {
	s := newTestStore(t)
	c := seedContainer(t, s)

	n1 := graph.NewNode(c.ID, "Force", graph.TypeOntology, graph.StateExplore)
	n2 := graph.NewNode(c.ID, "Momentum", graph.TypeOntology, graph.StateExplore)
	require.NoError(t, s.UpsertNode(n1))
	require.NoError(t, s.UpsertNode(n2))

	e := graph.NewEdge(c.ID, n1.ID, n2.ID, graph.RelCauses)
	require.NoError(t, s.UpsertEdge(e))

	nodes, err := s.ListNodes(c.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, n1.ID, nodes[0].ID)
	assert.Equal(t, n2.ID, nodes[1].ID)

	edges, err := s.ListEdges(c.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, e.ID, edges[0].ID)
	assert.Equal(t, graph.RelCauses, edges[0].Relation)

	containers, err := s.ListContainers()
	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, c.ID, containers[0].ID)
}

func TestLastWriteWins(t *testing.T) {
	s := newTestStore(t)
	c := seedContainer(t, s)

	n := graph.NewNode(c.ID, "v0", graph.TypeOntology, graph.StateExplore)
	require.NoError(t, s.UpsertNode(n))

	for i := 1; i <= 7; i++ {
		n.Title = fmt.Sprintf("v%d", i)
		n.Version++
		require.NoError(t, s.UpsertNode(n))
	}

	got, err := s.GetNode(n.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "v7", got.Title)
	assert.Equal(t, 8, got.Version)

	// Rewrites must not duplicate the node in list results.
	nodes, err := s.ListNodes(c.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "v7", nodes[0].Title)
}

func TestGetAbsent(t *testing.T) {
	s := newTestStore(t)

	n, err := s.GetNode("N_000000000000")
	require.NoError(t, err)
	assert.Nil(t, n)

	c, err := s.GetContainer("KC_000000000000")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestMissingLogsAreEmpty(t *testing.T) {
	s := newTestStore(t)

	containers, err := s.ListContainers()
	require.NoError(t, err)
	assert.Empty(t, containers)

	nodes, err := s.ListNodes("KC_whatever")
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestDeleteIdempotent(t *testing.T) {
	s := newTestStore(t)
	c := seedContainer(t, s)

	src := graph.NewSource(c.ID, graph.SourceText, "notes", "", "")
	require.NoError(t, s.UpsertSource(src))
	require.NoError(t, s.DeleteSource(src.ID))

	before, err := os.ReadFile(filepath.Join(s.Dir(), deletedFile))
	require.NoError(t, err)

	// Second delete is a no-op and must not rewrite the sidecar.
	require.NoError(t, s.DeleteSource(src.ID))
	after, err := os.ReadFile(filepath.Join(s.Dir(), deletedFile))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	srcs, err := s.ListSources(c.ID)
	require.NoError(t, err)
	assert.Empty(t, srcs)
}

func TestTombstoneIsolationNoResurrection(t *testing.T) {
	s := newTestStore(t)
	c := seedContainer(t, s)

	n := graph.NewNode(c.ID, "Entropy", graph.TypeOntology, graph.StateExplore)
	require.NoError(t, s.UpsertNode(n))
	require.NoError(t, s.DeleteNode(n.ID))

	// Re-upserting a tombstoned ID must not bring it back.
	n.Title = "Entropy (revived?)"
	require.NoError(t, s.UpsertNode(n))

	got, err := s.GetNode(n.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	nodes, err := s.ListNodes(c.ID)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestDeleteContainerFanOut(t *testing.T) {
	s := newTestStore(t)
	c := seedContainer(t, s)
	other := graph.NewContainer("tester", "Other", "")
	require.NoError(t, s.UpsertContainer(other))

	src := graph.NewSource(c.ID, graph.SourceURL, "paper", "https://example.org", "")
	n1 := graph.NewNode(c.ID, "A", graph.TypeOntology, graph.StateExplore)
	n2 := graph.NewNode(c.ID, "B", graph.TypeOntology, graph.StateExplore)
	e := graph.NewEdge(c.ID, n1.ID, n2.ID, graph.RelPartOf)
	keep := graph.NewNode(other.ID, "Survivor", graph.TypeOntology, graph.StateExplore)
	require.NoError(t, s.UpsertSource(src))
	require.NoError(t, s.UpsertNode(n1))
	require.NoError(t, s.UpsertNode(n2))
	require.NoError(t, s.UpsertEdge(e))
	require.NoError(t, s.UpsertNode(keep))

	require.NoError(t, s.DeleteContainer(c.ID))

	gone, err := s.GetContainer(c.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	for _, list := range []func() (int, error){
		func() (int, error) { v, err := s.ListSources(c.ID); return len(v), err },
		func() (int, error) { v, err := s.ListNodes(c.ID); return len(v), err },
		func() (int, error) { v, err := s.ListEdges(c.ID); return len(v), err },
	} {
		count, err := list()
		require.NoError(t, err)
		assert.Zero(t, count)
	}

	// The other container is untouched.
	survivors, err := s.ListNodes(other.ID)
	require.NoError(t, err)
	require.Len(t, survivors, 1)
	assert.Equal(t, keep.ID, survivors[0].ID)
}

func TestDeleteNodeSweepsEdges(t *testing.T) {
	s := newTestStore(t)
	c := seedContainer(t, s)

	a := graph.NewNode(c.ID, "A", graph.TypeOntology, graph.StateExplore)
	b := graph.NewNode(c.ID, "B", graph.TypeOntology, graph.StateExplore)
	d := graph.NewNode(c.ID, "C", graph.TypeOntology, graph.StateExplore)
	require.NoError(t, s.UpsertNode(a))
	require.NoError(t, s.UpsertNode(b))
	require.NoError(t, s.UpsertNode(d))

	outgoing := graph.NewEdge(c.ID, a.ID, b.ID, graph.RelCauses)
	incoming := graph.NewEdge(c.ID, d.ID, a.ID, graph.RelRequires)
	unrelated := graph.NewEdge(c.ID, d.ID, b.ID, graph.RelPartOf)
	require.NoError(t, s.UpsertEdge(outgoing))
	require.NoError(t, s.UpsertEdge(incoming))
	require.NoError(t, s.UpsertEdge(unrelated))

	require.NoError(t, s.DeleteNode(a.ID))

	edges, err := s.ListEdges(c.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, unrelated.ID, edges[0].ID)
}

func TestDeleteNodeSweepsEdgesToDeadEndpoint(t *testing.T) {
	s := newTestStore(t)
	c := seedContainer(t, s)

	a := graph.NewNode(c.ID, "A", graph.TypeOntology, graph.StateExplore)
	b := graph.NewNode(c.ID, "B", graph.TypeOntology, graph.StateExplore)
	require.NoError(t, s.UpsertNode(a))
	require.NoError(t, s.UpsertNode(b))
	require.NoError(t, s.DeleteNode(b.ID))

	// The store does not check endpoints; an edge to the dead node lands
	// in the log and must still be swept when A goes.
	dangling := graph.NewEdge(c.ID, a.ID, b.ID, graph.RelCauses)
	require.NoError(t, s.UpsertEdge(dangling))
	require.NoError(t, s.DeleteNode(a.ID))

	edges, err := s.ListEdges(c.ID)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestDeleteMissingNodeStillTombstones(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.DeleteNode("N_never_written"))

	data, err := os.ReadFile(filepath.Join(s.Dir(), deletedFile))
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal(data, &ids))
	assert.Contains(t, ids, "N_never_written")
}

func TestCorruptLineFailsRead(t *testing.T) {
	s := newTestStore(t)
	c := seedContainer(t, s)

	n := graph.NewNode(c.ID, "Fine", graph.TypeOntology, graph.StateExplore)
	require.NoError(t, s.UpsertNode(n))

	f, err := os.OpenFile(filepath.Join(s.Dir(), nodesFile), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = s.ListNodes(c.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)

	var corrupt *CorruptError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, 2, corrupt.Line)

	// Get goes through the same replay and must fail the same way.
	_, err = s.GetNode(n.ID)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestTombstoneSidecarHumanReadable(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.DeleteEdge("E_aaa"))
	require.NoError(t, s.DeleteEdge("E_zzz"))

	data, err := os.ReadFile(filepath.Join(s.Dir(), deletedFile))
	require.NoError(t, err)

	var ids []string
	require.NoError(t, json.Unmarshal(data, &ids))
	assert.Equal(t, []string{"E_aaa", "E_zzz"}, ids)
}

func TestOpenIsExclusive(t *testing.T) {
	dir := t.TempDir()
	first, err := Open(dir, nil)
	require.NoError(t, err)
	defer first.Close()

	_, err = Open(dir, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocked)

	// After Close the directory is free again.
	require.NoError(t, first.Close())
	second, err := Open(dir, nil)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestTombstonesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	require.NoError(t, err)

	c := graph.NewContainer("tester", "Scratch", "")
	require.NoError(t, s.UpsertContainer(c))
	n := graph.NewNode(c.ID, "Gone", graph.TypeOntology, graph.StateExplore)
	require.NoError(t, s.UpsertNode(n))
	require.NoError(t, s.DeleteNode(n.ID))
	require.NoError(t, s.Close())

	reopened, err := Open(dir, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetNode(n.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCorruptTombstoneSidecarFailsOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, deletedFile), []byte("not json"), 0o644))

	_, err := Open(dir, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestUpsertNeverRejects(t *testing.T) {
	s := newTestStore(t)
	c := seedContainer(t, s)

	// Writing an older version over a newer one is allowed; the last
	// append wins regardless of the version field.
	n := graph.NewNode(c.ID, "X", graph.TypeOntology, graph.StateExplore)
	n.Version = 5
	require.NoError(t, s.UpsertNode(n))
	n.Version = 2
	require.NoError(t, s.UpsertNode(n))

	got, err := s.GetNode(n.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Version)
}
