// Tests for the link store accessor.
package sqlite

import (
	"bytes"
	"testing"

	"github.com/dukaforge/gravel/pkg/types"
)

func mustID(t *testing.T, fill byte) types.ID {
	t.Helper()
	id, err := types.ParseID(bytes.Repeat([]byte{fill}, 16))
	if err != nil {
		t.Fatalf("ParseID: %v", err)
	}
	return id
}

func TestLinks_AddAndTraverse(t *testing.T) {
	b := newTestBackend(t)
	links := b.Links()

	source := types.NewID()
	key := types.NewID()
	target := types.NewID()

	edge, err := links.Add(source, &key, target)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if edge.Source != source || edge.Target != target || edge.Key == nil || *edge.Key != key {
		t.Errorf("returned edge mismatch: %+v", edge)
	}

	for name, query := range map[string]func() ([]types.Edge, error){
		"From":        func() ([]types.Edge, error) { return links.From(source) },
		"FromWithKey": func() ([]types.Edge, error) { return links.FromWithKey(source, key) },
		"ByKey":       func() ([]types.Edge, error) { return links.ByKey(key) },
		"To":          func() ([]types.Edge, error) { return links.To(target) },
	} {
		edges, err := query()
		if err != nil {
			t.Fatalf("%s failed: %v", name, err)
		}
		if len(edges) != 1 {
			t.Fatalf("%s returned %d edges, want 1", name, len(edges))
		}
		if edges[0].Handle != edge.Handle {
			t.Errorf("%s returned wrong edge: %+v", name, edges[0])
		}
	}
}

func TestLinks_UnlabeledEdge(t *testing.T) {
	b := newTestBackend(t)
	links := b.Links()

	source, target := types.NewID(), types.NewID()
	if _, err := links.Add(source, nil, target); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	edges, err := links.From(source)
	if err != nil {
		t.Fatalf("From failed: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("got %d edges", len(edges))
	}
	if edges[0].Key != nil {
		t.Errorf("unlabeled edge came back with a key: %+v", edges[0])
	}

	byKey, err := links.ByKey(types.NewID())
	if err != nil {
		t.Fatalf("ByKey failed: %v", err)
	}
	if len(byKey) != 0 {
		t.Errorf("ByKey matched an unlabeled edge")
	}
}

func TestLinks_MultigraphSemantics(t *testing.T) {
	b := newTestBackend(t)
	links := b.Links()

	source, key, target := types.NewID(), types.NewID(), types.NewID()

	var handles []int64
	for i := 0; i < 3; i++ {
		edge, err := links.Add(source, &key, target)
		if err != nil {
			t.Fatalf("Add %d failed: %v", i, err)
		}
		handles = append(handles, edge.Handle)
	}
	if handles[0] == handles[1] || handles[1] == handles[2] {
		t.Fatal("identical tuples must get distinct handles")
	}

	edges, err := links.FromWithKey(source, key)
	if err != nil {
		t.Fatalf("FromWithKey failed: %v", err)
	}
	if len(edges) != 3 {
		t.Fatalf("got %d edges, want 3 (multiplicity preserved)", len(edges))
	}

	// Each insertion is independently removable.
	if err := links.Remove(handles[1]); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	edges, err = links.FromWithKey(source, key)
	if err != nil {
		t.Fatalf("FromWithKey failed: %v", err)
	}
	if len(edges) != 2 {
		t.Errorf("got %d edges after removal, want 2", len(edges))
	}
}

func TestLinks_RemoveNotFound(t *testing.T) {
	b := newTestBackend(t)

	if err := b.Links().Remove(12345); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLinks_DanglingEdgesTolerated(t *testing.T) {
	b := newTestBackend(t)

	// No endpoint exists in the value store; the insert must still succeed.
	source, target := types.NewID(), types.NewID()
	if _, err := b.Links().Add(source, nil, target); err != nil {
		t.Fatalf("dangling edge rejected: %v", err)
	}
}

// Mirrors the canonical triple example: a u32 fact linked to a never-stored
// target through a "likes" label.
func TestLinks_TripleExample(t *testing.T) {
	b := newTestBackend(t)

	node := mustID(t, 0x11)
	label := mustID(t, 0x22)
	missing := mustID(t, 0x33)

	if err := b.Values().Put(node, types.U32(42)); err != nil {
		t.Fatalf("Put node failed: %v", err)
	}
	if err := b.Values().Put(label, types.Str("likes")); err != nil {
		t.Fatalf("Put label failed: %v", err)
	}
	if _, err := b.Links().Add(node, &label, missing); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	edges, err := b.Links().FromWithKey(node, label)
	if err != nil {
		t.Fatalf("FromWithKey failed: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(edges))
	}
	if edges[0].Target != missing {
		t.Errorf("edge target = %s, want %s", edges[0].Target, missing)
	}

	if _, err := b.Values().Get(missing); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound for never-stored target, got %v", err)
	}
}
