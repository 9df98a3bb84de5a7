// Tests for the backend lifecycle.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dukaforge/gravel/pkg/types"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()

	b := NewBackend(nil)
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend(nil)
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	dbPath := filepath.Join(tmpDir, DatabaseFileName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("%s not created", DatabaseFileName)
	}

	if err := b.Attach(config); err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}
}

func TestBackend_AttachValidatesConfig(t *testing.T) {
	b := NewBackend(nil)

	if err := b.Attach(types.Config{}); err != types.ErrBackendEmpty {
		t.Errorf("expected ErrBackendEmpty, got %v", err)
	}
	if err := b.Attach(types.Config{Backend: "postgres"}); err != types.ErrBackendUnknown {
		t.Errorf("expected ErrBackendUnknown, got %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	b := newTestBackend(t)

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	// Idempotent.
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach failed: %v", err)
	}

	if err := b.Values().Put(types.NewID(), types.Bool(true)); err != types.ErrStoreDetached {
		t.Errorf("expected ErrStoreDetached, got %v", err)
	}
	if _, err := b.Links().From(types.NewID()); err != types.ErrStoreDetached {
		t.Errorf("expected ErrStoreDetached, got %v", err)
	}
}

func TestBackend_FreshStoreReachesCurrentGeneration(t *testing.T) {
	b := newTestBackend(t)

	gen, err := b.Generation()
	if err != nil {
		t.Fatalf("Generation failed: %v", err)
	}
	if gen != currentGeneration {
		t.Errorf("generation = %d, want %d", gen, currentGeneration)
	}

	var nValues, nLinks int
	if err := b.db.QueryRow(`SELECT COUNT(*) FROM "values"`).Scan(&nValues); err != nil {
		t.Fatalf("counting values: %v", err)
	}
	if err := b.db.QueryRow(`SELECT COUNT(*) FROM links`).Scan(&nLinks); err != nil {
		t.Fatalf("counting links: %v", err)
	}
	if nValues != 0 || nLinks != 0 {
		t.Errorf("fresh store not empty: %d values, %d links", nValues, nLinks)
	}
}

func TestBackend_ReattachKeepsData(t *testing.T) {
	tmpDir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}

	b := NewBackend(nil)
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	id := types.NewID()
	if err := b.Values().Put(id, types.Str("persisted")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	b2 := NewBackend(nil)
	if err := b2.Attach(config); err != nil {
		t.Fatalf("second Attach failed: %v", err)
	}
	defer b2.Detach()

	v, err := b2.Values().Get(id)
	if err != nil {
		t.Fatalf("Get after reattach failed: %v", err)
	}
	if s, _ := v.AsStr(); s != "persisted" {
		t.Errorf("got %s", v)
	}
}
