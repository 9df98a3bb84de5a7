// Migration integration tests: a generation-1 store with text identifiers
// is built by hand, migrated through the CLI, and inspected through the CLI.
package integration

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/dukaforge/gravel/pkg/types"
)

// gen1DDL mirrors the schema a generation-1 store carries on disk.
var gen1DDL = []string{
	`CREATE TABLE "values" (
    id   TEXT PRIMARY KEY NOT NULL,
    bool INTEGER,
    u8   INTEGER,
    i8   INTEGER,
    u16  INTEGER,
    i16  INTEGER,
    u32  INTEGER,
    i32  INTEGER,
    u64  INTEGER,
    i64  INTEGER,
    f32  REAL,
    f64  REAL,
    str  TEXT
);`,
	`CREATE TABLE links (
    source_id TEXT NOT NULL,
    key_id    TEXT,
    target_id TEXT NOT NULL
);`,
	`CREATE INDEX idx_links_source ON links(source_id);`,
	`CREATE INDEX idx_links_key ON links(key_id);`,
	`CREATE INDEX idx_links_source_key ON links(source_id, key_id);`,
	`PRAGMA user_version = 1;`,
}

// seedGen1Store writes a generation-1 database into the env's data directory
// with three text-keyed values and one labeled link.
func seedGen1Store(t *testing.T, env *TestEnv) {
	t.Helper()

	if err := os.MkdirAll(env.DataDir, 0755); err != nil {
		t.Fatalf("create data dir: %v", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(env.DataDir, "gravel.db"))
	if err != nil {
		t.Fatalf("open gen1 store: %v", err)
	}
	defer db.Close()

	for _, stmt := range gen1DDL {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("gen1 DDL %q: %v", stmt, err)
		}
	}

	seed := []struct {
		id  string
		str string
	}{
		{"alice", "Alice"},
		{"bob", "Bob"},
		{"likes", "likes"},
	}
	for _, s := range seed {
		if _, err := db.Exec(`INSERT INTO "values" (id, str) VALUES (?, ?)`, s.id, s.str); err != nil {
			t.Fatalf("seed value %q: %v", s.id, err)
		}
	}
	if _, err := db.Exec(`INSERT INTO links (source_id, key_id, target_id) VALUES (?, ?, ?)`,
		"alice", "likes", "bob"); err != nil {
		t.Fatalf("seed link: %v", err)
	}
}

// TestMigrateGen1Store verifies the CLI migrates a text-keyed store to
// binary identifiers and that the re-keyed data remains reachable.
func TestMigrateGen1Store(t *testing.T) {
	env := NewTestEnv(t)
	seedGen1Store(t, env)

	result := env.MustRunGravel("migrate")
	if !strings.Contains(result.Stdout, "Current generation: 1") {
		t.Errorf("migrate = %q, want current generation 1", result.Stdout)
	}
	if !strings.Contains(result.Stdout, "Migrated from generation 1 to 2") {
		t.Errorf("migrate = %q, want migration report", result.Stdout)
	}

	// Text identifiers re-key deterministically.
	alice := types.DeriveID("alice").String()
	bob := types.DeriveID("bob").String()
	likes := types.DeriveID("likes").String()

	getResult := env.MustRunGravel("get", alice)
	if got := strings.TrimSpace(getResult.Stdout); got != `str:"Alice"` {
		t.Errorf("get alice = %q, want str:\"Alice\"", got)
	}

	findResult := env.MustRunGravel("find", "Bob")
	if got := strings.TrimSpace(findResult.Stdout); got != bob {
		t.Errorf("find Bob = %q, want %q", got, bob)
	}

	listResult := env.MustRunGravel("link", "list", "--from", alice, "--key", likes)
	if !strings.Contains(listResult.Stdout, bob) {
		t.Errorf("link list = %q, want edge to %s", listResult.Stdout, bob)
	}

	// A second migrate is a no-op.
	again := env.MustRunGravel("migrate")
	if !strings.Contains(again.Stdout, "Already migrated") {
		t.Errorf("second migrate = %q, want Already migrated", again.Stdout)
	}
}

// TestMigrationFailureExitCode verifies a store that cannot migrate makes
// the CLI exit with the system error code, while bad input exits with the
// user error code.
func TestMigrationFailureExitCode(t *testing.T) {
	env := NewTestEnv(t)
	seedGen1Store(t, env)

	// A leftover values_v2 table makes the identifier rewrite step fail.
	db, err := sql.Open("sqlite", filepath.Join(env.DataDir, "gravel.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE values_v2 (x INTEGER)`); err != nil {
		db.Close()
		t.Fatalf("create conflicting table: %v", err)
	}
	db.Close()

	result := env.RunGravel("init")
	if result.ExitCode != 2 {
		t.Errorf("init on unmigratable store: exit code %d, want 2\nstderr: %s",
			result.ExitCode, result.Stderr)
	}

	result = env.RunGravel("get", "not-a-uuid")
	if result.ExitCode != 1 {
		t.Errorf("get with malformed id: exit code %d, want 1", result.ExitCode)
	}
}

// TestMigrateCheckLeavesStoreUntouched verifies --check reports without
// migrating.
func TestMigrateCheckLeavesStoreUntouched(t *testing.T) {
	env := NewTestEnv(t)
	seedGen1Store(t, env)

	result := env.MustRunGravel("migrate", "--check")
	if !strings.Contains(result.Stdout, "Current generation: 1") {
		t.Errorf("migrate --check = %q, want current generation 1", result.Stdout)
	}

	// Still at generation 1 afterwards.
	again := env.MustRunGravel("migrate", "--check")
	if !strings.Contains(again.Stdout, "Current generation: 1") {
		t.Errorf("migrate --check after check = %q, want current generation 1", again.Stdout)
	}
}
