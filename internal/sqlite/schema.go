// Package sqlite implements the SQLite backend for the Gravel
// graph-of-values store.
package sqlite

// Generation numbers recorded in PRAGMA user_version. A fresh database is
// generation 0 (no schema); the migration engine brings it to
// currentGeneration on Attach.
const (
	generationInitial = 1
	generationBinary  = 2

	currentGeneration = generationBinary
)

// Generation-1 schema: variable-length text identifiers, application
// assigned. Every statement is create-if-absent so the step re-runs safely.
// The "values" table is a sparse row: at most one payload column is non-null
// per record, an invariant the schema itself does not enforce (callers go
// through types.Value, which does).
const (
	createValuesV1 = `CREATE TABLE IF NOT EXISTS "values" (
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
);`

	// No primary key and no uniqueness: identical edges may coexist, and
	// endpoints are never checked against "values", so edges may dangle.
	createLinksV1 = `CREATE TABLE IF NOT EXISTS links (
    source_id TEXT NOT NULL,
    key_id    TEXT,
    target_id TEXT NOT NULL
);`
)

// Generation-2 schema: fixed 16-byte binary identifiers with structural
// length checks in place of foreign keys. Built as fresh *_v2 objects during
// migration and swapped in on completion.
const (
	createValuesV2 = `CREATE TABLE values_v2 (
    id   BLOB NOT NULL PRIMARY KEY UNIQUE CHECK (length(id) = 16),
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
);`

	createLinksV2 = `CREATE TABLE links_v2 (
    source_id BLOB NOT NULL CHECK (length(source_id) = 16),
    key_id    BLOB CHECK (key_id IS NULL OR length(key_id) = 16),
    target_id BLOB NOT NULL CHECK (length(target_id) = 16)
);`
)

// Index DDL for the four traversal patterns plus lookup-by-literal-string.
// The target and str indexes exist from generation 2 only.
const (
	idxLinksSource    = `CREATE INDEX IF NOT EXISTS idx_links_source ON links(source_id);`
	idxLinksKey       = `CREATE INDEX IF NOT EXISTS idx_links_key ON links(key_id);`
	idxLinksSourceKey = `CREATE INDEX IF NOT EXISTS idx_links_source_key ON links(source_id, key_id);`
	idxLinksTarget    = `CREATE INDEX IF NOT EXISTS idx_links_target ON links(target_id);`
	idxValuesStr      = `CREATE INDEX IF NOT EXISTS idx_values_str ON "values"(str);`
)

// initialDDL lists every generation-1 statement in dependency order.
var initialDDL = []string{
	createValuesV1,
	createLinksV1,
	idxLinksSource,
	idxLinksKey,
	idxLinksSourceKey,
}

// linkIndexDropDDL removes the generation-1 link indexes before the
// structural rewrite.
var linkIndexDropDDL = []string{
	`DROP INDEX IF EXISTS idx_links_source;`,
	`DROP INDEX IF EXISTS idx_links_key;`,
	`DROP INDEX IF EXISTS idx_links_source_key;`,
}

// binaryIndexDDL lists every index rebuilt under the generation-2
// definitions.
var binaryIndexDDL = []string{
	idxLinksSource,
	idxLinksKey,
	idxLinksSourceKey,
	idxLinksTarget,
	idxValuesStr,
}

// payloadColumns names the sparse payload columns in kind order. Shared by
// the value codec and the migration copy loop.
const payloadColumns = `bool, u8, i8, u16, i16, u32, i32, u64, i64, f32, f64, str`
