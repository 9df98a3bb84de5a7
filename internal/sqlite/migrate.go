// Migration engine: ordered, versioned schema transformations gated by the
// generation number persisted in PRAGMA user_version. Each step runs inside
// a single transaction with the generation bump as its last statement, so a
// crash or failure mid-step leaves the store at its prior generation and the
// next Attach retries the same step from scratch.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dukaforge/gravel/pkg/types"
)

// CurrentGeneration is the generation the migration engine targets.
func CurrentGeneration() int { return currentGeneration }

// ReadGeneration reports the recorded generation of an existing store
// without opening or migrating it. Returns os.ErrNotExist if no database
// file exists under the data dir.
func ReadGeneration(config types.Config) (int, error) {
	db, err := openExisting(config)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return readGeneration(db)
}

// Migrate runs every pending migration step against an existing store and
// reports the generation before and after. Unlike Attach, it refuses to
// create a store that does not exist.
func Migrate(config types.Config, logger *zap.Logger) (before, after int, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := openExisting(config)
	if err != nil {
		return 0, 0, err
	}
	defer db.Close()

	before, err = readGeneration(db)
	if err != nil {
		return 0, 0, err
	}
	if err := migrateTo(db, currentGeneration, logger); err != nil {
		return before, before, err
	}
	after, err = readGeneration(db)
	if err != nil {
		return before, before, err
	}
	return before, after, nil
}

// openExisting opens the database file under config.DataDir, failing with
// os.ErrNotExist if the file is absent.
func openExisting(config types.Config) (*sql.DB, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	dbPath := filepath.Join(dataDir, DatabaseFileName)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no store at %s: %w", dbPath, err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// migration is one schema generation transition. apply sees a transaction
// that already holds the store exclusively; it must be safe to re-attempt
// from scratch after a rollback.
type migration struct {
	// generation reached once apply succeeds.
	generation int
	name       string
	apply      func(tx *sql.Tx, logger *zap.Logger) error
}

// migrations lists every step in order. The generation numbers must be
// contiguous from 1.
var migrations = []migration{
	{generationInitial, "initial text-keyed schema", migrateInitialSchema},
	{generationBinary, "binary identifiers and traversal indexes", migrateBinaryIdentifiers},
}

// readGeneration returns the generation recorded in the database header.
// A freshly created database reads 0.
func readGeneration(db *sql.DB) (int, error) {
	var gen int
	if err := db.QueryRow("PRAGMA user_version").Scan(&gen); err != nil {
		return 0, fmt.Errorf("reading generation: %w", err)
	}
	return gen, nil
}

// migrateTo runs every pending step up to target. Steps at or below the
// recorded generation are skipped, which makes destructive rewrites
// execute exactly once per store. Returns an error wrapping
// types.ErrMigrationFailed on the first step that cannot complete.
func migrateTo(db *sql.DB, target int, logger *zap.Logger) error {
	gen, err := readGeneration(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.generation <= gen {
			continue
		}
		if m.generation > target {
			break
		}

		logger.Info("migrating",
			zap.Int("from", gen),
			zap.Int("to", m.generation),
			zap.String("step", m.name))

		if err := runStep(db, m, logger); err != nil {
			logger.Error("migration failed",
				zap.Int("generation", m.generation),
				zap.String("step", m.name),
				zap.Error(err))
			return fmt.Errorf("%w: generation %d (%s): %v",
				types.ErrMigrationFailed, m.generation, m.name, err)
		}

		gen = m.generation
		logger.Info("migrated", zap.Int("generation", gen))
	}
	return nil
}

// runStep executes one migration inside its own transaction, bumping the
// generation marker as the final statement before commit.
func runStep(db *sql.DB, m migration, logger *zap.Logger) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := m.apply(tx, logger); err != nil {
		return err
	}

	// PRAGMA user_version lives in the database header and is transactional,
	// so the marker advances only if the whole step commits.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.generation)); err != nil {
		return fmt.Errorf("recording generation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// migrateInitialSchema creates the generation-1 tables and indexes. Every
// statement is create-if-absent, so re-running against an initialized store
// is a no-op.
func migrateInitialSchema(tx *sql.Tx, _ *zap.Logger) error {
	for _, ddl := range initialDDL {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema object: %w", err)
		}
	}
	return nil
}

// migrateBinaryIdentifiers rewrites both tables from text identifiers to
// 16-byte binary identifiers: fresh *_v2 tables are built, every row is
// copied forward with its identifiers re-keyed through types.DeriveID, the
// old objects are dropped, the new ones renamed into place, and all indexes
// rebuilt under the generation-2 definitions. A best-effort integrity pass
// reports malformed or unresolvable link endpoints without failing the step.
func migrateBinaryIdentifiers(tx *sql.Tx, logger *zap.Logger) error {
	if _, err := tx.Exec(createValuesV2); err != nil {
		return fmt.Errorf("creating values_v2: %w", err)
	}
	if _, err := tx.Exec(createLinksV2); err != nil {
		return fmt.Errorf("creating links_v2: %w", err)
	}

	nValues, err := copyValuesForward(tx)
	if err != nil {
		return err
	}
	nLinks, err := copyLinksForward(tx)
	if err != nil {
		return err
	}
	logger.Info("copied rows forward",
		zap.Int("values", nValues),
		zap.Int("links", nLinks))

	for _, ddl := range linkIndexDropDDL {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("dropping index: %w", err)
		}
	}

	swap := []string{
		`DROP TABLE "values";`,
		`DROP TABLE links;`,
		`ALTER TABLE values_v2 RENAME TO "values";`,
		`ALTER TABLE links_v2 RENAME TO links;`,
	}
	for _, ddl := range swap {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("swapping tables: %w", err)
		}
	}

	for _, ddl := range binaryIndexDDL {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("rebuilding index: %w", err)
		}
	}

	checkLinkIntegrity(tx, logger)
	return nil
}

// valueRow is one buffered "values" row during the forward copy. Rows are
// buffered so the copy never interleaves reads and writes on the
// transaction's single connection.
type valueRow struct {
	id      string
	payload [12]any
}

func copyValuesForward(tx *sql.Tx) (int, error) {
	rows, err := tx.Query(`SELECT id, ` + payloadColumns + ` FROM "values"`)
	if err != nil {
		return 0, fmt.Errorf("reading values: %w", err)
	}

	var buffered []valueRow
	for rows.Next() {
		var r valueRow
		dest := make([]any, 1+len(r.payload))
		dest[0] = &r.id
		for i := range r.payload {
			dest[i+1] = &r.payload[i]
		}
		if err := rows.Scan(dest...); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning value row: %w", err)
		}
		buffered = append(buffered, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterating values: %w", err)
	}
	rows.Close()

	insert := `INSERT INTO values_v2 (id, ` + payloadColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, r := range buffered {
		args := make([]any, 1+len(r.payload))
		args[0] = types.DeriveID(r.id).Bytes()
		for i, p := range r.payload {
			args[i+1] = p
		}
		if _, err := tx.Exec(insert, args...); err != nil {
			return 0, fmt.Errorf("copying value %q: %w", r.id, err)
		}
	}
	return len(buffered), nil
}

func copyLinksForward(tx *sql.Tx) (int, error) {
	rows, err := tx.Query(`SELECT source_id, key_id, target_id FROM links`)
	if err != nil {
		return 0, fmt.Errorf("reading links: %w", err)
	}

	type linkRow struct {
		source, target string
		key            sql.NullString
	}
	var buffered []linkRow
	for rows.Next() {
		var r linkRow
		if err := rows.Scan(&r.source, &r.key, &r.target); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning link row: %w", err)
		}
		buffered = append(buffered, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterating links: %w", err)
	}
	rows.Close()

	insert := `INSERT INTO links_v2 (source_id, key_id, target_id) VALUES (?, ?, ?)`
	for _, r := range buffered {
		var key any
		if r.key.Valid {
			key = types.DeriveID(r.key.String).Bytes()
		}
		_, err := tx.Exec(insert,
			types.DeriveID(r.source).Bytes(), key, types.DeriveID(r.target).Bytes())
		if err != nil {
			return 0, fmt.Errorf("copying link: %w", err)
		}
	}
	return len(buffered), nil
}
