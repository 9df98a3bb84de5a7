// Package sqlite implements the SQLite backend for the Gravel
// graph-of-values store: an embedded, single-process property graph where
// typed scalar facts live in the "values" table and directed, optionally
// labeled edges live in the links table.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/dukaforge/gravel/pkg/types"
)

// DatabaseFileName is the store file created inside the data directory.
const DatabaseFileName = "gravel.db"

// Backend implements types.Store on a single SQLite database file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *zap.Logger
}

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to open the store. A nil logger
// disables logging.
func NewBackend(logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{logger: logger}
}

// Attach opens (or creates) the database under config.DataDir and migrates
// it to the current generation. A store whose migration fails does not
// open: the generation marker stays where it was and the error wraps
// types.ErrMigrationFailed.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, DatabaseFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	// WAL keeps readers unblocked during ordinary writes. Migrations still
	// run inside a single transaction each.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return fmt.Errorf("enabling WAL mode: %w", err)
	}

	if err := migrateTo(db, currentGeneration, b.logger); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.attached = true

	gen, err := readGeneration(db)
	if err == nil {
		b.logger.Info("store attached", zap.String("path", dbPath), zap.Int("generation", gen))
	}
	return nil
}

// Detach closes the database. Idempotent: detaching a detached backend
// succeeds. After Detach, value and link operations return
// types.ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.logger.Info("store detached")
	return nil
}

// Generation returns the store's recorded schema generation.
func (b *Backend) Generation() (int, error) {
	db, err := b.conn()
	if err != nil {
		return 0, err
	}
	return readGeneration(db)
}

// Values returns the value store accessor.
func (b *Backend) Values() types.ValueStore {
	return &valuesTable{backend: b}
}

// Links returns the link store accessor.
func (b *Backend) Links() types.LinkStore {
	return &linksTable{backend: b}
}

// conn returns the open database handle, or ErrStoreDetached.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

var _ types.Store = (*Backend)(nil)
