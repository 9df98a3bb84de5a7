// Package sqlite provides the public API for the SQLite Gravel backend.
// It exposes the factory function while keeping implementation details
// internal.
//
// Example:
//
//	store := sqlite.NewStore(logger)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".gravel-db",
//	})
//	defer store.Detach()
package sqlite

import (
	"go.uber.org/zap"

	"github.com/dukaforge/gravel/internal/sqlite"
	"github.com/dukaforge/gravel/pkg/types"
)

// NewStore creates a new SQLite store instance. The store is not attached;
// call Attach with a Config to open it. A nil logger disables logging.
func NewStore(logger *zap.Logger) types.Store {
	return sqlite.NewBackend(logger)
}
