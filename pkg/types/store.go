package types

import "errors"

// Store is the backend-agnostic entry point to a graph-of-values store.
// Callers attach to a backend, operate on values and links, and detach
// when done.
type Store interface {
	// Attach opens the store described by config, creating it if absent,
	// and migrates it to the current generation. Returns ErrAlreadyAttached
	// if called while attached; returns ErrMigrationFailed (wrapped) if a
	// structural step could not complete, in which case the store stays at
	// its prior generation and is not opened.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// Generation returns the store's recorded schema generation.
	Generation() (int, error)

	Values() ValueStore
	Links() LinkStore
}

// ValueStore holds one record per identifier, each carrying at most one
// typed scalar payload.
type ValueStore interface {
	// Put writes a value record. Write policy is upsert: an existing record
	// with the same identifier is overwritten. Identifier uniqueness is
	// schema-enforced; the single-active-field invariant is enforced by the
	// Value type itself.
	Put(id ID, v Value) error

	// Get returns the payload stored under id.
	// Returns ErrNotFound if no record exists.
	Get(id ID) (Value, error)

	// Delete removes the record. Returns ErrNotFound if absent. Links
	// referencing the identifier are never cascaded.
	Delete(id ID) error

	// FindByString returns the identifiers of every record whose str
	// payload equals text. Index-backed from generation 2.
	FindByString(text string) ([]ID, error)
}

// LinkStore holds the directed edges of the graph. No uniqueness or
// referential constraint applies: the same tuple may be added repeatedly
// and endpoints need not resolve to value records.
type LinkStore interface {
	// Add inserts an edge and returns it with a fresh handle.
	Add(source ID, key *ID, target ID) (Edge, error)

	// Remove deletes one edge by handle. Returns ErrNotFound if the handle
	// does not address a stored edge.
	Remove(handle int64) error

	// From returns the outgoing edges of source.
	From(source ID) ([]Edge, error)

	// FromWithKey returns the outgoing edges of source labeled key.
	FromWithKey(source, key ID) ([]Edge, error)

	// ByKey returns every edge labeled key.
	ByKey(key ID) ([]Edge, error)

	// To returns the incoming edges of target. Index-backed from
	// generation 2.
	To(target ID) ([]Edge, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrMigrationFailed = errors.New("migration failed")
)

// Record operation errors.
var (
	ErrNotFound    = errors.New("record not found")
	ErrInvalidData = errors.New("invalid record data")
)
