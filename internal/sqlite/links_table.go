// Link store accessor: directed, optionally-labeled edges addressed by
// rowid. Adding an edge never validates its endpoints against the value
// store and never deduplicates (multigraph semantics); the four traversal
// queries are each backed by an index.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/dukaforge/gravel/pkg/types"
)

var _ types.LinkStore = (*linksTable)(nil)

type linksTable struct {
	backend *Backend
}

const selectEdges = `SELECT rowid, source_id, key_id, target_id FROM links`

// Add inserts an edge and returns it with the rowid handle of this
// insertion. Endpoints are not checked against the value store.
func (lt *linksTable) Add(source types.ID, key *types.ID, target types.ID) (types.Edge, error) {
	db, err := lt.backend.conn()
	if err != nil {
		return types.Edge{}, err
	}

	var keyArg any
	if key != nil {
		keyArg = key.Bytes()
	}
	res, err := db.Exec(
		`INSERT INTO links (source_id, key_id, target_id) VALUES (?, ?, ?)`,
		source.Bytes(), keyArg, target.Bytes(),
	)
	if err != nil {
		return types.Edge{}, fmt.Errorf("adding link: %w", err)
	}
	handle, err := res.LastInsertId()
	if err != nil {
		return types.Edge{}, fmt.Errorf("getting link handle: %w", err)
	}

	edge := types.Edge{Handle: handle, Link: types.Link{Source: source, Target: target}}
	if key != nil {
		k := *key
		edge.Key = &k
	}
	return edge, nil
}

// Remove deletes the single insertion addressed by handle.
func (lt *linksTable) Remove(handle int64) error {
	db, err := lt.backend.conn()
	if err != nil {
		return err
	}

	res, err := db.Exec(`DELETE FROM links WHERE rowid = ?`, handle)
	if err != nil {
		return fmt.Errorf("removing link %d: %w", handle, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// From returns the outgoing edges of source (idx_links_source).
func (lt *linksTable) From(source types.ID) ([]types.Edge, error) {
	return lt.query(selectEdges+` WHERE source_id = ?`, source.Bytes())
}

// FromWithKey returns the outgoing edges of source labeled key
// (idx_links_source_key).
func (lt *linksTable) FromWithKey(source, key types.ID) ([]types.Edge, error) {
	return lt.query(selectEdges+` WHERE source_id = ? AND key_id = ?`,
		source.Bytes(), key.Bytes())
}

// ByKey returns every edge labeled key (idx_links_key).
func (lt *linksTable) ByKey(key types.ID) ([]types.Edge, error) {
	return lt.query(selectEdges+` WHERE key_id = ?`, key.Bytes())
}

// To returns the incoming edges of target (idx_links_target).
func (lt *linksTable) To(target types.ID) ([]types.Edge, error) {
	return lt.query(selectEdges+` WHERE target_id = ?`, target.Bytes())
}

func (lt *linksTable) query(q string, args ...any) ([]types.Edge, error) {
	db, err := lt.backend.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(q+` ORDER BY rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer rows.Close()

	var edges []types.Edge
	for rows.Next() {
		edge, err := hydrateEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating edge: %w", err)
		}
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}
	return edges, nil
}

// hydrateEdge converts one links row into a types.Edge.
func hydrateEdge(rows *sql.Rows) (types.Edge, error) {
	var (
		handle      int64
		source, tgt []byte
		key         []byte
	)
	if err := rows.Scan(&handle, &source, &key, &tgt); err != nil {
		return types.Edge{}, err
	}

	sourceID, err := types.ParseID(source)
	if err != nil {
		return types.Edge{}, fmt.Errorf("stored source id: %w", err)
	}
	targetID, err := types.ParseID(tgt)
	if err != nil {
		return types.Edge{}, fmt.Errorf("stored target id: %w", err)
	}

	edge := types.Edge{Handle: handle, Link: types.Link{Source: sourceID, Target: targetID}}
	if key != nil {
		keyID, err := types.ParseID(key)
		if err != nil {
			return types.Edge{}, fmt.Errorf("stored key id: %w", err)
		}
		edge.Key = &keyID
	}
	return edge, nil
}
