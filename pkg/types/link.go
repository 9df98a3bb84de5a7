// Link and Edge represent directed, optionally-labeled edges in the graph.
package types

// Link is a directed edge between two identifiers. Key, when non-nil, names
// a value record acting as the edge's label (the predicate of a triple).
// Links never validate that their endpoints resolve to value records;
// dangling edges are an intentional write-availability tradeoff and every
// reader must tolerate them.
type Link struct {
	Source ID
	Key    *ID
	Target ID
}

// Edge is a stored Link plus the handle that addresses it for removal.
// Identical (source, key, target) tuples may coexist; each insertion gets
// its own handle.
type Edge struct {
	// Handle is the backend row handle for this insertion.
	Handle int64

	Link
}

// Labeled reports whether the edge carries a key.
func (l Link) Labeled() bool { return l.Key != nil }
