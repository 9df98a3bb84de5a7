package types

import (
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

// IDSize is the fixed byte length of every identifier in the store.
const IDSize = 16

// ID is a fixed 16-byte binary identifier for a value record. IDs are
// UUID-class: globally unique by generation, compared byte-for-byte.
type ID [IDSize]byte

// ErrMalformedID reports an identifier that is not exactly 16 bytes.
var ErrMalformedID = errors.New("malformed identifier: not 16 bytes")

// deriveNamespace is the fixed UUID v5 namespace used to map generation-1
// text identifiers onto binary IDs. Changing it would break the re-keying
// guarantee for already-migrated stores.
var deriveNamespace = uuid.MustParse("3f1c6f3e-9d4a-4d33-9a34-5b1f08c6d2aa")

// NewID returns a fresh random identifier. UUID v7 keeps IDs roughly
// time-ordered; falls back to v4 if v7 generation fails.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id)
}

// ParseID converts raw bytes into an ID.
// Returns ErrMalformedID unless len(b) == 16.
func ParseID(b []byte) (ID, error) {
	if len(b) != IDSize {
		return ID{}, ErrMalformedID
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// ParseIDString parses the canonical UUID text form of an ID.
func ParseIDString(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, ErrMalformedID
	}
	return ID(u), nil
}

// DeriveID maps a generation-1 text identifier onto a binary ID. Text that
// parses as a UUID keeps its own bytes; anything else hashes to a UUID v5
// in a fixed namespace. The mapping is deterministic, so every occurrence
// of the same text identifier re-keys to the same ID during migration.
func DeriveID(text string) ID {
	if u, err := uuid.Parse(text); err == nil {
		return ID(u)
	}
	return ID(uuid.NewSHA1(deriveNamespace, []byte(text)))
}

// IsZero reports whether the ID is all zero bytes.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Bytes returns the identifier as a 16-byte slice for SQL parameters.
func (id ID) Bytes() []byte {
	b := make([]byte, IDSize)
	copy(b, id[:])
	return b
}

// String renders the canonical UUID text form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Hex renders the identifier as 32 lowercase hex digits without dashes.
func (id ID) Hex() string {
	return hex.EncodeToString(id[:])
}
