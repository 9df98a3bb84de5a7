// Value store accessor: one record per identifier, at most one populated
// payload column. The write policy is upsert, matching the table's only
// constraint (identifier uniqueness).
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/dukaforge/gravel/pkg/types"
)

var _ types.ValueStore = (*valuesTable)(nil)

type valuesTable struct {
	backend *Backend
}

const upsertValue = `INSERT INTO "values" (id, ` + payloadColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE
SET bool=excluded.bool, u8=excluded.u8, i8=excluded.i8,
    u16=excluded.u16, i16=excluded.i16, u32=excluded.u32, i32=excluded.i32,
    u64=excluded.u64, i64=excluded.i64, f32=excluded.f32, f64=excluded.f64,
    str=excluded.str`

// Put writes the record, overwriting any existing payload under id.
func (vt *valuesTable) Put(id types.ID, v types.Value) error {
	db, err := vt.backend.conn()
	if err != nil {
		return err
	}

	args := append([]any{id.Bytes()}, payloadArgs(v)...)
	if _, err := db.Exec(upsertValue, args...); err != nil {
		return fmt.Errorf("putting value %s: %w", id, err)
	}
	return nil
}

// Get returns the payload stored under id, or types.ErrNotFound.
func (vt *valuesTable) Get(id types.ID) (types.Value, error) {
	db, err := vt.backend.conn()
	if err != nil {
		return types.Value{}, err
	}

	row := db.QueryRow(`SELECT `+payloadColumns+` FROM "values" WHERE id = ?`, id.Bytes())
	v, err := hydrateValue(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Value{}, types.ErrNotFound
		}
		return types.Value{}, fmt.Errorf("getting value %s: %w", id, err)
	}
	return v, nil
}

// Delete removes the record. Links referencing id are left in place;
// readers tolerate the resulting dangling edges.
func (vt *valuesTable) Delete(id types.ID) error {
	db, err := vt.backend.conn()
	if err != nil {
		return err
	}

	res, err := db.Exec(`DELETE FROM "values" WHERE id = ?`, id.Bytes())
	if err != nil {
		return fmt.Errorf("deleting value %s: %w", id, err)
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

// FindByString returns the identifiers of every record whose str payload
// equals text, in identifier order. Backed by idx_values_str.
func (vt *valuesTable) FindByString(text string) ([]types.ID, error) {
	db, err := vt.backend.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT id FROM "values" WHERE str = ? ORDER BY id`, text)
	if err != nil {
		return nil, fmt.Errorf("finding by string: %w", err)
	}
	defer rows.Close()

	var ids []types.ID
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		id, err := types.ParseID(raw)
		if err != nil {
			return nil, fmt.Errorf("stored id %x: %w", raw, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ids: %w", err)
	}
	return ids, nil
}

// payloadArgs spreads a Value across the twelve sparse columns in
// payloadColumns order; every inactive column stays nil. u64 payloads are
// bit-cast through int64 (SQLite INTEGER is signed 64-bit); the round-trip
// is exact.
func payloadArgs(v types.Value) []any {
	args := make([]any, 12)
	switch v.Kind() {
	case types.KindBool:
		b, _ := v.AsBool()
		args[0] = b
	case types.KindU8:
		u, _ := v.AsU8()
		args[1] = int64(u)
	case types.KindI8:
		i, _ := v.AsI8()
		args[2] = int64(i)
	case types.KindU16:
		u, _ := v.AsU16()
		args[3] = int64(u)
	case types.KindI16:
		i, _ := v.AsI16()
		args[4] = int64(i)
	case types.KindU32:
		u, _ := v.AsU32()
		args[5] = int64(u)
	case types.KindI32:
		i, _ := v.AsI32()
		args[6] = int64(i)
	case types.KindU64:
		u, _ := v.AsU64()
		args[7] = int64(u)
	case types.KindI64:
		i, _ := v.AsI64()
		args[8] = i
	case types.KindF32:
		f, _ := v.AsF32()
		args[9] = float64(f)
	case types.KindF64:
		f, _ := v.AsF64()
		args[10] = f
	case types.KindStr:
		s, _ := v.AsStr()
		args[11] = s
	}
	return args
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydrateValue rebuilds a Value from the sparse row: the first non-null
// column in kind order wins. A row with every column null hydrates to an
// empty Value.
func hydrateValue(row rowScanner) (types.Value, error) {
	var (
		b        sql.NullBool
		u8c, i8c sql.NullInt64
		u16c     sql.NullInt64
		i16c     sql.NullInt64
		u32c     sql.NullInt64
		i32c     sql.NullInt64
		u64c     sql.NullInt64
		i64c     sql.NullInt64
		f32c     sql.NullFloat64
		f64c     sql.NullFloat64
		strc     sql.NullString
	)
	err := row.Scan(&b, &u8c, &i8c, &u16c, &i16c, &u32c, &i32c, &u64c, &i64c, &f32c, &f64c, &strc)
	if err != nil {
		return types.Value{}, err
	}

	switch {
	case b.Valid:
		return types.Bool(b.Bool), nil
	case u8c.Valid:
		return types.U8(uint8(u8c.Int64)), nil
	case i8c.Valid:
		return types.I8(int8(i8c.Int64)), nil
	case u16c.Valid:
		return types.U16(uint16(u16c.Int64)), nil
	case i16c.Valid:
		return types.I16(int16(i16c.Int64)), nil
	case u32c.Valid:
		return types.U32(uint32(u32c.Int64)), nil
	case i32c.Valid:
		return types.I32(int32(i32c.Int64)), nil
	case u64c.Valid:
		return types.U64(uint64(u64c.Int64)), nil
	case i64c.Valid:
		return types.I64(i64c.Int64), nil
	case f32c.Valid:
		return types.F32(float32(f32c.Float64)), nil
	case f64c.Valid:
		return types.F64(f64c.Float64), nil
	case strc.Valid:
		return types.Str(strc.String), nil
	}
	return types.Value{}, nil
}
