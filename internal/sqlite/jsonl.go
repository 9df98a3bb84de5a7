// JSONL export/import: a portable, line-oriented dump of the whole store.
// Writes are atomic (temp file, fsync, rename); reads skip malformed lines
// rather than failing the import.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dukaforge/gravel/pkg/types"
)

// Export file names inside the export directory.
const (
	valuesJSONL = "values.jsonl"
	linksJSONL  = "links.jsonl"
)

// maxJSONLLine caps a single JSONL line on read. str payloads have no
// length limit of their own, so this must exceed any plausible record.
const maxJSONLLine = 64 * 1024 * 1024

// valueRecord is the JSONL form of one value row. The payload travels as
// its kind name plus text literal, the exact inverse of types.ParseValue.
type valueRecord struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
}

// linkRecord is the JSONL form of one edge.
type linkRecord struct {
	Source string `json:"source"`
	Key    string `json:"key,omitempty"`
	Target string `json:"target"`
}

// ExportJSONL dumps every value and link to values.jsonl and links.jsonl
// under dir, creating it if needed.
func (b *Backend) ExportJSONL(dir string) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var valueLines []json.RawMessage
	rows, err := db.Query(`SELECT id, ` + payloadColumns + ` FROM "values" ORDER BY id`)
	if err != nil {
		return fmt.Errorf("reading values: %w", err)
	}
	for rows.Next() {
		var raw []byte
		dest := make([]any, 13)
		dest[0] = &raw
		payload := make([]any, 12)
		for i := range payload {
			dest[i+1] = &payload[i]
		}
		if err := rows.Scan(dest...); err != nil {
			rows.Close()
			return fmt.Errorf("scanning value row: %w", err)
		}
		id, err := types.ParseID(raw)
		if err != nil {
			rows.Close()
			return fmt.Errorf("stored id %x: %w", raw, err)
		}
		v := valueFromColumns(payload)
		line, err := json.Marshal(valueRecord{
			ID:    id.String(),
			Kind:  v.Kind().String(),
			Value: v.Literal(),
		})
		if err != nil {
			rows.Close()
			return fmt.Errorf("encoding value record: %w", err)
		}
		valueLines = append(valueLines, line)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating values: %w", err)
	}
	rows.Close()

	edges, err := (&linksTable{backend: b}).query(selectEdges)
	if err != nil {
		return err
	}
	var linkLines []json.RawMessage
	for _, e := range edges {
		rec := linkRecord{Source: e.Source.String(), Target: e.Target.String()}
		if e.Key != nil {
			rec.Key = e.Key.String()
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding link record: %w", err)
		}
		linkLines = append(linkLines, line)
	}

	if err := writeJSONL(filepath.Join(dir, valuesJSONL), valueLines); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(dir, linksJSONL), linkLines)
}

// ImportJSONL loads values.jsonl and links.jsonl from dir into the store.
// Values upsert; links append (each imported line is a fresh insertion).
// Malformed lines are skipped.
func (b *Backend) ImportJSONL(dir string) error {
	values := b.Values()
	links := b.Links()

	valueLines, err := readJSONL(filepath.Join(dir, valuesJSONL))
	if err != nil {
		return err
	}
	for _, line := range valueLines {
		var rec valueRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		id, err := types.ParseIDString(rec.ID)
		if err != nil {
			continue
		}
		v, err := types.ParseValue(rec.Kind, rec.Value)
		if err != nil {
			continue
		}
		if err := values.Put(id, v); err != nil {
			return fmt.Errorf("importing value %s: %w", rec.ID, err)
		}
	}

	linkLines, err := readJSONL(filepath.Join(dir, linksJSONL))
	if err != nil {
		return err
	}
	for _, line := range linkLines {
		var rec linkRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		source, err := types.ParseIDString(rec.Source)
		if err != nil {
			continue
		}
		target, err := types.ParseIDString(rec.Target)
		if err != nil {
			continue
		}
		var key *types.ID
		if rec.Key != "" {
			k, err := types.ParseIDString(rec.Key)
			if err != nil {
				continue
			}
			key = &k
		}
		if _, err := links.Add(source, key, target); err != nil {
			return fmt.Errorf("importing link: %w", err)
		}
	}
	return nil
}

// valueFromColumns rebuilds a Value from the twelve scanned payload
// columns (any-typed, as the driver returned them).
func valueFromColumns(cols []any) types.Value {
	deref := func(i int) any { return cols[i] }
	if v := deref(0); v != nil {
		switch b := v.(type) {
		case bool:
			return types.Bool(b)
		case int64:
			return types.Bool(b != 0)
		}
	}
	if v, ok := deref(1).(int64); ok {
		return types.U8(uint8(v))
	}
	if v, ok := deref(2).(int64); ok {
		return types.I8(int8(v))
	}
	if v, ok := deref(3).(int64); ok {
		return types.U16(uint16(v))
	}
	if v, ok := deref(4).(int64); ok {
		return types.I16(int16(v))
	}
	if v, ok := deref(5).(int64); ok {
		return types.U32(uint32(v))
	}
	if v, ok := deref(6).(int64); ok {
		return types.I32(int32(v))
	}
	if v, ok := deref(7).(int64); ok {
		return types.U64(uint64(v))
	}
	if v, ok := deref(8).(int64); ok {
		return types.I64(v)
	}
	if v, ok := deref(9).(float64); ok {
		return types.F32(float32(v))
	}
	if v, ok := deref(10).(float64); ok {
		return types.F64(v)
	}
	switch s := deref(11).(type) {
	case string:
		return types.Str(s)
	case []byte:
		return types.Str(string(s))
	}
	return types.Value{}
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line.
// A missing file reads as empty.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records using the temp-file, fsync, rename
// pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
