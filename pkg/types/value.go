package types

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies which scalar branch of a Value is populated.
type Kind int

// Value kinds. KindNone marks an empty record (no payload column set).
const (
	KindNone Kind = iota
	KindBool
	KindU8
	KindI8
	KindU16
	KindI16
	KindU32
	KindI32
	KindU64
	KindI64
	KindF32
	KindF64
	KindStr
)

var kindNames = map[Kind]string{
	KindNone: "none",
	KindBool: "bool",
	KindU8:   "u8",
	KindI8:   "i8",
	KindU16:  "u16",
	KindI16:  "i16",
	KindU32:  "u32",
	KindI32:  "i32",
	KindU64:  "u64",
	KindI64:  "i64",
	KindF32:  "f32",
	KindF64:  "f64",
	KindStr:  "str",
}

// ErrUnknownKind reports an unrecognized kind name.
var ErrUnknownKind = errors.New("unknown value kind")

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a kind name ("bool", "u32", "str", ...) to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Value is a tagged union over the thirteen scalar payload kinds. At most
// one branch is populated, enforced by construction: the only way to build
// a non-empty Value is through a per-kind constructor. The storage layer
// persists it as a sparse row with one column per kind.
type Value struct {
	kind Kind
	b    bool
	u    uint64
	i    int64
	f    float64
	s    string
}

// Bool returns a Value holding a boolean.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// U8 returns a Value holding an unsigned 8-bit integer.
func U8(v uint8) Value { return Value{kind: KindU8, u: uint64(v)} }

// I8 returns a Value holding a signed 8-bit integer.
func I8(v int8) Value { return Value{kind: KindI8, i: int64(v)} }

// U16 returns a Value holding an unsigned 16-bit integer.
func U16(v uint16) Value { return Value{kind: KindU16, u: uint64(v)} }

// I16 returns a Value holding a signed 16-bit integer.
func I16(v int16) Value { return Value{kind: KindI16, i: int64(v)} }

// U32 returns a Value holding an unsigned 32-bit integer.
func U32(v uint32) Value { return Value{kind: KindU32, u: uint64(v)} }

// I32 returns a Value holding a signed 32-bit integer.
func I32(v int32) Value { return Value{kind: KindI32, i: int64(v)} }

// U64 returns a Value holding an unsigned 64-bit integer.
func U64(v uint64) Value { return Value{kind: KindU64, u: v} }

// I64 returns a Value holding a signed 64-bit integer.
func I64(v int64) Value { return Value{kind: KindI64, i: v} }

// F32 returns a Value holding a 32-bit float.
func F32(v float32) Value { return Value{kind: KindF32, f: float64(v)} }

// F64 returns a Value holding a 64-bit float.
func F64(v float64) Value { return Value{kind: KindF64, f: v} }

// Str returns a Value holding a text string.
func Str(v string) Value { return Value{kind: KindStr, s: v} }

// Kind reports which branch is populated.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether no branch is populated.
func (v Value) IsEmpty() bool { return v.kind == KindNone }

// AsBool returns the boolean branch; ok is false for any other kind.
func (v Value) AsBool() (val, ok bool) { return v.b, v.kind == KindBool }

// AsU8 returns the u8 branch.
func (v Value) AsU8() (uint8, bool) { return uint8(v.u), v.kind == KindU8 }

// AsI8 returns the i8 branch.
func (v Value) AsI8() (int8, bool) { return int8(v.i), v.kind == KindI8 }

// AsU16 returns the u16 branch.
func (v Value) AsU16() (uint16, bool) { return uint16(v.u), v.kind == KindU16 }

// AsI16 returns the i16 branch.
func (v Value) AsI16() (int16, bool) { return int16(v.i), v.kind == KindI16 }

// AsU32 returns the u32 branch.
func (v Value) AsU32() (uint32, bool) { return uint32(v.u), v.kind == KindU32 }

// AsI32 returns the i32 branch.
func (v Value) AsI32() (int32, bool) { return int32(v.i), v.kind == KindI32 }

// AsU64 returns the u64 branch.
func (v Value) AsU64() (uint64, bool) { return v.u, v.kind == KindU64 }

// AsI64 returns the i64 branch.
func (v Value) AsI64() (int64, bool) { return v.i, v.kind == KindI64 }

// AsF32 returns the f32 branch.
func (v Value) AsF32() (float32, bool) { return float32(v.f), v.kind == KindF32 }

// AsF64 returns the f64 branch.
func (v Value) AsF64() (float64, bool) { return v.f, v.kind == KindF64 }

// AsStr returns the str branch.
func (v Value) AsStr() (string, bool) { return v.s, v.kind == KindStr }

// String renders the payload for display as "<kind>:<literal>".
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "none"
	case KindBool:
		return fmt.Sprintf("bool:%t", v.b)
	case KindU8, KindU16, KindU32, KindU64:
		return fmt.Sprintf("%s:%d", v.kind, v.u)
	case KindI8, KindI16, KindI32, KindI64:
		return fmt.Sprintf("%s:%d", v.kind, v.i)
	case KindF32, KindF64:
		return fmt.Sprintf("%s:%g", v.kind, v.f)
	case KindStr:
		return fmt.Sprintf("str:%q", v.s)
	}
	return "none"
}

// ParseValue builds a Value of the named kind from its text literal.
// Used by the CLI and the JSONL import path.
func ParseValue(kindName, literal string) (Value, error) {
	kind, err := ParseKind(kindName)
	if err != nil {
		return Value{}, err
	}
	switch kind {
	case KindNone:
		return Value{}, nil
	case KindBool:
		b, err := strconv.ParseBool(literal)
		if err != nil {
			return Value{}, fmt.Errorf("parsing bool literal: %w", err)
		}
		return Bool(b), nil
	case KindU8, KindU16, KindU32, KindU64:
		bits := map[Kind]int{KindU8: 8, KindU16: 16, KindU32: 32, KindU64: 64}[kind]
		u, err := strconv.ParseUint(literal, 10, bits)
		if err != nil {
			return Value{}, fmt.Errorf("parsing %s literal: %w", kind, err)
		}
		return Value{kind: kind, u: u}, nil
	case KindI8, KindI16, KindI32, KindI64:
		bits := map[Kind]int{KindI8: 8, KindI16: 16, KindI32: 32, KindI64: 64}[kind]
		i, err := strconv.ParseInt(literal, 10, bits)
		if err != nil {
			return Value{}, fmt.Errorf("parsing %s literal: %w", kind, err)
		}
		return Value{kind: kind, i: i}, nil
	case KindF32:
		f, err := strconv.ParseFloat(literal, 32)
		if err != nil {
			return Value{}, fmt.Errorf("parsing f32 literal: %w", err)
		}
		return F32(float32(f)), nil
	case KindF64:
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return Value{}, fmt.Errorf("parsing f64 literal: %w", err)
		}
		return F64(f), nil
	case KindStr:
		return Str(literal), nil
	}
	return Value{}, fmt.Errorf("%w: %q", ErrUnknownKind, kindName)
}

// Literal renders the payload without its kind prefix, the inverse of
// ParseValue for every non-empty kind.
func (v Value) Literal() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindU8, KindU16, KindU32, KindU64:
		return strconv.FormatUint(v.u, 10)
	case KindI8, KindI16, KindI32, KindI64:
		return strconv.FormatInt(v.i, 10)
	case KindF32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindF64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindStr:
		return v.s
	}
	return ""
}
