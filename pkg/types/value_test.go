package types

import (
	"math"
	"testing"
)

func TestValue_SingleActiveBranch(t *testing.T) {
	v := U32(42)

	if got, ok := v.AsU32(); !ok || got != 42 {
		t.Fatalf("AsU32 = (%d, %t)", got, ok)
	}
	if _, ok := v.AsBool(); ok {
		t.Error("AsBool reported ok on a u32 value")
	}
	if _, ok := v.AsI32(); ok {
		t.Error("AsI32 reported ok on a u32 value")
	}
	if _, ok := v.AsStr(); ok {
		t.Error("AsStr reported ok on a u32 value")
	}
	if v.Kind() != KindU32 {
		t.Errorf("Kind = %s", v.Kind())
	}
}

func TestValue_Empty(t *testing.T) {
	var v Value
	if !v.IsEmpty() {
		t.Error("zero Value should be empty")
	}
	if v.Kind() != KindNone {
		t.Errorf("Kind = %s", v.Kind())
	}
}

func TestValue_Extremes(t *testing.T) {
	if got, _ := U64(math.MaxUint64).AsU64(); got != math.MaxUint64 {
		t.Errorf("u64 max: got %d", got)
	}
	if got, _ := I64(math.MinInt64).AsI64(); got != math.MinInt64 {
		t.Errorf("i64 min: got %d", got)
	}
	if got, _ := I8(-128).AsI8(); got != -128 {
		t.Errorf("i8 min: got %d", got)
	}
	if got, _ := F32(math.MaxFloat32).AsF32(); got != math.MaxFloat32 {
		t.Errorf("f32 max: got %g", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"bool", "u8", "i8", "u16", "i16", "u32", "i32", "u64", "i64", "f32", "f64", "str"} {
		k, err := ParseKind(name)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", name, err)
		}
		if k.String() != name {
			t.Errorf("ParseKind(%q).String() = %q", name, k)
		}
	}
	if _, err := ParseKind("blob"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestParseValue_RoundTrip(t *testing.T) {
	cases := []Value{
		Bool(true),
		U8(255),
		I8(-1),
		U16(65535),
		I16(-32768),
		U32(42),
		I32(-42),
		U64(math.MaxUint64),
		I64(math.MinInt64),
		F32(1.5),
		F64(-2.25),
		Str("likes"),
	}
	for _, want := range cases {
		got, err := ParseValue(want.Kind().String(), want.Literal())
		if err != nil {
			t.Fatalf("ParseValue(%s, %q): %v", want.Kind(), want.Literal(), err)
		}
		if got != want {
			t.Errorf("round-trip mismatch: got %s, want %s", got, want)
		}
	}
}

func TestParseValue_BadLiteral(t *testing.T) {
	if _, err := ParseValue("u8", "256"); err == nil {
		t.Error("u8 overflow accepted")
	}
	if _, err := ParseValue("bool", "maybe"); err == nil {
		t.Error("bad bool accepted")
	}
}
