package ir

import (
	"fmt"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/target"
)

// Type is one exported data shape crossing the boundary.
type Type interface {
	// SafeIdent returns an identifier-safe name used in generated helper
	// function names and wire struct names.
	SafeIdent() string

	// RustAPIType is the API-side Rust type.
	RustAPIType() string

	// RustWireType is the transmissible Rust type for the given target.
	RustWireType(t target.Target) string
}

// PrimitiveKind enumerates the fixed-width primitive types.
type PrimitiveKind int

const (
	U8 PrimitiveKind = iota
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	F32
	F64
	Bool
	Usize
)

// Primitive is a fixed-width numeric or boolean type. Its wire form equals
// its API form on both targets.
type Primitive struct {
	Kind PrimitiveKind
}

func (p Primitive) RustAPIType() string {
	switch p.Kind {
	case U8:
		return "u8"
	case I8:
		return "i8"
	case U16:
		return "u16"
	case I16:
		return "i16"
	case U32:
		return "u32"
	case I32:
		return "i32"
	case U64:
		return "u64"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Bool:
		return "bool"
	case Usize:
		return "usize"
	default:
		panic(fmt.Sprintf("unknown primitive kind: %d", p.Kind))
	}
}

func (p Primitive) RustWireType(target.Target) string {
	return p.RustAPIType()
}

func (p Primitive) SafeIdent() string {
	switch p.Kind {
	case U8:
		return "uint_8"
	case I8:
		return "int_8"
	case U16:
		return "uint_16"
	case I16:
		return "int_16"
	case U32:
		return "uint_32"
	case I32:
		return "int_32"
	case U64:
		return "uint_64"
	case I64:
		return "int_64"
	case F32:
		return "float_32"
	case F64:
		return "float_64"
	case Bool:
		return "bool"
	case Usize:
		return "usize"
	default:
		panic(fmt.Sprintf("unknown primitive kind: %d", p.Kind))
	}
}

// PrimitiveList is a buffer of primitives (Vec<u8> and friends). It has its
// own fixed wire struct on the io target and an engine-owned boxed slice on
// the wasm target.
type PrimitiveList struct {
	Kind PrimitiveKind
}

func (l PrimitiveList) RustAPIType() string {
	return fmt.Sprintf("Vec<%s>", Primitive{l.Kind}.RustAPIType())
}

func (l PrimitiveList) RustWireType(t target.Target) string {
	if t == target.Wasm {
		return fmt.Sprintf("Box<[%s]>", Primitive{l.Kind}.RustAPIType())
	}
	return fmt.Sprintf("*mut wire_%s", l.SafeIdent())
}

func (l PrimitiveList) SafeIdent() string {
	return Primitive{l.Kind}.SafeIdent() + "_list"
}

// GeneralList is a list of arbitrary element type.
type GeneralList struct {
	Inner Type
}

func (l GeneralList) RustAPIType() string {
	return fmt.Sprintf("Vec<%s>", l.Inner.RustAPIType())
}

func (l GeneralList) RustWireType(t target.Target) string {
	if t == target.Wasm {
		return "JsValue"
	}
	return fmt.Sprintf("*mut wire_%s", l.SafeIdent())
}

func (l GeneralList) SafeIdent() string {
	return "list_" + l.Inner.SafeIdent()
}

// EnumRef references a declared enum. WrapperName, when non-empty, names the
// newtype wrapper the original declaration asked generated code to go
// through instead of the bare declaration name.
type EnumRef struct {
	Name        string
	WrapperName string
	Variants    []string
}

func (e EnumRef) RustAPIType() string { return e.Name }

// Data-less enums travel as their ordinal.
func (e EnumRef) RustWireType(target.Target) string { return "i32" }

func (e EnumRef) SafeIdent() string { return e.Name }

// StructRef references a declared struct.
type StructRef struct {
	Name   string
	Fields []Field
}

func (s StructRef) RustAPIType() string { return s.Name }

func (s StructRef) RustWireType(t target.Target) string {
	if t == target.Wasm {
		return "JsValue"
	}
	return fmt.Sprintf("*mut wire_%s", s.Name)
}

func (s StructRef) SafeIdent() string { return s.Name }

// Field is a named struct field or function parameter.
type Field struct {
	Name string
	Type Type
}

// Func is one exported API function.
type Func struct {
	Name   string
	Inputs []Field
	Output Type
}

// WireName returns the unprefixed exported wire symbol for the function.
func (f Func) WireName() string { return "wire_" + f.Name }
