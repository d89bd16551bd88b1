package ir

import (
	"fmt"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/target"
)

// Delegate is a type whose wire form is a different, simpler type that it
// decodes from and encodes to. The set of delegates is closed; generators
// match it exhaustively.
type Delegate interface {
	Type

	// GetDelegate resolves the delegate to its transmissible type.
	GetDelegate() Type
}

// DelegateString is a text value. Wire form is a byte buffer on the io
// target and an engine-native string on the wasm target.
type DelegateString struct{}

func (DelegateString) RustAPIType() string { return "String" }

func (DelegateString) RustWireType(t target.Target) string {
	if t == target.Wasm {
		return "String"
	}
	return "*mut wire_uint_8_list"
}

func (DelegateString) SafeIdent() string { return "String" }

func (DelegateString) GetDelegate() Type { return PrimitiveList{Kind: U8} }

// DelegateZeroCopyBuffer is a primitive buffer whose allocation is handed
// over as-is, wrapped in a marker type signaling "do not copy".
type DelegateZeroCopyBuffer struct {
	Inner PrimitiveKind
}

func (d DelegateZeroCopyBuffer) RustAPIType() string {
	return fmt.Sprintf("ZeroCopyBuffer<%s>", d.GetDelegate().RustAPIType())
}

func (d DelegateZeroCopyBuffer) RustWireType(t target.Target) string {
	return d.GetDelegate().RustWireType(t)
}

func (d DelegateZeroCopyBuffer) SafeIdent() string {
	return "ZeroCopyBuffer_" + d.GetDelegate().SafeIdent()
}

func (d DelegateZeroCopyBuffer) GetDelegate() Type { return PrimitiveList{Kind: d.Inner} }

// DelegateStringList is a list of strings. Its io wire form is a dedicated
// struct of a per-element pointer array plus a length; ptr and len always
// describe the same sequence.
type DelegateStringList struct{}

func (DelegateStringList) RustAPIType() string { return "Vec<String>" }

func (d DelegateStringList) RustWireType(t target.Target) string {
	if t == target.Wasm {
		return "JsValue"
	}
	return "*mut wire_StringList"
}

func (DelegateStringList) SafeIdent() string { return "StringList" }

func (DelegateStringList) GetDelegate() Type { return DelegateString{} }

// DelegatePrimitiveEnum is an enum carried on the wire as an integer of the
// declared backing width. The integer is the 0-indexed variant position in
// declaration order; anything outside [0, variant count) is a fatal decode
// error, never silently clamped.
type DelegatePrimitiveEnum struct {
	Enum EnumRef
	Repr Primitive
}

func (d DelegatePrimitiveEnum) RustAPIType() string { return d.Enum.Name }

func (d DelegatePrimitiveEnum) RustWireType(t target.Target) string {
	return d.Repr.RustWireType(t)
}

func (d DelegatePrimitiveEnum) SafeIdent() string { return d.Enum.Name }

func (d DelegatePrimitiveEnum) GetDelegate() Type { return d.Repr }

// TimeVariant distinguishes the chrono types sharing one wire shape.
type TimeVariant int

const (
	TimeNaive TimeVariant = iota
	TimeUtc
	TimeLocal
	TimeDuration
)

// DelegateTime is a timestamp or duration. Wire form is an i64 count of
// sub-second units: microseconds on the io target, milliseconds on wasm.
type DelegateTime struct {
	Variant TimeVariant
}

func (d DelegateTime) RustAPIType() string {
	switch d.Variant {
	case TimeNaive:
		return "chrono::NaiveDateTime"
	case TimeUtc:
		return "chrono::DateTime<chrono::Utc>"
	case TimeLocal:
		return "chrono::DateTime<chrono::Local>"
	case TimeDuration:
		return "chrono::Duration"
	default:
		panic(fmt.Sprintf("unknown time variant: %d", d.Variant))
	}
}

func (DelegateTime) RustWireType(target.Target) string { return "i64" }

func (d DelegateTime) SafeIdent() string {
	switch d.Variant {
	case TimeNaive:
		return "Chrono_Naive"
	case TimeUtc:
		return "Chrono_Utc"
	case TimeLocal:
		return "Chrono_Local"
	case TimeDuration:
		return "Chrono_Duration"
	default:
		panic(fmt.Sprintf("unknown time variant: %d", d.Variant))
	}
}

func (DelegateTime) GetDelegate() Type { return Primitive{Kind: I64} }

// SubSecondUnit returns how many wire units make up one second on the given
// target. The two targets deliberately use different granularities.
func (DelegateTime) SubSecondUnit(t target.Target) int64 {
	if t == target.Wasm {
		return 1_000
	}
	return 1_000_000
}
