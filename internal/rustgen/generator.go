// Package rustgen emits the Rust glue crossing the native/managed boundary:
// exported wire functions, wire structs, wire-to-API conversions, allocate
// helpers and IntoDart conversions, independently for the io and wasm
// targets.
package rustgen

import (
	"fmt"
	"strings"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/config"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/ir"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/target"
)

// WireField is one named field of a generated wire struct.
type WireField struct {
	Name string
	Type string
}

// Generator is the fixed operation set every IR type implements. Operations
// that are not meaningful for a type return their zero value; callers treat
// that as "no output", never as an error.
type Generator interface {
	// Wire2APIBody is the conversion from one wire value to its API value,
	// per target. A fragment in the Common slot applies to both targets.
	Wire2APIBody() target.Acc[string]

	// WireStructFields is non-nil only for composite types that need their
	// own transmissible struct layout.
	WireStructFields() []WireField

	// AllocateFuncs emits named functions materializing the wire struct from
	// API-side data, for types whose wire form is a heap-owning struct.
	AllocateFuncs(c *ExternFuncCollector, opts *config.Opts) target.Acc[string]

	// IntoDart emits the conversion producing a Dart-runtime value from an
	// API value. Only enum-flavored types produce output.
	IntoDart() string

	// Wire2APIJsValue is the decode path for wire values arriving as an
	// engine-native dynamic value on the wasm target. ok=false signals the
	// caller to fall back to the type's regular wasm decode.
	Wire2APIJsValue() (body string, ok bool)

	// Structural hooks. Default to no-op or identity.
	Imports() string
	WrapperStruct() (string, bool)
	WrapObj(obj string) string
	SelfAccess(obj string) string
	StaticChecks() string
}

// NewGenerator returns the generator for an IR type. Types without dedicated
// generation logic get the no-op base, so adding a new IR type never touches
// existing generators.
func NewGenerator(t ir.Type) Generator {
	switch ty := t.(type) {
	case ir.Delegate:
		return &TypeDelegateGenerator{IR: ty}
	case ir.EnumRef:
		return &TypeEnumRefGenerator{IR: ty}
	case ir.StructRef:
		return &typeStructRefGenerator{ir: ty}
	case ir.Primitive:
		return &typePrimitiveGenerator{ir: ty}
	case ir.PrimitiveList:
		return &typePrimitiveListGenerator{ir: ty}
	case ir.GeneralList:
		return &typeGeneralListGenerator{ir: ty}
	default:
		return baseGenerator{}
	}
}

// baseGenerator supplies the no-op defaults shared by every generator.
type baseGenerator struct{}

func (baseGenerator) Wire2APIBody() target.Acc[string] { return target.Acc[string]{} }

func (baseGenerator) WireStructFields() []WireField { return nil }

func (baseGenerator) AllocateFuncs(*ExternFuncCollector, *config.Opts) target.Acc[string] {
	return target.Acc[string]{}
}

func (baseGenerator) IntoDart() string { return "" }

func (baseGenerator) Wire2APIJsValue() (string, bool) { return "", false }

func (baseGenerator) Imports() string { return "" }

func (baseGenerator) WrapperStruct() (string, bool) { return "", false }

func (baseGenerator) WrapObj(obj string) string { return obj }

func (baseGenerator) SelfAccess(obj string) string { return obj }

func (baseGenerator) StaticChecks() string { return "" }

// typePrimitiveGenerator covers the fixed-width primitives. They travel
// unchanged on the io target and as a numeric-cast JsValue on wasm.
type typePrimitiveGenerator struct {
	baseGenerator
	ir ir.Primitive
}

func (g *typePrimitiveGenerator) Wire2APIBody() target.Acc[string] {
	return target.Acc[string]{Io: "self"}
}

func (g *typePrimitiveGenerator) Wire2APIJsValue() (string, bool) {
	return "self.unchecked_into_f64() as _", true
}

// ExternFuncCollector wraps emitted functions in the exported form for their
// target and records every exported symbol name. The recorded names feed the
// linkage-anchor generator, so dropping a name here silently loses linker
// reachability for that symbol.
type ExternFuncCollector struct {
	Names []string
}

// Generate emits one exported function. returnType may be empty for unit
// functions.
func (c *ExternFuncCollector) Generate(t target.Target, name, params, returnType, body string) string {
	c.Names = append(c.Names, name)

	ret := ""
	if returnType != "" {
		ret = " -> " + returnType
	}

	if t == target.Wasm {
		return fmt.Sprintf("#[wasm_bindgen]\npub fn %s(%s)%s {\n    %s\n}\n", name, params, ret, indentBody(body))
	}
	return fmt.Sprintf("#[no_mangle]\npub extern \"C\" fn %s(%s)%s {\n    %s\n}\n", name, params, ret, indentBody(body))
}

func indentBody(body string) string {
	return strings.ReplaceAll(strings.TrimSpace(body), "\n", "\n    ")
}
