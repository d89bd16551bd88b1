package rustgen

import (
	"fmt"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/config"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/ir"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/target"
)

// Decode bodies shared by every pointer-array-plus-length list, including
// the string list delegate. The io body takes ownership of the leaked wire
// allocation before converting elements.
const (
	listWire2APIBodyIo = `let vec = unsafe {
    let wrap = support::box_from_leak_ptr(self);
    support::vec_from_leak_ptr(wrap.ptr, wrap.len)
};
vec.into_iter().map(Wire2Api::wire2api).collect()`

	listWire2APIBodyWasm = `self.dyn_into::<JsArray>().unwrap().iter().map(Wire2Api::wire2api).collect()`
)

// typeGeneralListGenerator covers lists of arbitrary element type.
type typeGeneralListGenerator struct {
	baseGenerator
	ir ir.GeneralList
}

func (g *typeGeneralListGenerator) Wire2APIBody() target.Acc[string] {
	return target.Acc[string]{Io: listWire2APIBodyIo, Wasm: listWire2APIBodyWasm}
}

func (g *typeGeneralListGenerator) WireStructFields() []WireField {
	return []WireField{
		{Name: "ptr", Type: "*mut " + g.ir.Inner.RustWireType(target.Io)},
		{Name: "len", Type: "i32"},
	}
}

func (g *typeGeneralListGenerator) AllocateFuncs(c *ExternFuncCollector, opts *config.Opts) target.Acc[string] {
	return target.Acc[string]{
		Io: generateListAllocateFunc(c, g.ir.SafeIdent(), g.ir, g.ir.Inner, opts),
	}
}

// typePrimitiveListGenerator covers contiguous primitive buffers. Elements
// need no per-element conversion, so allocation default-fills instead of
// null-filling.
type typePrimitiveListGenerator struct {
	baseGenerator
	ir ir.PrimitiveList
}

func (g *typePrimitiveListGenerator) Wire2APIBody() target.Acc[string] {
	return target.Acc[string]{
		Io: `unsafe {
    let wrap = support::box_from_leak_ptr(self);
    support::vec_from_leak_ptr(wrap.ptr, wrap.len)
}`,
		Wasm: "self.into_vec()",
	}
}

func (g *typePrimitiveListGenerator) WireStructFields() []WireField {
	return []WireField{
		{Name: "ptr", Type: "*mut " + ir.Primitive{Kind: g.ir.Kind}.RustWireType(target.Io)},
		{Name: "len", Type: "i32"},
	}
}

func (g *typePrimitiveListGenerator) AllocateFuncs(c *ExternFuncCollector, opts *config.Opts) target.Acc[string] {
	name := fmt.Sprintf("%snew_%s_%d", opts.SymbolPrefix(), g.ir.SafeIdent(), opts.BlockIndex)
	body := fmt.Sprintf(`let ans = wire_%s {
    ptr: support::new_leak_vec_ptr(Default::default(), len),
    len,
};
support::new_leak_box_ptr(ans)`, g.ir.SafeIdent())

	return target.Acc[string]{
		Io: c.Generate(target.Io, name, "len: i32", g.ir.RustWireType(target.Io), body),
	}
}

// generateListAllocateFunc emits the io-side helper materializing a
// pointer-array list struct from API-side data. The returned struct's ptr
// and len always describe the same sequence; a zero len still produces a
// valid allocation.
func generateListAllocateFunc(c *ExternFuncCollector, safeIdent string, list, inner ir.Type, opts *config.Opts) string {
	name := fmt.Sprintf("%snew_%s_%d", opts.SymbolPrefix(), safeIdent, opts.BlockIndex)
	body := fmt.Sprintf(`let wrap = wire_%s {
    ptr: support::new_leak_vec_ptr(<%s>::new_with_null_ptr(), len),
    len,
};
support::new_leak_box_ptr(wrap)`, safeIdent, inner.RustWireType(target.Io))

	return c.Generate(target.Io, name, "len: i32", list.RustWireType(target.Io), body)
}
