package rustgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/config"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/ir"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/target"
)

func TestPrimitiveListWire2API(t *testing.T) {
	g := NewGenerator(ir.PrimitiveList{Kind: ir.U8})

	body := g.Wire2APIBody()

	assert.Contains(t, body.Io, "support::vec_from_leak_ptr(wrap.ptr, wrap.len)")
	assert.Equal(t, "self.into_vec()", body.Wasm)
}

func TestPrimitiveListAllocateFunc(t *testing.T) {
	g := NewGenerator(ir.PrimitiveList{Kind: ir.U8})
	c := &ExternFuncCollector{}
	opts := &config.Opts{ModuleID: "P7C55DD6B", BlockIndex: 1}

	funcs := g.AllocateFuncs(c, opts)

	// The block index is part of the name so sibling modules never collide.
	assert.Contains(t, funcs.Io, "pub extern \"C\" fn P7C55DD6B_new_uint_8_list_1(len: i32) -> *mut wire_uint_8_list")
	assert.Contains(t, funcs.Io, "support::new_leak_vec_ptr(Default::default(), len)")
	assert.Empty(t, funcs.Wasm)
	assert.Equal(t, []string{"P7C55DD6B_new_uint_8_list_1"}, c.Names)
}

func TestGeneralListWireStruct(t *testing.T) {
	g := NewGenerator(ir.GeneralList{Inner: ir.StructRef{Name: "Point"}})

	fields := g.WireStructFields()

	require.Len(t, fields, 2)
	assert.Equal(t, WireField{Name: "ptr", Type: "*mut *mut wire_Point"}, fields[0])
	assert.Equal(t, WireField{Name: "len", Type: "i32"}, fields[1])
}

func TestGeneralListAllocateFunc_NullFills(t *testing.T) {
	g := NewGenerator(ir.GeneralList{Inner: ir.StructRef{Name: "Point"}})
	c := &ExternFuncCollector{}
	opts := &config.Opts{ModuleID: "P7C55DD6B", BlockIndex: 0}

	funcs := g.AllocateFuncs(c, opts)

	assert.Contains(t, funcs.Io, "P7C55DD6B_new_list_Point_0(len: i32) -> *mut wire_list_Point")
	assert.Contains(t, funcs.Io, "<*mut wire_Point>::new_with_null_ptr()")
}

func TestExternFuncCollector(t *testing.T) {
	c := &ExternFuncCollector{}

	io := c.Generate(target.Io, "P7C55DD6B_wire_add", "port_: i64, a: i32", "", "body()")
	assert.Equal(t, "#[no_mangle]\npub extern \"C\" fn P7C55DD6B_wire_add(port_: i64, a: i32) {\n    body()\n}\n", io)

	wasm := c.Generate(target.Wasm, "P7C55DD6B_wire_add", "port_: MessagePort", "", "body()")
	assert.Equal(t, "#[wasm_bindgen]\npub fn P7C55DD6B_wire_add(port_: MessagePort) {\n    body()\n}\n", wasm)

	withRet := c.Generate(target.Io, "alloc", "len: i32", "*mut wire_uint_8_list", "body()")
	assert.Contains(t, withRet, "fn alloc(len: i32) -> *mut wire_uint_8_list {")

	assert.Equal(t, []string{"P7C55DD6B_wire_add", "P7C55DD6B_wire_add", "alloc"}, c.Names)
}
