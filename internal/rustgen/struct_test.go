package rustgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/config"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/ir"
)

func pointStruct() ir.StructRef {
	return ir.StructRef{
		Name: "Point",
		Fields: []ir.Field{
			{Name: "x", Type: ir.Primitive{Kind: ir.I32}},
			{Name: "y", Type: ir.Primitive{Kind: ir.I32}},
		},
	}
}

func TestStructWire2API(t *testing.T) {
	g := NewGenerator(pointStruct())

	body := g.Wire2APIBody()

	assert.Equal(t, `let wrap = unsafe { support::box_from_leak_ptr(self) };
Point {
    x: wrap.x.wire2api(),
    y: wrap.y.wire2api(),
}`, body.Io)
	assert.Empty(t, body.Wasm, "wasm structs decode from an engine value")
}

func TestStructJsValueDecode(t *testing.T) {
	jsBody, ok := NewGenerator(pointStruct()).Wire2APIJsValue()

	require.True(t, ok)
	assert.Equal(t, `let self_ = self.dyn_into::<JsArray>().unwrap();
Point {
    x: self_.get(0).wire2api(),
    y: self_.get(1).wire2api(),
}`, jsBody)
}

func TestStructWireStruct(t *testing.T) {
	fields := NewGenerator(pointStruct()).WireStructFields()

	require.Equal(t, []WireField{
		{Name: "x", Type: "i32"},
		{Name: "y", Type: "i32"},
	}, fields)
}

func TestStructAllocateFunc(t *testing.T) {
	c := &ExternFuncCollector{}
	opts := &config.Opts{ModuleID: "P7C55DD6B", BlockIndex: 0}

	funcs := NewGenerator(pointStruct()).AllocateFuncs(c, opts)

	assert.Contains(t, funcs.Io,
		"pub extern \"C\" fn P7C55DD6B_new_box_autoadd_Point_0() -> *mut wire_Point")
	assert.Contains(t, funcs.Io, "x: Default::default(),")
	assert.Empty(t, funcs.Wasm)
	assert.Equal(t, []string{"P7C55DD6B_new_box_autoadd_Point_0"}, c.Names)
}

func TestStructAllocateFunc_PointerFieldsStartNull(t *testing.T) {
	s := ir.StructRef{
		Name: "Named",
		Fields: []ir.Field{
			{Name: "label", Type: ir.DelegateString{}},
			{Name: "value", Type: ir.Primitive{Kind: ir.F64}},
		},
	}
	c := &ExternFuncCollector{}
	opts := &config.Opts{ModuleID: "P7C55DD6B", BlockIndex: 0}

	funcs := NewGenerator(s).AllocateFuncs(c, opts)

	assert.Contains(t, funcs.Io, "label: <*mut wire_uint_8_list>::new_with_null_ptr(),")
	assert.Contains(t, funcs.Io, "value: Default::default(),")
}

func TestGenerateFile_StructModule(t *testing.T) {
	file := &ir.File{
		Funcs: []ir.Func{{
			Name:   "translate",
			Inputs: []ir.Field{{Name: "p", Type: pointStruct()}},
		}},
	}
	opts := &config.Opts{ModuleID: "P7C55DD6B", ClassName: "ApiClass", BlockIndex: 0}

	out := GenerateFile(file, opts)

	// Every wire type referenced by the io signature is defined and decodable.
	assert.Contains(t, out.Code.Io, "p: *mut wire_Point")
	assert.Contains(t, out.Code.Io, "pub struct wire_Point {\n    x: i32,\n    y: i32,\n}")
	assert.Contains(t, out.Code.Io, "impl Wire2Api<Point> for *mut wire_Point")
	assert.Contains(t, out.Code.Io, "P7C55DD6B_new_box_autoadd_Point_0")

	// wasm structs travel as engine arrays.
	assert.Contains(t, out.Code.Wasm, "p: JsValue")
	assert.Contains(t, out.Code.Wasm, "impl Wire2Api<Point> for JsValue")
	assert.Contains(t, out.Code.Wasm, "self_.get(0).wire2api()")

	assert.Equal(t, []string{"P7C55DD6B_wire_translate", "P7C55DD6B_new_box_autoadd_Point_0"},
		out.IoFuncNames)
	assert.Equal(t, []string{"wire_Point"}, WireStructNames(file))
}
