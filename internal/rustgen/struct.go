package rustgen

import (
	"fmt"
	"strings"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/config"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/ir"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/target"
)

// typeStructRefGenerator covers declared structs. The io wire form is a
// dedicated struct of per-field wire types behind a leaked box; the wasm
// wire form is an engine array holding the fields in declaration order.
type typeStructRefGenerator struct {
	baseGenerator
	ir ir.StructRef
}

func (g *typeStructRefGenerator) Wire2APIBody() target.Acc[string] {
	var fields []string
	for _, f := range g.ir.Fields {
		fields = append(fields, fmt.Sprintf("%s: wrap.%s.wire2api(),", f.Name, f.Name))
	}
	return target.Acc[string]{Io: fmt.Sprintf(
		"let wrap = unsafe { support::box_from_leak_ptr(self) };\n%s {\n    %s\n}",
		g.ir.Name, strings.Join(fields, "\n    "))}
}

func (g *typeStructRefGenerator) Wire2APIJsValue() (string, bool) {
	var fields []string
	for i, f := range g.ir.Fields {
		fields = append(fields, fmt.Sprintf("%s: self_.get(%d).wire2api(),", f.Name, i))
	}
	return fmt.Sprintf(
		"let self_ = self.dyn_into::<JsArray>().unwrap();\n%s {\n    %s\n}",
		g.ir.Name, strings.Join(fields, "\n    ")), true
}

func (g *typeStructRefGenerator) WireStructFields() []WireField {
	fields := make([]WireField, 0, len(g.ir.Fields))
	for _, f := range g.ir.Fields {
		fields = append(fields, WireField{Name: f.Name, Type: f.Type.RustWireType(target.Io)})
	}
	return fields
}

// AllocateFuncs emits the boxed-struct allocator. Pointer-typed fields start
// null, everything else starts at its default; the caller populates the
// fields before handing the box across.
func (g *typeStructRefGenerator) AllocateFuncs(c *ExternFuncCollector, opts *config.Opts) target.Acc[string] {
	name := fmt.Sprintf("%snew_box_autoadd_%s_%d", opts.SymbolPrefix(), g.ir.SafeIdent(), opts.BlockIndex)

	var inits []string
	for _, f := range g.ir.Fields {
		wire := f.Type.RustWireType(target.Io)
		init := "Default::default()"
		if strings.HasPrefix(wire, "*mut ") {
			init = fmt.Sprintf("<%s>::new_with_null_ptr()", wire)
		}
		inits = append(inits, fmt.Sprintf("%s: %s,", f.Name, init))
	}

	body := fmt.Sprintf("support::new_leak_box_ptr(wire_%s {\n    %s\n})",
		g.ir.SafeIdent(), strings.Join(inits, "\n    "))

	return target.Acc[string]{
		Io: c.Generate(target.Io, name, "", g.ir.RustWireType(target.Io), body),
	}
}
