package rustgen

import (
	"fmt"
	"strings"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/config"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/ir"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/target"
)

// Output is the generated Rust glue for one module: one source file per
// target plus a shared fragment, and the exported io symbols the linkage
// anchors must keep reachable.
type Output struct {
	Code        target.Acc[string]
	IoFuncNames []string
}

// newWithNullPtrBlock backs the null-initialized allocation helpers on the
// io target.
const newWithNullPtrBlock = `pub trait NewWithNullPtr {
    fn new_with_null_ptr() -> Self;
}

impl<T> NewWithNullPtr for *mut T {
    fn new_with_null_ptr() -> Self {
        std::ptr::null_mut()
    }
}
`

// GenerateWireFunc emits the exported forwarding function for one API
// function. The exported symbol only forwards the response-channel handle
// and the raw wire arguments to the _impl function supplied elsewhere; the
// call returns immediately and the result is delivered to the channel once
// native work completes.
func GenerateWireFunc(t target.Target, f ir.Func, opts *config.Opts, c *ExternFuncCollector) string {
	name := opts.SymbolPrefix() + f.WireName()

	params := []string{"port_: i64"}
	if t == target.Wasm {
		params = []string{"port_: MessagePort"}
	}
	args := []string{"port_"}
	for _, in := range f.Inputs {
		params = append(params, fmt.Sprintf("%s: %s", in.Name, in.Type.RustWireType(t)))
		args = append(args, in.Name)
	}

	body := fmt.Sprintf("%s_impl(%s)", name, strings.Join(args, ", "))
	return c.Generate(t, name, strings.Join(params, ", "), "", body)
}

// GenerateFile assembles the per-target source files for one module. The
// accumulator's Common slot carries target-independent output (IntoDart
// impls, wrapper structs, static checks).
func GenerateFile(f *ir.File, opts *config.Opts) Output {
	types := f.DistinctTypes()

	ioCollector := &ExternFuncCollector{}
	wasmCollector := &ExternFuncCollector{}

	out := Output{}
	out.Code.Io = generateTargetFile(target.Io, f, types, opts, ioCollector)
	out.Code.Wasm = generateTargetFile(target.Wasm, f, types, opts, wasmCollector)
	out.Code.Common = generateCommonFile(types)
	out.IoFuncNames = ioCollector.Names
	return out
}

func generateTargetFile(t target.Target, f *ir.File, types []ir.Type, opts *config.Opts, c *ExternFuncCollector) string {
	var b strings.Builder
	b.WriteString("use super::*;\n")

	b.WriteString("// Section: wire functions\n\n")
	for _, fn := range f.Funcs {
		b.WriteString(GenerateWireFunc(t, fn, opts, c))
		b.WriteString("\n")
	}

	b.WriteString("// Section: allocate functions\n\n")
	allocs := make([]target.Acc[string], 0, len(types))
	for _, ty := range types {
		allocs = append(allocs, NewGenerator(ty).AllocateFuncs(c, opts))
	}
	if frag := target.Join(allocs, "\n").Get(t); frag != "" {
		b.WriteString(frag)
		b.WriteString("\n")
	}

	b.WriteString("// Section: related functions\n\n")

	b.WriteString("// Section: impl Wire2Api\n\n")
	for _, ty := range types {
		gen := NewGenerator(ty)
		body := gen.Wire2APIBody()
		frag := body.Get(t)
		if frag == "" {
			frag = body.Common
		}
		if frag == "" {
			continue
		}
		fmt.Fprintf(&b, `impl Wire2Api<%s> for %s {
    fn wire2api(self) -> %s {
        %s
    }
}

`, ty.RustAPIType(), ty.RustWireType(t), ty.RustAPIType(), indentBody(frag))
	}

	if t == target.Io {
		b.WriteString("// Section: wire structs\n\n")
		for _, ty := range types {
			fields := NewGenerator(ty).WireStructFields()
			if fields == nil {
				continue
			}
			fmt.Fprintf(&b, "#[repr(C)]\n#[derive(Clone)]\npub struct wire_%s {\n", ty.SafeIdent())
			for _, field := range fields {
				fmt.Fprintf(&b, "    %s: %s,\n", field.Name, field.Type)
			}
			b.WriteString("}\n\n")
		}

		b.WriteString("// Section: impl NewWithNullPtr\n\n")
		b.WriteString(newWithNullPtrBlock)
	}

	if t == target.Wasm {
		b.WriteString("// Section: impl Wire2Api for JsValue\n\n")
		for _, ty := range types {
			body, ok := NewGenerator(ty).Wire2APIJsValue()
			if !ok {
				continue
			}
			fmt.Fprintf(&b, `impl Wire2Api<%s> for JsValue {
    fn wire2api(self) -> %s {
        %s
    }
}

`, ty.RustAPIType(), ty.RustAPIType(), indentBody(body))
		}
	}

	return b.String()
}

// WireStructNames lists the generated wire struct names for a module, used
// as the header extractor's struct allowlist.
func WireStructNames(f *ir.File) []string {
	var names []string
	for _, ty := range f.DistinctTypes() {
		if NewGenerator(ty).WireStructFields() != nil {
			names = append(names, "wire_"+ty.SafeIdent())
		}
	}
	return names
}

func generateCommonFile(types []ir.Type) string {
	var b strings.Builder
	b.WriteString("use super::*;\n")
	for _, ty := range types {
		if imp := NewGenerator(ty).Imports(); imp != "" {
			b.WriteString(imp)
			b.WriteString("\n")
		}
	}

	b.WriteString("// Section: wrapper structs\n\n")
	for _, ty := range types {
		if wrapper, ok := NewGenerator(ty).WrapperStruct(); ok {
			b.WriteString(wrapper)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("// Section: static checks\n\n")
	for _, ty := range types {
		if checks := NewGenerator(ty).StaticChecks(); checks != "" {
			b.WriteString(checks)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("// Section: impl IntoDart\n\n")
	for _, ty := range types {
		if impl := NewGenerator(ty).IntoDart(); impl != "" {
			b.WriteString(impl)
			b.WriteString("\n\n")
		}
	}

	return b.String()
}
