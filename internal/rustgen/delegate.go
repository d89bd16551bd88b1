package rustgen

import (
	"fmt"
	"strings"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/config"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/ir"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/target"
)

// TypeDelegateGenerator emits code for the closed set of delegate types.
// Each delegate states its decode/encode semantics once; the accumulator
// decides which target receives which rendition.
type TypeDelegateGenerator struct {
	IR ir.Delegate
}

func (g *TypeDelegateGenerator) Wire2APIBody() target.Acc[string] {
	switch ty := g.IR.(type) {
	case ir.DelegateString:
		// On wasm the wire value already is an engine string. On io the
		// decode must tolerate invalid UTF-8, hence the lossy conversion.
		return target.Acc[string]{
			Wasm: "self",
			Io:   "let vec: Vec<u8> = self.wire2api(); String::from_utf8_lossy(&vec).into_owned()",
		}
	case ir.DelegateZeroCopyBuffer:
		return target.Distribute("ZeroCopyBuffer(self.wire2api())")
	case ir.DelegateStringList:
		return target.Acc[string]{Io: listWire2APIBodyIo, Wasm: listWire2APIBodyWasm}
	case ir.DelegatePrimitiveEnum:
		return target.Acc[string]{Common: enumOrdinalDecode(ty.Enum)}
	case ir.DelegateTime:
		return g.timeWire2API(ty)
	default:
		return target.Acc[string]{}
	}
}

// timeWire2API decodes the integer sub-second count per target. The
// remainder uses rem_euclid so negative instants still yield a non-negative
// nanosecond component with correspondingly adjusted seconds.
func (g *TypeDelegateGenerator) timeWire2API(ty ir.DelegateTime) target.Acc[string] {
	if ty.Variant == ir.TimeDuration {
		return target.Acc[string]{
			Io:   "chrono::Duration::microseconds(self)",
			Wasm: "chrono::Duration::milliseconds(self)",
		}
	}

	decodeIo := "let s = (self / 1_000_000) as i64;\nlet ns = (self.rem_euclid(1_000_000) * 1_000) as u32;"
	decodeWasm := "let s = (self / 1_000) as i64;\nlet ns = (self.rem_euclid(1_000) * 1_000_000) as u32;"

	naive := "chrono::NaiveDateTime::from_timestamp(s, ns)"
	utc := fmt.Sprintf("chrono::DateTime::<chrono::Utc>::from_utc(%s, chrono::Utc)", naive)
	local := fmt.Sprintf("chrono::DateTime::<chrono::Local>::from(%s)", utc)

	var conv string
	switch ty.Variant {
	case ir.TimeNaive:
		conv = naive
	case ir.TimeUtc:
		conv = utc
	case ir.TimeLocal:
		conv = local
	}

	return target.Acc[string]{
		Io:   decodeIo + "\n" + conv,
		Wasm: decodeWasm + "\n" + conv,
	}
}

func (g *TypeDelegateGenerator) WireStructFields() []WireField {
	if ty, ok := g.IR.(ir.DelegateStringList); ok {
		return []WireField{
			{Name: "ptr", Type: "*mut " + ty.GetDelegate().RustWireType(target.Io)},
			{Name: "len", Type: "i32"},
		}
	}
	return nil
}

func (g *TypeDelegateGenerator) AllocateFuncs(c *ExternFuncCollector, opts *config.Opts) target.Acc[string] {
	if ty, ok := g.IR.(ir.DelegateStringList); ok {
		return target.Acc[string]{
			Io: generateListAllocateFunc(c, ty.SafeIdent(), ty, ty.GetDelegate(), opts),
		}
	}
	return target.Acc[string]{}
}

func (g *TypeDelegateGenerator) IntoDart() string {
	ty, ok := g.IR.(ir.DelegatePrimitiveEnum)
	if !ok {
		return ""
	}

	// The wrapper name, when declared, is what generated code converts
	// through; the match arms still name the underlying declaration.
	name, selfPath := ty.Enum.Name, "Self"
	if ty.Enum.WrapperName != "" {
		name, selfPath = ty.Enum.WrapperName, ty.Enum.Name
	}

	var arms []string
	for idx, variant := range ty.Enum.Variants {
		arms = append(arms, fmt.Sprintf("%s::%s => %d,", selfPath, variant, idx))
	}

	return fmt.Sprintf(`impl support::IntoDart for %s {
    fn into_dart(self) -> support::DartAbi {
        match %s {
            %s
        }.into_dart()
    }
}`, name, g.SelfAccess("self"), strings.Join(arms, "\n            "))
}

func (g *TypeDelegateGenerator) Wire2APIJsValue() (string, bool) {
	switch ty := g.IR.(type) {
	case ir.DelegateString:
		return `self.as_string().expect("non-UTF-8 string, or not a string")`, true
	case ir.DelegatePrimitiveEnum:
		return fmt.Sprintf("(self.unchecked_into_f64() as %s).wire2api()",
			ty.Repr.RustWireType(target.Wasm)), true
	case ir.DelegateZeroCopyBuffer:
		return "ZeroCopyBuffer(self.wire2api())", true
	default:
		return "", false
	}
}

// An enum-flavored delegate differs from a plain enum only in its decode and
// encode bodies; every structural hook forwards to the enum generator.
func (g *TypeDelegateGenerator) enumGen() (*TypeEnumRefGenerator, bool) {
	if ty, ok := g.IR.(ir.DelegatePrimitiveEnum); ok {
		return &TypeEnumRefGenerator{IR: ty.Enum}, true
	}
	return nil, false
}

func (g *TypeDelegateGenerator) Imports() string {
	if e, ok := g.enumGen(); ok {
		return e.Imports()
	}
	return ""
}

func (g *TypeDelegateGenerator) WrapperStruct() (string, bool) {
	if e, ok := g.enumGen(); ok {
		return e.WrapperStruct()
	}
	return "", false
}

func (g *TypeDelegateGenerator) WrapObj(obj string) string {
	if e, ok := g.enumGen(); ok {
		return e.WrapObj(obj)
	}
	return obj
}

func (g *TypeDelegateGenerator) SelfAccess(obj string) string {
	if e, ok := g.enumGen(); ok {
		return e.SelfAccess(obj)
	}
	return obj
}

func (g *TypeDelegateGenerator) StaticChecks() string {
	if e, ok := g.enumGen(); ok {
		return e.StaticChecks()
	}
	return ""
}
