package rustgen

import (
	"fmt"
	"strings"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/ir"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/target"
)

// TypeEnumRefGenerator emits code for data-less enums and supplies the
// structural scaffolding that enum-flavored delegates forward to.
type TypeEnumRefGenerator struct {
	baseGenerator
	IR ir.EnumRef
}

func (g *TypeEnumRefGenerator) Wire2APIBody() target.Acc[string] {
	return target.Acc[string]{Common: enumOrdinalDecode(g.IR)}
}

func (g *TypeEnumRefGenerator) IntoDart() string {
	name, selfPath := g.IR.Name, "Self"
	if g.IR.WrapperName != "" {
		name, selfPath = g.IR.WrapperName, g.IR.Name
	}

	var arms []string
	for idx, variant := range g.IR.Variants {
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

func (g *TypeEnumRefGenerator) WrapperStruct() (string, bool) {
	if g.IR.WrapperName == "" {
		return "", false
	}
	return fmt.Sprintf("pub struct %s(pub %s);", g.IR.WrapperName, g.IR.Name), true
}

func (g *TypeEnumRefGenerator) WrapObj(obj string) string {
	if g.IR.WrapperName == "" {
		return obj
	}
	return fmt.Sprintf("%s(%s)", g.IR.WrapperName, obj)
}

func (g *TypeEnumRefGenerator) SelfAccess(obj string) string {
	if g.IR.WrapperName == "" {
		return obj
	}
	return obj + ".0"
}

// enumOrdinalDecode maps a wire integer to the nth declared variant. An
// out-of-range ordinal means a corrupted or version-mismatched call, so the
// fallthrough arm aborts instead of clamping.
func enumOrdinalDecode(e ir.EnumRef) string {
	var arms []string
	for idx, variant := range e.Variants {
		arms = append(arms, fmt.Sprintf("%d => %s::%s,", idx, e.Name, variant))
	}
	return fmt.Sprintf(`match self {
    %s
    _ => unreachable!("Invalid variant for %s: {}", self),
}`, strings.Join(arms, "\n    "), e.Name)
}
