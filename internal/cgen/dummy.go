// Package cgen emits the C-side linkage anchors appended to each generated
// header. Exported wire functions are resolved by name from the Dart side at
// load time and are never called from native code, so without an anchor the
// linker's dead-code elimination silently discards them.
package cgen

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/config"
)

var wireFuncRe = regexp.MustCompile(`wire_\w+`)

// GenerateDummy emits the anchor function(s) for one module. Each anchor
// XORs the address of every listed function into an accumulator, forcing the
// linker to treat them all as reachable.
//
// With several modules, every non-root module gets a per-module anchor named
// after its class, and the root module additionally gets an umbrella anchor
// that includes the other modules' headers by relative path and XORs their
// anchor signatures. Linking only the root translation unit then
// transitively retains every module's exported symbols.
//
// cPathIndex selects which of each module's header output paths the include
// paths are computed against.
func GenerateDummy(cfg *config.Opts, allConfigs []*config.Opts, funcNames []string, cPathIndex int) string {
	prefix := cfg.SymbolPrefix()
	prefixed := make([]string, 0, len(funcNames))
	for _, name := range funcNames {
		prefixed = append(prefixed, prefixWireName(name, prefix))
	}

	if len(allConfigs) <= 1 {
		return dummyFunc("", prefixed, prefix)
	}

	basic := dummyFunc(cfg.ClassName, prefixed, prefix)
	if cfg.BlockIndex != 0 {
		return basic
	}

	// Root module: reference every module's anchor signature, pulling the
	// other headers in by relative include.
	anchorNames := make([]string, 0, len(allConfigs))
	for _, other := range allConfigs {
		anchorNames = append(anchorNames, other.SymbolPrefix()+dummySignature(other.ClassName))
	}

	var includes []string
	rootDir := filepath.Dir(cfg.COutputPaths[cPathIndex])
	for _, other := range allConfigs[1:] {
		otherPath := other.COutputPaths[cPathIndex]
		rel, err := filepath.Rel(rootDir, filepath.Dir(otherPath))
		if err != nil {
			rel = filepath.Dir(otherPath)
		}
		includes = append(includes, fmt.Sprintf("#include %q",
			filepath.ToSlash(filepath.Join(rel, filepath.Base(otherPath)))))
	}

	return fmt.Sprintf("%s\n%s\n%s",
		basic,
		strings.Join(includes, "\n"),
		dummyFunc("", anchorNames, prefix))
}

// prefixWireName applies the module prefix to wire function names. Names
// already carrying the prefix, and names that are not wire functions, pass
// through unchanged, so re-running the generator never double-prefixes.
func prefixWireName(name, prefix string) string {
	if !wireFuncRe.MatchString(name) || strings.HasPrefix(name, prefix) {
		return name
	}
	return prefix + name
}

func dummyFunc(apiBlockName string, funcNames []string, prefix string) string {
	var refs []string
	for _, name := range funcNames {
		refs = append(refs, fmt.Sprintf("    dummy_var ^= ((int64_t) (void*) %s);", name))
	}

	return fmt.Sprintf(`static int64_t %s%s(void) {
    int64_t dummy_var = 0;
%s
    return dummy_var;
}
`, prefix, dummySignature(apiBlockName), strings.Join(refs, "\n"))
}

func dummySignature(apiBlockName string) string {
	if apiBlockName == "" {
		return "dummy_method_to_enforce_bundling"
	}
	return "dummy_method_to_enforce_bundling_" + apiBlockName
}
