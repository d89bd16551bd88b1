// Package config holds the per-module generation options. One Opts value
// describes one generated bridge module; several modules linked into a
// single binary are kept collision-free by each module's unique identifier.
package config

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BlockIndex is the ordinal of a generated module. The root module is
// BlockIndex 0; auxiliary modules follow in declaration order.
type BlockIndex int

// Opts describes one generated bridge module.
type Opts struct {
	// RustCrateDir is the crate the header extractor runs against.
	RustCrateDir string `yaml:"rust_crate_dir"`

	// RustOutputPath is the base path for generated Rust glue. The io and
	// wasm renditions are written next to it with .io.rs / .web.rs suffixes.
	RustOutputPath string `yaml:"rust_output"`

	// DartOutputPath receives the generated Dart bindings.
	DartOutputPath string `yaml:"dart_output"`

	// COutputPaths receive the generated C header, one copy per path.
	COutputPaths []string `yaml:"c_output"`

	// IRFile is the pre-built intermediate representation consumed by the
	// generators. Parsing native sources into IR happens upstream.
	IRFile string `yaml:"ir_file"`

	// ClassName is the declared Dart class and API-block name. When empty it
	// is derived from the Dart output file name.
	ClassName string `yaml:"class_name"`

	// ModuleID overrides the derived unique identifier.
	ModuleID string `yaml:"module_id"`

	// CSymbolExcludes lists declarations the header extractor must omit.
	CSymbolExcludes []string `yaml:"c_symbol_exclude"`

	DartFormatLineLength int      `yaml:"dart_format_line_length"`
	LLVMPaths            []string `yaml:"llvm_path"`
	LLVMCompilerOpts     string   `yaml:"llvm_compiler_opts"`
	WasmEnabled          bool     `yaml:"wasm"`
	SkipDepsCheck        bool     `yaml:"skip_deps_check"`

	BlockIndex BlockIndex `yaml:"-"`
}

// DefaultDartFormatLineLength matches dart format's own default.
const DefaultDartFormatLineLength = 80

// UniqueID returns the module's short hash identifier, e.g. "P7C55DD6B".
// It is stable for one generation invocation and is the sole key separating
// colliding symbol namespaces when several modules link together.
func (o *Opts) UniqueID() string {
	if o.ModuleID != "" {
		return o.ModuleID
	}
	sum := crc32.ChecksumIEEE([]byte(fmt.Sprintf("%s#%d", o.ClassName, o.BlockIndex)))
	return fmt.Sprintf("P%08X", sum)
}

// SymbolPrefix is the mandatory prefix applied to every exported symbol of
// the module.
func (o *Opts) SymbolPrefix() string {
	return o.UniqueID() + "_"
}

// DartClassName derives a Dart class name from a snake_case library name,
// e.g. "my_bridge" -> "MyBridge".
func DartClassName(libName string) string {
	title := cases.Title(language.English, cases.NoLower)
	parts := strings.Split(libName, "_")
	for i, p := range parts {
		parts[i] = title.String(p)
	}
	return strings.Join(parts, "")
}

// Config is one generation run: the Dart project the bindings land in and
// one or more modules to generate.
type Config struct {
	// DartRoot is the Dart project directory holding pubspec.yaml.
	DartRoot string `yaml:"dart_root"`

	// Modules lists the bridge modules. Block indices follow declaration
	// order; the first module is the root.
	Modules []*Opts `yaml:"modules"`
}

// Load reads a run configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.DartRoot == "" {
		return nil, fmt.Errorf("config %s: dart_root is required", path)
	}
	if len(cfg.Modules) == 0 {
		return nil, fmt.Errorf("config %s declares no modules", path)
	}

	for i, opts := range cfg.Modules {
		opts.BlockIndex = BlockIndex(i)
		if err := opts.validate(); err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		if opts.ClassName == "" {
			opts.ClassName = DartClassName(dartLibName(opts.DartOutputPath))
		}
		if opts.DartFormatLineLength == 0 {
			opts.DartFormatLineLength = DefaultDartFormatLineLength
		}
	}
	return &cfg, nil
}

// dartLibName is the snake_case library name of a Dart output path.
func dartLibName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".dart")
}

func (o *Opts) validate() error {
	switch {
	case o.RustCrateDir == "":
		return fmt.Errorf("rust_crate_dir is required")
	case o.RustOutputPath == "":
		return fmt.Errorf("rust_output is required")
	case o.DartOutputPath == "":
		return fmt.Errorf("dart_output is required")
	case len(o.COutputPaths) == 0:
		return fmt.Errorf("c_output requires at least one path")
	case o.IRFile == "":
		return fmt.Errorf("ir_file is required")
	}
	return nil
}
