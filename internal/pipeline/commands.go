// Package pipeline orchestrates the external tools surrounding code
// generation: the C header extractor, the Dart binding generator, both
// formatters and the Dart build step. Every invocation is a synchronous
// child process with captured streams; failures are classified into the
// error taxonomy and surfaced immediately.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/dartrepo"
)

// Pipeline runs the external tool steps. The zero value is not usable; use
// New.
type Pipeline struct {
	runner Runner
	log    *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRunner replaces the process runner, mainly for tests.
func WithRunner(r Runner) Option {
	return func(p *Pipeline) { p.runner = r }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) {
		if log == nil {
			log = zap.NewNop()
		}
		p.log = log
	}
}

// New creates a Pipeline backed by real child processes unless overridden.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{runner: execRunner{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CBindgenArgs describes one header extraction.
type CBindgenArgs struct {
	CrateDir       string
	OutputPath     string
	StructNames    []string
	ExcludeSymbols []string
	Prefix         string
}

// cbindgenConfig is the extractor's TOML configuration. Language, includes
// and the appended Dart handle typedef are fixed by the generated code's
// contract.
type cbindgenConfig struct {
	Language      string         `toml:"language"`
	SysIncludes   []string       `toml:"sys_includes"`
	NoIncludes    bool           `toml:"no_includes"`
	AfterIncludes string         `toml:"after_includes"`
	Export        cbindgenExport `toml:"export"`
}

type cbindgenExport struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
	Prefix  string   `toml:"prefix"`
}

// CBindgen extracts the C header for a crate, then rewrites function names
// to carry the module prefix. The extractor's prefix option only covers type
// names, so the post-process rewrite is the source of truth for function
// prefixing.
func (p *Pipeline) CBindgen(args CBindgenArgs) error {
	p.log.Debug("execute cbindgen",
		zap.String("crate_dir", args.CrateDir),
		zap.String("c_output_path", args.OutputPath))

	// The extractor matches include entries against the quoted spelling.
	include := make([]string, 0, len(args.StructNames))
	for _, name := range args.StructNames {
		include = append(include, fmt.Sprintf("%q", name))
	}

	cfg := cbindgenConfig{
		Language:    "C",
		SysIncludes: []string{"stdbool.h", "stdint.h", "stdlib.h"},
		NoIncludes:  true,
		// Mirrors dart-sdk/dart_api.h; converts Dart_Handle to Object.
		AfterIncludes: fmt.Sprintf("typedef struct _Dart_Handle* %sDart_Handle;", args.Prefix),
		Export: cbindgenExport{
			Include: include,
			Exclude: args.ExcludeSymbols,
			// This does not cover functions; see PrefixFunctionNames.
			Prefix: args.Prefix,
		},
	}

	cfgPath, err := p.writeTempArtifact("cbindgen_*.toml", func(f *os.File) error {
		return toml.NewEncoder(f).Encode(cfg)
	})
	if err != nil {
		return err
	}
	defer os.Remove(cfgPath)

	rawPath := filepath.Join(os.TempDir(), "cbindgen_raw_"+uuid.NewString()+".h")
	defer os.Remove(rawPath)

	res, err := p.runner.Run("", "cbindgen", "--config", cfgPath, "--output", rawPath, args.CrateDir)
	if err != nil {
		return err
	}
	if !res.Success() {
		return &ExternalToolError{Tool: "cbindgen", Stderr: res.Stderr}
	}

	generated, err := os.ReadFile(rawPath)
	if err != nil {
		return fmt.Errorf("read cbindgen output: %w", err)
	}

	prefixed := PrefixFunctionNames(string(generated), args.Prefix)
	return WriteFileAtomic(args.OutputPath, []byte(prefixed))
}

// FfigenArgs describes one binding generation run.
type FfigenArgs struct {
	CPath        string
	DartPath     string
	ClassName    string
	LLVMPaths    []string
	CompilerOpts string
}

// ffigenConfig is the binding generator's YAML configuration.
type ffigenConfig struct {
	Output      string        `yaml:"output"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Headers     ffigenHeaders `yaml:"headers"`
	Comments    bool          `yaml:"comments"`
	Preamble    string        `yaml:"preamble"`
	LLVMPath    []string      `yaml:"llvm-path,omitempty"`
	CompilerOpt []string      `yaml:"compiler-opts,omitempty"`
}

type ffigenHeaders struct {
	EntryPoints       []string `yaml:"entry-points"`
	IncludeDirectives []string `yaml:"include-directives"`
}

// Ffigen generates Dart bindings from the prefixed header through the
// project's own package-execution command. The recognized missing-LLVM
// signature is surfaced as its own error kind.
func (p *Pipeline) Ffigen(repo *dartrepo.DartRepository, args FfigenArgs) error {
	p.log.Debug("execute ffigen",
		zap.String("c_path", args.CPath),
		zap.String("dart_path", args.DartPath),
		zap.Strings("llvm_path", args.LLVMPaths))

	cfg := ffigenConfig{
		Output:      args.DartPath,
		Name:        args.ClassName,
		Description: "generated by flutter_rust_bridge",
		Headers: ffigenHeaders{
			EntryPoints:       []string{args.CPath},
			IncludeDirectives: []string{args.CPath},
		},
		Comments: false,
		Preamble: "// ignore_for_file: camel_case_types, non_constant_identifier_names, avoid_positional_boolean_parameters, annotate_overrides, constant_identifier_names",
		LLVMPath: args.LLVMPaths,
	}
	if args.CompilerOpts != "" {
		cfg.CompilerOpt = []string{args.CompilerOpts}
	}

	cfgPath, err := p.writeTempArtifact("ffigen_config_*.yaml", func(f *os.File) error {
		return yaml.NewEncoder(f).Encode(cfg)
	})
	if err != nil {
		return err
	}
	defer os.Remove(cfgPath)

	cmdline := append(repo.Toolchain.RunCommand(), "run", "ffigen", "--config", cfgPath)
	res, err := p.runner.Run(repo.Root, cmdline[0], cmdline[1:]...)
	if err != nil {
		return err
	}
	return classifyFfigenFailure(res)
}

// FormatRust runs rustfmt over the generated Rust sources.
func (p *Pipeline) FormatRust(paths []string) error {
	p.log.Debug("execute rustfmt", zap.Strings("paths", paths))

	res, err := p.runner.Run("", "rustfmt", paths...)
	if err != nil {
		return err
	}
	if !res.Success() {
		return &ExternalToolError{Tool: "rustfmt", Stderr: res.Stderr}
	}
	return nil
}

// FormatDart runs dart format with an explicit maximum line length.
func (p *Pipeline) FormatDart(paths []string, lineLength int) error {
	p.log.Debug("execute dart format",
		zap.Strings("paths", paths), zap.Int("line_length", lineLength))

	args := append([]string{"format", "--line-length", fmt.Sprint(lineLength)}, paths...)
	res, err := p.runner.Run("", "dart", args...)
	if err != nil {
		return err
	}
	if !res.Success() {
		return &ExternalToolError{Tool: "dart format", Stderr: res.Stderr}
	}
	return nil
}

// BuildRunner runs the project's build step, deleting stale generated
// outputs on conflict.
func (p *Pipeline) BuildRunner(repo *dartrepo.DartRepository) error {
	p.log.Info("running build_runner", zap.String("dart_root", repo.Root))

	cmdline := append(repo.Toolchain.RunCommand(), "run", "build_runner", "build", "--delete-conflicting-outputs")
	res, err := p.runner.Run(repo.Root, cmdline[0], cmdline[1:]...)
	if err != nil {
		return err
	}
	if !res.Success() {
		return &ToolFailureError{Tool: "build_runner", Stdout: res.Stdout, Stderr: res.Stderr}
	}
	return nil
}

// writeTempArtifact writes a generated tool configuration to a temporary
// file and returns its path. Callers remove it when the tool finishes.
func (p *Pipeline) writeTempArtifact(pattern string, write func(*os.File) error) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("create temp config: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp config: %w", err)
	}
	return f.Name(), nil
}
