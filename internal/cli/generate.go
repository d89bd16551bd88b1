package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/cgen"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/config"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/dartrepo"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/ir"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/pipeline"
	"github.com/erikas-taroza/flutter-rust-bridge/internal/rustgen"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	ConfigPath     string
	SkipDepsCheck  bool
	RunBuildRunner bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate bridge code for every module in the config",
		Long: `Runs the full pipeline: Rust wire layer per target, C header extraction
with symbol-prefix rewriting and linkage anchors, Dart binding generation,
and formatting of all outputs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "run configuration file (required)")
	cmd.Flags().BoolVar(&opts.SkipDepsCheck, "skip-deps-check", false, "skip the support package version checks")
	cmd.Flags().BoolVar(&opts.RunBuildRunner, "build-runner", false, "run build_runner after generation")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}

	log := opts.Logger()
	defer log.Sync()

	repo, err := dartrepo.EnsureToolsAvailable(cfg.DartRoot, opts.SkipDepsCheck)
	if err != nil {
		return WrapExitError(ExitFailure, "toolchain preconditions", err)
	}

	p := pipeline.New(pipeline.WithLogger(log))

	// Phase 1: Rust glue per module. Nothing external runs yet, so a bad IR
	// file fails before any tool output exists.
	outputs := make([]rustgen.Output, len(cfg.Modules))
	irFiles := make([]*ir.File, len(cfg.Modules))
	var rustPaths []string

	for i, m := range cfg.Modules {
		irFile, err := ir.LoadFile(m.IRFile)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("module %d", i), err)
		}
		irFiles[i] = irFile
		outputs[i] = rustgen.GenerateFile(irFile, m)

		paths, err := writeRustOutputs(m, outputs[i])
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("module %d", i), err)
		}
		rustPaths = append(rustPaths, paths...)
	}

	// Phase 2: header extraction, prefix rewrite and linkage anchors.
	for i, m := range cfg.Modules {
		for cIdx, cPath := range m.COutputPaths {
			err := p.CBindgen(pipeline.CBindgenArgs{
				CrateDir:       m.RustCrateDir,
				OutputPath:     cPath,
				StructNames:    rustgen.WireStructNames(irFiles[i]),
				ExcludeSymbols: m.CSymbolExcludes,
				Prefix:         m.SymbolPrefix(),
			})
			if err != nil {
				return WrapExitError(ExitFailure, "header extraction", err)
			}

			dummy := cgen.GenerateDummy(m, cfg.Modules, outputs[i].IoFuncNames, cIdx)
			if err := appendToFile(cPath, "\n"+dummy); err != nil {
				return WrapExitError(ExitFailure, "linkage anchors", err)
			}
		}
	}

	// Phase 3: Dart bindings and formatting.
	var dartPaths []string
	for _, m := range cfg.Modules {
		err := p.Ffigen(repo, pipeline.FfigenArgs{
			CPath:        m.COutputPaths[0],
			DartPath:     m.DartOutputPath,
			ClassName:    m.ClassName,
			LLVMPaths:    m.LLVMPaths,
			CompilerOpts: m.LLVMCompilerOpts,
		})
		if err != nil {
			return WrapExitError(ExitFailure, "binding generation", err)
		}
		dartPaths = append(dartPaths, m.DartOutputPath)
	}

	if err := p.FormatRust(rustPaths); err != nil {
		return WrapExitError(ExitFailure, "format rust", err)
	}
	for _, m := range cfg.Modules {
		if err := p.FormatDart([]string{m.DartOutputPath}, m.DartFormatLineLength); err != nil {
			return WrapExitError(ExitFailure, "format dart", err)
		}
	}

	if opts.RunBuildRunner {
		if err := p.BuildRunner(repo); err != nil {
			return WrapExitError(ExitFailure, "build_runner", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d module(s): %s\n",
		len(cfg.Modules), strings.Join(append(rustPaths, dartPaths...), ", "))
	return nil
}

// writeRustOutputs writes the shared file at the configured path and the
// per-target files next to it with .io.rs / .web.rs suffixes.
func writeRustOutputs(m *config.Opts, out rustgen.Output) ([]string, error) {
	base := strings.TrimSuffix(m.RustOutputPath, ".rs")

	paths := []string{m.RustOutputPath, base + ".io.rs"}
	contents := []string{out.Code.Common, out.Code.Io}
	if m.WasmEnabled {
		paths = append(paths, base+".web.rs")
		contents = append(contents, out.Code.Wasm)
	}

	for i, path := range paths {
		if err := pipeline.WriteFileAtomic(path, []byte(contents[i])); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func appendToFile(path, text string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return pipeline.WriteFileAtomic(path, append(data, []byte(text)...))
}
