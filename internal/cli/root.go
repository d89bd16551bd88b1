// Package cli wires the code generator's commands. Commands return errors
// instead of exiting so main can map them to exit codes.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the code generator CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "frb_codegen",
		Short: "Generate glue code bridging a Rust crate and a Dart project",
		Long: `Generates the Rust wire layer, the prefixed C header and the Dart
bindings for one or more bridge modules, from a pre-built intermediate
representation of the exported API.`,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// Logger builds the logger backing tool invocations: human-readable debug
// output under --verbose, silent otherwise.
func (o *RootOptions) Logger() *zap.Logger {
	if !o.Verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
