package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/dartrepo"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	SkipDepsCheck bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <dart-project-dir>",
		Short: "Verify the Dart project satisfies every generation precondition",
		Long: `Checks that the project's toolchain is installed and that the ffi and
ffigen support packages are declared and installed within their accepted
version ranges.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.SkipDepsCheck, "skip-deps-check", false, "skip the support package version checks")

	return cmd
}

func runCheck(opts *CheckOptions, dartRoot string, cmd *cobra.Command) error {
	repo, err := dartrepo.EnsureToolsAvailable(dartRoot, opts.SkipDepsCheck)
	if err != nil {
		return WrapExitError(ExitFailure, "preconditions not met", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: %s project at %s is ready for generation\n",
		repo.Toolchain, dartRoot)
	return nil
}
