package pipeline

import (
	"fmt"
	"strings"
)

// ffigenLlvmPattern is the recognized failure signature meaning the native
// compiler toolchain could not be located. It gets its own error kind
// because its remedy differs from every other ffigen failure.
const ffigenLlvmPattern = "Couldn't find dynamic library in default locations."

// ExternalToolError means an external formatter or extractor exited
// non-zero. Carries the captured stderr verbatim; never retried.
type ExternalToolError struct {
	Tool   string
	Stderr string
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Tool, e.Stderr)
}

// FfigenLlvmError is the distinct, actionable kind for the recognized
// missing-LLVM signature.
type FfigenLlvmError struct{}

func (e *FfigenLlvmError) Error() string {
	return "ffigen could not find the LLVM dynamic library; install LLVM or set llvm_path in the config"
}

// ToolFailureError is any other non-zero tool exit, with both captured
// streams verbatim.
type ToolFailureError struct {
	Tool   string
	Stdout string
	Stderr string
}

func (e *ToolFailureError) Error() string {
	return fmt.Sprintf("%s failed:\nstderr: %s\nstdout: %s", e.Tool, e.Stderr, e.Stdout)
}

// classifyFfigenFailure maps a finished ffigen invocation to the error
// taxonomy. Pure over the captured result so it is testable without
// spawning processes.
func classifyFfigenFailure(res CommandResult) error {
	if res.Success() {
		return nil
	}
	if strings.Contains(res.Stderr, ffigenLlvmPattern) || strings.Contains(res.Stdout, ffigenLlvmPattern) {
		return &FfigenLlvmError{}
	}
	return &ToolFailureError{Tool: "ffigen", Stdout: res.Stdout, Stderr: res.Stderr}
}
