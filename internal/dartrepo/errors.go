package dartrepo

import "fmt"

// MissingExecutableError means the resolved toolchain executable is not on
// PATH. Not retried; generation cannot proceed without it.
type MissingExecutableError struct {
	Name string
}

func (e *MissingExecutableError) Error() string {
	return fmt.Sprintf("cannot find executable %q; install it and ensure it is on PATH", e.Name)
}

// PackageVersionError means a required support package is missing from the
// project or falls outside its accepted version range. The generated output
// is only valid against specific package contracts, so any mismatch is a
// fatal precondition failure naming the package and range.
type PackageVersionError struct {
	Package     string
	Mode        DependencyMode
	Requirement string
	Found       string // empty when the package is absent entirely
	Installed   bool   // true when the failing check was against pubspec.lock
}

func (e *PackageVersionError) Error() string {
	source := "pubspec.yaml"
	if e.Installed {
		source = "pubspec.lock"
	}
	if e.Found == "" {
		return fmt.Sprintf("package %s (%s) not found in %s; requires %s",
			e.Package, e.Mode, source, e.Requirement)
	}
	return fmt.Sprintf("package %s (%s) version %q in %s does not satisfy %s",
		e.Package, e.Mode, e.Found, source, e.Requirement)
}
