// Package dartrepo inspects the managed-runtime project the generated
// bindings are emitted into: which toolchain drives it, and whether the
// interop support packages the generated code is written against are
// declared and installed in compatible versions.
package dartrepo

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Toolchain is the executable driving the Dart project.
type Toolchain string

const (
	ToolchainDart    Toolchain = "dart"
	ToolchainFlutter Toolchain = "flutter"
)

// RunCommand returns the command prefix for `pub run`-style invocations.
func (t Toolchain) RunCommand() []string {
	if t == ToolchainFlutter {
		return []string{"flutter", "pub"}
	}
	return []string{"dart"}
}

// DependencyMode selects which pubspec dependency block a check applies to.
type DependencyMode string

const (
	DependencyModeMain DependencyMode = "dependencies"
	DependencyModeDev  DependencyMode = "dev_dependencies"
)

// Generated output is only valid against these package contracts.
var (
	FfiRequirement    = mustConstraint(">=2.0.1, <3.0.0")
	FfigenRequirement = mustConstraint(">=6.0.1, <8.0.0")
)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// DartRepository is one opened Dart project.
type DartRepository struct {
	Root      string
	Toolchain Toolchain

	pubspec pubspecFile
}

type pubspecFile struct {
	Name            string               `yaml:"name"`
	Dependencies    map[string]yaml.Node `yaml:"dependencies"`
	DevDependencies map[string]yaml.Node `yaml:"dev_dependencies"`
}

// Open reads the project's pubspec and resolves its toolchain: flutter when
// the project depends on the flutter SDK, plain dart otherwise.
func Open(root string) (*DartRepository, error) {
	data, err := os.ReadFile(filepath.Join(root, "pubspec.yaml"))
	if err != nil {
		return nil, fmt.Errorf("open dart project at %s: %w", root, err)
	}

	var pubspec pubspecFile
	if err := yaml.Unmarshal(data, &pubspec); err != nil {
		return nil, fmt.Errorf("parse pubspec.yaml: %w", err)
	}

	toolchain := ToolchainDart
	if _, ok := pubspec.Dependencies["flutter"]; ok {
		toolchain = ToolchainFlutter
	}

	return &DartRepository{Root: root, Toolchain: toolchain, pubspec: pubspec}, nil
}

// ToolchainAvailable reports whether the resolved toolchain executable is on
// PATH.
func (r *DartRepository) ToolchainAvailable() bool {
	_, err := exec.LookPath(string(r.Toolchain))
	return err == nil
}

// HasSpecified verifies that the package is declared in the given dependency
// block and that the declared constraint's base version lies in the accepted
// range.
func (r *DartRepository) HasSpecified(pkg string, mode DependencyMode, req *semver.Constraints) error {
	deps := r.pubspec.Dependencies
	if mode == DependencyModeDev {
		deps = r.pubspec.DevDependencies
	}

	node, ok := deps[pkg]
	if !ok {
		return &PackageVersionError{Package: pkg, Mode: mode, Requirement: req.String()}
	}

	declared, err := dependencyVersion(node)
	if err != nil {
		return &PackageVersionError{Package: pkg, Mode: mode, Requirement: req.String(), Found: err.Error()}
	}

	version, err := semver.NewVersion(baseVersion(declared))
	if err != nil {
		return &PackageVersionError{Package: pkg, Mode: mode, Requirement: req.String(), Found: declared}
	}
	if !req.Check(version) {
		return &PackageVersionError{Package: pkg, Mode: mode, Requirement: req.String(), Found: declared}
	}
	return nil
}

// HasInstalled verifies against pubspec.lock that the resolved, physically
// installed version lies in the accepted range.
func (r *DartRepository) HasInstalled(pkg string, mode DependencyMode, req *semver.Constraints) error {
	data, err := os.ReadFile(filepath.Join(r.Root, "pubspec.lock"))
	if err != nil {
		return fmt.Errorf("read pubspec.lock (run pub get first?): %w", err)
	}

	var lock struct {
		Packages map[string]struct {
			Version string `yaml:"version"`
		} `yaml:"packages"`
	}
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return fmt.Errorf("parse pubspec.lock: %w", err)
	}

	entry, ok := lock.Packages[pkg]
	if !ok {
		return &PackageVersionError{Package: pkg, Mode: mode, Requirement: req.String(), Installed: true}
	}

	version, err := semver.NewVersion(entry.Version)
	if err != nil {
		return &PackageVersionError{Package: pkg, Mode: mode, Requirement: req.String(), Found: entry.Version, Installed: true}
	}
	if !req.Check(version) {
		return &PackageVersionError{Package: pkg, Mode: mode, Requirement: req.String(), Found: entry.Version, Installed: true}
	}
	return nil
}

// EnsureToolsAvailable runs every generation precondition for the project.
// skipDepsCheck bypasses only the package checks, never the toolchain check.
func EnsureToolsAvailable(root string, skipDepsCheck bool) (*DartRepository, error) {
	repo, err := Open(root)
	if err != nil {
		return nil, err
	}
	if !repo.ToolchainAvailable() {
		return nil, &MissingExecutableError{Name: string(repo.Toolchain)}
	}

	if !skipDepsCheck {
		if err := repo.HasSpecified("ffi", DependencyModeMain, FfiRequirement); err != nil {
			return nil, err
		}
		if err := repo.HasInstalled("ffi", DependencyModeMain, FfiRequirement); err != nil {
			return nil, err
		}
		if err := repo.HasSpecified("ffigen", DependencyModeDev, FfigenRequirement); err != nil {
			return nil, err
		}
		if err := repo.HasInstalled("ffigen", DependencyModeDev, FfigenRequirement); err != nil {
			return nil, err
		}
	}

	return repo, nil
}

// dependencyVersion extracts the version constraint from a pubspec
// dependency entry, which is either a bare string or a mapping with a
// version key (sdk/git/path entries have none).
func dependencyVersion(node yaml.Node) (string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value, nil
	case yaml.MappingNode:
		var m map[string]yaml.Node
		if err := node.Decode(&m); err != nil {
			return "", fmt.Errorf("malformed dependency entry")
		}
		if v, ok := m["version"]; ok && v.Kind == yaml.ScalarNode {
			return v.Value, nil
		}
		return "", fmt.Errorf("dependency entry carries no version")
	default:
		return "", fmt.Errorf("malformed dependency entry")
	}
}

// baseVersion strips range syntax down to the lowest concrete version the
// declaration admits.
func baseVersion(constraint string) string {
	s := strings.TrimSpace(constraint)
	s = strings.TrimPrefix(s, "^")
	s = strings.TrimPrefix(s, ">=")
	if i := strings.IndexAny(s, " ,<"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
