package dartrepo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flutterPubspec = `
name: example_app
dependencies:
  flutter:
    sdk: flutter
  ffi: ^2.0.1
dev_dependencies:
  ffigen: ^6.1.0
`

const dartPubspec = `
name: example_tool
dependencies:
  ffi: ">=2.0.1 <3.0.0"
dev_dependencies:
  ffigen: ^7.2.0
`

const goodLock = `
packages:
  ffi:
    version: "2.0.2"
  ffigen:
    version: "6.1.5"
`

func writeProject(t *testing.T, pubspec, lock string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pubspec.yaml"), []byte(pubspec), 0o644))
	if lock != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pubspec.lock"), []byte(lock), 0o644))
	}
	return dir
}

func TestOpen_ResolvesToolchain(t *testing.T) {
	flutter, err := Open(writeProject(t, flutterPubspec, ""))
	require.NoError(t, err)
	assert.Equal(t, ToolchainFlutter, flutter.Toolchain)

	dart, err := Open(writeProject(t, dartPubspec, ""))
	require.NoError(t, err)
	assert.Equal(t, ToolchainDart, dart.Toolchain)
}

func TestOpen_MissingPubspec(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestToolchainRunCommand(t *testing.T) {
	assert.Equal(t, []string{"dart"}, ToolchainDart.RunCommand())
	assert.Equal(t, []string{"flutter", "pub"}, ToolchainFlutter.RunCommand())
}

func TestHasSpecified(t *testing.T) {
	repo, err := Open(writeProject(t, dartPubspec, ""))
	require.NoError(t, err)

	assert.NoError(t, repo.HasSpecified("ffi", DependencyModeMain, FfiRequirement))
	assert.NoError(t, repo.HasSpecified("ffigen", DependencyModeDev, FfigenRequirement))
}

func TestHasSpecified_CaretConstraint(t *testing.T) {
	repo, err := Open(writeProject(t, flutterPubspec, ""))
	require.NoError(t, err)

	assert.NoError(t, repo.HasSpecified("ffi", DependencyModeMain, FfiRequirement))
}

func TestHasSpecified_MissingPackage(t *testing.T) {
	repo, err := Open(writeProject(t, "name: bare\n", ""))
	require.NoError(t, err)

	err = repo.HasSpecified("ffi", DependencyModeMain, FfiRequirement)

	var verr *PackageVersionError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ffi", verr.Package)
	assert.Equal(t, DependencyModeMain, verr.Mode)
	assert.Empty(t, verr.Found)
	assert.Contains(t, verr.Error(), "not found in pubspec.yaml")
}

func TestHasSpecified_VersionTooOld(t *testing.T) {
	pubspec := "name: old\ndependencies:\n  ffi: ^1.2.0\n"
	repo, err := Open(writeProject(t, pubspec, ""))
	require.NoError(t, err)

	err = repo.HasSpecified("ffi", DependencyModeMain, FfiRequirement)

	var verr *PackageVersionError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "^1.2.0", verr.Found)
	assert.False(t, verr.Installed)
}

func TestHasSpecified_MappingEntryWithVersion(t *testing.T) {
	pubspec := "name: mapped\ndependencies:\n  ffi:\n    version: ^2.1.0\n"
	repo, err := Open(writeProject(t, pubspec, ""))
	require.NoError(t, err)

	assert.NoError(t, repo.HasSpecified("ffi", DependencyModeMain, FfiRequirement))
}

func TestHasSpecified_SdkEntryHasNoVersion(t *testing.T) {
	pubspec := "name: sdkdep\ndependencies:\n  ffi:\n    sdk: flutter\n"
	repo, err := Open(writeProject(t, pubspec, ""))
	require.NoError(t, err)

	err = repo.HasSpecified("ffi", DependencyModeMain, FfiRequirement)

	var verr *PackageVersionError
	assert.ErrorAs(t, err, &verr)
}

func TestHasInstalled(t *testing.T) {
	repo, err := Open(writeProject(t, dartPubspec, goodLock))
	require.NoError(t, err)

	assert.NoError(t, repo.HasInstalled("ffi", DependencyModeMain, FfiRequirement))
	assert.NoError(t, repo.HasInstalled("ffigen", DependencyModeDev, FfigenRequirement))
}

func TestHasInstalled_VersionOutOfRange(t *testing.T) {
	lock := "packages:\n  ffigen:\n    version: \"8.0.0\"\n"
	repo, err := Open(writeProject(t, dartPubspec, lock))
	require.NoError(t, err)

	err = repo.HasInstalled("ffigen", DependencyModeDev, FfigenRequirement)

	var verr *PackageVersionError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "8.0.0", verr.Found)
	assert.True(t, verr.Installed)
	assert.Contains(t, verr.Error(), "pubspec.lock")
}

func TestHasInstalled_MissingLockFile(t *testing.T) {
	repo, err := Open(writeProject(t, dartPubspec, ""))
	require.NoError(t, err)

	err = repo.HasInstalled("ffi", DependencyModeMain, FfiRequirement)
	assert.ErrorContains(t, err, "pubspec.lock")
}

func TestRequirementBounds(t *testing.T) {
	check := func(req string) func(v string) bool {
		c := mustConstraint(req)
		return func(v string) bool {
			return c.Check(semver.MustParse(v))
		}
	}

	ffi := check(">=2.0.1, <3.0.0")
	assert.True(t, ffi("2.0.1"))
	assert.True(t, ffi("2.9.9"))
	assert.False(t, ffi("2.0.0"))
	assert.False(t, ffi("3.0.0"))

	ffigen := check(">=6.0.1, <8.0.0")
	assert.True(t, ffigen("6.0.1"))
	assert.True(t, ffigen("7.9.9"))
	assert.False(t, ffigen("6.0.0"))
	assert.False(t, ffigen("8.0.0"))
}

func TestBaseVersion(t *testing.T) {
	assert.Equal(t, "2.0.1", baseVersion("^2.0.1"))
	assert.Equal(t, "2.0.1", baseVersion(">=2.0.1 <3.0.0"))
	assert.Equal(t, "2.0.1", baseVersion(">=2.0.1, <3.0.0"))
	assert.Equal(t, "2.0.1", baseVersion("2.0.1"))
}
