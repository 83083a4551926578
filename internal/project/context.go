// Package project provides detection and context for project boundaries.
//
// Detection resolves the logical root of a project so PlanWing can place its
// data directory without manual flags, including inside monorepo setups.
//
// Detection strategy (hierarchical precedence):
//  1. Explicit context (.planwing/): highest priority.
//  2. Language manifests: go.mod, package.json, Cargo.toml, etc.
//  3. VCS root (.git/): medium priority fallback.
//  4. CWD: lowest priority, used if unanchored.
package project

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// MarkerType represents the type of project marker that was detected.
type MarkerType int

const (
	// MarkerNone indicates no project marker was found.
	MarkerNone MarkerType = iota

	// MarkerPlanWing indicates a .planwing directory was found (highest priority).
	MarkerPlanWing

	// MarkerGoMod indicates a go.mod file was found.
	MarkerGoMod

	// MarkerPackageJSON indicates a package.json file was found.
	MarkerPackageJSON

	// MarkerCargoToml indicates a Cargo.toml file was found.
	MarkerCargoToml

	// MarkerPomXML indicates a pom.xml file was found.
	MarkerPomXML

	// MarkerPyProjectToml indicates a pyproject.toml file was found.
	MarkerPyProjectToml

	// MarkerGit indicates a .git directory was found.
	MarkerGit
)

// String returns a human-readable name for the marker type.
func (m MarkerType) String() string {
	switch m {
	case MarkerNone:
		return "none"
	case MarkerPlanWing:
		return ".planwing"
	case MarkerGoMod:
		return "go.mod"
	case MarkerPackageJSON:
		return "package.json"
	case MarkerCargoToml:
		return "Cargo.toml"
	case MarkerPomXML:
		return "pom.xml"
	case MarkerPyProjectToml:
		return "pyproject.toml"
	case MarkerGit:
		return ".git"
	default:
		return "unknown"
	}
}

// Priority returns the detection priority for this marker type.
// Higher values indicate higher priority.
func (m MarkerType) Priority() int {
	switch m {
	case MarkerPlanWing:
		return 100
	case MarkerGoMod, MarkerPackageJSON, MarkerCargoToml, MarkerPomXML, MarkerPyProjectToml:
		return 50
	case MarkerGit:
		return 10
	default:
		return 0
	}
}

// IsLanguageManifest returns true if this marker represents a language-specific manifest file.
func (m MarkerType) IsLanguageManifest() bool {
	switch m {
	case MarkerGoMod, MarkerPackageJSON, MarkerCargoToml, MarkerPomXML, MarkerPyProjectToml:
		return true
	default:
		return false
	}
}

// Context contains information about the detected project boundary.
type Context struct {
	// RootPath is the absolute path to the detected project root.
	RootPath string

	// MarkerType indicates which marker was used to identify the project root.
	MarkerType MarkerType

	// GitRoot is the absolute path to the nearest .git directory (may differ
	// from RootPath in monorepos). Empty string if no git repository was found.
	GitRoot string

	// IsMonorepo is true when GitRoot differs from RootPath.
	IsMonorepo bool
}

// RelativeGitPath returns the relative path from GitRoot to RootPath, for
// scoping VCS operations to the project subdirectory. Returns "." if GitRoot
// equals RootPath or if either is empty.
func (c *Context) RelativeGitPath() string {
	if c.GitRoot == "" || c.RootPath == "" || c.GitRoot == c.RootPath {
		return "."
	}
	rel, err := filepath.Rel(c.GitRoot, c.RootPath)
	if err != nil {
		return "."
	}
	return rel
}

// HasPlanWingDir returns true if the project already has a .planwing directory.
func (c *Context) HasPlanWingDir() bool {
	return c.MarkerType == MarkerPlanWing
}

// Detector defines the interface for project detection.
type Detector interface {
	// Detect finds the project root starting from the given path.
	// It walks up the directory tree looking for project markers.
	Detect(startPath string) (*Context, error)
}

// detector implements Detector using an afero filesystem.
type detector struct {
	fs afero.Fs
}

// NewDetector creates a new Detector using the provided filesystem.
// Use afero.NewOsFs() for real filesystem operations,
// or afero.NewMemMapFs() for testing.
func NewDetector(fs afero.Fs) Detector {
	return &detector{fs: fs}
}

// NewOsDetector creates a Detector using the real operating system filesystem.
func NewOsDetector() Detector {
	return NewDetector(afero.NewOsFs())
}

// Detect finds the project root from the given path on the real filesystem.
func Detect(startPath string) (*Context, error) {
	return NewOsDetector().Detect(startPath)
}
