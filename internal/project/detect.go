package project

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// markerFile associates a filesystem entry with its marker type.
type markerFile struct {
	name   string
	marker MarkerType
	isDir  bool
}

// markerFiles lists the entries checked in each directory, highest
// priority first. Within a directory the first match wins.
var markerFiles = []markerFile{
	{".planwing", MarkerPlanWing, true},
	{"go.mod", MarkerGoMod, false},
	{"package.json", MarkerPackageJSON, false},
	{"Cargo.toml", MarkerCargoToml, false},
	{"pom.xml", MarkerPomXML, false},
	{"pyproject.toml", MarkerPyProjectToml, false},
	{".git", MarkerGit, true},
}

// Detect walks up from startPath looking for project markers.
//
// The highest-priority marker seen wins; on a priority tie the marker
// nearest to startPath wins. A .planwing directory ends the walk
// immediately since nothing can outrank it. The walk also records the
// nearest .git directory so monorepo layouts report both the project
// root and the repository root.
//
// When no marker is found the start path itself becomes the root with
// MarkerNone; that is not an error.
func (d *detector) Detect(startPath string) (*Context, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", startPath, err)
	}

	var (
		bestPath   string
		bestMarker = MarkerNone
		gitRoot    string
	)

	for dir := absPath; ; {
		marker := d.markerAt(dir)

		if gitRoot == "" {
			if ok, _ := afero.DirExists(d.fs, filepath.Join(dir, ".git")); ok {
				gitRoot = dir
			}
		}

		if marker == MarkerPlanWing {
			bestPath, bestMarker = dir, marker
			break
		}
		if marker.Priority() > bestMarker.Priority() {
			bestPath, bestMarker = dir, marker
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if bestMarker == MarkerNone {
		bestPath = absPath
	}

	return &Context{
		RootPath:   bestPath,
		MarkerType: bestMarker,
		GitRoot:    gitRoot,
		IsMonorepo: gitRoot != "" && gitRoot != bestPath,
	}, nil
}

// markerAt returns the highest-priority marker present in dir, or
// MarkerNone. Directory markers (.planwing, .git) must be directories;
// manifest markers must be regular files.
func (d *detector) markerAt(dir string) MarkerType {
	for _, mf := range markerFiles {
		path := filepath.Join(dir, mf.name)
		if mf.isDir {
			if ok, _ := afero.DirExists(d.fs, path); ok {
				return mf.marker
			}
			continue
		}
		info, err := d.fs.Stat(path)
		if err == nil && !info.IsDir() {
			return mf.marker
		}
	}
	return MarkerNone
}
