package compiler

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// skippedDirs are never searched for component sources.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"testdata":     true,
}

// discoverComponents finds all files with the given extension under rootDir,
// in lexical order. Hidden directories are skipped.
func discoverComponents(rootDir, ext string) ([]string, error) {
	var sources []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != rootDir && (strings.HasPrefix(name, ".") || skippedDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ext) {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}
