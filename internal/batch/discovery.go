// Package batch discovers input files and runs work on them in parallel.
package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/qrnode/internal/imageio"
)

// Options controls input discovery.
type Options struct {
	Recursive bool
	Include   []string
	Exclude   []string
}

// Discover expands args into input files. Files named explicitly are kept
// whatever their extension; files found in directories must be images or PDFs.
// Patterns match the base name. Duplicates are dropped, order is preserved.
func Discover(args []string, opts Options) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			if shouldInclude(arg, opts) {
				add(arg)
			}
			continue
		}

		found, err := discoverInDirectory(arg, opts)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	return files, nil
}

func discoverInDirectory(dir string, opts Options) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !opts.Recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if (imageio.IsSupportedImage(path) || imageio.IsPDF(path)) && shouldInclude(path, opts) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// shouldInclude applies exclude patterns first; an empty include list admits everything.
func shouldInclude(path string, opts Options) bool {
	if matchesAnyPattern(path, opts.Exclude) {
		return false
	}
	if len(opts.Include) == 0 {
		return true
	}
	return matchesAnyPattern(path, opts.Include)
}

func matchesAnyPattern(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
