package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/proxygen/internal/errors"
	"github.com/toyz/proxygen/internal/utils"
)

// DirectoryScanner resolves directory arguments into package directories
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// ScanDirectories returns the package directories named by rootDirs. Go-style patterns
// like "./..." are scanned recursively; plain directories are taken as they are.
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	var recursive []string
	seen := make(map[string]bool)
	var packageDirs []string

	for _, rootDir := range rootDirs {
		baseDir, isPattern := splitPattern(rootDir)

		cleanPath, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, errors.WrapFileSystemError("resolve", baseDir, err)
		}

		if isPattern {
			recursive = append(recursive, cleanPath)
			continue
		}

		ok, err := s.fileProcessor.HasGoFiles(cleanPath)
		if err != nil {
			return nil, errors.WrapFileSystemError("read", cleanPath, err)
		}
		if ok && !seen[cleanPath] {
			seen[cleanPath] = true
			packageDirs = append(packageDirs, cleanPath)
		}
	}

	if len(recursive) > 0 {
		found, err := s.fileProcessor.ScanDirectoriesWithGoFiles(recursive)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directories: %w", err)
		}
		for _, dir := range found {
			if !seen[dir] {
				seen[dir] = true
				packageDirs = append(packageDirs, dir)
			}
		}
	}

	sort.Strings(packageDirs)
	return packageDirs, nil
}

// splitPattern strips a trailing "/..." and reports whether it was present
func splitPattern(dir string) (string, bool) {
	if dir == "..." {
		return ".", true
	}
	if base, ok := strings.CutSuffix(dir, "/..."); ok {
		if base == "" {
			base = "."
		}
		return base, true
	}
	return dir, false
}
