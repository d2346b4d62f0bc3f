package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/proxygen/internal/models"
)

// FileProcessor finds package directories and removes generated files
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{fileReader: NewFileReader()}
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{fileReader: reader}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(name string) bool

// DirectoryFilter defines a function that determines whether a directory should be descended into
type DirectoryFilter func(name string) bool

// DefaultGoFileFilter accepts .go sources, excluding tests and the generated file
func DefaultGoFileFilter() FileFilter {
	return func(name string) bool {
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			name != models.GeneratedFileName
	}
}

// DefaultDirectoryFilter skips directories the go tool ignores, plus vendor
func DefaultDirectoryFilter() DirectoryFilter {
	return func(name string) bool {
		if name == "." || name == ".." {
			return true
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return false
		}
		return name != "testdata" && name != "vendor"
	}
}

// ScanDirectoriesWithGoFiles returns every directory under rootDirs holding Go sources,
// sorted and without duplicates
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	sort.Strings(packageDirs)
	return packageDirs, nil
}

func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("path resolution %s: %w", dir, err)
	}
	if resolved, err := filepath.EvalSymlinks(absDir); err == nil {
		absDir = resolved
	}
	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("directory read %s: %w", dir, err)
	}

	var packageDirs []string
	if hasGoFiles(entries) {
		packageDirs = append(packageDirs, dir)
	}

	directoryFilter := DefaultDirectoryFilter()
	for _, entry := range entries {
		if !entry.IsDir() || !directoryFilter(entry.Name()) {
			continue
		}
		subDirs, err := fp.scanDirectoryRecursive(filepath.Join(dir, entry.Name()), visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// HasGoFiles checks if a directory contains any non-test, non-generated .go file
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return hasGoFiles(entries), nil
}

func hasGoFiles(entries []os.DirEntry) bool {
	fileFilter := DefaultGoFileFilter()
	for _, entry := range entries {
		if !entry.IsDir() && fileFilter(entry.Name()) {
			return true
		}
	}
	return false
}

// CleanDirectories removes generated proxy files below baseDirs. A file named like
// the generated file is left alone unless it starts with the generated header.
func (fp *FileProcessor) CleanDirectories(baseDirs []string) ([]string, error) {
	var removedFiles []string
	directoryFilter := DefaultDirectoryFilter()

	for _, baseDir := range baseDirs {
		if baseDir == "" {
			baseDir = "."
		}
		err := filepath.WalkDir(baseDir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != baseDir && !directoryFilter(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Name() != models.GeneratedFileName {
				return nil
			}

			generated, err := IsGeneratedFile(path)
			if err != nil || !generated {
				return err
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("file removal %s: %w", path, err)
			}
			fp.fileReader.InvalidateFile(path)
			removedFiles = append(removedFiles, path)
			return nil
		})
		if err != nil {
			return removedFiles, fmt.Errorf("directory clean %s: %w", baseDir, err)
		}
	}

	return removedFiles, nil
}

// IsGeneratedFile reports whether the first line of path is the proxygen header
func IsGeneratedFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	return strings.TrimSpace(scanner.Text()) == models.GeneratedHeader, nil
}

// GetFileReader returns the underlying FileReader
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}
