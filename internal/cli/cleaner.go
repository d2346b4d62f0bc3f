package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/proxygen/internal/models"
	"github.com/toyz/proxygen/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{fileProcessor: utils.NewFileProcessor()}
}

// CleanGeneratedFiles removes generated proxy files from the given directories and
// returns the removed paths. "/..." patterns are cleaned recursively.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	var removed []string

	for _, dir := range directories {
		baseDir, recursive := splitPattern(dir)
		if recursive {
			files, err := c.fileProcessor.CleanDirectories([]string{baseDir})
			removed = append(removed, files...)
			if err != nil {
				return removed, fmt.Errorf("failed to clean directory %s: %w", dir, err)
			}
			continue
		}

		file, err := c.cleanSingleDirectory(baseDir)
		if err != nil {
			return removed, fmt.Errorf("failed to clean directory %s: %w", dir, err)
		}
		if file != "" {
			removed = append(removed, file)
		}
	}

	return removed, nil
}

// CleanPluginDir removes a plugin output directory
func (c *Cleaner) CleanPluginDir(dir string) (bool, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("failed to remove plugin directory %s: %w", dir, err)
	}
	return true, nil
}

func (c *Cleaner) cleanSingleDirectory(dir string) (string, error) {
	autogenFile := filepath.Join(dir, models.GeneratedFileName)

	generated, err := utils.IsGeneratedFile(autogenFile)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to check file %s: %w", autogenFile, err)
	}
	if !generated {
		return "", nil
	}

	if err := os.Remove(autogenFile); err != nil {
		return "", fmt.Errorf("failed to remove file %s: %w", autogenFile, err)
	}
	return autogenFile, nil
}
