package parser

import "github.com/toyz/proxygen/internal/models"

// InterfaceParser extracts annotated interfaces from Go source
type InterfaceParser interface {
	ParseDirectory(path string) (*models.PackageMetadata, error)
	ParseSource(filename, source string) (*models.PackageMetadata, error)
}
