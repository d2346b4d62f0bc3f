package generator

import "github.com/toyz/proxygen/internal/models"

// CodeGenerator renders proxy source for the annotated interfaces of a package
type CodeGenerator interface {
	GenerateProxies(metadata *models.PackageMetadata) (*models.GeneratedFile, error)
	GeneratePlugin(metadata *models.PackageMetadata, outputDir string) (*models.GeneratedFile, error)
}
