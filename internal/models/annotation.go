package models

import "github.com/toyz/proxygen/internal/annotations"

// Annotation is a parsed annotation together with where it was found
type Annotation struct {
	*annotations.ParsedAnnotation
	FileName string
	Line     int
}
