package parser

import "github.com/toyz/proxygen/internal/models"

// GeneratedFileName is the file proxygen writes next to annotated interfaces
const GeneratedFileName = models.GeneratedFileName
