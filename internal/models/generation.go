package models

// GeneratedFile is rendered proxy source waiting to be written
type GeneratedFile struct {
	PackageName string      // package clause of the file
	FilePath    string      // where the file is written
	Content     string      // formatted Go source
	Proxies     []ProxySpec // proxies contained in the file
}

// PluginBuild describes a plugin compiled from a generated file
type PluginBuild struct {
	SourcePath string   // generated package main
	OutputPath string   // .so produced by go build -buildmode=plugin
	Symbols    []string // exported constructor symbols
}

const (
	// GeneratedFileName is the file proxygen writes next to annotated interfaces
	GeneratedFileName = "autogen_proxy.go"

	// GeneratedHeader is the first line of every file proxygen writes
	GeneratedHeader = "// Code generated by proxygen. DO NOT EDIT."
)
