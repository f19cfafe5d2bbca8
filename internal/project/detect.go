// Package project detects metadata about the codebase a prompt is built from.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/temirov/codeprompt/internal/types"
)

const (
	goModuleFileName   = "go.mod"
	packageManifest    = "package.json"
	kindGoModule       = "go"
	kindNodePackage    = "node"
	errorReadFormat    = "read %s: %w"
	errorParseFormat   = "parse %s: %w"
	errorNotADirectory = "project root %s is not a directory"
)

type packageManifestFields struct {
	Name string `json:"name"`
}

// Detect inspects rootDirectory for a go.mod or package.json and reports what it finds.
// A directory without either manifest yields empty metadata and no error.
func Detect(rootDirectory string) (types.ProjectMetadata, error) {
	info, statError := os.Stat(rootDirectory)
	if statError != nil {
		return types.ProjectMetadata{}, statError
	}
	if !info.IsDir() {
		return types.ProjectMetadata{}, fmt.Errorf(errorNotADirectory, rootDirectory)
	}

	goModulePath := filepath.Join(rootDirectory, goModuleFileName)
	metadata, goModuleError := detectGoModule(goModulePath)
	if goModuleError == nil {
		return metadata, nil
	}
	if !errors.Is(goModuleError, fs.ErrNotExist) {
		return types.ProjectMetadata{}, goModuleError
	}

	manifestPath := filepath.Join(rootDirectory, packageManifest)
	metadata, manifestError := detectNodePackage(manifestPath)
	if manifestError == nil {
		return metadata, nil
	}
	if !errors.Is(manifestError, fs.ErrNotExist) {
		return types.ProjectMetadata{}, manifestError
	}
	return types.ProjectMetadata{}, nil
}

func detectGoModule(goModulePath string) (types.ProjectMetadata, error) {
	// #nosec G304
	contents, readError := os.ReadFile(goModulePath)
	if readError != nil {
		return types.ProjectMetadata{}, fmt.Errorf(errorReadFormat, goModulePath, readError)
	}
	parsedFile, parseError := modfile.ParseLax(goModulePath, contents, nil)
	if parseError != nil {
		return types.ProjectMetadata{}, fmt.Errorf(errorParseFormat, goModulePath, parseError)
	}
	metadata := types.ProjectMetadata{Kind: kindGoModule, ModuleFile: goModuleFileName}
	if parsedFile.Module != nil {
		metadata.Name = parsedFile.Module.Mod.Path
	}
	if parsedFile.Go != nil {
		metadata.GoVersion = parsedFile.Go.Version
	}
	return metadata, nil
}

func detectNodePackage(manifestPath string) (types.ProjectMetadata, error) {
	// #nosec G304
	contents, readError := os.ReadFile(manifestPath)
	if readError != nil {
		return types.ProjectMetadata{}, fmt.Errorf(errorReadFormat, manifestPath, readError)
	}
	var manifest packageManifestFields
	if decodeError := json.Unmarshal(contents, &manifest); decodeError != nil {
		return types.ProjectMetadata{}, fmt.Errorf(errorParseFormat, manifestPath, decodeError)
	}
	return types.ProjectMetadata{Kind: kindNodePackage, Name: manifest.Name, ModuleFile: packageManifest}, nil
}
