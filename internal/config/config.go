// Package config loads application configuration and repository ignore files.
package config

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/codeprompt/internal/pathfilter"
	"github.com/temirov/codeprompt/internal/utils"
)

const (
	// gitDirectoryPattern represents the pattern that matches the Git directory.
	gitDirectoryPattern = utils.GitDirectoryName + "/"
	// includeSectionHeader identifies the section listing extra include globs.
	includeSectionHeader = "[include]"
	// ignoreSectionHeader identifies the section listing ignore patterns.
	ignoreSectionHeader = "[ignore]"
	commentPrefix       = "#"
)

// RepositoryPatterns holds the rules collected from ignore files under a root directory,
// already translated into path filter globs. Ignore feeds pathfilter.Options.RepositoryIgnore
// and Include extends the custom include list.
type RepositoryPatterns struct {
	Ignore  pathfilter.PatternList
	Include pathfilter.PatternList
}

// LoadIgnoreFilePatterns reads an ignore file and returns its ignore and include patterns.
// A missing file yields no patterns and no error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, []string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil, nil
		}
		return nil, nil, openFileError
	}
	defer fileHandle.Close()

	var ignorePatterns []string
	var includePatterns []string
	currentSectionHeader := ignoreSectionHeader
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		switch {
		case strings.EqualFold(trimmedLine, includeSectionHeader):
			currentSectionHeader = includeSectionHeader
		case strings.EqualFold(trimmedLine, ignoreSectionHeader):
			currentSectionHeader = ignoreSectionHeader
		case currentSectionHeader == includeSectionHeader:
			includePatterns = append(includePatterns, trimmedLine)
		default:
			ignorePatterns = append(ignorePatterns, trimmedLine)
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, nil, scanError
	}
	return ignorePatterns, includePatterns, nil
}

// LoadRecursiveIgnorePatterns walks rootDirectoryPath and aggregates patterns from every
// utils.IgnoreFileName and utils.GitIgnoreFileName it finds. Patterns from a nested directory
// are anchored to that directory by pathfilter.TranslateIgnoreRule. Only utils.IgnoreFileName
// contributes include patterns, and the ignore files themselves are ignored when they are in
// use. The Git directory is skipped and ignored unless includeGit is true.
func LoadRecursiveIgnorePatterns(rootDirectoryPath string, useGitignore bool, useIgnoreFile bool, includeGit bool) (RepositoryPatterns, error) {
	var aggregated RepositoryPatterns

	walkFunction := func(currentDirectoryPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if !includeGit && directoryEntry.Name() == utils.GitDirectoryName {
			return filepath.SkipDir
		}

		relativeDirectory := utils.RelativePathOrSelf(currentDirectoryPath, rootDirectoryPath)

		if useIgnoreFile {
			ignoreFilePath := filepath.Join(currentDirectoryPath, utils.IgnoreFileName)
			ignorePatterns, includePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
			if loadError != nil {
				return fmt.Errorf("loading %s from %s: %w", utils.IgnoreFileName, currentDirectoryPath, loadError)
			}
			aggregated.Ignore = aggregated.Ignore.Merge(pathfilter.TranslateIgnoreRules(relativeDirectory, ignorePatterns))
			aggregated.Include = aggregated.Include.Merge(pathfilter.TranslateIgnoreRules(relativeDirectory, includePatterns))
		}

		if useGitignore {
			gitIgnoreFilePath := filepath.Join(currentDirectoryPath, utils.GitIgnoreFileName)
			gitIgnorePatterns, _, loadError := LoadIgnoreFilePatterns(gitIgnoreFilePath)
			if loadError != nil {
				return fmt.Errorf("loading %s from %s: %w", utils.GitIgnoreFileName, currentDirectoryPath, loadError)
			}
			aggregated.Ignore = aggregated.Ignore.Merge(pathfilter.TranslateIgnoreRules(relativeDirectory, gitIgnorePatterns))
		}

		return nil
	}

	if walkError := filepath.WalkDir(rootDirectoryPath, walkFunction); walkError != nil {
		return RepositoryPatterns{}, walkError
	}

	if useIgnoreFile {
		aggregated.Ignore = aggregated.Ignore.Merge(pathfilter.TranslateIgnoreRule("", utils.IgnoreFileName))
	}
	if !includeGit {
		aggregated.Ignore = aggregated.Ignore.Merge(pathfilter.TranslateIgnoreRule("", gitDirectoryPattern))
	}
	return aggregated, nil
}
