package config

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/temirov/codeprompt/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadIgnoreFilePatternsSections verifies section handling and comment skipping.
func TestLoadIgnoreFilePatternsSections(testingHandle *testing.T) {
	ignoreFilePath := filepath.Join(testingHandle.TempDir(), utils.IgnoreFileName)
	writeTestFile(testingHandle, ignoreFilePath, "# comment\n*.md\n\n[include]\n**/*.png\n[IGNORE]\nfixtures/\n")

	ignorePatterns, includePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreFilePatterns failed: %v", loadError)
	}
	if !reflect.DeepEqual(ignorePatterns, []string{"*.md", "fixtures/"}) {
		testingHandle.Fatalf("unexpected ignore patterns: %v", ignorePatterns)
	}
	if !reflect.DeepEqual(includePatterns, []string{"**/*.png"}) {
		testingHandle.Fatalf("unexpected include patterns: %v", includePatterns)
	}
}

// TestLoadIgnoreFilePatternsMissing verifies that a missing file is not an error.
func TestLoadIgnoreFilePatternsMissing(testingHandle *testing.T) {
	ignorePatterns, includePatterns, loadError := LoadIgnoreFilePatterns(filepath.Join(testingHandle.TempDir(), "absent"))
	if loadError != nil || ignorePatterns != nil || includePatterns != nil {
		testingHandle.Fatalf("expected empty result, got %v %v %v", ignorePatterns, includePatterns, loadError)
	}
}

// TestLoadRecursiveIgnorePatternsNested verifies that nested ignore rules are anchored to their directory.
func TestLoadRecursiveIgnorePatternsNested(testingHandle *testing.T) {
	const (
		rootPatternName   = "root.txt"
		nestedPatternName = "nested.txt"
		nestedGitPattern  = "nested.md"
		nestedDirName     = "nested"
		nestedInclude     = "**/*.svg"
	)

	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.IgnoreFileName), rootPatternName+"\n")

	nestedDirectoryPath := filepath.Join(rootDirectory, nestedDirName)
	if makeDirError := os.MkdirAll(nestedDirectoryPath, 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create nested directory: %v", makeDirError)
	}
	writeTestFile(testingHandle, filepath.Join(nestedDirectoryPath, utils.IgnoreFileName), nestedPatternName+"\n[include]\n"+nestedInclude+"\n")
	writeTestFile(testingHandle, filepath.Join(nestedDirectoryPath, utils.GitIgnoreFileName), nestedGitPattern+"\n")

	patterns, loadError := LoadRecursiveIgnorePatterns(rootDirectory, true, true, false)
	if loadError != nil {
		testingHandle.Fatalf("LoadRecursiveIgnorePatterns failed: %v", loadError)
	}

	ignorePatterns := append([]string{}, patterns.Ignore...)
	sort.Strings(ignorePatterns)
	expectedPatterns := []string{
		"**/" + rootPatternName,
		"**/" + rootPatternName + "/**",
		nestedDirName + "/**/" + nestedPatternName,
		nestedDirName + "/**/" + nestedPatternName + "/**",
		nestedDirName + "/**/" + nestedGitPattern,
		nestedDirName + "/**/" + nestedGitPattern + "/**",
		"**/" + utils.IgnoreFileName,
		"**/" + utils.IgnoreFileName + "/**",
		"**/" + gitDirectoryPattern + "**",
	}
	sort.Strings(expectedPatterns)
	if !reflect.DeepEqual(ignorePatterns, expectedPatterns) {
		testingHandle.Fatalf("unexpected patterns: got %v want %v", ignorePatterns, expectedPatterns)
	}
	expectedInclude := []string{nestedDirName + "/" + nestedInclude, nestedDirName + "/" + nestedInclude + "/**"}
	if !reflect.DeepEqual([]string(patterns.Include), expectedInclude) {
		testingHandle.Fatalf("unexpected include patterns: %v", patterns.Include)
	}
}

// TestLoadRecursiveIgnorePatternsDisabled verifies that disabled sources contribute nothing.
func TestLoadRecursiveIgnorePatternsDisabled(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.IgnoreFileName), "a.txt\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "b.txt\n")

	patterns, loadError := LoadRecursiveIgnorePatterns(rootDirectory, false, false, true)
	if loadError != nil {
		testingHandle.Fatalf("LoadRecursiveIgnorePatterns failed: %v", loadError)
	}
	if len(patterns.Ignore) != 0 || len(patterns.Include) != 0 {
		testingHandle.Fatalf("expected no patterns, got %+v", patterns)
	}
}
