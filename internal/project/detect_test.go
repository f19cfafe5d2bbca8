package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/codeprompt/internal/project"
	"github.com/temirov/codeprompt/internal/types"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		files       map[string]string
		expected    types.ProjectMetadata
		expectError bool
	}{
		{
			name:     "go module",
			files:    map[string]string{"go.mod": "module example.com/demo\n\ngo 1.22\n"},
			expected: types.ProjectMetadata{Kind: "go", Name: "example.com/demo", GoVersion: "1.22", ModuleFile: "go.mod"},
		},
		{
			name:     "node package",
			files:    map[string]string{"package.json": `{"name": "demo-web", "version": "1.0.0"}`},
			expected: types.ProjectMetadata{Kind: "node", Name: "demo-web", ModuleFile: "package.json"},
		},
		{
			name: "go module wins over package json",
			files: map[string]string{
				"go.mod":       "module example.com/both\n",
				"package.json": `{"name": "ignored"}`,
			},
			expected: types.ProjectMetadata{Kind: "go", Name: "example.com/both", ModuleFile: "go.mod"},
		},
		{
			name:     "no manifest",
			files:    map[string]string{"main.py": "print('hi')\n"},
			expected: types.ProjectMetadata{},
		},
		{
			name:        "malformed package json",
			files:       map[string]string{"package.json": "{"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			rootDirectory := t.TempDir()
			for name, content := range testCase.files {
				writeFile(t, filepath.Join(rootDirectory, name), content)
			}
			metadata, err := project.Detect(rootDirectory)
			if testCase.expectError {
				if err == nil {
					t.Fatalf("expected error, got metadata %+v", metadata)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect error: %v", err)
			}
			if metadata != testCase.expected {
				t.Fatalf("unexpected metadata: got %+v want %+v", metadata, testCase.expected)
			}
		})
	}
}

func TestDetectRejectsFiles(t *testing.T) {
	t.Parallel()

	filePath := filepath.Join(t.TempDir(), "main.go")
	writeFile(t, filePath, "package main\n")
	if _, err := project.Detect(filePath); err == nil {
		t.Fatalf("expected error for file root")
	}
}
