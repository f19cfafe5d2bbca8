package utils_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/temirov/codeprompt/internal/utils"
)

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicates while keeping order.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{testName: "removes duplicates", patterns: []string{"a", "b", "a"}, expected: []string{"a", "b"}},
		{testName: "keeps unique", patterns: []string{"a", "b"}, expected: []string{"a", "b"}},
		{testName: "empty", patterns: nil, expected: []string{}},
	}
	for _, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if !reflect.DeepEqual(actual, testCase.expected) {
			testingInstance.Errorf("%s: expected %v, got %v", testCase.testName, testCase.expected, actual)
		}
	}
}

// TestRelativePathOrSelf verifies slash-separated relative paths.
func TestRelativePathOrSelf(testingInstance *testing.T) {
	rootDirectory := testingInstance.TempDir()
	nestedPath := filepath.Join(rootDirectory, "a", "b.go")
	if relative := utils.RelativePathOrSelf(nestedPath, rootDirectory); relative != "a/b.go" {
		testingInstance.Fatalf("expected a/b.go, got %s", relative)
	}
	if relative := utils.RelativePathOrSelf(rootDirectory, rootDirectory); relative != "." {
		testingInstance.Fatalf("expected ., got %s", relative)
	}
}

func TestIsBinary(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{name: "empty", data: nil, expected: false},
		{name: "text", data: []byte("package main\n"), expected: false},
		{name: "utf8", data: []byte("héllo wörld"), expected: false},
		{name: "nul byte", data: []byte{'a', 0x00, 'b'}, expected: true},
		{name: "invalid utf8", data: []byte{0xff, 0xfe, 0xfd}, expected: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := utils.IsBinary(testCase.data); actual != testCase.expected {
				t.Fatalf("expected %v, got %v", testCase.expected, actual)
			}
		})
	}
}

func TestIsFileBinary(t *testing.T) {
	tempDirectory := t.TempDir()
	textPath := filepath.Join(tempDirectory, "sample.txt")
	binaryPath := filepath.Join(tempDirectory, "sample.bin")
	if err := os.WriteFile(textPath, []byte("plain text"), 0o600); err != nil {
		t.Fatalf("write text file: %v", err)
	}
	if err := os.WriteFile(binaryPath, []byte{0x00, 0x01}, 0o600); err != nil {
		t.Fatalf("write binary file: %v", err)
	}
	if utils.IsFileBinary(textPath) {
		t.Fatalf("expected text file to be reported as text")
	}
	if !utils.IsFileBinary(binaryPath) {
		t.Fatalf("expected binary file to be reported as binary")
	}
	if utils.IsFileBinary(filepath.Join(tempDirectory, "missing")) {
		t.Fatalf("expected missing file to be reported as text")
	}
}

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0b"},
		{name: "zero", bytes: 0, expected: "0b"},
		{name: "bytes", bytes: 512, expected: "512b"},
		{name: "one kilobyte", bytes: 1024, expected: "1kb"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5kb"},
		{name: "ten megabytes", bytes: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := utils.FormatFileSize(testCase.bytes); result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	if formatted := utils.FormatTimestamp(time.Time{}); formatted != "" {
		t.Fatalf("expected empty timestamp, got %q", formatted)
	}
	value := time.Date(2024, time.January, 2, 15, 4, 0, 0, time.Local)
	if formatted := utils.FormatTimestamp(value); formatted != "2024-01-02 15:04" {
		t.Fatalf("unexpected timestamp %q", formatted)
	}
}

func TestFenceLanguage(t *testing.T) {
	testCases := map[string]string{
		"src/index.ts":      "typescript",
		"main.go":           "go",
		"docker/Dockerfile": "dockerfile",
		"README.MD":         "markdown",
		"notes.unknown":     "",
	}
	for inputPath, expected := range testCases {
		if actual := utils.FenceLanguage(inputPath); actual != expected {
			t.Fatalf("FenceLanguage(%q) = %q, want %q", inputPath, actual, expected)
		}
	}
}

func TestGetApplicationVersionPrefersLinkedVersion(t *testing.T) {
	previous := utils.Version
	t.Cleanup(func() { utils.Version = previous })
	utils.Version = "v9.9.9"
	if version := utils.GetApplicationVersion(); version != "v9.9.9" {
		t.Fatalf("expected linked version, got %s", version)
	}
}
