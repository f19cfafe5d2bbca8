package pathfilter

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestIsPathIgnored(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		path         string
		customIgnore string
		expected     bool
	}{
		{name: "env file", path: "project/.env", expected: true},
		{name: "env variant", path: "project/.env.production", expected: true},
		{name: "ssh key", path: "project/id_rsa", expected: true},
		{name: "private key extension", path: "deploy/certs/server.key", expected: true},
		{name: "dependency directory", path: "web/node_modules/react/index.js", expected: true},
		{name: "git metadata", path: "project/.git/config", expected: true},
		{name: "source file", path: "project/src/index.ts", expected: false},
		{name: "readme", path: "project/README.md", expected: false},
		{name: "custom override", path: "project/notes.txt", customIgnore: "**/*.txt", expected: true},
		{name: "custom whitespace", path: "a/b.key", customIgnore: " **/*.key ", expected: true},
		{name: "custom second pattern", path: "logs/run.tmp", customIgnore: "**/*.log,**/*.tmp", expected: true},
		{name: "custom no match", path: "project/main.go", customIgnore: "**/*.log,**/*.tmp", expected: false},
		{name: "custom dot file", path: "project/.secrets", customIgnore: "**/*", expected: true},
		{name: "custom matches zero directories", path: ".prettierrc", customIgnore: "**/.prettierrc", expected: true},
		{name: "blank entries only", path: "project/notes.txt", customIgnore: " , ,", expected: false},
		{name: "malformed pattern alone", path: "project/notes.txt", customIgnore: "**/[abc", expected: false},
		{name: "malformed pattern beside valid one", path: "project/run.tmp", customIgnore: "**/[abc, **/*.tmp", expected: true},
		{name: "star stays within segment", path: "project/src/notes.txt", customIgnore: "project/*.txt", expected: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			if actual := IsPathIgnored(testCase.path, testCase.customIgnore); actual != testCase.expected {
				t.Fatalf("IsPathIgnored(%q, %q) = %v, want %v", testCase.path, testCase.customIgnore, actual, testCase.expected)
			}
		})
	}
}

func TestIsPathIncluded(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		path          string
		customInclude string
		expected      bool
	}{
		{name: "typescript", path: "project/src/index.ts", expected: true},
		{name: "go source at root", path: "main.go", expected: true},
		{name: "dockerfile", path: "services/api/Dockerfile", expected: true},
		{name: "package manifest", path: "project/package.json", expected: true},
		{name: "image", path: "project/image.png", expected: false},
		{name: "custom image", path: "project/image.png", customInclude: "**/*.png", expected: true},
		{name: "custom dot file", path: "project/.eslintrc", customInclude: "**/.eslintrc", expected: true},
		{name: "empty custom", path: "project/image.png", customInclude: "", expected: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			if actual := IsPathIncluded(testCase.path, testCase.customInclude); actual != testCase.expected {
				t.Fatalf("IsPathIncluded(%q, %q) = %v, want %v", testCase.path, testCase.customInclude, actual, testCase.expected)
			}
		})
	}
}

func TestDefaultExcludeIgnoresCustomPatterns(t *testing.T) {
	t.Parallel()

	paths := []string{"project/.env", "project/id_rsa", "a/node_modules/b.js", "x/.aws/credentials"}
	customPatterns := []string{"", "**/*.md", "**/[bad", "   "}
	for _, candidatePath := range paths {
		for _, customPattern := range customPatterns {
			if !IsPathIgnored(candidatePath, customPattern) {
				t.Fatalf("expected %q to be ignored with custom %q", candidatePath, customPattern)
			}
		}
	}
}

func TestEmptyCustomPatternIsNoOp(t *testing.T) {
	t.Parallel()

	paths := []string{"project/.env", "project/src/index.ts", "image.png", ".hidden", "deep/a/b/c.go"}
	for _, candidatePath := range paths {
		if IsPathIgnored(candidatePath, "") != IsPathIgnored(candidatePath, "  ") {
			t.Fatalf("blank custom ignore changed result for %q", candidatePath)
		}
		if IsPathIncluded(candidatePath, "") != IsPathIncluded(candidatePath, " , ") {
			t.Fatalf("blank custom include changed result for %q", candidatePath)
		}
	}
}

func TestFilterIsDirectoryIgnored(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name             string
		directory        string
		options          Options
		expected         bool
		descendantSelect bool
	}{
		{name: "default dependency directory", directory: "node_modules", expected: true},
		{name: "nested dependency directory", directory: "web/node_modules", expected: true},
		{name: "git metadata", directory: ".git", expected: true},
		{name: "trailing slash accepted", directory: "vendor/", expected: true},
		{name: "source directory", directory: "src", descendantSelect: true},
		{name: "single level custom glob", directory: "docs", options: Options{CustomIgnore: ParsePatternList("docs/*")}, descendantSelect: true},
		{name: "single level custom glob below", directory: "docs/guide", options: Options{CustomIgnore: ParsePatternList("docs/*")}, descendantSelect: true},
		{name: "subtree custom glob", directory: "docs", options: Options{CustomIgnore: ParsePatternList("docs/**")}, expected: true},
		{name: "everything", directory: "src", options: Options{CustomIgnore: ParsePatternList("**")}, expected: true},
		{name: "repository directory rule", directory: "a/b/generated", options: Options{RepositoryIgnore: TranslateIgnoreRule("", "generated/")}, expected: true},
		{name: "repository file rule", directory: "src", options: Options{RepositoryIgnore: TranslateIgnoreRule("", "*.log")}, descendantSelect: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			filter := New(testCase.options)
			if actual := filter.IsDirectoryIgnored(testCase.directory); actual != testCase.expected {
				t.Fatalf("IsDirectoryIgnored(%q) = %v, want %v", testCase.directory, actual, testCase.expected)
			}
			descendant := strings.TrimSuffix(testCase.directory, "/") + "/guide/intro.md"
			decision := filter.Classify(descendant)
			if testCase.expected && !decision.Ignored {
				t.Fatalf("pruned directory %q but Classify(%q) = %+v", testCase.directory, descendant, decision)
			}
			if decision.Selected() != testCase.descendantSelect {
				t.Fatalf("Classify(%q).Selected() = %v, want %v", descendant, decision.Selected(), testCase.descendantSelect)
			}
		})
	}
}

func TestParsePatternList(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected PatternList
	}{
		{name: "empty", input: "", expected: nil},
		{name: "whitespace", input: "   ", expected: nil},
		{name: "trimmed", input: " **/*.log ,  **/*.tmp", expected: PatternList{"**/*.log", "**/*.tmp"}},
		{name: "blank entries dropped", input: ",**/*.log,,", expected: PatternList{"**/*.log"}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			actual := ParsePatternList(testCase.input)
			if !reflect.DeepEqual(actual, testCase.expected) {
				t.Fatalf("ParsePatternList(%q) = %#v, want %#v", testCase.input, actual, testCase.expected)
			}
		})
	}
}

func TestPatternListMerge(t *testing.T) {
	t.Parallel()

	merged := NewPatternList("**/*.log", " **/*.tmp").Merge(PatternList{"**/*.tmp", "**/*.bak"})
	expected := PatternList{"**/*.log", "**/*.tmp", "**/*.bak"}
	if !reflect.DeepEqual(merged, expected) {
		t.Fatalf("unexpected merge result: %v", merged)
	}
	if merged.String() != "**/*.log,**/*.tmp,**/*.bak" {
		t.Fatalf("unexpected string form: %s", merged.String())
	}
}

func TestGlobstarVariants(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		pattern  string
		expected []string
	}{
		{pattern: "*.go", expected: []string{"*.go"}},
		{pattern: "**/.env", expected: []string{"**/.env", ".env"}},
		{pattern: "a/**/b/**/c", expected: []string{"a/**/b/**/c", "a/**/b/c", "a/b/**/c", "a/b/c"}},
		{pattern: "x**/y", expected: []string{"x**/y"}},
	}
	for _, testCase := range testCases {
		actual := globstarVariants(testCase.pattern, maxGlobstarExpansions)
		if !reflect.DeepEqual(actual, testCase.expected) {
			t.Fatalf("globstarVariants(%q) = %v, want %v", testCase.pattern, actual, testCase.expected)
		}
	}
}

func TestFilterClassify(t *testing.T) {
	t.Parallel()

	filter := New(Options{
		CustomIgnore:  ParsePatternList("**/*.txt, **/[broken"),
		CustomInclude: ParsePatternList("**/*.png, **/.env"),
	})

	testCases := []struct {
		path     string
		expected Decision
	}{
		{
			path:     "project/.env",
			expected: Decision{Path: "project/.env", Ignored: true, MatchedPattern: "**/.env", Source: SourceDefaultExclude},
		},
		{
			path:     "project/notes.txt",
			expected: Decision{Path: "project/notes.txt", Ignored: true, MatchedPattern: "**/*.txt", Source: SourceCustomExclude},
		},
		{
			path:     "project/src/index.ts",
			expected: Decision{Path: "project/src/index.ts", Included: true, MatchedPattern: "**/*.ts", Source: SourceDefaultInclude},
		},
		{
			path:     "project/logo.png",
			expected: Decision{Path: "project/logo.png", Included: true, MatchedPattern: "**/*.png", Source: SourceCustomInclude},
		},
		{
			path:     "project/archive.zip",
			expected: Decision{Path: "project/archive.zip", Source: SourceNone},
		},
	}
	for _, testCase := range testCases {
		actual := filter.Classify(testCase.path)
		if actual != testCase.expected {
			t.Fatalf("Classify(%q) = %+v, want %+v", testCase.path, actual, testCase.expected)
		}
		if actual.Selected() != (testCase.expected.Included && !testCase.expected.Ignored) {
			t.Fatalf("unexpected selection for %q", testCase.path)
		}
	}

	invalidPatterns := filter.InvalidPatterns()
	if len(invalidPatterns) != 1 {
		t.Fatalf("expected one invalid pattern, got %v", invalidPatterns)
	}
	var patternError *PatternError
	if !errors.As(invalidPatterns[0], &patternError) || patternError.Pattern != "**/[broken" {
		t.Fatalf("unexpected invalid pattern error: %v", invalidPatterns[0])
	}
}

func TestFilterMatchesPackageFunctions(t *testing.T) {
	t.Parallel()

	const customIgnore = "**/*.log,**/tmp/**"
	const customInclude = "**/*.svg"
	filter := New(Options{CustomIgnore: ParsePatternList(customIgnore), CustomInclude: ParsePatternList(customInclude)})
	paths := []string{"a/b.log", "a/tmp/c.go", "a/icon.svg", "a/main.go", "a/.env", "photo.jpg"}
	for _, candidatePath := range paths {
		if filter.IsIgnored(candidatePath) != IsPathIgnored(candidatePath, customIgnore) {
			t.Fatalf("ignore mismatch for %q", candidatePath)
		}
		if filter.IsIncluded(candidatePath) != IsPathIncluded(candidatePath, customInclude) {
			t.Fatalf("include mismatch for %q", candidatePath)
		}
	}
}

func TestFilterConcurrentUse(t *testing.T) {
	t.Parallel()

	filter := New(Options{CustomIgnore: ParsePatternList("**/*.tmp")})
	var waitGroup sync.WaitGroup
	failures := make(chan string, 64)
	for workerIndex := 0; workerIndex < 16; workerIndex++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for iteration := 0; iteration < 100; iteration++ {
				if !filter.IsIgnored("x/y.tmp") || filter.IsIgnored("x/y.go") {
					failures <- "inconsistent classification"
					return
				}
			}
		}()
	}
	waitGroup.Wait()
	close(failures)
	for failure := range failures {
		t.Fatal(failure)
	}
}

func TestDefaultPatternAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	excludePatterns := DefaultExcludePatterns()
	excludePatterns[0] = "mutated"
	if DefaultExcludePatterns()[0] == "mutated" {
		t.Fatalf("default exclude patterns were mutated through accessor")
	}
	includePatterns := DefaultIncludePatterns()
	includePatterns[0] = "mutated"
	if DefaultIncludePatterns()[0] == "mutated" {
		t.Fatalf("default include patterns were mutated through accessor")
	}
	if defaultExcludeSet.Len() != len(defaultExcludePatterns) || defaultIncludeSet.Len() != len(defaultIncludePatterns) {
		t.Fatalf("built-in patterns failed to compile")
	}
}
