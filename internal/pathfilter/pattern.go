package pathfilter

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

const (
	patternListSeparator = ","
	pathSeparator        = '/'
	globstarSegment      = "**/"
	// maxGlobstarExpansions bounds the zero-directory variants generated per pattern.
	maxGlobstarExpansions = 4
)

// ErrEmptyPattern reports an attempt to compile a blank pattern.
var ErrEmptyPattern = errors.New("empty pattern")

// PatternList is an ordered sequence of trimmed, non-empty glob patterns.
type PatternList []string

// ParsePatternList splits a comma-separated pattern string into trimmed patterns.
// Blank entries are dropped, so an empty or whitespace-only input yields an empty list.
func ParsePatternList(rawPatterns string) PatternList {
	if strings.TrimSpace(rawPatterns) == "" {
		return nil
	}
	var patterns PatternList
	for _, candidate := range strings.Split(rawPatterns, patternListSeparator) {
		trimmedPattern := strings.TrimSpace(candidate)
		if trimmedPattern == "" {
			continue
		}
		patterns = append(patterns, trimmedPattern)
	}
	return patterns
}

// NewPatternList builds a PatternList from individual patterns, trimming each and dropping
// blanks. Entries are not split on commas, so brace lists survive.
func NewPatternList(patterns ...string) PatternList {
	var list PatternList
	for _, pattern := range patterns {
		if trimmedPattern := strings.TrimSpace(pattern); trimmedPattern != "" {
			list = append(list, trimmedPattern)
		}
	}
	return list
}

// IsEmpty reports whether the list holds no patterns.
func (patterns PatternList) IsEmpty() bool {
	return len(patterns) == 0
}

// String renders the list in its comma-separated boundary form.
func (patterns PatternList) String() string {
	return strings.Join(patterns, patternListSeparator)
}

// Merge returns a new list holding the receiver followed by the unseen entries of other.
func (patterns PatternList) Merge(other PatternList) PatternList {
	seen := make(map[string]struct{}, len(patterns)+len(other))
	merged := make(PatternList, 0, len(patterns)+len(other))
	for _, pattern := range append(append(PatternList{}, patterns...), other...) {
		if _, exists := seen[pattern]; exists {
			continue
		}
		seen[pattern] = struct{}{}
		merged = append(merged, pattern)
	}
	return merged
}

// PatternError describes a pattern that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (patternError *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", patternError.Pattern, patternError.Err)
}

func (patternError *PatternError) Unwrap() error {
	return patternError.Err
}

// compiledPattern is a single source pattern and the matchers derived from it.
type compiledPattern struct {
	source   string
	matchers []glob.Glob
}

func (pattern compiledPattern) match(candidatePath string) bool {
	for _, matcher := range pattern.matchers {
		if matcher.Match(candidatePath) {
			return true
		}
	}
	return false
}

// compilePattern turns a glob string into matchers. "**/" segments are expanded so they
// also match zero directories; "*" and "?" never cross a path separator and dot-files are
// matched like any other name.
func compilePattern(source string) (compiledPattern, error) {
	if strings.TrimSpace(source) == "" {
		return compiledPattern{}, &PatternError{Pattern: source, Err: ErrEmptyPattern}
	}
	if _, validationError := path.Match(source, ""); validationError != nil {
		return compiledPattern{}, &PatternError{Pattern: source, Err: validationError}
	}
	variants := globstarVariants(source, maxGlobstarExpansions)
	matchers := make([]glob.Glob, 0, len(variants))
	for _, variant := range variants {
		matcher, compileError := glob.Compile(variant, pathSeparator)
		if compileError != nil {
			return compiledPattern{}, &PatternError{Pattern: source, Err: compileError}
		}
		matchers = append(matchers, matcher)
	}
	return compiledPattern{source: source, matchers: matchers}, nil
}

// globstarVariants returns the pattern plus every variant with one or more "**/" segments
// removed. Only the first expansionBudget globstar segments are expanded.
func globstarVariants(pattern string, expansionBudget int) []string {
	segmentIndex := globstarIndex(pattern)
	if segmentIndex < 0 || expansionBudget <= 0 {
		return []string{pattern}
	}
	head := pattern[:segmentIndex]
	tailVariants := globstarVariants(pattern[segmentIndex+len(globstarSegment):], expansionBudget-1)
	variants := make([]string, 0, 2*len(tailVariants))
	for _, tail := range tailVariants {
		variants = append(variants, head+globstarSegment+tail)
	}
	for _, tail := range tailVariants {
		variants = append(variants, head+tail)
	}
	return variants
}

// globstarIndex finds the first "**/" that starts a path segment.
func globstarIndex(pattern string) int {
	searchOffset := 0
	for searchOffset < len(pattern) {
		relativeIndex := strings.Index(pattern[searchOffset:], globstarSegment)
		if relativeIndex < 0 {
			return -1
		}
		absoluteIndex := searchOffset + relativeIndex
		if absoluteIndex == 0 || pattern[absoluteIndex-1] == pathSeparator {
			return absoluteIndex
		}
		searchOffset = absoluteIndex + 1
	}
	return -1
}

// PatternSet is a compiled, read-only collection of patterns. It is safe for concurrent use.
type PatternSet struct {
	patterns []compiledPattern
}

// CompilePatternList compiles every pattern in the list. Patterns that fail to compile are
// left out of the set and reported in the returned errors; they never match.
func CompilePatternList(patterns PatternList) (PatternSet, []error) {
	var compileErrors []error
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, source := range patterns {
		pattern, compileError := compilePattern(source)
		if compileError != nil {
			compileErrors = append(compileErrors, compileError)
			continue
		}
		compiled = append(compiled, pattern)
	}
	return PatternSet{patterns: compiled}, compileErrors
}

// mustCompilePatternList compiles built-in pattern lists, which are expected to be valid.
func mustCompilePatternList(patterns PatternList) PatternSet {
	set, compileErrors := CompilePatternList(patterns)
	if len(compileErrors) > 0 {
		panic(errors.Join(compileErrors...))
	}
	return set
}

// Len reports how many patterns compiled successfully.
func (set PatternSet) Len() int {
	return len(set.patterns)
}

// Match reports whether any pattern matches candidatePath, stopping at the first hit.
func (set PatternSet) Match(candidatePath string) bool {
	_, matched := set.FirstMatch(candidatePath)
	return matched
}

// FirstMatch returns the source of the first pattern matching candidatePath.
func (set PatternSet) FirstMatch(candidatePath string) (string, bool) {
	for _, pattern := range set.patterns {
		if pattern.match(candidatePath) {
			return pattern.source, true
		}
	}
	return "", false
}

// matchSubtree reports whether a subtree pattern matches the directory key, a path ending in "/".
func (set PatternSet) matchSubtree(directoryKey string) bool {
	for _, pattern := range set.patterns {
		if isSubtreePattern(pattern.source) && pattern.match(directoryKey) {
			return true
		}
	}
	return false
}

// matchRawPatterns parses and compiles rawPatterns one entry at a time, returning on the
// first match. Entries that fail to compile are skipped.
func matchRawPatterns(candidatePath string, rawPatterns string) bool {
	for _, source := range ParsePatternList(rawPatterns) {
		pattern, compileError := compilePattern(source)
		if compileError != nil {
			continue
		}
		if pattern.match(candidatePath) {
			return true
		}
	}
	return false
}
