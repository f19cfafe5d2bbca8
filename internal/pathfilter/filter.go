// Package pathfilter classifies relative file paths as ignored or included when a codebase
// is packed into an LLM prompt.
//
// Two built-in pattern sets are compiled once when the package loads: a conservative exclude
// set (secrets, credentials, dependency and build directories) and an include set of known
// source and text files. Callers add per-request overrides as comma-separated pattern strings.
// Matching is a short-circuit scan: the first matching pattern wins and patterns carry no
// precedence. Every matcher, built-in or custom, matches dot-files. A malformed custom pattern
// never matches and never fails the caller.
package pathfilter

import "strings"

// Source identifies which pattern set produced a Decision.
type Source string

const (
	SourceNone           Source = "none"
	SourceDefaultExclude Source = "default-exclude"
	SourceCustomExclude  Source = "custom-exclude"
	SourceDefaultInclude Source = "default-include"
	SourceCustomInclude  Source = "custom-include"

	// SourceRepositoryExclude marks a match on a translated .gitignore or .promptignore rule.
	SourceRepositoryExclude Source = "repository-exclude"
)

var (
	defaultExcludeSet = mustCompilePatternList(defaultExcludePatterns)
	defaultIncludeSet = mustCompilePatternList(defaultIncludePatterns)
)

// DefaultExcludePatterns returns a copy of the built-in exclude patterns.
func DefaultExcludePatterns() PatternList {
	return append(PatternList(nil), defaultExcludePatterns...)
}

// DefaultIncludePatterns returns a copy of the built-in include patterns.
func DefaultIncludePatterns() PatternList {
	return append(PatternList(nil), defaultIncludePatterns...)
}

// IsPathIgnored reports whether candidatePath matches the default exclude set or, failing
// that, any pattern in the comma-separated customIgnore list.
func IsPathIgnored(candidatePath string, customIgnore string) bool {
	if defaultExcludeSet.Match(candidatePath) {
		return true
	}
	return matchRawPatterns(candidatePath, customIgnore)
}

// IsPathIncluded reports whether candidatePath matches the default include set or, failing
// that, any pattern in the comma-separated customInclude list.
func IsPathIncluded(candidatePath string, customInclude string) bool {
	if defaultIncludeSet.Match(candidatePath) {
		return true
	}
	return matchRawPatterns(candidatePath, customInclude)
}

// Options configures a Filter.
type Options struct {
	CustomIgnore  PatternList
	CustomInclude PatternList

	// RepositoryIgnore holds globs produced by TranslateIgnoreRule.
	RepositoryIgnore PatternList
}

// Decision is the classification of a single path.
type Decision struct {
	Path           string `json:"path"`
	Ignored        bool   `json:"ignored"`
	Included       bool   `json:"included"`
	MatchedPattern string `json:"matchedPattern,omitempty"`
	Source         Source `json:"source"`
}

// Selected reports whether the path belongs in the prompt.
func (decision Decision) Selected() bool {
	return !decision.Ignored && decision.Included
}

// Filter evaluates paths against the default sets and custom patterns compiled once for a
// whole batch. A Filter is immutable and safe for concurrent use.
type Filter struct {
	customIgnore     PatternSet
	customInclude    PatternSet
	repositoryIgnore PatternSet
	invalidPatterns  []error
}

// New compiles the custom patterns in options. Invalid patterns are recorded and skipped.
func New(options Options) *Filter {
	customIgnore, ignoreErrors := CompilePatternList(options.CustomIgnore)
	customInclude, includeErrors := CompilePatternList(options.CustomInclude)
	repositoryIgnore, repositoryErrors := CompilePatternList(options.RepositoryIgnore)
	invalidPatterns := append(ignoreErrors, includeErrors...)
	return &Filter{
		customIgnore:     customIgnore,
		customInclude:    customInclude,
		repositoryIgnore: repositoryIgnore,
		invalidPatterns:  append(invalidPatterns, repositoryErrors...),
	}
}

// InvalidPatterns returns the compile errors for custom patterns that were skipped.
func (filter *Filter) InvalidPatterns() []error {
	return append([]error(nil), filter.invalidPatterns...)
}

// IsIgnored reports whether candidatePath matches a default or custom exclude pattern.
func (filter *Filter) IsIgnored(candidatePath string) bool {
	_, source := filter.matchIgnore(candidatePath)
	return source != SourceNone
}

// IsDirectoryIgnored reports whether every path beneath relativeDirectory is ignored, so a
// walker may skip the directory without classifying its files. Only exclude patterns that
// cover a whole subtree ("dir/**" forms) are consulted; "docs/*" ignores the files directly
// in docs but not docs/guide/intro.md, so it never prunes.
func (filter *Filter) IsDirectoryIgnored(relativeDirectory string) bool {
	directoryKey := strings.TrimSuffix(relativeDirectory, string(pathSeparator)) + string(pathSeparator)
	for _, set := range []PatternSet{defaultExcludeSet, filter.customIgnore, filter.repositoryIgnore} {
		if set.matchSubtree(directoryKey) {
			return true
		}
	}
	return false
}

// IsIncluded reports whether candidatePath matches a default or custom include pattern.
func (filter *Filter) IsIncluded(candidatePath string) bool {
	_, source := filter.matchInclude(candidatePath)
	return source != SourceNone
}

// Classify evaluates exclusion before inclusion. An ignored path is never reported as included.
func (filter *Filter) Classify(candidatePath string) Decision {
	decision := Decision{Path: candidatePath, Source: SourceNone}
	if pattern, source := filter.matchIgnore(candidatePath); source != SourceNone {
		decision.Ignored = true
		decision.MatchedPattern = pattern
		decision.Source = source
		return decision
	}
	if pattern, source := filter.matchInclude(candidatePath); source != SourceNone {
		decision.Included = true
		decision.MatchedPattern = pattern
		decision.Source = source
	}
	return decision
}

func (filter *Filter) matchIgnore(candidatePath string) (string, Source) {
	if pattern, matched := defaultExcludeSet.FirstMatch(candidatePath); matched {
		return pattern, SourceDefaultExclude
	}
	if pattern, matched := filter.customIgnore.FirstMatch(candidatePath); matched {
		return pattern, SourceCustomExclude
	}
	if pattern, matched := filter.repositoryIgnore.FirstMatch(candidatePath); matched {
		return pattern, SourceRepositoryExclude
	}
	return "", SourceNone
}

func (filter *Filter) matchInclude(candidatePath string) (string, Source) {
	if pattern, matched := defaultIncludeSet.FirstMatch(candidatePath); matched {
		return pattern, SourceDefaultInclude
	}
	if pattern, matched := filter.customInclude.FirstMatch(candidatePath); matched {
		return pattern, SourceCustomInclude
	}
	return "", SourceNone
}
