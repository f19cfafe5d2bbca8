package pathfilter

import "strings"

const (
	ignoreRuleComment  = "#"
	ignoreRuleNegation = "!"
	subtreeSuffix      = "/**"
	anyDepthPrefix     = "**/"
)

// TranslateIgnoreRule converts one .gitignore-style rule into glob patterns for a Filter.
// baseDirectory is the slash-separated directory that declared the rule, relative to the walk
// root, or "" for the root itself.
//
// A rule without an inner slash matches at any depth below baseDirectory; a leading or inner
// slash anchors it to baseDirectory. A trailing slash limits the rule to directories, which
// ignores everything beneath them. A rule naming a file or directory also covers its subtree.
// Blank lines, comments and negated rules yield no patterns.
func TranslateIgnoreRule(baseDirectory string, rule string) PatternList {
	body := strings.ReplaceAll(strings.TrimSpace(rule), "\\", string(pathSeparator))
	if body == "" || strings.HasPrefix(body, ignoreRuleComment) || strings.HasPrefix(body, ignoreRuleNegation) {
		return nil
	}

	directoryOnly := strings.HasSuffix(body, string(pathSeparator))
	body = strings.TrimRight(body, string(pathSeparator))
	anchored := strings.HasPrefix(body, string(pathSeparator))
	body = strings.TrimLeft(body, string(pathSeparator))
	if body == "" {
		return nil
	}
	if strings.Contains(body, string(pathSeparator)) {
		anchored = true
	}

	prefix := strings.Trim(baseDirectory, string(pathSeparator))
	if prefix != "" && prefix != "." {
		prefix += string(pathSeparator)
	} else {
		prefix = ""
	}
	core := prefix + body
	if !anchored {
		core = prefix + anyDepthPrefix + body
	}

	switch {
	case isSubtreePattern(core):
		return PatternList{core}
	case directoryOnly:
		return PatternList{core + subtreeSuffix}
	default:
		return PatternList{core, core + subtreeSuffix}
	}
}

// TranslateIgnoreRules translates every rule declared in baseDirectory, dropping duplicates.
func TranslateIgnoreRules(baseDirectory string, rules []string) PatternList {
	var translated PatternList
	for _, rule := range rules {
		translated = translated.Merge(TranslateIgnoreRule(baseDirectory, rule))
	}
	return translated
}

// isSubtreePattern reports whether a match on a directory implies a match on every path
// beneath it.
func isSubtreePattern(source string) bool {
	return source == "**" || strings.HasSuffix(source, subtreeSuffix)
}
