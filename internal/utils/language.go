package utils

import (
	"path"
	"strings"
)

var fenceLanguageByExtension = map[string]string{
	".go":      "go",
	".ts":      "typescript",
	".tsx":     "tsx",
	".js":      "javascript",
	".jsx":     "jsx",
	".mjs":     "javascript",
	".cjs":     "javascript",
	".py":      "python",
	".rb":      "ruby",
	".rs":      "rust",
	".java":    "java",
	".kt":      "kotlin",
	".kts":     "kotlin",
	".scala":   "scala",
	".swift":   "swift",
	".c":       "c",
	".h":       "c",
	".cc":      "cpp",
	".cpp":     "cpp",
	".hpp":     "cpp",
	".cs":      "csharp",
	".php":     "php",
	".lua":     "lua",
	".dart":    "dart",
	".ex":      "elixir",
	".exs":     "elixir",
	".hs":      "haskell",
	".sh":      "bash",
	".bash":    "bash",
	".zsh":     "zsh",
	".ps1":     "powershell",
	".sql":     "sql",
	".graphql": "graphql",
	".proto":   "protobuf",
	".html":    "html",
	".css":     "css",
	".scss":    "scss",
	".vue":     "vue",
	".svelte":  "svelte",
	".astro":   "astro",
	".md":      "markdown",
	".mdx":     "mdx",
	".json":    "json",
	".yaml":    "yaml",
	".yml":     "yaml",
	".toml":    "toml",
	".xml":     "xml",
	".tf":      "hcl",
	".hcl":     "hcl",
}

var fenceLanguageByFileName = map[string]string{
	"Dockerfile":    "dockerfile",
	"Containerfile": "dockerfile",
	"Makefile":      "makefile",
	"go.mod":        "go-mod",
}

// FenceLanguage returns the code-fence language tag for a slash-separated path,
// or an empty string when the file type is not recognized.
func FenceLanguage(slashPath string) string {
	baseName := path.Base(slashPath)
	if language, found := fenceLanguageByFileName[baseName]; found {
		return language
	}
	return fenceLanguageByExtension[strings.ToLower(path.Ext(baseName))]
}
