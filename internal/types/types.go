// Package types defines the data structures shared across codeprompt packages.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	CommandPrompt   = "prompt"
	CommandCheck    = "check"
	CommandPatterns = "patterns"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// ProjectMetadata describes the project detected at a prompt root.
type ProjectMetadata struct {
	Kind       string `json:"kind,omitempty" xml:"kind,attr,omitempty"`
	Name       string `json:"name,omitempty" xml:"name,attr,omitempty"`
	GoVersion  string `json:"goVersion,omitempty" xml:"goVersion,attr,omitempty"`
	ModuleFile string `json:"moduleFile,omitempty" xml:"moduleFile,attr,omitempty"`
}

// FileOutput represents one file selected for the prompt.
type FileOutput struct {
	Path         string `json:"path" xml:"path,attr"`
	RelativePath string `json:"relativePath" xml:"relativePath,attr"`
	Language     string `json:"language,omitempty" xml:"language,attr,omitempty"`
	Content      string `json:"content" xml:",chardata"`
	Size         string `json:"size,omitempty" xml:"size,attr,omitempty"`
	SizeBytes    int64  `json:"-" xml:"-"`
	LastModified string `json:"lastModified,omitempty" xml:"lastModified,attr,omitempty"`
	Tokens       int    `json:"tokens,omitempty" xml:"tokens,attr,omitempty"`
	Model        string `json:"model,omitempty" xml:"model,attr,omitempty"`
}

// TreeOutputNode represents a node of the directory tree of selected files.
type TreeOutputNode struct {
	Path         string            `json:"path" xml:"path,attr"`
	Name         string            `json:"name" xml:"name,attr"`
	Type         string            `json:"type" xml:"type,attr"`
	Size         string            `json:"size,omitempty" xml:"size,attr,omitempty"`
	SizeBytes    int64             `json:"-" xml:"-"`
	LastModified string            `json:"lastModified,omitempty" xml:"lastModified,attr,omitempty"`
	Tokens       int               `json:"tokens,omitempty" xml:"tokens,attr,omitempty"`
	Children     []*TreeOutputNode `json:"children,omitempty" xml:"node,omitempty"`
	TotalFiles   int               `json:"totalFiles,omitempty" xml:"totalFiles,attr,omitempty"`
	TotalSize    string            `json:"totalSize,omitempty" xml:"totalSize,attr,omitempty"`
	TotalTokens  int               `json:"totalTokens,omitempty" xml:"totalTokens,attr,omitempty"`
}

// OutputSummary captures aggregate information about rendered files.
type OutputSummary struct {
	TotalFiles  int    `json:"totalFiles" xml:"totalFiles,attr"`
	TotalSize   string `json:"totalSize" xml:"totalSize,attr"`
	TotalTokens int    `json:"totalTokens,omitempty" xml:"totalTokens,attr,omitempty"`
	Model       string `json:"model,omitempty" xml:"model,attr,omitempty"`
}
