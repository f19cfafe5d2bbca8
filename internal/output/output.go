// Package output renders prompt documents, path decisions and pattern listings.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/codeprompt/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	projectHeaderFormat = "Project: %s"
	treeSectionHeader   = "Directory Tree:"
	fileHeaderFormat    = "File: %s"
	minimumFenceLength  = 3
	fenceCharacter      = "`"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
)

// RawOptions selects the optional sections of the raw prompt.
type RawOptions struct {
	IncludeTree    bool
	IncludeSummary bool
}

// WritePromptRaw renders document as prompt text: for every root a project header and the
// optional directory tree, then each file fenced with its language tag, then the summary.
func WritePromptRaw(writer io.Writer, document *PromptDocument, options RawOptions) error {
	if document == nil {
		return nil
	}
	var builder strings.Builder
	for rootIndex, root := range document.Roots {
		if rootIndex > 0 {
			builder.WriteString("\n")
		}
		if header := FormatProjectHeader(root.Project); header != "" {
			builder.WriteString(header + "\n\n")
		}
		if options.IncludeTree && root.Tree != nil {
			builder.WriteString(treeSectionHeader + "\n")
			WriteTreeRaw(&builder, root.Tree, options.IncludeSummary)
			builder.WriteString("\n")
		}
		for _, file := range root.Files {
			WriteFileRaw(&builder, file)
		}
	}
	if options.IncludeSummary {
		builder.WriteString(FormatSummaryLine(&document.Summary) + "\n")
	}
	_, writeError := io.WriteString(writer, builder.String())
	return writeError
}

// FormatProjectHeader describes detected project metadata in one line.
func FormatProjectHeader(project *types.ProjectMetadata) string {
	if project == nil || project.Name == "" {
		return ""
	}
	details := project.Kind
	if project.GoVersion != "" {
		details = fmt.Sprintf("%s %s", project.Kind, project.GoVersion)
	}
	if details == "" {
		return fmt.Sprintf(projectHeaderFormat, project.Name)
	}
	return fmt.Sprintf(projectHeaderFormat+" (%s)", project.Name, details)
}

// WriteFileRaw writes one file as a fenced block. The fence is longer than any backtick run
// inside the content so the block always closes where the file ends.
func WriteFileRaw(writer io.Writer, file *types.FileOutput) {
	if file == nil {
		return
	}
	fence := strings.Repeat(fenceCharacter, fenceLength(file.Content))
	fmt.Fprintf(writer, fileHeaderFormat+"\n", file.RelativePath)
	fmt.Fprintf(writer, "%s%s\n", fence, file.Language)
	content := file.Content
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	fmt.Fprint(writer, content)
	fmt.Fprintf(writer, "%s\n\n", fence)
}

func fenceLength(content string) int {
	longestRun := 0
	currentRun := 0
	for _, character := range content {
		if string(character) == fenceCharacter {
			currentRun++
			if currentRun > longestRun {
				longestRun = currentRun
			}
			continue
		}
		currentRun = 0
	}
	if longestRun >= minimumFenceLength {
		return longestRun + 1
	}
	return minimumFenceLength
}

func directorySummaryLine(node *types.TreeOutputNode, includeSummary bool) string {
	if !includeSummary || node == nil || node.Type != types.NodeTypeDirectory {
		return ""
	}
	label := "files"
	if node.TotalFiles == 1 {
		label = "file"
	}
	tokenSuffix := ""
	if node.TotalTokens > 0 {
		tokenSuffix = fmt.Sprintf(", %d tokens", node.TotalTokens)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s", node.TotalFiles, label, node.TotalSize, tokenSuffix)
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func renderTreeNode(writer io.Writer, node *types.TreeOutputNode, prefix string, includeSummary bool, isRoot bool, isLast bool) {
	if node == nil {
		return
	}
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	if node.Type == types.NodeTypeFile {
		if includeSummary && node.Tokens > 0 {
			fmt.Fprintf(writer, "%s%s (%d tokens)\n", linePrefix, node.Name, node.Tokens)
		} else {
			fmt.Fprintf(writer, "%s%s\n", linePrefix, node.Name)
		}
		return
	}
	fmt.Fprintf(writer, "%s%s/\n", linePrefix, node.Name)
	if summaryLine := directorySummaryLine(node, includeSummary && isRoot); summaryLine != "" {
		fmt.Fprintf(writer, "%s\n", summaryLine)
	}
	for index, child := range node.Children {
		if child == nil {
			continue
		}
		renderTreeNode(writer, child, childPrefix, includeSummary, false, index == len(node.Children)-1)
	}
}

// WriteTreeRaw renders a directory tree with box-drawing connectors.
func WriteTreeRaw(writer io.Writer, node *types.TreeOutputNode, includeSummary bool) {
	if node == nil {
		return
	}
	renderTreeNode(writer, node, "", includeSummary, true, true)
}

// FormatSummaryLine formats an OutputSummary into the raw summary line.
func FormatSummaryLine(summary *types.OutputSummary) string {
	if summary == nil {
		summary = &types.OutputSummary{}
	}
	label := "files"
	if summary.TotalFiles == 1 {
		label = "file"
	}
	totalSize := summary.TotalSize
	if totalSize == "" {
		totalSize = "0b"
	}
	extra := ""
	if summary.TotalTokens > 0 {
		extra = fmt.Sprintf(", %d tokens", summary.TotalTokens)
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s", summary.TotalFiles, label, totalSize, extra, modelSuffix)
}
