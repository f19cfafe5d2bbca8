package commands

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/temirov/codeprompt/internal/types"
	"github.com/temirov/codeprompt/internal/utils"
)

const treeRootPath = "."

// BuildPromptTree constructs the directory tree of the files selected under rootPath.
// Node paths are the slash-separated paths relative to rootPath; directories carry the
// file count, size and token totals of everything beneath them. A file root yields its own
// node, or nil when that file was not selected.
func BuildPromptTree(rootPath string, files []types.FileOutput) (*types.TreeOutputNode, error) {
	absoluteRoot, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return nil, fmt.Errorf("abs failed for %s: %w", rootPath, absoluteError)
	}
	rootInfo, rootStatError := os.Stat(absoluteRoot)
	if rootStatError == nil && !rootInfo.IsDir() {
		for _, file := range files {
			if filepath.Clean(file.Path) == absoluteRoot {
				node := fileNode(file)
				populateDirectorySummaries(node)
				return node, nil
			}
		}
		return nil, nil
	}

	rootNode := &types.TreeOutputNode{
		Path: treeRootPath,
		Name: filepath.Base(absoluteRoot),
		Type: types.NodeTypeDirectory,
	}
	if rootStatError == nil {
		rootNode.LastModified = utils.FormatTimestamp(rootInfo.ModTime())
	}
	nodeByPath := map[string]*types.TreeOutputNode{treeRootPath: rootNode}
	for _, file := range files {
		parentPath := path.Dir(file.RelativePath)
		ensureDirectories(nodeByPath, absoluteRoot, parentPath)
		parentNode := nodeByPath[parentPath]
		if parentNode == nil {
			continue
		}
		parentNode.Children = append(parentNode.Children, fileNode(file))
	}
	sortTreeChildren(rootNode)
	populateDirectorySummaries(rootNode)
	return rootNode, nil
}

func fileNode(file types.FileOutput) *types.TreeOutputNode {
	return &types.TreeOutputNode{
		Path:         file.RelativePath,
		Name:         path.Base(file.RelativePath),
		Type:         types.NodeTypeFile,
		Size:         file.Size,
		SizeBytes:    file.SizeBytes,
		LastModified: file.LastModified,
		Tokens:       file.Tokens,
	}
}

func ensureDirectories(nodeByPath map[string]*types.TreeOutputNode, absoluteRoot string, relativeDirectory string) {
	if relativeDirectory == "" || relativeDirectory == treeRootPath {
		return
	}
	if _, exists := nodeByPath[relativeDirectory]; exists {
		return
	}
	parentDirectory := path.Dir(relativeDirectory)
	ensureDirectories(nodeByPath, absoluteRoot, parentDirectory)
	node := &types.TreeOutputNode{
		Path: relativeDirectory,
		Name: path.Base(relativeDirectory),
		Type: types.NodeTypeDirectory,
	}
	if info, statError := os.Stat(filepath.Join(absoluteRoot, filepath.FromSlash(relativeDirectory))); statError == nil {
		node.LastModified = utils.FormatTimestamp(info.ModTime())
	}
	if parent := nodeByPath[parentDirectory]; parent != nil {
		parent.Children = append(parent.Children, node)
	}
	nodeByPath[relativeDirectory] = node
}

// sortTreeChildren orders directories before files, then by name.
func sortTreeChildren(node *types.TreeOutputNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		left, right := node.Children[i], node.Children[j]
		if left.Type != right.Type {
			return left.Type == types.NodeTypeDirectory
		}
		return left.Name < right.Name
	})
	for _, child := range node.Children {
		sortTreeChildren(child)
	}
}

func populateDirectorySummaries(node *types.TreeOutputNode) (int, int64, int) {
	if node.Type == types.NodeTypeFile {
		applySummary(node, 1, node.SizeBytes, node.Tokens)
		return 1, node.SizeBytes, node.Tokens
	}
	var totalFiles int
	var totalBytes int64
	var totalTokens int
	for _, child := range node.Children {
		childFiles, childBytes, childTokens := populateDirectorySummaries(child)
		totalFiles += childFiles
		totalBytes += childBytes
		totalTokens += childTokens
	}
	node.SizeBytes = totalBytes
	applySummary(node, totalFiles, totalBytes, totalTokens)
	return totalFiles, totalBytes, totalTokens
}

func applySummary(node *types.TreeOutputNode, files int, bytes int64, tokens int) {
	node.TotalFiles = files
	node.TotalSize = utils.FormatFileSize(bytes)
	node.TotalTokens = tokens
}
