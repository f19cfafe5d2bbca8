// Package commands walks prompt roots and selects the files that belong in a prompt.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/codeprompt/internal/pathfilter"
	"github.com/temirov/codeprompt/internal/tokenizer"
	"github.com/temirov/codeprompt/internal/types"
	"github.com/temirov/codeprompt/internal/utils"
)

const (
	slashSeparator  = "/"
	parentDirectory = ".."
)

// PromptVisitor receives each file selected during traversal.
type PromptVisitor func(types.FileOutput) error

// PromptOptions configures StreamPromptFiles.
type PromptOptions struct {
	Root string
	// BaseDirectory anchors the classification of an explicitly named file, usually the
	// working directory. Files outside it are classified by their absolute path.
	BaseDirectory string
	// Filter classifies every relative path, repository ignore rules included. A nil Filter
	// applies only the built-in sets.
	Filter *pathfilter.Filter
	// MaxFileSize skips larger files when positive.
	MaxFileSize  int64
	TokenCounter tokenizer.Counter
	TokenModel   string
	Warn         func(string)
	// Trace observes the filter decision for every walked file.
	Trace func(pathfilter.Decision)
}

func (options PromptOptions) warn(format string, arguments ...interface{}) {
	if options.Warn == nil {
		return
	}
	options.Warn(fmt.Sprintf(format, arguments...))
}

func (options PromptOptions) trace(decision pathfilter.Decision) {
	if options.Trace != nil {
		options.Trace(decision)
	}
}

func (options PromptOptions) filter() *pathfilter.Filter {
	if options.Filter != nil {
		return options.Filter
	}
	return pathfilter.New(pathfilter.Options{})
}

// StreamPromptFiles walks options.Root and invokes visitor for every file that is not ignored
// and is included. A directory is pruned only when the filter ignores its whole subtree, so
// the walk selects exactly the files Classify selects. Oversized, binary and unreadable files
// are reported through options.Warn and skipped.
//
// When options.Root is a regular file it is emitted unless an exclude pattern matches it or
// one of its parent directories; the include sets are not consulted for an explicitly named
// file.
func StreamPromptFiles(options PromptOptions, visitor PromptVisitor) error {
	absoluteRootPath, absolutePathError := filepath.Abs(options.Root)
	if absolutePathError != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", options.Root, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)
	rootInfo, rootStatError := os.Stat(cleanedRootPath)
	if rootStatError != nil {
		return fmt.Errorf("failed to stat %s: %w", cleanedRootPath, rootStatError)
	}
	filter := options.filter()

	if !rootInfo.IsDir() {
		decision := explicitFileDecision(filter, explicitFileClassificationPath(cleanedRootPath, options.BaseDirectory))
		options.trace(decision)
		if decision.Ignored {
			options.warn(WarningIgnoredInput, cleanedRootPath, decision.MatchedPattern)
			return nil
		}
		return emitFile(options, cleanedRootPath, filepath.Base(cleanedRootPath), rootInfo, visitor)
	}

	return filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry os.DirEntry, accessError error) error {
		if accessError != nil {
			options.warn(WarningAccessPathFormat, walkedPath, accessError)
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, cleanedRootPath)
		if relativePath == "." {
			return nil
		}

		if directoryEntry.IsDir() {
			if filter.IsDirectoryIgnored(relativePath) {
				return filepath.SkipDir
			}
			return nil
		}

		decision := filter.Classify(relativePath)
		options.trace(decision)
		if !decision.Selected() {
			return nil
		}

		fileInfo, infoError := directoryEntry.Info()
		if infoError != nil {
			options.warn(WarningAccessPathFormat, walkedPath, infoError)
			return nil
		}
		if !fileInfo.Mode().IsRegular() {
			return nil
		}
		return emitFile(options, walkedPath, relativePath, fileInfo, visitor)
	})
}

// explicitFileClassificationPath returns the slash path used to classify an explicitly named
// file: relative to baseDirectory when the file lies beneath it, otherwise the absolute path
// without its volume and leading separator.
func explicitFileClassificationPath(absoluteFilePath string, baseDirectory string) string {
	if baseDirectory != "" {
		relativePath, relativeError := filepath.Rel(baseDirectory, absoluteFilePath)
		escapesBase := relativePath == parentDirectory || strings.HasPrefix(relativePath, parentDirectory+string(filepath.Separator))
		if relativeError == nil && !escapesBase {
			return filepath.ToSlash(relativePath)
		}
	}
	withoutVolume := strings.TrimPrefix(absoluteFilePath, filepath.VolumeName(absoluteFilePath))
	return strings.TrimLeft(filepath.ToSlash(withoutVolume), slashSeparator)
}

// explicitFileDecision classifies every trailing sub-path of slashPath, from the base name up
// to the whole path, so "**/.aws/**" rejects ".aws/credentials" even when only the file was
// named. The first ignored sub-path wins; otherwise the decision for the whole path is returned.
func explicitFileDecision(filter *pathfilter.Filter, slashPath string) pathfilter.Decision {
	segments := strings.Split(slashPath, slashSeparator)
	decision := filter.Classify(slashPath)
	for index := len(segments) - 1; index >= 0; index-- {
		candidate := strings.Join(segments[index:], slashSeparator)
		if candidate == "" {
			continue
		}
		if candidateDecision := filter.Classify(candidate); candidateDecision.Ignored {
			return candidateDecision
		}
	}
	return decision
}

func emitFile(options PromptOptions, filePath string, relativePath string, fileInfo os.FileInfo, visitor PromptVisitor) error {
	if options.MaxFileSize > 0 && fileInfo.Size() > options.MaxFileSize {
		options.warn(WarningFileTooLarge, relativePath, utils.FormatFileSize(fileInfo.Size()), utils.FormatFileSize(options.MaxFileSize))
		return nil
	}

	fileBytes, fileReadError := os.ReadFile(filePath)
	if fileReadError != nil {
		options.warn(WarningFileReadFormat, filePath, fileReadError)
		return nil
	}
	if utils.IsBinary(fileBytes) {
		options.warn(WarningBinaryFile, relativePath)
		return nil
	}

	var tokenCount int
	if options.TokenCounter != nil {
		countResult, tokenError := tokenizer.CountBytes(options.TokenCounter, fileBytes)
		if tokenError != nil {
			options.warn(WarningTokenCountFormat, filePath, tokenError)
		} else if countResult.Counted {
			tokenCount = countResult.Tokens
		}
	}

	output := types.FileOutput{
		Path:         filePath,
		RelativePath: relativePath,
		Language:     utils.FenceLanguage(relativePath),
		Content:      string(fileBytes),
		Size:         utils.FormatFileSize(fileInfo.Size()),
		SizeBytes:    fileInfo.Size(),
		LastModified: utils.FormatTimestamp(fileInfo.ModTime()),
		Tokens:       tokenCount,
	}
	if tokenCount > 0 {
		output.Model = options.TokenModel
	}

	if visitor == nil {
		return nil
	}
	return visitor(output)
}
