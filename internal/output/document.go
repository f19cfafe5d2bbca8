package output

import (
	"encoding/xml"
	"strings"

	"github.com/temirov/codeprompt/internal/services/stream"
	"github.com/temirov/codeprompt/internal/types"
	"github.com/temirov/codeprompt/internal/utils"
)

// PromptDocument is the complete result of a prompt pass over one or more roots.
type PromptDocument struct {
	XMLName  xml.Name            `json:"-" xml:"prompt"`
	Roots    []*RootDocument     `json:"roots" xml:"root"`
	Summary  types.OutputSummary `json:"summary" xml:"summary"`
	Warnings []string            `json:"warnings,omitempty" xml:"warnings>warning,omitempty"`
}

// RootDocument holds the files selected under one input path.
type RootDocument struct {
	Path    string                 `json:"path" xml:"path,attr"`
	Project *types.ProjectMetadata `json:"project,omitempty" xml:"project,omitempty"`
	Files   []*types.FileOutput    `json:"files" xml:"files>file"`
	Tree    *types.TreeOutputNode  `json:"tree,omitempty" xml:"tree,omitempty"`
}

// documentCollector assembles a PromptDocument from stream events.
type documentCollector struct {
	document     PromptDocument
	current      *RootDocument
	pending      map[string]*types.FileOutput
	contentParts map[string]*strings.Builder
	bytes        int64
}

func newDocumentCollector() *documentCollector {
	return &documentCollector{
		pending:      map[string]*types.FileOutput{},
		contentParts: map[string]*strings.Builder{},
	}
}

func (collector *documentCollector) handle(event stream.Event) {
	switch event.Kind {
	case stream.EventKindStart:
		collector.current = &RootDocument{Path: event.Path, Project: event.Project, Files: []*types.FileOutput{}}
		collector.document.Roots = append(collector.document.Roots, collector.current)
	case stream.EventKindWarning:
		if event.Message != nil {
			collector.document.Warnings = append(collector.document.Warnings, event.Message.Message)
		}
	case stream.EventKindError:
		if event.Err != nil {
			collector.document.Warnings = append(collector.document.Warnings, event.Err.Message)
		}
	case stream.EventKindFile:
		collector.handleFile(event.File)
	case stream.EventKindContentChunk:
		collector.handleChunk(event.Chunk)
	case stream.EventKindTree:
		if collector.current != nil && event.Tree != nil {
			collector.current.Tree = event.Tree
		}
	case stream.EventKindSummary:
		collector.addSummary(event.Summary)
	}
}

func (collector *documentCollector) handleFile(file *stream.FileEvent) {
	if file == nil {
		return
	}
	if collector.current == nil {
		collector.current = &RootDocument{Files: []*types.FileOutput{}}
		collector.document.Roots = append(collector.document.Roots, collector.current)
	}
	fileOutput := &types.FileOutput{
		Path:         file.Path,
		RelativePath: file.RelativePath,
		Language:     file.Language,
		Size:         utils.FormatFileSize(file.SizeBytes),
		SizeBytes:    file.SizeBytes,
		LastModified: file.LastModified,
		Tokens:       file.Tokens,
		Model:        file.Model,
	}
	collector.current.Files = append(collector.current.Files, fileOutput)
	collector.pending[file.Path] = fileOutput
	collector.contentParts[file.Path] = &strings.Builder{}
}

func (collector *documentCollector) handleChunk(chunk *stream.ChunkEvent) {
	if chunk == nil {
		return
	}
	fileOutput, exists := collector.pending[chunk.Path]
	if !exists {
		return
	}
	builder := collector.contentParts[chunk.Path]
	builder.WriteString(chunk.Data)
	if chunk.IsFinal {
		fileOutput.Content = builder.String()
		delete(collector.pending, chunk.Path)
		delete(collector.contentParts, chunk.Path)
	}
}

func (collector *documentCollector) addSummary(summary *stream.SummaryEvent) {
	if summary == nil {
		return
	}
	aggregate := &collector.document.Summary
	aggregate.TotalFiles += summary.Files
	aggregate.TotalTokens += summary.Tokens
	collector.bytes += summary.Bytes
	aggregate.TotalSize = utils.FormatFileSize(collector.bytes)
	if aggregate.Model == "" && summary.Model != "" && summary.Tokens > 0 {
		aggregate.Model = summary.Model
	}
}

func (collector *documentCollector) result() *PromptDocument {
	if collector.document.Summary.TotalSize == "" {
		collector.document.Summary.TotalSize = utils.FormatFileSize(collector.bytes)
	}
	if collector.document.Roots == nil {
		collector.document.Roots = []*RootDocument{}
	}
	return &collector.document
}
