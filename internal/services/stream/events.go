// Package stream turns a prompt pass into an ordered sequence of events consumed by renderers.
package stream

import (
	"encoding/xml"
	"time"

	"github.com/temirov/codeprompt/internal/types"
)

// SchemaVersion is stamped on every emitted event.
const SchemaVersion = 1

type EventKind string

const (
	EventKindStart        EventKind = "start"
	EventKindFile         EventKind = "file"
	EventKindContentChunk EventKind = "content_chunk"
	EventKindWarning      EventKind = "warning"
	EventKindError        EventKind = "error"
	EventKindTree         EventKind = "tree"
	EventKindSummary      EventKind = "summary"
	EventKindDone         EventKind = "done"
)

type Event struct {
	XMLName   xml.Name  `json:"-" xml:"event"`
	Version   int       `json:"version" xml:"version,attr"`
	Kind      EventKind `json:"kind" xml:"kind,attr"`
	Command   string    `json:"command,omitempty" xml:"command,attr,omitempty"`
	Path      string    `json:"path,omitempty" xml:"path,attr,omitempty"`
	EmittedAt time.Time `json:"emittedAt,omitempty" xml:"emittedAt,attr,omitempty"`

	Project *types.ProjectMetadata `json:"project,omitempty" xml:"project,omitempty"`
	File    *FileEvent             `json:"file,omitempty" xml:"file,omitempty"`
	Chunk   *ChunkEvent            `json:"chunk,omitempty" xml:"chunk,omitempty"`
	Summary *SummaryEvent          `json:"summary,omitempty" xml:"summary,omitempty"`
	Message *LogEvent              `json:"message,omitempty" xml:"message,omitempty"`
	Err     *ErrorEvent            `json:"error,omitempty" xml:"error,omitempty"`
	Tree    *types.TreeOutputNode  `json:"tree,omitempty" xml:"tree,omitempty"`
}

// FileEvent announces a selected file; its content follows in ContentChunk events.
type FileEvent struct {
	Path         string `json:"path" xml:"path,attr"`
	RelativePath string `json:"relativePath" xml:"relativePath,attr"`
	Language     string `json:"language,omitempty" xml:"language,attr,omitempty"`
	SizeBytes    int64  `json:"sizeBytes" xml:"sizeBytes,attr"`
	LastModified string `json:"lastModified,omitempty" xml:"lastModified,attr,omitempty"`
	Tokens       int    `json:"tokens,omitempty" xml:"tokens,attr,omitempty"`
	Model        string `json:"model,omitempty" xml:"model,attr,omitempty"`
}

type ChunkEvent struct {
	Path    string `json:"path" xml:"path,attr"`
	Index   int    `json:"index" xml:"index,attr"`
	Data    string `json:"data,omitempty" xml:",chardata"`
	IsFinal bool   `json:"isFinal" xml:"isFinal,attr"`
}

type SummaryEvent struct {
	Files  int    `json:"files" xml:"files,attr"`
	Bytes  int64  `json:"bytes" xml:"bytes,attr"`
	Tokens int    `json:"tokens,omitempty" xml:"tokens,attr,omitempty"`
	Model  string `json:"model,omitempty" xml:"model,attr,omitempty"`
}

type LogEvent struct {
	Level   string `json:"level,omitempty" xml:"level,attr,omitempty"`
	Message string `json:"message" xml:",chardata"`
}

type ErrorEvent struct {
	Message string `json:"message" xml:",chardata"`
}
