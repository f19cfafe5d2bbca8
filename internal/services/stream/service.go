package stream

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/temirov/codeprompt/internal/commands"
	"github.com/temirov/codeprompt/internal/pathfilter"
	"github.com/temirov/codeprompt/internal/project"
	"github.com/temirov/codeprompt/internal/tokenizer"
	"github.com/temirov/codeprompt/internal/types"
)

// DefaultChunkSize bounds the bytes carried by one content_chunk event.
const DefaultChunkSize = 64 * 1024

// PromptOptions configures StreamPrompt for a single root.
type PromptOptions struct {
	Root          string
	BaseDirectory string
	Filter        *pathfilter.Filter
	MaxFileSize   int64
	TokenCounter  tokenizer.Counter
	TokenModel    string
	IncludeTree   bool
	ChunkSize     int
	Trace         func(pathfilter.Decision)
}

type emitter struct {
	ctx     context.Context
	out     chan<- Event
	command string
}

func newEmitter(ctx context.Context, out chan<- Event, command string) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out, command: command}
}

func (e *emitter) send(event Event) error {
	if e.out == nil {
		return fmt.Errorf("stream: event channel is nil")
	}
	event.Version = SchemaVersion
	if event.Command == "" {
		event.Command = e.command
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

func (e *emitter) warn(path, message string) {
	trimmed := strings.TrimRight(message, "\n")
	if trimmed == "" {
		return
	}
	_ = e.send(Event{
		Kind:    EventKindWarning,
		Path:    path,
		Message: &LogEvent{Level: "warning", Message: trimmed},
	})
}

func (e *emitter) fail(path string, err error) error {
	_ = e.send(Event{Kind: EventKindError, Path: path, Err: &ErrorEvent{Message: err.Error()}})
	return err
}

type summaryTracker struct {
	files  int
	bytes  int64
	tokens int
	model  string
}

func (tracker *summaryTracker) add(size int64, tokens int, model string) {
	tracker.files++
	tracker.bytes += size
	tracker.tokens += tokens
	if tracker.model == "" && model != "" && tokens > 0 {
		tracker.model = model
	}
}

func (tracker *summaryTracker) summary() *SummaryEvent {
	return &SummaryEvent{
		Files:  tracker.files,
		Bytes:  tracker.bytes,
		Tokens: tracker.tokens,
		Model:  tracker.model,
	}
}

// StreamPrompt walks opts.Root and emits start, then file and content_chunk events for
// every selected file, warnings as they occur, an optional tree, the summary and done.
// Traversal failures emit an error event and are returned.
func StreamPrompt(ctx context.Context, opts PromptOptions, out chan<- Event) error {
	if opts.Root == "" {
		return fmt.Errorf("stream: prompt root path is empty")
	}

	emitter := newEmitter(ctx, out, types.CommandPrompt)
	startEvent := Event{Kind: EventKindStart, Path: opts.Root}
	if info, statError := os.Stat(opts.Root); statError == nil && info.IsDir() {
		metadata, detectError := project.Detect(opts.Root)
		if detectError != nil {
			emitter.warn(opts.Root, detectError.Error())
		} else if metadata.Kind != "" {
			startEvent.Project = &metadata
		}
	}
	if err := emitter.send(startEvent); err != nil {
		return err
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	tracker := &summaryTracker{}
	var collected []types.FileOutput

	walkOptions := commands.PromptOptions{
		Root:          opts.Root,
		BaseDirectory: opts.BaseDirectory,
		Filter:        opts.Filter,
		MaxFileSize:   opts.MaxFileSize,
		TokenCounter:  opts.TokenCounter,
		TokenModel:    opts.TokenModel,
		Trace:         opts.Trace,
		Warn: func(message string) {
			emitter.warn(opts.Root, message)
		},
	}

	visit := func(fileOut types.FileOutput) error {
		if err := emitter.ctx.Err(); err != nil {
			return err
		}
		if opts.IncludeTree {
			collected = append(collected, fileOut)
		}
		tracker.add(fileOut.SizeBytes, fileOut.Tokens, fileOut.Model)
		if err := emitter.send(Event{
			Kind: EventKindFile,
			Path: fileOut.Path,
			File: &FileEvent{
				Path:         fileOut.Path,
				RelativePath: fileOut.RelativePath,
				Language:     fileOut.Language,
				SizeBytes:    fileOut.SizeBytes,
				LastModified: fileOut.LastModified,
				Tokens:       fileOut.Tokens,
				Model:        fileOut.Model,
			},
		}); err != nil {
			return err
		}
		chunks := SplitChunks(fileOut.Content, chunkSize)
		for chunkIndex, chunkData := range chunks {
			if err := emitter.send(Event{
				Kind: EventKindContentChunk,
				Path: fileOut.Path,
				Chunk: &ChunkEvent{
					Path:    fileOut.Path,
					Index:   chunkIndex,
					Data:    chunkData,
					IsFinal: chunkIndex == len(chunks)-1,
				},
			}); err != nil {
				return err
			}
		}
		return nil
	}

	if err := commands.StreamPromptFiles(walkOptions, visit); err != nil {
		return emitter.fail(opts.Root, err)
	}

	if opts.IncludeTree {
		tree, err := commands.BuildPromptTree(opts.Root, collected)
		if err != nil {
			emitter.warn(opts.Root, err.Error())
		} else if tree != nil {
			if err := emitter.send(Event{Kind: EventKindTree, Path: opts.Root, Tree: tree}); err != nil {
				return err
			}
		}
	}

	if err := emitter.send(Event{Kind: EventKindSummary, Path: opts.Root, Summary: tracker.summary()}); err != nil {
		return err
	}
	return emitter.send(Event{Kind: EventKindDone, Path: opts.Root})
}

// SplitChunks cuts content into pieces of at most chunkSize bytes without splitting a UTF-8
// sequence. Empty content yields a single empty chunk so every file has a final chunk.
func SplitChunks(content string, chunkSize int) []string {
	if content == "" || chunkSize <= 0 || len(content) <= chunkSize {
		return []string{content}
	}
	var chunks []string
	for len(content) > chunkSize {
		cut := chunkSize
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		if cut == 0 {
			// a single rune wider than chunkSize stays whole
			cut = chunkSize
			for cut < len(content) && !utf8.RuneStart(content[cut]) {
				cut++
			}
		}
		chunks = append(chunks, content[:cut])
		content = content[cut:]
	}
	if content != "" {
		chunks = append(chunks, content)
	}
	return chunks
}
