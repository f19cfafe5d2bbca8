package output

import (
	"io"

	"github.com/temirov/codeprompt/internal/services/stream"
)

type rawStreamRenderer struct {
	stdout    io.Writer
	stderr    io.Writer
	options   RawOptions
	collector *documentCollector
}

// NewRawStreamRenderer renders the prompt as plain text.
func NewRawStreamRenderer(stdout, stderr io.Writer, options RawOptions) StreamRenderer {
	return &rawStreamRenderer{
		stdout:    stdout,
		stderr:    stderr,
		options:   options,
		collector: newDocumentCollector(),
	}
}

func (renderer *rawStreamRenderer) Handle(event stream.Event) error {
	renderer.collector.handle(event)
	return echoDiagnostics(renderer.stderr, event)
}

func (renderer *rawStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	return WritePromptRaw(renderer.stdout, renderer.collector.result(), renderer.options)
}
