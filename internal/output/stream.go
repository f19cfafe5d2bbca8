package output

import (
	"fmt"
	"io"

	"github.com/temirov/codeprompt/internal/services/stream"
	"github.com/temirov/codeprompt/internal/types"
)

// StreamRenderer consumes prompt events and writes the rendered result on Flush.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}

// NewStreamRenderer returns the renderer for format. Warnings are echoed to stderr as they
// arrive; the document itself is written to stdout on Flush.
func NewStreamRenderer(format string, stdout, stderr io.Writer, options RawOptions) (StreamRenderer, error) {
	switch format {
	case types.FormatRaw, "":
		return NewRawStreamRenderer(stdout, stderr, options), nil
	case types.FormatJSON:
		return NewJSONStreamRenderer(stdout, stderr), nil
	case types.FormatXML:
		return NewXMLStreamRenderer(stdout, stderr), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func echoDiagnostics(stderr io.Writer, event stream.Event) error {
	if stderr == nil {
		return nil
	}
	switch {
	case event.Kind == stream.EventKindWarning && event.Message != nil:
		_, err := fmt.Fprintln(stderr, event.Message.Message)
		return err
	case event.Kind == stream.EventKindError && event.Err != nil:
		_, err := fmt.Fprintln(stderr, event.Err.Message)
		return err
	}
	return nil
}
