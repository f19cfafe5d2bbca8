package output

import (
	"encoding/json"
	"io"

	"github.com/temirov/codeprompt/internal/services/stream"
)

type jsonStreamRenderer struct {
	stdout    io.Writer
	stderr    io.Writer
	collector *documentCollector
}

// NewJSONStreamRenderer renders the prompt as a single indented JSON document.
func NewJSONStreamRenderer(stdout, stderr io.Writer) StreamRenderer {
	return &jsonStreamRenderer{stdout: stdout, stderr: stderr, collector: newDocumentCollector()}
}

func (renderer *jsonStreamRenderer) Handle(event stream.Event) error {
	renderer.collector.handle(event)
	return echoDiagnostics(renderer.stderr, event)
}

func (renderer *jsonStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	return writeJSON(renderer.stdout, renderer.collector.result())
}

func writeJSON(writer io.Writer, value interface{}) error {
	encoded, encodeError := json.MarshalIndent(value, indentPrefix, indentSpacer)
	if encodeError != nil {
		return encodeError
	}
	encoded = append(encoded, '\n')
	_, writeError := writer.Write(encoded)
	return writeError
}
