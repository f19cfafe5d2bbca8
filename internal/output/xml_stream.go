package output

import (
	"encoding/xml"
	"io"

	"github.com/temirov/codeprompt/internal/services/stream"
)

const xmlHeader = xml.Header

type xmlStreamRenderer struct {
	stdout    io.Writer
	stderr    io.Writer
	collector *documentCollector
}

// NewXMLStreamRenderer renders the prompt as a single indented XML document.
func NewXMLStreamRenderer(stdout, stderr io.Writer) StreamRenderer {
	return &xmlStreamRenderer{stdout: stdout, stderr: stderr, collector: newDocumentCollector()}
}

func (renderer *xmlStreamRenderer) Handle(event stream.Event) error {
	renderer.collector.handle(event)
	return echoDiagnostics(renderer.stderr, event)
}

func (renderer *xmlStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	return writeXML(renderer.stdout, renderer.collector.result())
}

func writeXML(writer io.Writer, value interface{}) error {
	encoded, encodeError := xml.MarshalIndent(value, indentPrefix, indentSpacer)
	if encodeError != nil {
		return encodeError
	}
	if _, writeError := io.WriteString(writer, xmlHeader); writeError != nil {
		return writeError
	}
	encoded = append(encoded, '\n')
	_, writeError := writer.Write(encoded)
	return writeError
}
