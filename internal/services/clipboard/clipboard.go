// Package clipboard copies rendered prompts to the system clipboard.
package clipboard

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrEmptyPrompt is returned when there is nothing to copy.
var ErrEmptyPrompt = errors.New("clipboard: prompt is empty")

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("clipboard: no clipboard utility available")

// Copier copies a rendered prompt to the clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier on top of github.com/atotto/clipboard.
// A zero Service writes to the system clipboard.
type Service struct {
	write func(string) error
}

// NewService constructs a Service that writes to the system clipboard.
func NewService() *Service {
	return &Service{}
}

// NewServiceWithWriter constructs a Service that hands text to write instead of the system clipboard.
func NewServiceWithWriter(write func(string) error) *Service {
	return &Service{write: write}
}

// Copy writes text to the clipboard. Whitespace-only prompts are rejected.
func (service *Service) Copy(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyPrompt
	}
	if service.write != nil {
		return service.write(text)
	}
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
