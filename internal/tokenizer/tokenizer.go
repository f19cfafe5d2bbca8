// Package tokenizer estimates LLM token counts for prompt content.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI or configuration.
type Config struct {
	Model string
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

var openAIModelPrefixes = []string{
	"gpt-",
	"o1",
	"o3",
	"o4",
	"text-embedding",
	"davinci",
	"curie",
	"babbage",
	"ada",
	"code-",
}

// NewCounter returns a Counter for the requested model along with the name reported in
// output. OpenAI models use their own encoding; other models are approximated with
// cl100k_base and report the encoding name instead of the model.
func NewCounter(cfg Config) (Counter, string, error) {
	model := ResolveModel(cfg.Model)
	lowerModel := strings.ToLower(model)

	if isOpenAIModel(lowerModel) {
		encoding, encodingError := tiktoken.EncodingForModel(lowerModel)
		if encodingError == nil && encoding != nil {
			return openAICounter{encoding: encoding, name: lowerModel}, model, nil
		}
	}

	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize %s tokenizer: %w", defaultEncodingName, fallbackError)
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

// ResolveModel trims the configured model and substitutes DefaultModel when it is blank.
func ResolveModel(model string) string {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		return DefaultModel
	}
	return trimmedModel
}

func isOpenAIModel(model string) bool {
	for _, prefix := range openAIModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
