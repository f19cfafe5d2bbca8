package tokenizer

import (
	"errors"
	"unicode/utf8"

	"github.com/temirov/codeprompt/internal/utils"
)

// ErrNilCounter is returned when counting is requested without a counter.
var ErrNilCounter = errors.New("nil tokenizer counter")

// CountResult captures the outcome of counting a byte slice.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountBytes estimates tokens for the provided data using counter.
// Binary or non-UTF-8 data is reported as not counted.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	if counter == nil {
		return CountResult{}, ErrNilCounter
	}
	if len(data) == 0 {
		return CountResult{Counted: true}, nil
	}
	if utils.IsBinary(data) || !utf8.Valid(data) {
		return CountResult{Counted: false}, nil
	}
	tokens, countError := counter.CountString(string(data))
	if countError != nil {
		return CountResult{}, countError
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}
