package tokenizer

import (
	"errors"
	"testing"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type failingCounter struct{}

func (failingCounter) Name() string { return "failing" }

func (failingCounter) CountString(string) (int, error) { return 0, errors.New("boom") }

func TestCountBytesText(t *testing.T) {
	result, err := CountBytes(testCounter{}, []byte("hello"))
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if !result.Counted || result.Tokens != 5 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCountBytesEmpty(t *testing.T) {
	result, err := CountBytes(testCounter{}, nil)
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if !result.Counted || result.Tokens != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCountBytesBinary(t *testing.T) {
	result, err := CountBytes(testCounter{}, []byte{0x00, 0x01, 0x02})
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if result.Counted {
		t.Fatalf("expected binary data to be skipped")
	}
}

func TestCountBytesErrors(t *testing.T) {
	if _, err := CountBytes(nil, []byte("x")); !errors.Is(err, ErrNilCounter) {
		t.Fatalf("expected ErrNilCounter, got %v", err)
	}
	if _, err := CountBytes(failingCounter{}, []byte("x")); err == nil {
		t.Fatalf("expected counter error to propagate")
	}
}

func TestResolveModel(t *testing.T) {
	testCases := map[string]string{
		"":                    DefaultModel,
		"   ":                 DefaultModel,
		" claude-3-5-sonnet ": "claude-3-5-sonnet",
		"gpt-4o-mini":         "gpt-4o-mini",
	}
	for input, expected := range testCases {
		if actual := ResolveModel(input); actual != expected {
			t.Fatalf("ResolveModel(%q) = %q, want %q", input, actual, expected)
		}
	}
}

func TestIsOpenAIModel(t *testing.T) {
	testCases := map[string]bool{
		"gpt-4o":            true,
		"text-embedding-3":  true,
		"o3-mini":           true,
		"claude-3-5-sonnet": false,
		"llama-3":           false,
	}
	for model, expected := range testCases {
		if actual := isOpenAIModel(model); actual != expected {
			t.Fatalf("isOpenAIModel(%q) = %v, want %v", model, actual, expected)
		}
	}
}
