package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/temirov/codeprompt/internal/services/mcp"
)

func echoCommand() mcp.Command {
	return mcp.Command{
		Description: "Echo the payload",
		Executor: mcp.CommandExecutorFunc(func(ctx context.Context, request mcp.CommandRequest) (mcp.CommandResponse, error) {
			var payload struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(request.Payload, &payload); err != nil {
				return mcp.CommandResponse{}, mcp.NewRequestError(err)
			}
			if payload.Text == "fail" {
				return mcp.CommandResponse{}, errors.New("executor failed")
			}
			return mcp.CommandResponse{Output: payload.Text, Format: "raw"}, nil
		}),
	}
}

func TestServerHandlesCommands(t *testing.T) {
	t.Parallel()

	server := mcp.NewServer(mcp.Config{Commands: map[string]mcp.Command{"echo": echoCommand()}})
	handler := server.Handler()

	testCases := []struct {
		name           string
		method         string
		target         string
		body           string
		expectedStatus int
		expectedOutput string
		expectedError  string
	}{
		{name: "executes command", method: http.MethodPost, target: "/commands/echo", body: `{"text":"hello"}`, expectedStatus: http.StatusOK, expectedOutput: "hello"},
		{name: "bad payload", method: http.MethodPost, target: "/commands/echo", body: `{`, expectedStatus: http.StatusBadRequest, expectedError: "unexpected end"},
		{name: "executor failure", method: http.MethodPost, target: "/commands/echo", body: `{"text":"fail"}`, expectedStatus: http.StatusInternalServerError, expectedError: "executor failed"},
		{name: "unknown command", method: http.MethodPost, target: "/commands/missing", body: `{}`, expectedStatus: http.StatusNotFound, expectedError: "command not found"},
		{name: "wrong method", method: http.MethodGet, target: "/commands/echo", expectedStatus: http.StatusMethodNotAllowed},
		{name: "root health check", method: http.MethodGet, target: "/", expectedStatus: http.StatusOK},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			request := httptest.NewRequest(testCase.method, testCase.target, strings.NewReader(testCase.body))
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)
			if recorder.Code != testCase.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", testCase.expectedStatus, recorder.Code, recorder.Body.String())
			}
			if testCase.expectedOutput != "" {
				var response mcp.CommandResponse
				if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if response.Output != testCase.expectedOutput {
					t.Fatalf("expected output %q, got %q", testCase.expectedOutput, response.Output)
				}
			}
			if testCase.expectedError != "" {
				var failure map[string]string
				if err := json.Unmarshal(recorder.Body.Bytes(), &failure); err != nil {
					t.Fatalf("decode error response: %v", err)
				}
				if !strings.Contains(failure["error"], testCase.expectedError) {
					t.Fatalf("expected error containing %q, got %q", testCase.expectedError, failure["error"])
				}
			}
		})
	}
}

func TestServerRunExposesCapabilities(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := mcp.NewServer(mcp.Config{
		Address: "127.0.0.1:0",
		Commands: map[string]mcp.Command{
			"prompt": {Description: "Render a prompt", Executor: echoCommand().Executor},
			"check":  {Description: "Explain path decisions", Executor: echoCommand().Executor},
		},
	})
	addressCh := make(chan string, 1)
	errorCh := make(chan error, 1)
	go func() {
		errorCh <- server.Run(ctx, func(address string) {
			addressCh <- address
		})
	}()

	select {
	case address := <-addressCh:
		client := http.Client{Timeout: 2 * time.Second}
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+address+"/capabilities", nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		response, err := client.Do(request)
		if err != nil {
			t.Fatalf("perform request: %v", err)
		}
		defer response.Body.Close()

		var body struct {
			Capabilities []mcp.Capability `json:"capabilities"`
		}
		if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		expected := []mcp.Capability{
			{Name: "check", Description: "Explain path decisions"},
			{Name: "prompt", Description: "Render a prompt"},
		}
		if len(body.Capabilities) != len(expected) {
			t.Fatalf("expected %d capabilities, got %+v", len(expected), body.Capabilities)
		}
		for index, capability := range body.Capabilities {
			if capability != expected[index] {
				t.Fatalf("capability %d mismatch: got %+v, want %+v", index, capability, expected[index])
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server did not start")
	}

	cancel()
	if err := <-errorCh; err != nil {
		t.Fatalf("server error: %v", err)
	}
}
