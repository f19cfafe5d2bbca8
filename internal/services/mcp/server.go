// Package mcp serves codeprompt commands to local agents and editor integrations over HTTP.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListenAddress    = "127.0.0.1:0"
	defaultShutdownDuration = 5 * time.Second
	maxRequestBodyBytes     = 1 << 20
	headerContentType       = "Content-Type"
	mimeTypeJSON            = "application/json"
	commandNameWildcard     = "name"
	errorCommandNotFound    = "command not found"
)

// Capability describes a command exposed by the server.
type Capability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CommandRequest holds the raw JSON payload supplied by a client.
type CommandRequest struct {
	Payload json.RawMessage
}

// CommandResponse contains the rendered output of a command.
type CommandResponse struct {
	Output   string   `json:"output"`
	Format   string   `json:"format"`
	Warnings []string `json:"warnings,omitempty"`
}

// CommandExecutor executes a command for an incoming request.
type CommandExecutor interface {
	Execute(ctx context.Context, request CommandRequest) (CommandResponse, error)
}

// CommandExecutorFunc adapts a function into a CommandExecutor.
type CommandExecutorFunc func(context.Context, CommandRequest) (CommandResponse, error)

// Execute invokes the underlying function.
func (executor CommandExecutorFunc) Execute(ctx context.Context, request CommandRequest) (CommandResponse, error) {
	return executor(ctx, request)
}

// Command pairs an executor with the description advertised for it.
type Command struct {
	Description string
	Executor    CommandExecutor
}

// RequestError marks a failure caused by the client's payload. It is answered with 400.
type RequestError struct {
	err error
}

// NewRequestError wraps err as a client error. A nil err stays nil.
func NewRequestError(err error) error {
	if err == nil {
		return nil
	}
	return &RequestError{err: err}
}

func (requestError *RequestError) Error() string {
	return requestError.err.Error()
}

func (requestError *RequestError) Unwrap() error {
	return requestError.err
}

// Config defines runtime options for the server.
type Config struct {
	Address         string
	Commands        map[string]Command
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
}

// Server lists capabilities on GET /capabilities and runs commands on POST /commands/{name}.
type Server struct {
	address         string
	commands        map[string]Command
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// NewServer creates a Server with defaults applied.
func NewServer(config Config) *Server {
	server := &Server{
		address:         config.Address,
		commands:        config.Commands,
		shutdownTimeout: config.ShutdownTimeout,
		logger:          config.Logger,
	}
	if server.address == "" {
		server.address = defaultListenAddress
	}
	if server.shutdownTimeout <= 0 {
		server.shutdownTimeout = defaultShutdownDuration
	}
	if server.commands == nil {
		server.commands = map[string]Command{}
	}
	if server.logger == nil {
		server.logger = zap.NewNop()
	}
	return server
}

// Capabilities returns the advertised commands sorted by name.
func (server *Server) Capabilities() []Capability {
	capabilities := make([]Capability, 0, len(server.commands))
	for name, command := range server.commands {
		capabilities = append(capabilities, Capability{Name: name, Description: command.Description})
	}
	sort.Slice(capabilities, func(left, right int) bool {
		return capabilities[left].Name < capabilities[right].Name
	})
	return capabilities
}

// Handler returns the HTTP routes of the server.
func (server *Server) Handler() http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("GET /capabilities", server.handleCapabilities)
	router.HandleFunc("GET /{$}", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	router.HandleFunc("POST /commands/{"+commandNameWildcard+"}", server.handleCommand)
	return router
}

// Run listens on the configured address and serves until ctx is cancelled. notify receives
// the bound address once the listener is active.
func (server *Server) Run(ctx context.Context, notify func(string)) error {
	listener, listenErr := net.Listen("tcp", server.address)
	if listenErr != nil {
		return fmt.Errorf("listen on %s: %w", server.address, listenErr)
	}

	httpServer := &http.Server{Handler: server.Handler(), ReadHeaderTimeout: server.shutdownTimeout}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		serveErr := httpServer.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", serveErr)
		}
		return nil
	})

	boundAddress := listener.Addr().String()
	server.logger.Info("server listening", zap.String("address", boundAddress))
	if notify != nil {
		notify(boundAddress)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.shutdownTimeout)
		defer cancel()
		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil && !errors.Is(shutdownErr, http.ErrServerClosed) {
			return fmt.Errorf("shutdown: %w", shutdownErr)
		}
		return nil
	})

	return group.Wait()
}

func (server *Server) handleCapabilities(writer http.ResponseWriter, request *http.Request) {
	payload := struct {
		Capabilities []Capability `json:"capabilities"`
	}{Capabilities: server.Capabilities()}
	server.writeJSON(writer, http.StatusOK, payload)
}

func (server *Server) handleCommand(writer http.ResponseWriter, request *http.Request) {
	commandName := request.PathValue(commandNameWildcard)
	command, found := server.commands[commandName]
	if !found {
		server.writeError(writer, http.StatusNotFound, errors.New(errorCommandNotFound))
		return
	}
	body, readErr := io.ReadAll(http.MaxBytesReader(writer, request.Body, maxRequestBodyBytes))
	if readErr != nil {
		server.writeError(writer, http.StatusBadRequest, fmt.Errorf("read request body: %w", readErr))
		return
	}

	response, executeErr := command.Executor.Execute(request.Context(), CommandRequest{Payload: json.RawMessage(body)})
	if executeErr != nil {
		statusCode := http.StatusInternalServerError
		var requestError *RequestError
		if errors.As(executeErr, &requestError) {
			statusCode = http.StatusBadRequest
		}
		server.logger.Warn("command failed", zap.String("command", commandName), zap.Int("status", statusCode), zap.Error(executeErr))
		server.writeError(writer, statusCode, executeErr)
		return
	}
	server.logger.Debug("command served", zap.String("command", commandName), zap.Int("bytes", len(response.Output)))
	server.writeJSON(writer, http.StatusOK, response)
}

func (server *Server) writeError(writer http.ResponseWriter, statusCode int, err error) {
	server.writeJSON(writer, statusCode, map[string]string{"error": err.Error()})
}

func (server *Server) writeJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	encoded, encodeErr := json.Marshal(payload)
	if encodeErr != nil {
		statusCode = http.StatusInternalServerError
		encoded, _ = json.Marshal(map[string]string{"error": fmt.Sprintf("encode response: %v", encodeErr)})
	}
	writer.Header().Set(headerContentType, mimeTypeJSON)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(append(encoded, '\n'))
}
