package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/codeprompt/internal/output"
	"github.com/temirov/codeprompt/internal/pathfilter"
	"github.com/temirov/codeprompt/internal/services/mcp"
	"github.com/temirov/codeprompt/internal/types"
)

const (
	serveUse              = "serve"
	serveShortDescription = "serve prompt, check and patterns over local HTTP"
	serveLongDescription  = `Start a local HTTP server for agents and editor integrations.
GET /capabilities lists the commands; POST /commands/{name} runs one with a JSON payload.
The server stops on interrupt.`
	serveUsageExample = `  # Serve on a fixed port
  codeprompt serve --address 127.0.0.1:7070

  # Request a prompt
  curl -s -X POST localhost:7070/commands/prompt -d '{"paths":["./internal"],"format":"raw"}'`

	addressFlagName        = "address"
	addressFlagDescription = "listen address"
	defaultServeAddress    = "127.0.0.1:0"
	serveListeningFormat   = "Listening on http://%s\n"

	promptCapabilityDescription   = "Render files as an LLM prompt"
	checkCapabilityDescription    = "Explain why paths are kept or dropped"
	patternsCapabilityDescription = "List the built-in exclude and include patterns"
)

// promptRequest is the JSON payload of the prompt command. Unset fields fall back to the
// configuration files and then to the command line defaults.
type promptRequest struct {
	Paths         []string `json:"paths"`
	Ignore        []string `json:"ignore"`
	Include       []string `json:"include"`
	UseGitignore  *bool    `json:"useGitignore"`
	UseIgnoreFile *bool    `json:"useIgnoreFile"`
	Format        string   `json:"format"`
	Tree          *bool    `json:"tree"`
	Summary       *bool    `json:"summary"`
	Tokens        *bool    `json:"tokens"`
	Model         string   `json:"model"`
	MaxFileSize   *int64   `json:"maxFileSize"`
}

type checkRequest struct {
	Paths   []string `json:"paths"`
	Ignore  []string `json:"ignore"`
	Include []string `json:"include"`
	Format  string   `json:"format"`
}

type patternsRequest struct {
	Format string `json:"format"`
}

// createServeCommand returns the serve subcommand.
func (app *application) createServeCommand() *cobra.Command {
	var address string

	serveCommand := &cobra.Command{
		Use:     serveUse,
		Short:   serveShortDescription,
		Long:    serveLongDescription,
		Example: serveUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			server := mcp.NewServer(mcp.Config{
				Address:  address,
				Commands: app.serverCommands(),
				Logger:   app.logger,
			})
			return server.Run(command.Context(), func(boundAddress string) {
				fmt.Fprintf(app.stdout, serveListeningFormat, boundAddress)
			})
		},
	}
	serveCommand.Flags().StringVar(&address, addressFlagName, defaultServeAddress, addressFlagDescription)
	return serveCommand
}

func (app *application) serverCommands() map[string]mcp.Command {
	return map[string]mcp.Command{
		types.CommandPrompt:   {Description: promptCapabilityDescription, Executor: mcp.CommandExecutorFunc(app.executePromptRequest)},
		types.CommandCheck:    {Description: checkCapabilityDescription, Executor: mcp.CommandExecutorFunc(app.executeCheckRequest)},
		types.CommandPatterns: {Description: patternsCapabilityDescription, Executor: mcp.CommandExecutorFunc(app.executePatternsRequest)},
	}
}

func decodePayload(payload json.RawMessage, target interface{}) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return mcp.NewRequestError(fmt.Errorf("decode request: %w", err))
	}
	return nil
}

func (app *application) executePromptRequest(ctx context.Context, request mcp.CommandRequest) (mcp.CommandResponse, error) {
	var payload promptRequest
	if err := decodePayload(request.Payload, &payload); err != nil {
		return mcp.CommandResponse{}, err
	}
	applicationConfiguration, err := app.loadConfiguration()
	if err != nil {
		return mcp.CommandResponse{}, err
	}
	settings, err := resolvePromptSettings(nil, defaultPromptFlags(), applicationConfiguration.Prompt)
	if err != nil {
		return mcp.CommandResponse{}, err
	}
	if err := payload.apply(&settings); err != nil {
		return mcp.CommandResponse{}, mcp.NewRequestError(err)
	}

	paths := payload.Paths
	if len(paths) == 0 {
		paths = []string{defaultPath}
	}
	var rendered, warnings bytes.Buffer
	if err := app.renderPrompt(ctx, paths, settings, &rendered, &warnings); err != nil {
		return mcp.CommandResponse{}, mcp.NewRequestError(err)
	}
	return mcp.CommandResponse{Output: rendered.String(), Format: settings.format, Warnings: splitWarnings(&warnings)}, nil
}

// apply overlays the fields set in the request onto settings.
func (payload promptRequest) apply(settings *promptSettings) error {
	if payload.Ignore != nil {
		settings.customIgnore = pathfilter.ParsePatternList(strings.Join(payload.Ignore, patternListSeparator))
	}
	if payload.Include != nil {
		settings.customInclude = pathfilter.ParsePatternList(strings.Join(payload.Include, patternListSeparator))
	}
	overlayBool(&settings.useGitignore, payload.UseGitignore)
	overlayBool(&settings.useIgnoreFile, payload.UseIgnoreFile)
	overlayBool(&settings.tree, payload.Tree)
	overlayBool(&settings.summary, payload.Summary)
	overlayBool(&settings.tokens, payload.Tokens)
	if payload.Model != "" {
		settings.model = payload.Model
	}
	if payload.MaxFileSize != nil {
		settings.maxFileSize = *payload.MaxFileSize
	}
	if payload.Format != "" {
		format, err := normalizeFormat(payload.Format)
		if err != nil {
			return err
		}
		settings.format = format
	}
	settings.copyToClipboard = false
	return nil
}

func overlayBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func (app *application) executeCheckRequest(ctx context.Context, request mcp.CommandRequest) (mcp.CommandResponse, error) {
	var payload checkRequest
	if err := decodePayload(request.Payload, &payload); err != nil {
		return mcp.CommandResponse{}, err
	}
	if len(payload.Paths) == 0 {
		return mcp.CommandResponse{}, mcp.NewRequestError(errors.New("paths are required"))
	}
	applicationConfiguration, err := app.loadConfiguration()
	if err != nil {
		return mcp.CommandResponse{}, err
	}
	format := payload.Format
	if format == "" {
		format = applicationConfiguration.Check.Format
	}
	normalizedFormat, err := normalizeFormat(format)
	if err != nil {
		return mcp.CommandResponse{}, mcp.NewRequestError(err)
	}
	ignore := applicationConfiguration.Prompt.Paths.Ignore
	if payload.Ignore != nil {
		ignore = payload.Ignore
	}
	include := applicationConfiguration.Prompt.Paths.Include
	if payload.Include != nil {
		include = payload.Include
	}

	var rendered bytes.Buffer
	if err := app.writeDecisions(ctx, &rendered, normalizedFormat, strings.Join(ignore, patternListSeparator), strings.Join(include, patternListSeparator), payload.Paths, 0); err != nil {
		return mcp.CommandResponse{}, err
	}
	return mcp.CommandResponse{Output: rendered.String(), Format: normalizedFormat}, nil
}

func (app *application) executePatternsRequest(ctx context.Context, request mcp.CommandRequest) (mcp.CommandResponse, error) {
	var payload patternsRequest
	if err := decodePayload(request.Payload, &payload); err != nil {
		return mcp.CommandResponse{}, err
	}
	format, err := normalizeFormat(payload.Format)
	if err != nil {
		return mcp.CommandResponse{}, mcp.NewRequestError(err)
	}
	var rendered bytes.Buffer
	if err := output.WritePatterns(&rendered, format, pathfilter.DefaultExcludePatterns(), pathfilter.DefaultIncludePatterns()); err != nil {
		return mcp.CommandResponse{}, err
	}
	return mcp.CommandResponse{Output: rendered.String(), Format: format}, nil
}

func splitWarnings(buffer *bytes.Buffer) []string {
	var warnings []string
	scanner := bufio.NewScanner(buffer)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			warnings = append(warnings, line)
		}
	}
	return warnings
}
