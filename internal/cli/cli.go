// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/codeprompt/internal/services/clipboard"
	"github.com/temirov/codeprompt/internal/services/stream"
	"github.com/temirov/codeprompt/internal/tokenizer"
	"github.com/temirov/codeprompt/internal/types"
	"github.com/temirov/codeprompt/internal/utils"
)

const (
	rootUse              = "codeprompt"
	rootShortDescription = "package a codebase into a single LLM prompt"
	rootLongDescription  = `codeprompt selects the relevant files of a project and renders them as one prompt.
Built-in exclude and include pattern sets decide which files are kept; --ignore and --include extend them.
Use "codeprompt check" to see why a path is kept or dropped and "codeprompt patterns" to list the built-in sets.`
	versionTemplate = "codeprompt version: {{.Version}}\n"

	verboseFlagName        = "verbose"
	verboseFlagDescription = "log pattern decisions and diagnostics"
	configFlagName         = "config"
	configFlagDescription  = "configuration file to use instead of ./" + utils.ConfigFileName
	formatFlagName         = "format"
	formatFlagDescription  = "output format: raw, json or xml"

	defaultPath          = "."
	invalidFormatMessage = "invalid format value '%s'"

	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNoValidPaths indicates that all paths are invalid.
	errorNoValidPaths = "no valid paths"
)

// application carries the collaborators shared by every subcommand.
type application struct {
	logger           *zap.Logger
	stdout           io.Writer
	stderr           io.Writer
	copier           clipboard.Copier
	workingDirectory string
	newCounter       func(tokenizer.Config) (tokenizer.Counter, string, error)
	configPath       string
	verbose          bool
}

func newApplication(logger *zap.Logger, stdout io.Writer, stderr io.Writer) *application {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &application{
		logger:     logger,
		stdout:     stdout,
		stderr:     stderr,
		copier:     clipboard.NewService(),
		newCounter: tokenizer.NewCounter,
	}
}

// Execute runs the codeprompt application with the process arguments.
func Execute(ctx context.Context, logger *zap.Logger) error {
	app := newApplication(logger, os.Stdout, os.Stderr)
	rootCommand := app.createRootCommand()
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

func normalizeFormat(format string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))
	if normalized == "" {
		return types.FormatRaw, nil
	}
	if !isSupportedFormat(normalized) {
		return "", fmt.Errorf(invalidFormatMessage, format)
	}
	return normalized, nil
}

// createRootCommand builds the root Cobra command.
func (app *application) createRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Version:      utils.GetApplicationVersion(),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if app.workingDirectory == "" {
				workingDirectory, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("unable to determine working directory: %w", err)
				}
				app.workingDirectory = workingDirectory
			}
			if !app.verbose {
				return nil
			}
			verboseLogger, err := utils.NewApplicationLogger(true)
			if err != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, err)
			}
			app.logger = verboseLogger
			return nil
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.SetOut(app.stdout)
	rootCommand.SetErr(app.stderr)
	registerBooleanFlag(rootCommand.PersistentFlags(), &app.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&app.configPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		app.createPromptCommand(),
		app.createCheckCommand(),
		app.createPatternsCommand(),
		app.createConfigCommand(),
		app.createServeCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// resolveAndValidatePaths converts input paths to absolute form relative to workingDirectory
// and validates their existence.
func resolveAndValidatePaths(workingDirectory string, inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		candidatePath := inputPath
		if !filepath.IsAbs(candidatePath) && workingDirectory != "" {
			candidatePath = filepath.Join(workingDirectory, candidatePath)
		}
		absolutePath, absolutePathError := filepath.Abs(candidatePath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, types.ValidatedPath{AbsolutePath: cleanPath, IsDir: info.IsDir()})
	}
	if len(result) == 0 {
		return nil, errors.New(errorNoValidPaths)
	}
	return result, nil
}
