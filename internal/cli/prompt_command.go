package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codeprompt/internal/config"
	"github.com/temirov/codeprompt/internal/output"
	"github.com/temirov/codeprompt/internal/pathfilter"
	"github.com/temirov/codeprompt/internal/services/stream"
	"github.com/temirov/codeprompt/internal/tokenizer"
	"github.com/temirov/codeprompt/internal/types"
)

const (
	promptUse              = "prompt [paths...]"
	promptAlias            = "p"
	promptShortDescription = "render files as an LLM prompt (" + promptAlias + ")"
	promptLongDescription  = `Collect the files under the given paths and render them as a single prompt.
Files are kept when no exclude pattern matches and an include pattern does. A path named
explicitly as a file skips the include check but still honours the exclude patterns.`
	promptUsageExample = `  # Package the current project
  codeprompt prompt

  # Add a custom ignore list and copy the result
  codeprompt prompt --ignore "**/testdata/**,**/*.snap" --copy ./internal

  # Emit JSON with token counts
  codeprompt prompt --format json --tokens --model gpt-4o .`

	ignoreFlagName         = "ignore"
	ignoreFlagDescription  = "comma-separated glob patterns to exclude"
	includeFlagName        = "include"
	includeFlagDescription = "comma-separated glob patterns to include"
	noGitignoreFlagName    = "no-gitignore"
	noGitignoreDescription = "do not use .gitignore"
	noIgnoreFlagName       = "no-ignore"
	noIgnoreDescription    = "do not use .promptignore"
	treeFlagName           = "tree"
	treeFlagDescription    = "include the directory tree"
	summaryFlagName        = "summary"
	summaryFlagDescription = "include the summary of selected files"
	tokensFlagName         = "tokens"
	tokensFlagDescription  = "include token counts"
	modelFlagName          = "model"
	modelFlagDescription   = "tokenizer model to use for token counting"
	maxSizeFlagName        = "max-size"
	maxSizeFlagDescription = "skip files larger than this many bytes (0 disables the limit)"
	copyFlagName           = "copy"
	copyFlagDescription    = "copy the rendered prompt to the clipboard"

	defaultMaxFileSize int64 = 1 << 20
	defaultTreeEnabled       = true
	defaultSummaryEnabled    = true

	patternListSeparator = ","

	logMessageInvalidPattern = "ignoring malformed pattern"
	logMessagePathDecision   = "path decision"
	logMessageSkippedRoot    = "skipping prompt root"
	logMessageCopied         = "copied prompt to clipboard"
)

// promptFlags stores the raw flag values of the prompt command.
type promptFlags struct {
	ignorePatterns    string
	includePatterns   string
	disableGitignore  bool
	disableIgnoreFile bool
	format            string
	tree              bool
	summary           bool
	tokens            bool
	model             string
	maxFileSize       int64
	copyToClipboard   bool
}

// promptSettings is the effective configuration of one prompt run after flags have been
// layered over the configuration files.
type promptSettings struct {
	customIgnore    pathfilter.PatternList
	customInclude   pathfilter.PatternList
	useGitignore    bool
	useIgnoreFile   bool
	format          string
	tree            bool
	summary         bool
	tokens          bool
	model           string
	maxFileSize     int64
	copyToClipboard bool
}

// defaultPromptFlags returns the flag values used when nothing is set on the command line.
func defaultPromptFlags() promptFlags {
	return promptFlags{
		format:      types.FormatRaw,
		tree:        defaultTreeEnabled,
		summary:     defaultSummaryEnabled,
		model:       tokenizer.DefaultModel,
		maxFileSize: defaultMaxFileSize,
	}
}

// createPromptCommand returns the prompt subcommand.
func (app *application) createPromptCommand() *cobra.Command {
	var flags promptFlags

	promptCommand := &cobra.Command{
		Use:     promptUse,
		Aliases: []string{promptAlias},
		Short:   promptShortDescription,
		Long:    promptLongDescription,
		Example: promptUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			applicationConfiguration, err := app.loadConfiguration()
			if err != nil {
				return err
			}
			settings, err := resolvePromptSettings(command, flags, applicationConfiguration.Prompt)
			if err != nil {
				return err
			}
			return app.runPrompt(command.Context(), arguments, settings)
		},
	}

	defaults := defaultPromptFlags()
	flagSet := promptCommand.Flags()
	flagSet.StringVar(&flags.ignorePatterns, ignoreFlagName, "", ignoreFlagDescription)
	flagSet.StringVar(&flags.includePatterns, includeFlagName, "", includeFlagDescription)
	registerBooleanFlag(flagSet, &flags.disableGitignore, noGitignoreFlagName, defaults.disableGitignore, noGitignoreDescription)
	registerBooleanFlag(flagSet, &flags.disableIgnoreFile, noIgnoreFlagName, defaults.disableIgnoreFile, noIgnoreDescription)
	flagSet.StringVar(&flags.format, formatFlagName, defaults.format, formatFlagDescription)
	registerBooleanFlag(flagSet, &flags.tree, treeFlagName, defaults.tree, treeFlagDescription)
	registerBooleanFlag(flagSet, &flags.summary, summaryFlagName, defaults.summary, summaryFlagDescription)
	registerBooleanFlag(flagSet, &flags.tokens, tokensFlagName, defaults.tokens, tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, defaults.model, modelFlagDescription)
	flagSet.Int64Var(&flags.maxFileSize, maxSizeFlagName, defaults.maxFileSize, maxSizeFlagDescription)
	registerBooleanFlag(flagSet, &flags.copyToClipboard, copyFlagName, defaults.copyToClipboard, copyFlagDescription)
	return promptCommand
}

func (app *application) loadConfiguration() (config.ApplicationConfiguration, error) {
	return config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: app.workingDirectory,
		ExplicitFilePath: app.configPath,
	})
}

// resolvePromptSettings layers explicitly set flags over configuration values over the
// flag defaults.
func resolvePromptSettings(command *cobra.Command, flags promptFlags, configuration config.PromptConfiguration) (promptSettings, error) {
	changed := func(name string) bool {
		return command != nil && command.Flags().Changed(name)
	}

	settings := promptSettings{
		useGitignore:    config.BoolValue(configuration.Paths.UseGitignore, !flags.disableGitignore),
		useIgnoreFile:   config.BoolValue(configuration.Paths.UseIgnoreFile, !flags.disableIgnoreFile),
		tree:            config.BoolValue(configuration.Tree, flags.tree),
		summary:         config.BoolValue(configuration.Summary, flags.summary),
		tokens:          config.BoolValue(configuration.Tokens.Enabled, flags.tokens),
		copyToClipboard: config.BoolValue(configuration.Clipboard, flags.copyToClipboard),
		model:           flags.model,
		maxFileSize:     flags.maxFileSize,
	}
	if changed(noGitignoreFlagName) {
		settings.useGitignore = !flags.disableGitignore
	}
	if changed(noIgnoreFlagName) {
		settings.useIgnoreFile = !flags.disableIgnoreFile
	}
	if changed(treeFlagName) {
		settings.tree = flags.tree
	}
	if changed(summaryFlagName) {
		settings.summary = flags.summary
	}
	if changed(tokensFlagName) {
		settings.tokens = flags.tokens
	}
	if changed(copyFlagName) {
		settings.copyToClipboard = flags.copyToClipboard
	}
	if configuration.Tokens.Model != "" && !changed(modelFlagName) {
		settings.model = configuration.Tokens.Model
	}
	if configuration.Paths.MaxFileSize != nil && !changed(maxSizeFlagName) {
		settings.maxFileSize = *configuration.Paths.MaxFileSize
	}

	rawIgnore := strings.Join(configuration.Paths.Ignore, patternListSeparator)
	if changed(ignoreFlagName) {
		rawIgnore = flags.ignorePatterns
	}
	rawInclude := strings.Join(configuration.Paths.Include, patternListSeparator)
	if changed(includeFlagName) {
		rawInclude = flags.includePatterns
	}
	settings.customIgnore = pathfilter.ParsePatternList(rawIgnore)
	settings.customInclude = pathfilter.ParsePatternList(rawInclude)

	format := flags.format
	if configuration.Format != "" && !changed(formatFlagName) {
		format = configuration.Format
	}
	normalizedFormat, err := normalizeFormat(format)
	if err != nil {
		return promptSettings{}, err
	}
	settings.format = normalizedFormat
	return settings, nil
}

// runPrompt renders the prompt to stdout and, when requested, copies it to the clipboard.
func (app *application) runPrompt(ctx context.Context, paths []string, settings promptSettings) error {
	if !settings.copyToClipboard {
		return app.renderPrompt(ctx, paths, settings, app.stdout, app.stderr)
	}
	var promptBuffer bytes.Buffer
	if err := app.renderPrompt(ctx, paths, settings, &promptBuffer, app.stderr); err != nil {
		return err
	}
	if _, err := app.stdout.Write(promptBuffer.Bytes()); err != nil {
		return err
	}
	if err := app.copier.Copy(promptBuffer.String()); err != nil {
		return fmt.Errorf("copy prompt to clipboard: %w", err)
	}
	app.logger.Info(logMessageCopied, zap.Int("bytes", promptBuffer.Len()))
	return nil
}

// renderPrompt streams every validated path through one renderer. A root that fails is
// logged and skipped so the remaining roots still render.
func (app *application) renderPrompt(ctx context.Context, paths []string, settings promptSettings, stdout io.Writer, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	validatedPaths, err := resolveAndValidatePaths(app.workingDirectory, paths)
	if err != nil {
		return err
	}

	var tokenCounter tokenizer.Counter
	var tokenModel string
	if settings.tokens {
		tokenCounter, tokenModel, err = app.newCounter(tokenizer.Config{Model: settings.model})
		if err != nil {
			return err
		}
	}

	renderer, err := output.NewStreamRenderer(settings.format, stdout, stderr, output.RawOptions{
		IncludeTree:    settings.tree,
		IncludeSummary: settings.summary,
	})
	if err != nil {
		return err
	}

	for _, validatedPath := range validatedPaths {
		if streamErr := app.runPromptPath(ctx, renderer, validatedPath, settings, tokenCounter, tokenModel); streamErr != nil {
			app.logger.Warn(logMessageSkippedRoot, zap.String("path", validatedPath.AbsolutePath), zap.Error(streamErr))
		}
	}
	return renderer.Flush()
}

func (app *application) runPromptPath(
	ctx context.Context,
	renderer output.StreamRenderer,
	path types.ValidatedPath,
	settings promptSettings,
	tokenCounter tokenizer.Counter,
	tokenModel string,
) error {
	customInclude := settings.customInclude
	var repositoryIgnore pathfilter.PatternList
	if path.IsDir {
		repositoryPatterns, loadErr := config.LoadRecursiveIgnorePatterns(path.AbsolutePath, settings.useGitignore, settings.useIgnoreFile, false)
		if loadErr != nil {
			return loadErr
		}
		repositoryIgnore = repositoryPatterns.Ignore
		customInclude = customInclude.Merge(repositoryPatterns.Include)
	}

	filter := pathfilter.New(pathfilter.Options{
		CustomIgnore:     settings.customIgnore,
		CustomInclude:    customInclude,
		RepositoryIgnore: repositoryIgnore,
	})
	for _, patternError := range filter.InvalidPatterns() {
		app.logger.Warn(logMessageInvalidPattern, zap.String("root", path.AbsolutePath), zap.Error(patternError))
	}

	producer := func(streamCtx context.Context, events chan<- stream.Event) error {
		options := stream.PromptOptions{
			Root:          path.AbsolutePath,
			BaseDirectory: app.workingDirectory,
			Filter:        filter,
			MaxFileSize:   settings.maxFileSize,
			TokenCounter:  tokenCounter,
			TokenModel:    tokenModel,
			IncludeTree:   settings.tree,
			Trace:         app.traceDecision,
		}
		return stream.StreamPrompt(streamCtx, options, events)
	}

	return dispatchStream(ctx, producer, renderer.Handle)
}

func (app *application) traceDecision(decision pathfilter.Decision) {
	app.logger.Debug(logMessagePathDecision,
		zap.String("path", decision.Path),
		zap.String("status", output.DecisionStatus(decision)),
		zap.String("source", string(decision.Source)),
		zap.String("pattern", decision.MatchedPattern),
	)
}
