package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codeprompt/internal/commands"
	"github.com/temirov/codeprompt/internal/output"
	"github.com/temirov/codeprompt/internal/pathfilter"
)

const (
	checkUse              = "check <paths...>"
	checkAlias            = "k"
	checkShortDescription = "explain why paths are kept or dropped (" + checkAlias + ")"
	checkLongDescription  = `Classify relative paths against the exclude and include pattern sets.
Each path is reported as ignored, included or not-included together with the first
pattern that decided it. Directories can be checked with a trailing slash.`
	checkUsageExample = `  # Check a few paths
  codeprompt check .env src/main.go assets/logo.png

  # Check a directory with a custom ignore list
  codeprompt check --ignore "build/" build/`

	workersFlagName        = "workers"
	workersFlagDescription = "number of concurrent classifiers (0 uses all CPUs)"

	patternsUse              = "patterns"
	patternsShortDescription = "list the built-in exclude and include patterns"
	patternsLongDescription  = `Print the built-in exclude set followed by the built-in include set.
Custom --ignore and --include patterns are evaluated after these lists.`
)

type checkFlags struct {
	ignorePatterns  string
	includePatterns string
	format          string
	workers         int
}

// createCheckCommand returns the check subcommand.
func (app *application) createCheckCommand() *cobra.Command {
	var flags checkFlags

	checkCommand := &cobra.Command{
		Use:     checkUse,
		Aliases: []string{checkAlias},
		Short:   checkShortDescription,
		Long:    checkLongDescription,
		Example: checkUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, err := app.loadConfiguration()
			if err != nil {
				return err
			}
			format := flags.format
			if applicationConfiguration.Check.Format != "" && !command.Flags().Changed(formatFlagName) {
				format = applicationConfiguration.Check.Format
			}
			normalizedFormat, err := normalizeFormat(format)
			if err != nil {
				return err
			}

			rawIgnore := strings.Join(applicationConfiguration.Prompt.Paths.Ignore, patternListSeparator)
			if command.Flags().Changed(ignoreFlagName) {
				rawIgnore = flags.ignorePatterns
			}
			rawInclude := strings.Join(applicationConfiguration.Prompt.Paths.Include, patternListSeparator)
			if command.Flags().Changed(includeFlagName) {
				rawInclude = flags.includePatterns
			}
			return app.writeDecisions(command.Context(), app.stdout, normalizedFormat, rawIgnore, rawInclude, arguments, flags.workers)
		},
	}

	flagSet := checkCommand.Flags()
	flagSet.StringVar(&flags.ignorePatterns, ignoreFlagName, "", ignoreFlagDescription)
	flagSet.StringVar(&flags.includePatterns, includeFlagName, "", includeFlagDescription)
	flagSet.StringVar(&flags.format, formatFlagName, "", formatFlagDescription)
	flagSet.IntVar(&flags.workers, workersFlagName, 0, workersFlagDescription)
	return checkCommand
}

// writeDecisions classifies candidates against the built-in sets and the raw custom pattern
// strings and renders the decisions to writer.
func (app *application) writeDecisions(ctx context.Context, writer io.Writer, format string, rawIgnore string, rawInclude string, candidates []string, workers int) error {
	filter := pathfilter.New(pathfilter.Options{
		CustomIgnore:  pathfilter.ParsePatternList(rawIgnore),
		CustomInclude: pathfilter.ParsePatternList(rawInclude),
	})
	for _, patternError := range filter.InvalidPatterns() {
		app.logger.Warn(logMessageInvalidPattern, zap.Error(patternError))
	}
	slashPaths := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		slashPaths = append(slashPaths, filepath.ToSlash(candidate))
	}
	decisions, err := commands.ClassifyPaths(ctx, filter, slashPaths, workers)
	if err != nil {
		return err
	}
	return output.WriteDecisions(writer, format, decisions)
}

// createPatternsCommand returns the patterns subcommand.
func (app *application) createPatternsCommand() *cobra.Command {
	var format string

	patternsCommand := &cobra.Command{
		Use:   patternsUse,
		Short: patternsShortDescription,
		Long:  patternsLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			normalizedFormat, err := normalizeFormat(format)
			if err != nil {
				return err
			}
			return output.WritePatterns(app.stdout, normalizedFormat, pathfilter.DefaultExcludePatterns(), pathfilter.DefaultIncludePatterns())
		},
	}
	patternsCommand.Flags().StringVar(&format, formatFlagName, "", formatFlagDescription)
	return patternsCommand
}
