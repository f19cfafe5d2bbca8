package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/codeprompt/internal/config"
	"github.com/temirov/codeprompt/internal/utils"
)

const (
	configUse                  = "config"
	configShortDescription     = "manage codeprompt configuration"
	configInitUse              = "init"
	configInitShortDescription = "write a default configuration file"
	configInitLongDescription  = "Write the default configuration to ./" + utils.ConfigFileName + ` or, with --global,
to ~/` + utils.GlobalConfigDirectoryName + "/" + utils.GlobalConfigFileName + `. Existing files are kept unless --force is given.`
	globalFlagName        = "global"
	globalFlagDescription = "write the global configuration"
	forceFlagName         = "force"
	forceFlagDescription  = "overwrite an existing configuration file"
	configCreatedFormat   = "Configuration written to %s\n"
)

// createConfigCommand returns the config command group.
func (app *application) createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	configCommand.AddCommand(app.createConfigInitCommand())
	return configCommand
}

func (app *application) createConfigInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Long:  configInitLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: app.workingDirectory,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(app.stdout, configCreatedFormat, writtenPath)
			return err
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
