package utils

// Project file names and directories.
const (
	// IgnoreFileName is the name of the per-directory prompt ignore file.
	IgnoreFileName = ".promptignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".codeprompt.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".codeprompt"
	// GlobalConfigFileName is the name of the global configuration file.
	GlobalConfigFileName = "config.yaml"
)

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// Logger messages shared by the entry point.
const (
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	ApplicationExecutionFailedMessage       = "application execution failed"
)
