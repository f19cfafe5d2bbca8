package commands

// Warning messages reported through PromptOptions.Warn.
const (
	WarningAccessPathFormat = "Warning: error accessing path %s: %v"
	WarningFileReadFormat   = "Warning: failed to read file %s: %v"
	WarningTokenCountFormat = "Warning: failed to count tokens for %s: %v"
	WarningFileTooLarge     = "Warning: skipping %s: %s exceeds the %s size limit"
	WarningBinaryFile       = "Warning: skipping binary file %s"
	WarningIgnoredInput     = "Warning: skipping %s: matched exclude pattern %s"
)
