package utils

import "context"

type commandContextKey string

const toolConfigurationPathContextKey = commandContextKey("toolConfigurationPath")

// CommandContextAccessor stores values resolved by the root command for its subcommands.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithToolConfigurationPath records the clawshield configuration file that was loaded.
// An empty path means only embedded defaults and environment overrides applied.
func (accessor CommandContextAccessor) WithToolConfigurationPath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, toolConfigurationPathContextKey, configurationFilePath)
}

// ToolConfigurationPath returns the recorded configuration file path.
func (accessor CommandContextAccessor) ToolConfigurationPath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, available := executionContext.Value(toolConfigurationPathContextKey).(string)
	return configurationFilePath, available
}
