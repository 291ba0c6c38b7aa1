package launchagent

const (
	labelConfigurationKeyConstant  = "label"
	binaryConfigurationKeyConstant = "binary"
)

// Configuration captures persistent settings for the launchagent command.
type Configuration struct {
	Label      string `mapstructure:"label"`
	BinaryPath string `mapstructure:"binary"`
}

// DefaultConfigurationValues returns the launchagent defaults keyed under the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	return map[string]any{
		prefix + "." + labelConfigurationKeyConstant:  DefaultLabel,
		prefix + "." + binaryConfigurationKeyConstant: DefaultBinaryPath,
	}
}
