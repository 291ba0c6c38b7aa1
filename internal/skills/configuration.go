package skills

import "strings"

const (
	markerFileConfigurationKeyConstant = "marker_file"
	workersConfigurationKeyConstant    = "workers"
)

// Configuration captures persistent settings for the lock and verify commands.
type Configuration struct {
	MarkerFile string `mapstructure:"marker_file"`
	Workers    int    `mapstructure:"workers"`
}

// DefaultConfiguration returns baseline values for skill integrity tracking.
func DefaultConfiguration() Configuration {
	return Configuration{
		MarkerFile: DefaultMarkerFileName,
		Workers:    DefaultWorkerCount,
	}
}

// DefaultConfigurationValues returns the defaults keyed under the provided configuration prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + "." + markerFileConfigurationKeyConstant: defaults.MarkerFile,
		prefix + "." + workersConfigurationKeyConstant:    defaults.Workers,
	}
}

func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration
	sanitized.MarkerFile = strings.TrimSpace(configuration.MarkerFile)
	if len(sanitized.MarkerFile) == 0 {
		sanitized.MarkerFile = DefaultMarkerFileName
	}
	if sanitized.Workers < 1 {
		sanitized.Workers = DefaultWorkerCount
	}
	return sanitized
}
