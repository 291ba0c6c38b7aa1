package exposure

import "time"

const (
	portConfigurationKeyConstant     = "port"
	intervalConfigurationKeyConstant = "interval"
)

// Configuration captures persistent settings for the exposure command.
type Configuration struct {
	Port int `mapstructure:"port"`
}

// WatchConfiguration captures persistent settings for the watch command.
type WatchConfiguration struct {
	Interval time.Duration `mapstructure:"interval"`
}

// DefaultConfigurationValues returns the exposure defaults keyed under the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	return map[string]any{
		prefix + "." + portConfigurationKeyConstant: DefaultPort,
	}
}

// DefaultWatchConfigurationValues returns the watch defaults keyed under the provided prefix.
func DefaultWatchConfigurationValues(prefix string) map[string]any {
	return map[string]any{
		prefix + "." + intervalConfigurationKeyConstant: DefaultWatchInterval.String(),
	}
}
