package launchagent

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant                   = "launchagent"
	commandShortDescriptionConstant      = "Create a macOS LaunchAgent plist for clawshield watch"
	commandLongDescriptionConstant       = "launchagent renders a LaunchAgent that runs `clawshield watch` at login and keeps it alive. The plist is printed unless --write names a destination."
	flagLabelNameConstant                = "label"
	flagLabelDescriptionConstant         = "LaunchAgent label"
	flagBinaryNameConstant               = "bin"
	flagBinaryDescriptionConstant        = "Path to clawshield binary"
	flagIntervalNameConstant             = "interval"
	flagIntervalDescriptionConstant      = "Watch interval in seconds"
	flagWriteNameConstant                = "write"
	flagWriteDescriptionConstant         = "Write plist to the specified path"
	wroteTemplateConstant                = "Wrote LaunchAgent to %s\n"
	suggestedPathTemplateConstant        = "Suggested path: %s\n"
	plistFileModeConstant                = 0o644
	plistDirectoryModeConstant           = 0o755
	writeErrorTemplateConstant           = "write launch agent %s: %w"
	launchAgentWrittenLogMessageConstant = "launch agent written"
	logFieldPathConstant                 = "path"
	unexpectedArgumentsMessageConstant   = "launchagent does not accept positional arguments"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the launchagent configuration.
type ConfigurationProvider func() Configuration

// WatchIntervalProvider supplies the configured watch interval.
type WatchIntervalProvider func() time.Duration

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// CommandBuilder assembles the launchagent command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	WatchIntervalProvider WatchIntervalProvider
	HomeDirectoryProvider HomeDirectoryProvider
}

// Build constructs the launchagent command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}
	command.Flags().String(flagLabelNameConstant, "", flagLabelDescriptionConstant)
	command.Flags().String(flagBinaryNameConstant, "", flagBinaryDescriptionConstant)
	command.Flags().Int(flagIntervalNameConstant, 0, flagIntervalDescriptionConstant)
	command.Flags().String(flagWriteNameConstant, "", flagWriteDescriptionConstant)
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	options := builder.resolveOptions(command)
	plist := Render(options)
	outputWriter := command.OutOrStdout()

	destination, _ := command.Flags().GetString(flagWriteNameConstant)
	if len(destination) > 0 {
		if writeError := writePlist(destination, plist); writeError != nil {
			return writeError
		}
		builder.resolveLogger().Info(launchAgentWrittenLogMessageConstant, zap.String(logFieldPathConstant, destination))
		_, printError := fmt.Fprintf(outputWriter, wroteTemplateConstant, destination)
		return printError
	}

	if _, printError := io.WriteString(outputWriter, plist); printError != nil {
		return printError
	}
	homeDirectory, homeError := builder.homeDirectory()
	if homeError != nil {
		return homeError
	}
	_, printError := fmt.Fprintf(outputWriter, suggestedPathTemplateConstant, SuggestedPath(homeDirectory, options.normalized().Label))
	return printError
}

func (builder *CommandBuilder) resolveOptions(command *cobra.Command) Options {
	options := Options{}
	if builder.ConfigurationProvider != nil {
		configuration := builder.ConfigurationProvider()
		options.Label = configuration.Label
		options.BinaryPath = configuration.BinaryPath
	}
	if builder.WatchIntervalProvider != nil {
		options.IntervalSeconds = int(builder.WatchIntervalProvider() / time.Second)
	}

	if command.Flags().Changed(flagLabelNameConstant) {
		options.Label, _ = command.Flags().GetString(flagLabelNameConstant)
	}
	if command.Flags().Changed(flagBinaryNameConstant) {
		options.BinaryPath, _ = command.Flags().GetString(flagBinaryNameConstant)
	}
	if command.Flags().Changed(flagIntervalNameConstant) {
		options.IntervalSeconds, _ = command.Flags().GetInt(flagIntervalNameConstant)
	}
	return options
}

func (builder *CommandBuilder) homeDirectory() (string, error) {
	if builder.HomeDirectoryProvider == nil {
		return os.UserHomeDir()
	}
	return builder.HomeDirectoryProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func writePlist(destination string, plist string) error {
	if directoryError := os.MkdirAll(filepath.Dir(destination), plistDirectoryModeConstant); directoryError != nil {
		return fmt.Errorf(writeErrorTemplateConstant, destination, directoryError)
	}
	if writeError := os.WriteFile(destination, []byte(plist), plistFileModeConstant); writeError != nil {
		return fmt.Errorf(writeErrorTemplateConstant, destination, writeError)
	}
	return nil
}
