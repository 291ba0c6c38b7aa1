package exposure

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/clawshield/internal/ui"
	"github.com/temirov/clawshield/internal/utils"
)

const (
	exposureCommandUseConstant              = "exposure"
	exposureCommandShortDescriptionConstant = "Check if the gateway is exposed"
	exposureCommandLongDescriptionConstant  = "exposure lists the sockets listening on the gateway port and flags any that accept connections beyond loopback. It exits with status 2 when the gateway is exposed or listeners cannot be inspected."
	watchCommandUseConstant                 = "watch"
	watchCommandShortDescriptionConstant    = "Continuously watch gateway exposure"
	watchCommandLongDescriptionConstant     = "watch repeats the exposure check on an interval until interrupted."
	flagPortNameConstant                    = "port"
	flagPortDescriptionConstant             = "Override gateway port"
	flagIntervalNameConstant                = "interval"
	flagIntervalDescriptionConstant         = "Check interval in seconds (minimum 5)"
	exposureCheckedLogMessageConstant       = "exposure checked"
	logFieldPortConstant                    = "port"
	logFieldOKConstant                      = "ok"
	logFieldListenerCountConstant           = "listener_count"
	unexpectedArgumentsMessageConstant      = "command does not accept positional arguments"

	// ExposedExitCode is the process status when the gateway is exposed or cannot be inspected.
	ExposedExitCode = 2
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the exposure configuration.
type ConfigurationProvider func() Configuration

// WatchConfigurationProvider supplies the watch configuration.
type WatchConfigurationProvider func() WatchConfiguration

// CommandBuilder assembles the exposure command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	GatewayPortProvider   PortProvider
	Executor              CommandExecutor
	CommandEventsObserver CommandEventsObserverProvider
}

// Build constructs the exposure command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   exposureCommandUseConstant,
		Short: exposureCommandShortDescriptionConstant,
		Long:  exposureCommandLongDescriptionConstant,
		RunE:  builder.run,
	}
	command.Flags().Int(flagPortNameConstant, 0, flagPortDescriptionConstant)
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	logger := resolveLogger(builder.LoggerProvider)
	executor, executorError := resolveCommandExecutor(builder.Executor, logger, builder.CommandEventsObserver)
	if executorError != nil {
		return executorError
	}

	port := resolvePort(command, builder.GatewayPortProvider, builder.configuration())
	report := NewChecker(executor, logger).Check(command.Context(), port)
	logger.Debug(
		exposureCheckedLogMessageConstant,
		zap.Int(logFieldPortConstant, report.Port),
		zap.Bool(logFieldOKConstant, report.OK),
		zap.Int(logFieldListenerCountConstant, len(report.Listeners)),
	)

	outputWriter := command.OutOrStdout()
	if writeError := WriteReport(outputWriter, ui.NewStatusStyler(outputWriter), report); writeError != nil {
		return writeError
	}
	if !report.OK {
		return utils.ExitCodeError{Code: ExposedExitCode}
	}
	return nil
}

func (builder *CommandBuilder) configuration() Configuration {
	if builder.ConfigurationProvider == nil {
		return Configuration{Port: DefaultPort}
	}
	return builder.ConfigurationProvider()
}

// WatchCommandBuilder assembles the watch command.
type WatchCommandBuilder struct {
	LoggerProvider             LoggerProvider
	ConfigurationProvider      ConfigurationProvider
	WatchConfigurationProvider WatchConfigurationProvider
	GatewayPortProvider        PortProvider
	Executor                   CommandExecutor
	CommandEventsObserver      CommandEventsObserverProvider
	TickerFactory              TickerFactory
}

// Build constructs the watch command.
func (builder *WatchCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   watchCommandUseConstant,
		Short: watchCommandShortDescriptionConstant,
		Long:  watchCommandLongDescriptionConstant,
		RunE:  builder.run,
	}
	command.Flags().Int(flagPortNameConstant, 0, flagPortDescriptionConstant)
	command.Flags().Int(flagIntervalNameConstant, int(DefaultWatchInterval/time.Second), flagIntervalDescriptionConstant)
	return command, nil
}

func (builder *WatchCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	logger := resolveLogger(builder.LoggerProvider)
	executor, executorError := resolveCommandExecutor(builder.Executor, logger, builder.CommandEventsObserver)
	if executorError != nil {
		return executorError
	}

	configuration := Configuration{Port: DefaultPort}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	port := resolvePort(command, builder.GatewayPortProvider, configuration)

	interval := DefaultWatchInterval
	if builder.WatchConfigurationProvider != nil {
		interval = builder.WatchConfigurationProvider().Interval
	}
	if command.Flags().Changed(flagIntervalNameConstant) {
		intervalSeconds, _ := command.Flags().GetInt(flagIntervalNameConstant)
		interval = time.Duration(intervalSeconds) * time.Second
	}

	signalContext, stopSignals := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	outputWriter := command.OutOrStdout()
	watcher := NewWatcher(NewChecker(executor, logger), builder.TickerFactory)
	return watcher.Run(signalContext, utils.NewFlushingWriter(outputWriter), ui.NewStatusStyler(outputWriter), port, interval)
}

func resolvePort(command *cobra.Command, gatewayPortProvider PortProvider, configuration Configuration) int {
	if command.Flags().Changed(flagPortNameConstant) {
		flagPort, _ := command.Flags().GetInt(flagPortNameConstant)
		if flagPort > 0 {
			return flagPort
		}
	}
	if gatewayPortProvider != nil {
		if gatewayPort := gatewayPortProvider(); gatewayPort > 0 {
			return gatewayPort
		}
	}
	if configuration.Port > 0 {
		return configuration.Port
	}
	return DefaultPort
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
