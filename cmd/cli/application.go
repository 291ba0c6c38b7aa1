package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/clawshield/internal/audit"
	"github.com/temirov/clawshield/internal/execshell"
	"github.com/temirov/clawshield/internal/exposure"
	"github.com/temirov/clawshield/internal/gatewayconfig"
	"github.com/temirov/clawshield/internal/launchagent"
	"github.com/temirov/clawshield/internal/profile"
	"github.com/temirov/clawshield/internal/skills"
	"github.com/temirov/clawshield/internal/ui"
	"github.com/temirov/clawshield/internal/utils"
	"github.com/temirov/clawshield/internal/utils/flags"
)

const (
	applicationNameConstant                 = "clawshield"
	applicationShortDescriptionConstant     = "Security guardrails for an OpenClaw gateway"
	applicationLongDescriptionConstant      = "clawshield audits the gateway configuration, applies a hardened profile, pins installed skills to a lockfile, and watches the gateway port for exposure."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a clawshield configuration file (YAML or JSON)."
	gatewayConfigFlagNameConstant           = "gateway-config"
	gatewayConfigFlagUsageConstant          = "Override the gateway configuration path."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "CLAWSHIELD"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	gatewayConfigFieldConstant              = "gateway_config"
	gatewayConfigLoadFailedMessageConstant  = "gateway configuration unreadable"
	logFieldErrorReasonConstant             = "reason"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandDebugMessageConstant         = "clawshield CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentsConstant               = "arguments"
	defaultConfigurationSearchPathConstant  = "."
	userConfigurationSearchPathConstant     = "$HOME/.clawshield"
	toolsConfigurationKeyConstant           = "tools"
	gatewayConfigPathConfigurationKey       = toolsConfigurationKeyConstant + ".gateway.config_path"
	skillsConfigurationKeyConstant          = toolsConfigurationKeyConstant + ".skills"
	exposureConfigurationKeyConstant        = toolsConfigurationKeyConstant + ".exposure"
	watchConfigurationKeyConstant           = toolsConfigurationKeyConstant + ".watch"
	launchAgentConfigurationKeyConstant     = toolsConfigurationKeyConstant + ".launchagent"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool family.
type ApplicationToolsConfiguration struct {
	Gateway     GatewayConfiguration        `mapstructure:"gateway"`
	Skills      skills.Configuration        `mapstructure:"skills"`
	Exposure    exposure.Configuration      `mapstructure:"exposure"`
	Watch       exposure.WatchConfiguration `mapstructure:"watch"`
	LaunchAgent launchagent.Configuration   `mapstructure:"launchagent"`
}

// GatewayConfiguration locates the gateway configuration file.
type GatewayConfiguration struct {
	ConfigPath string `mapstructure:"config_path"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	gatewayConfigFlagValue string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
	environment            gatewayconfig.Environment
	gatewaySnapshot        *gatewayconfig.Snapshot
}

// NewApplication assembles a fully wired CLI application instance for the current process environment.
func NewApplication() *Application {
	return NewApplicationWithEnvironment(gatewayconfig.ProcessEnvironment())
}

// NewApplicationWithEnvironment assembles an application whose gateway paths resolve against environment.
func NewApplicationWithEnvironment(environment gatewayconfig.Environment) *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant, userConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		environment:            environment,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.gatewayConfigFlagValue, gatewayConfigFlagNameConstant, "", gatewayConfigFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flags.NewChoiceSet(string(utils.LogLevelInfo), string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError)).Usage(logLevelFlagUsageConstant))
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flags.NewChoiceSet(string(utils.LogFormatStructured), string(utils.LogFormatStructured), string(utils.LogFormatConsole)).Usage(logFormatFlagUsageConstant))

	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	commandBuilders := []interface {
		Build() (*cobra.Command, error)
	}{
		&pathsCommandBuilder{
			SnapshotProvider:       application.gatewaySnapshotValue,
			ToolConfigPathProvider: application.toolConfigurationPath,
		},
		&audit.CommandBuilder{
			LoggerProvider:   loggerProvider,
			SnapshotProvider: application.gatewaySnapshotValue,
		},
		&profile.ProfileCommandBuilder{
			SnapshotProvider: application.gatewaySnapshotValue,
		},
		&profile.ApplyCommandBuilder{
			LoggerProvider:   loggerProvider,
			SnapshotProvider: application.gatewaySnapshotValue,
		},
		&skills.LockCommandBuilder{
			LoggerProvider:        loggerProvider,
			ConfigurationProvider: application.skillsConfiguration,
			WorkspaceProvider:     application.skillsWorkspace,
		},
		&skills.VerifyCommandBuilder{
			LoggerProvider:        loggerProvider,
			ConfigurationProvider: application.skillsConfiguration,
			WorkspaceProvider:     application.skillsWorkspace,
		},
		&exposure.CommandBuilder{
			LoggerProvider:        loggerProvider,
			ConfigurationProvider: application.exposureConfiguration,
			GatewayPortProvider:   application.gatewayPort,
			CommandEventsObserver: application.commandEventsObserver,
		},
		&exposure.WatchCommandBuilder{
			LoggerProvider:             loggerProvider,
			ConfigurationProvider:      application.exposureConfiguration,
			WatchConfigurationProvider: application.watchConfiguration,
			GatewayPortProvider:        application.gatewayPort,
			CommandEventsObserver:      application.commandEventsObserver,
		},
		&launchagent.CommandBuilder{
			LoggerProvider:        loggerProvider,
			ConfigurationProvider: application.launchAgentConfiguration,
			WatchIntervalProvider: application.watchInterval,
		},
	}

	for _, commandBuilder := range commandBuilders {
		subcommand, buildError := commandBuilder.Build()
		if buildError == nil {
			cobraCommand.AddCommand(subcommand)
		}
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:   string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:  string(utils.LogFormatStructured),
		gatewayConfigPathConfigurationKey: "",
	}
	defaultValueSets := []map[string]any{
		skills.DefaultConfigurationValues(skillsConfigurationKeyConstant),
		exposure.DefaultConfigurationValues(exposureConfigurationKeyConstant),
		exposure.DefaultWatchConfigurationValues(watchConfigurationKeyConstant),
		launchagent.DefaultConfigurationValues(launchAgentConfigurationKeyConstant),
	}
	for _, defaultValueSet := range defaultValueSets {
		for configurationKey, configurationValue := range defaultValueSet {
			defaultValues[configurationKey] = configurationValue
		}
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, gatewayConfigFlagNameConstant) {
		application.configuration.Tools.Gateway.ConfigPath = application.gatewayConfigFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(strings.ToLower(strings.TrimSpace(application.configuration.Common.LogLevel))),
		utils.LogFormat(strings.ToLower(strings.TrimSpace(application.configuration.Common.LogFormat))),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger
	application.gatewaySnapshot = nil

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithToolConfigurationPath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

// gatewaySnapshotValue resolves the gateway configuration once per execution.
func (application *Application) gatewaySnapshotValue() gatewayconfig.Snapshot {
	if application.gatewaySnapshot != nil {
		return *application.gatewaySnapshot
	}

	snapshot := gatewayconfig.Resolve(application.configuration.Tools.Gateway.ConfigPath, application.environment)
	if snapshot.Load.Failed() {
		application.logger.Debug(
			gatewayConfigLoadFailedMessageConstant,
			zap.String(gatewayConfigFieldConstant, snapshot.ConfigPath),
			zap.String(logFieldErrorReasonConstant, snapshot.Load.Error),
		)
	}
	application.gatewaySnapshot = &snapshot
	return snapshot
}

func (application *Application) toolConfigurationPath() string {
	if application.rootCommand == nil {
		return application.configurationMetadata.ConfigFileUsed
	}
	configurationFilePath, available := application.commandContextAccessor.ToolConfigurationPath(application.rootCommand.Context())
	if !available {
		return application.configurationMetadata.ConfigFileUsed
	}
	return configurationFilePath
}

func (application *Application) skillsConfiguration() skills.Configuration {
	return application.configuration.Tools.Skills
}

func (application *Application) skillsWorkspace() skills.Workspace {
	snapshot := application.gatewaySnapshotValue()
	return skills.Workspace{Path: snapshot.WorkspacePath, SkillDirectories: snapshot.SkillDirectories}
}

func (application *Application) exposureConfiguration() exposure.Configuration {
	return application.configuration.Tools.Exposure
}

func (application *Application) watchConfiguration() exposure.WatchConfiguration {
	return application.configuration.Tools.Watch
}

func (application *Application) watchInterval() time.Duration {
	return application.configuration.Tools.Watch.Interval
}

func (application *Application) launchAgentConfiguration() launchagent.Configuration {
	return application.configuration.Tools.LaunchAgent
}

func (application *Application) gatewayPort() int {
	return application.gatewaySnapshotValue().Load.Config.Gateway.Port
}

func (application *Application) commandEventsObserver() execshell.CommandEventObserver {
	if !application.humanReadableLoggingEnabled() {
		return nil
	}
	return ui.NewConsoleCommandEventLogger(application.logger)
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Strings(logFieldArgumentsConstant, arguments),
	)
	return command.Help()
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
