package audit

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/clawshield/internal/ui"
	"github.com/temirov/clawshield/internal/utils"
)

const (
	commandUseConstant                   = "audit"
	commandShortDescriptionConstant      = "Audit the gateway config for common security risks"
	commandLongDescriptionConstant       = "audit inspects the gateway configuration for open network binds, missing authentication, DM and group policies, agent sandboxing, and tool restrictions."
	flagJSONNameConstant                 = "json"
	flagJSONDescriptionConstant          = "Output JSON"
	auditCompletedLogMessageConstant     = "audit completed"
	logFieldConfigPathConstant           = "config_path"
	logFieldFindingCountConstant         = "finding_count"
	logFieldFailCountConstant            = "fail_count"
	unexpectedArgumentsMessageConstant   = "audit does not accept positional arguments"
	snapshotNotConfiguredMessageConstant = "gateway configuration provider not configured"
)

var (
	errUnexpectedArguments   = errors.New(unexpectedArgumentsMessageConstant)
	errSnapshotNotConfigured = errors.New(snapshotNotConfiguredMessageConstant)
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the audit cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider   LoggerProvider
	SnapshotProvider SnapshotProvider
	HostnameProvider HostnameProvider
	Clock            utils.Clock
}

// Build constructs the cobra command for gateway audits.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().Bool(flagJSONNameConstant, false, flagJSONDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}
	if builder.SnapshotProvider == nil {
		return errSnapshotNotConfigured
	}

	options := builder.parseOptions(command)
	snapshot := builder.SnapshotProvider()

	service := NewService(builder.Clock, builder.HostnameProvider)
	report := service.Run(snapshot.Load)

	builder.resolveLogger().Debug(
		auditCompletedLogMessageConstant,
		zap.String(logFieldConfigPathConstant, report.ConfigPath),
		zap.Int(logFieldFindingCountConstant, len(report.Findings)),
		zap.Int(logFieldFailCountConstant, report.Count(LevelFail)),
	)

	outputWriter := command.OutOrStdout()
	if options.JSONOutput {
		return WriteJSON(outputWriter, report)
	}
	return WriteText(outputWriter, ui.NewStatusStyler(outputWriter), report)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) CommandOptions {
	jsonOutput, _ := command.Flags().GetBool(flagJSONNameConstant)
	return CommandOptions{JSONOutput: jsonOutput}
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
