package profile

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/clawshield/internal/gatewayconfig"
	"github.com/temirov/clawshield/internal/utils"
	"github.com/temirov/clawshield/internal/utils/flags"
)

const (
	profileCommandUseConstant              = "profile <name>"
	profileCommandShortDescriptionConstant = "Show safe profile snippets"
	profileCommandLongDescriptionConstant  = "profile prints a hardened gateway configuration snippet to merge into the gateway configuration by hand."
	applyCommandUseConstant                = "apply <name>"
	applyCommandShortDescriptionConstant   = "Apply a safe profile to the gateway config"
	applyCommandLongDescriptionConstant    = "apply merges a hardened profile into the gateway configuration. It only reports the changes unless --write is given, in which case the previous file is kept as a timestamped backup."
	flagFormatNameConstant                 = "format"
	flagFormatDescriptionConstant          = "Snippet format."
	flagTokenNameConstant                  = "token"
	flagTokenDescriptionConstant           = "Set gateway auth token in the profile"
	flagWriteNameConstant                  = "write"
	flagWriteDescriptionConstant           = "Write changes to the config file"
	flagForceNameConstant                  = "force"
	flagForceDescriptionConstant           = "Allow writing even if config read fails"
	configReadFailedTemplateConstant       = "Config read failed: %s\nUse --force to write a new config."
	profileAppliedLogMessageConstant       = "profile applied"
	logFieldConfigPathConstant             = "config_path"
	logFieldBackupPathConstant             = "backup_path"
	logFieldChangeCountConstant            = "change_count"
	snapshotNotConfiguredMessageConstant   = "gateway configuration provider not configured"
)

var errSnapshotNotConfigured = errors.New(snapshotNotConfiguredMessageConstant)

var snippetFormats = flags.NewChoiceSet(FormatJSON, FormatJSON, FormatYAML)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// SnapshotProvider supplies the resolved gateway configuration.
type SnapshotProvider func() gatewayconfig.Snapshot

// ProfileCommandBuilder assembles the profile command.
type ProfileCommandBuilder struct {
	SnapshotProvider SnapshotProvider
}

// Build constructs the profile command.
func (builder *ProfileCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   profileCommandUseConstant,
		Short: profileCommandShortDescriptionConstant,
		Long:  profileCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}
	command.Flags().String(flagFormatNameConstant, FormatJSON, snippetFormats.Usage(flagFormatDescriptionConstant))
	return command, nil
}

func (builder *ProfileCommandBuilder) run(command *cobra.Command, arguments []string) error {
	profile, lookupError := Lookup(arguments[0], "")
	if lookupError != nil {
		return lookupError
	}
	if builder.SnapshotProvider == nil {
		return errSnapshotNotConfigured
	}

	currentBind := ""
	if bind := builder.SnapshotProvider().Load.Config.Gateway.Bind; bind != nil {
		currentBind = *bind
	}

	requestedFormat, _ := command.Flags().GetString(flagFormatNameConstant)
	format, supported := snippetFormats.Normalize(requestedFormat)
	if !supported {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, requestedFormat)
	}
	return WriteSnippet(command.OutOrStdout(), profile, currentBind, format)
}

// ApplyCommandBuilder assembles the apply command.
type ApplyCommandBuilder struct {
	LoggerProvider   LoggerProvider
	SnapshotProvider SnapshotProvider
	Clock            utils.Clock
}

// Build constructs the apply command.
func (builder *ApplyCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   applyCommandUseConstant,
		Short: applyCommandShortDescriptionConstant,
		Long:  applyCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}
	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().Bool(flagWriteNameConstant, false, flagWriteDescriptionConstant)
	command.Flags().Bool(flagForceNameConstant, false, flagForceDescriptionConstant)
	return command, nil
}

func (builder *ApplyCommandBuilder) run(command *cobra.Command, arguments []string) error {
	token, _ := command.Flags().GetString(flagTokenNameConstant)
	writeMode, _ := command.Flags().GetBool(flagWriteNameConstant)
	forceMode, _ := command.Flags().GetBool(flagForceNameConstant)

	profile, lookupError := Lookup(arguments[0], token)
	if lookupError != nil {
		return lookupError
	}
	if builder.SnapshotProvider == nil {
		return errSnapshotNotConfigured
	}

	snapshot := builder.SnapshotProvider()
	if snapshot.Load.Failed() && !forceMode {
		return fmt.Errorf(configReadFailedTemplateConstant, snapshot.Load.Error)
	}

	plan := BuildPlan(snapshot.Load.Document, profile)
	report := ApplyReport{ConfigPath: snapshot.ConfigPath, Written: writeMode, Changes: plan.Changes}

	if writeMode {
		backupPath, writeError := NewWriter(builder.Clock).Write(snapshot.ConfigPath, plan.Merged)
		if writeError != nil {
			return writeError
		}
		report.BackupPath = backupPath
		builder.resolveLogger().Info(
			profileAppliedLogMessageConstant,
			zap.String(logFieldConfigPathConstant, snapshot.ConfigPath),
			zap.String(logFieldBackupPathConstant, backupPath),
			zap.Int(logFieldChangeCountConstant, len(plan.Changes)),
		)
	}

	return WriteApplyReport(command.OutOrStdout(), report)
}

func (builder *ApplyCommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
