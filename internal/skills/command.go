package skills

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/clawshield/internal/ui"
	"github.com/temirov/clawshield/internal/utils"
)

const (
	lockCommandUseConstant                = "lock"
	lockCommandShortDescriptionConstant   = "Create or update the skills lockfile"
	lockCommandLongDescriptionConstant    = "lock hashes every skill directory and records the digests in <workspace>/.clawshield/skills.lock.json, replacing any previous lockfile."
	verifyCommandUseConstant              = "verify"
	verifyCommandShortDescriptionConstant = "Verify skills against the lockfile"
	verifyCommandLongDescriptionConstant  = "verify hashes every skill directory and reports each one as OK, NEW, CHANGED, or MISSING relative to the lockfile. It exits with status 2 when anything drifted or no lockfile exists."
	flagJSONNameConstant                  = "json"
	flagJSONDescriptionConstant           = "Output JSON"
	lockFailedTemplateConstant            = "skills lock failed: %w"
	verifyFailedTemplateConstant          = "skills verification failed: %w"
	unexpectedArgumentsMessageConstant    = "command does not accept positional arguments"
	workspaceNotConfiguredMessageConstant = "workspace provider not configured"

	// VerificationFailedExitCode is the process status for drift or a missing lockfile.
	VerificationFailedExitCode = 2
)

var (
	errUnexpectedArguments    = errors.New(unexpectedArgumentsMessageConstant)
	errWorkspaceNotConfigured = errors.New(workspaceNotConfiguredMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the skills configuration.
type ConfigurationProvider func() Configuration

// commandDependencies holds the collaborators shared by the lock and verify builders.
type commandDependencies struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	WorkspaceProvider     WorkspaceProvider
	Discoverer            SkillDiscoverer
	LockRepository        LockRepository
	ProvenanceResolver    ProvenanceResolver
}

// LockCommandBuilder assembles the lock command.
type LockCommandBuilder commandDependencies

// VerifyCommandBuilder assembles the verify command.
type VerifyCommandBuilder commandDependencies

// Build constructs the lock command.
func (builder *LockCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   lockCommandUseConstant,
		Short: lockCommandShortDescriptionConstant,
		Long:  lockCommandLongDescriptionConstant,
		RunE:  builder.run,
	}
	command.Flags().Bool(flagJSONNameConstant, false, flagJSONDescriptionConstant)
	return command, nil
}

func (builder *LockCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	dependencies := commandDependencies(*builder)
	service, workspace, resolveError := dependencies.resolve()
	if resolveError != nil {
		return resolveError
	}

	outcome, lockError := service.Lock(command.Context(), workspace)
	if lockError != nil {
		return fmt.Errorf(lockFailedTemplateConstant, lockError)
	}

	jsonOutput, _ := command.Flags().GetBool(flagJSONNameConstant)
	if jsonOutput {
		return WriteLockJSON(command.OutOrStdout(), outcome)
	}
	return WriteLockSummary(command.OutOrStdout(), outcome)
}

// Build constructs the verify command.
func (builder *VerifyCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   verifyCommandUseConstant,
		Short: verifyCommandShortDescriptionConstant,
		Long:  verifyCommandLongDescriptionConstant,
		RunE:  builder.run,
	}
	command.Flags().Bool(flagJSONNameConstant, false, flagJSONDescriptionConstant)
	return command, nil
}

func (builder *VerifyCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	dependencies := commandDependencies(*builder)
	service, workspace, resolveError := dependencies.resolve()
	if resolveError != nil {
		return resolveError
	}

	outcome, verifyError := service.Verify(command.Context(), workspace)
	if verifyError != nil {
		return fmt.Errorf(verifyFailedTemplateConstant, verifyError)
	}

	outputWriter := command.OutOrStdout()
	jsonOutput, _ := command.Flags().GetBool(flagJSONNameConstant)
	var renderError error
	if jsonOutput {
		renderError = WriteVerificationJSON(outputWriter, outcome)
	} else {
		renderError = WriteVerification(outputWriter, ui.NewStatusStyler(outputWriter), outcome)
	}
	if renderError != nil {
		return renderError
	}

	if !outcome.OK() {
		return utils.ExitCodeError{Code: VerificationFailedExitCode}
	}
	return nil
}

func (dependencies commandDependencies) resolve() (*Service, Workspace, error) {
	if dependencies.WorkspaceProvider == nil {
		return nil, Workspace{}, errWorkspaceNotConfigured
	}
	workspace := dependencies.WorkspaceProvider()

	logger := dependencies.resolveLogger()
	configuration := DefaultConfiguration()
	if dependencies.ConfigurationProvider != nil {
		configuration = dependencies.ConfigurationProvider()
	}
	configuration = configuration.sanitize()

	discoverer := dependencies.Discoverer
	if discoverer == nil {
		discoverer = NewDiscoverer(DiscovererOptions{
			Logger:         logger,
			MarkerFileName: configuration.MarkerFile,
			WorkerCount:    configuration.Workers,
		})
	}

	lockRepository := dependencies.LockRepository
	if lockRepository == nil {
		lockRepository = NewLockStore(utils.SystemClock{})
	}

	service, serviceError := NewService(logger, discoverer, lockRepository, dependencies.ProvenanceResolver)
	if serviceError != nil {
		return nil, Workspace{}, serviceError
	}
	return service, workspace, nil
}

func (dependencies commandDependencies) resolveLogger() *zap.Logger {
	if dependencies.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := dependencies.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
