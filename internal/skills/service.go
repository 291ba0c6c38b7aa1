package skills

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	lockWrittenLogMessageConstant              = "wrote skills lock"
	lockMissingLogMessageConstant              = "skills lock not found"
	provenanceUnavailableMessageConstant       = "ignoring unreadable provenance manifest"
	verificationCompleteMessageConstant        = "verified skills against lock"
	logFieldLockPathConstant                   = "lock_path"
	logFieldWorkspaceConstant                  = "workspace"
	logFieldSkillCountConstant                 = "skill_count"
	logFieldManifestPathConstant               = "manifest_path"
	logFieldDriftCountConstant                 = "drift_count"
	discovererNotConfiguredMessageConstant     = "skill discoverer not configured"
	lockRepositoryNotConfiguredMessageConstant = "lock repository not configured"
)

// ErrDiscovererNotConfigured indicates that NewService received a nil discoverer.
var ErrDiscovererNotConfigured = errors.New(discovererNotConfiguredMessageConstant)

// ErrLockRepositoryNotConfigured indicates that NewService received a nil lock repository.
var ErrLockRepositoryNotConfigured = errors.New(lockRepositoryNotConfiguredMessageConstant)

// LockOutcome describes a written lock file.
type LockOutcome struct {
	LockPath string
	Record   LockRecord
}

// VerifyOutcome describes a verification run. Result is empty when LockFound is false.
type VerifyOutcome struct {
	LockPath  string
	LockFound bool
	Result    ReconciliationResult
}

// OK reports whether the workspace matches an existing lock.
func (outcome VerifyOutcome) OK() bool {
	return outcome.LockFound && outcome.Result.OK
}

// Service coordinates discovery, locking, and verification for a workspace.
type Service struct {
	logger             *zap.Logger
	discoverer         SkillDiscoverer
	lockRepository     LockRepository
	provenanceResolver ProvenanceResolver
}

// NewService constructs a Service. A nil provenance resolver reads the workspace manifest.
func NewService(logger *zap.Logger, discoverer SkillDiscoverer, lockRepository LockRepository, provenanceResolver ProvenanceResolver) (*Service, error) {
	if discoverer == nil {
		return nil, ErrDiscovererNotConfigured
	}
	if lockRepository == nil {
		return nil, ErrLockRepositoryNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if provenanceResolver == nil {
		provenanceResolver = func(workspacePath string) (ProvenanceMap, error) {
			return ResolveProvenance(ProvenanceManifestPath(workspacePath))
		}
	}
	return &Service{
		logger:             logger,
		discoverer:         discoverer,
		lockRepository:     lockRepository,
		provenanceResolver: provenanceResolver,
	}, nil
}

// Lock discovers the workspace skills and overwrites the lock file with them.
func (service *Service) Lock(executionContext context.Context, workspace Workspace) (LockOutcome, error) {
	skillRecords, discoveryError := service.discoverer.Discover(executionContext, workspace.SkillDirectories, service.resolveProvenance(workspace.Path))
	if discoveryError != nil {
		return LockOutcome{}, discoveryError
	}

	lockPath, record, writeError := service.lockRepository.Write(workspace.Path, skillRecords)
	if writeError != nil {
		return LockOutcome{}, writeError
	}

	service.logger.Debug(
		lockWrittenLogMessageConstant,
		zap.String(logFieldLockPathConstant, lockPath),
		zap.Int(logFieldSkillCountConstant, len(record.Skills)),
	)

	return LockOutcome{LockPath: lockPath, Record: record}, nil
}

// Verify reconciles the workspace skills against the lock file.
// Discovery is skipped when no lock file exists.
func (service *Service) Verify(executionContext context.Context, workspace Workspace) (VerifyOutcome, error) {
	outcome := VerifyOutcome{LockPath: LockPath(workspace.Path)}

	lockRecord, lockFound, readError := service.lockRepository.Read(workspace.Path)
	if readError != nil {
		return VerifyOutcome{}, readError
	}
	if !lockFound {
		service.logger.Debug(lockMissingLogMessageConstant, zap.String(logFieldLockPathConstant, outcome.LockPath))
		return outcome, nil
	}
	outcome.LockFound = true

	skillRecords, discoveryError := service.discoverer.Discover(executionContext, workspace.SkillDirectories, ProvenanceMap{})
	if discoveryError != nil {
		return VerifyOutcome{}, discoveryError
	}

	outcome.Result = Reconcile(skillRecords, lockRecord)
	service.logger.Debug(
		verificationCompleteMessageConstant,
		zap.String(logFieldWorkspaceConstant, workspace.Path),
		zap.Int(logFieldSkillCountConstant, len(skillRecords)),
		zap.Int(logFieldDriftCountConstant, len(outcome.Result.Entries)-outcome.Result.Count(StatusUnchanged)),
	)

	return outcome, nil
}

func (service *Service) resolveProvenance(workspacePath string) ProvenanceMap {
	provenanceMap, resolveError := service.provenanceResolver(workspacePath)
	if resolveError != nil {
		service.logger.Warn(
			provenanceUnavailableMessageConstant,
			zap.String(logFieldManifestPathConstant, ProvenanceManifestPath(workspacePath)),
			zap.Error(resolveError),
		)
	}
	if provenanceMap == nil {
		return ProvenanceMap{}
	}
	return provenanceMap
}
