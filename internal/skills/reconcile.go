package skills

// Reconcile classifies the current skills against the lock record.
// Current skills are reported in discovery order, followed by lock entries that are no
// longer present, in lock order. Every path from either side appears exactly once.
// When the lock lists a path more than once, its last entry is the expected one.
func Reconcile(currentSkills []SkillRecord, lockRecord LockRecord) ReconciliationResult {
	expectedByPath := make(map[string]SkillRecord, len(lockRecord.Skills))
	for _, lockedSkill := range lockRecord.Skills {
		expectedByPath[lockedSkill.Path] = lockedSkill
	}

	entries := make([]ReconciliationEntry, 0, len(currentSkills)+len(lockRecord.Skills))
	seenCurrentPaths := make(map[string]struct{}, len(currentSkills))
	for _, currentSkill := range currentSkills {
		if _, duplicate := seenCurrentPaths[currentSkill.Path]; duplicate {
			continue
		}
		seenCurrentPaths[currentSkill.Path] = struct{}{}

		entry := ReconciliationEntry{Name: currentSkill.Name, Path: currentSkill.Path}
		lockedSkill, locked := expectedByPath[currentSkill.Path]
		switch {
		case !locked:
			entry.Status = StatusNew
		case lockedSkill.Digest != currentSkill.Digest:
			entry.Status = StatusChanged
		default:
			entry.Status = StatusUnchanged
		}
		if locked {
			delete(expectedByPath, currentSkill.Path)
		}
		entries = append(entries, entry)
	}

	for _, lockedSkill := range lockRecord.Skills {
		expectedSkill, unresolved := expectedByPath[lockedSkill.Path]
		if !unresolved {
			continue
		}
		delete(expectedByPath, lockedSkill.Path)
		entries = append(entries, ReconciliationEntry{Status: StatusMissing, Name: expectedSkill.Name, Path: expectedSkill.Path})
	}

	result := ReconciliationResult{OK: true, Entries: entries}
	for _, entry := range entries {
		if entry.Status.IsDrift() {
			result.OK = false
			break
		}
	}
	return result
}
