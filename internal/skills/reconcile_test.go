package skills_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/clawshield/internal/skills"
)

func skillRecord(name string, path string, digest string) skills.SkillRecord {
	return skills.SkillRecord{Name: name, Path: path, Digest: digest}
}

func TestReconcileClassification(testInstance *testing.T) {
	testCases := []struct {
		name            string
		current         []skills.SkillRecord
		locked          []skills.SkillRecord
		expectedEntries []skills.ReconciliationEntry
		expectedOK      bool
	}{
		{
			name:            "all_unchanged",
			current:         []skills.SkillRecord{skillRecord("a", "/s/a", "1"), skillRecord("b", "/s/b", "2")},
			locked:          []skills.SkillRecord{skillRecord("b", "/s/b", "2"), skillRecord("a", "/s/a", "1")},
			expectedEntries: []skills.ReconciliationEntry{{Status: skills.StatusUnchanged, Name: "a", Path: "/s/a"}, {Status: skills.StatusUnchanged, Name: "b", Path: "/s/b"}},
			expectedOK:      true,
		},
		{
			name:    "mixed_drift",
			current: []skills.SkillRecord{skillRecord("a", "/s/a", "1"), skillRecord("new", "/s/new", "9"), skillRecord("b", "/s/b", "changed")},
			locked:  []skills.SkillRecord{skillRecord("a", "/s/a", "1"), skillRecord("gone", "/s/gone", "3"), skillRecord("b", "/s/b", "2")},
			expectedEntries: []skills.ReconciliationEntry{
				{Status: skills.StatusUnchanged, Name: "a", Path: "/s/a"},
				{Status: skills.StatusNew, Name: "new", Path: "/s/new"},
				{Status: skills.StatusChanged, Name: "b", Path: "/s/b"},
				{Status: skills.StatusMissing, Name: "gone", Path: "/s/gone"},
			},
		},
		{
			name:            "empty_current_marks_everything_missing",
			locked:          []skills.SkillRecord{skillRecord("a", "/s/a", "1"), skillRecord("b", "/s/b", "2")},
			expectedEntries: []skills.ReconciliationEntry{{Status: skills.StatusMissing, Name: "a", Path: "/s/a"}, {Status: skills.StatusMissing, Name: "b", Path: "/s/b"}},
		},
		{
			name:            "empty_lock_marks_everything_new",
			current:         []skills.SkillRecord{skillRecord("a", "/s/a", "1")},
			expectedEntries: []skills.ReconciliationEntry{{Status: skills.StatusNew, Name: "a", Path: "/s/a"}},
		},
		{
			name:            "both_empty",
			expectedEntries: []skills.ReconciliationEntry{},
			expectedOK:      true,
		},
		{
			name:            "same_name_distinct_paths",
			current:         []skills.SkillRecord{skillRecord("shared", "/one/shared", "1"), skillRecord("shared", "/two/shared", "2")},
			locked:          []skills.SkillRecord{skillRecord("shared", "/one/shared", "1"), skillRecord("shared", "/two/shared", "3")},
			expectedEntries: []skills.ReconciliationEntry{{Status: skills.StatusUnchanged, Name: "shared", Path: "/one/shared"}, {Status: skills.StatusChanged, Name: "shared", Path: "/two/shared"}},
		},
		{
			name:            "duplicate_paths_reported_once",
			current:         []skills.SkillRecord{skillRecord("a", "/s/a", "1"), skillRecord("a", "/s/a", "1")},
			locked:          []skills.SkillRecord{skillRecord("a", "/s/a", "1"), skillRecord("a", "/s/a", "1"), skillRecord("z", "/s/z", "0"), skillRecord("z", "/s/z", "0")},
			expectedEntries: []skills.ReconciliationEntry{{Status: skills.StatusUnchanged, Name: "a", Path: "/s/a"}, {Status: skills.StatusMissing, Name: "z", Path: "/s/z"}},
		},
		{
			name:            "duplicate_locked_path_uses_last_entry",
			current:         []skills.SkillRecord{skillRecord("a", "/s/a", "2")},
			locked:          []skills.SkillRecord{skillRecord("a", "/s/a", "1"), skillRecord("a", "/s/a", "2")},
			expectedEntries: []skills.ReconciliationEntry{{Status: skills.StatusUnchanged, Name: "a", Path: "/s/a"}},
			expectedOK:      true,
		},
		{
			name:            "duplicate_missing_path_reports_last_name",
			locked:          []skills.SkillRecord{skillRecord("first", "/s/x", "1"), skillRecord("other", "/s/y", "2"), skillRecord("last", "/s/x", "3")},
			expectedEntries: []skills.ReconciliationEntry{{Status: skills.StatusMissing, Name: "last", Path: "/s/x"}, {Status: skills.StatusMissing, Name: "other", Path: "/s/y"}},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			result := skills.Reconcile(testCase.current, skills.LockRecord{Skills: testCase.locked})
			require.Equal(testInstance, testCase.expectedEntries, result.Entries)
			require.Equal(testInstance, testCase.expectedOK, result.OK)
		})
	}
}

func TestReconcilePartitionsUnionOfPaths(testInstance *testing.T) {
	current := []skills.SkillRecord{
		skillRecord("a", "/a", "1"),
		skillRecord("b", "/b", "2"),
		skillRecord("c", "/c", "3"),
		skillRecord("d", "/d", "4"),
	}
	locked := []skills.SkillRecord{
		skillRecord("b", "/b", "2"),
		skillRecord("c", "/c", "x"),
		skillRecord("e", "/e", "5"),
		skillRecord("f", "/f", "6"),
	}

	result := skills.Reconcile(current, skills.LockRecord{Skills: locked})

	currentPaths := map[string]string{}
	for _, record := range current {
		currentPaths[record.Path] = record.Digest
	}
	lockedPaths := map[string]string{}
	for _, record := range locked {
		lockedPaths[record.Path] = record.Digest
	}

	classified := map[string]skills.Status{}
	for _, entry := range result.Entries {
		_, duplicate := classified[entry.Path]
		require.False(testInstance, duplicate, entry.Path)
		classified[entry.Path] = entry.Status
	}

	for path := range currentPaths {
		require.Contains(testInstance, classified, path)
	}
	for path := range lockedPaths {
		require.Contains(testInstance, classified, path)
	}
	require.Len(testInstance, classified, 6)

	for path, status := range classified {
		currentDigest, inCurrent := currentPaths[path]
		lockedDigest, inLock := lockedPaths[path]
		switch status {
		case skills.StatusNew:
			require.True(testInstance, inCurrent && !inLock, path)
		case skills.StatusMissing:
			require.True(testInstance, inLock && !inCurrent, path)
		case skills.StatusChanged:
			require.True(testInstance, inCurrent && inLock && currentDigest != lockedDigest, path)
		case skills.StatusUnchanged:
			require.True(testInstance, inCurrent && inLock && currentDigest == lockedDigest, path)
		}
	}
	require.False(testInstance, result.OK)
	require.Equal(testInstance, 1, result.Count(skills.StatusUnchanged))
	require.Equal(testInstance, 2, result.Count(skills.StatusNew))
	require.Equal(testInstance, 1, result.Count(skills.StatusChanged))
	require.Equal(testInstance, 2, result.Count(skills.StatusMissing))
}
