package profilekit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCheckerAccessThroughGroup tests that group permits grant access
func TestCheckerAccessThroughGroup(t *testing.T) {
	datasets := testDatasetProfiles(t)
	src := testACLSource(t)

	tests := []struct {
		name     string
		checker  *Checker
		dataset  string
		expected string
	}{
		{
			name:     "Web user reads through WEBGRP",
			checker:  NewChecker("WEBUSR1", "WEBGRP"),
			dataset:  "SYS1.PARMLIB",
			expected: "READ",
		},
		{
			name:     "Systems programmer alters through SYSPROG",
			checker:  NewChecker("IBMUSER", "SYSPROG"),
			dataset:  "SYS1.PARMLIB",
			expected: "ALTER",
		},
		{
			name:     "Stranger falls back to universal access",
			checker:  NewChecker("NOBODY"),
			dataset:  "SYS1.PARMLIB",
			expected: "READ",
		},
		{
			name:     "Production data grants nothing by default",
			checker:  NewChecker("NOBODY"),
			dataset:  "PROD.PAYROLL.DATA",
			expected: "NONE",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			level, err := tc.checker.Access(datasets, src, tc.dataset)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, level)
		})
	}
}

// TestCheckerUserPermitOverridesGroup tests that the user's own weaker permit
// wins over a stronger group permit
func TestCheckerUserPermitOverridesGroup(t *testing.T) {
	profiles, err := NewFrame(FrameSpec{
		Kind:    KindDatasetProfile,
		Columns: []string{"DSBD_NAME", "DSBD_UACC"},
		Index:   []string{"DSBD_NAME"},
		Rows:    [][]string{{"PAY.**", "NONE"}},
	})
	require.NoError(t, err)

	access, err := NewFrame(FrameSpec{
		Kind:    KindDatasetAccess,
		Columns: []string{"DSACC_NAME", "DSACC_AUTH_ID", "DSACC_ACCESS"},
		Index:   []string{"DSACC_NAME", "DSACC_AUTH_ID"},
		Rows: [][]string{
			{"PAY.**", "PAYGRP", "ALTER"},
			{"PAY.**", "ALICE", "READ"},
		},
	})
	require.NoError(t, err)

	src := ACLSource{Access: []*Frame{access}}

	level, err := NewChecker("ALICE", "PAYGRP").Access(profiles, src, "PAY.Q1.DATA")
	require.NoError(t, err)
	assert.Equal(t, "READ", level)

	level, err = NewChecker("BOB", "PAYGRP").Access(profiles, src, "PAY.Q1.DATA")
	require.NoError(t, err)
	assert.Equal(t, "ALTER", level)
}

// TestCheckerNoGoverningProfile tests the empty-result contract
func TestCheckerNoGoverningProfile(t *testing.T) {
	datasets := testDatasetProfiles(t)
	src := testACLSource(t)
	checker := NewChecker("IBMUSER", "SYSPROG")

	level, err := checker.Access(datasets, src, "UNOWNED.DATA")
	require.NoError(t, err)
	assert.Equal(t, "", level)

	ok, err := checker.Allowed(datasets, src, "UNOWNED.DATA", "READ")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestCheckerAllowed tests the boolean convenience form
func TestCheckerAllowed(t *testing.T) {
	datasets := testDatasetProfiles(t)
	src := testACLSource(t)

	ok, err := NewChecker("IBMUSER", "SYSPROG").Allowed(datasets, src, "SYS1.PARMLIB", "ALTER")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewChecker("WEBUSR1", "WEBGRP").Allowed(datasets, src, "SYS1.PARMLIB", "UPDATE")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestCheckerInClass tests general-resource checks scoped to a class
func TestCheckerInClass(t *testing.T) {
	generals := testGeneralProfiles(t)
	src := ACLSource{
		Access:       []*Frame{testGeneralAccess(t)},
		GroupMembers: testGroupMembers(t),
	}
	checker := NewChecker("IBMUSER", "SYSPROG")

	level, err := checker.AccessInClass(generals, src, "FACILITY", "BPX.DAEMON")
	require.NoError(t, err)
	assert.Equal(t, "READ", level)

	ok, err := checker.AllowedInClass(generals, src, "FACILITY", "BPX.DAEMON", "UPDATE")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckerUserID(t *testing.T) {
	assert.Equal(t, "IBMUSER", NewChecker("IBMUSER").UserID())
}
