package profilekit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// governingSYS1 resolves the profile covering SYS1.PARMLIB in the fixtures.
func governingSYS1(t *testing.T) *Frame {
	t.Helper()
	out, err := testDatasetProfiles(t).Match(MatchNames("SYS1.PARMLIB"))
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	return out
}

// TestACLPermits tests the plain access list with group and uacc markers
func TestACLPermits(t *testing.T) {
	acl, err := governingSYS1(t).ACL(testACLSource(t), NewACLOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"NAME", "USER_ID", "AUTH_ID", "ACCESS"}, acl.Columns())

	expected := [][]string{
		{"SYS1.*", "*", "*", "NONE"},
		{"SYS1.*", "-group-", "SYSPROG", "ALTER"},
		{"SYS1.*", "-group-", "WEBGRP", "READ"},
		{"SYS1.*", "-uacc-", "-uacc-", "READ"},
	}
	if diff := cmp.Diff(expected, rowSet(acl)); diff != "" {
		t.Errorf("access list mismatch (-want +got):\n%s", diff)
	}
}

// TestACLExplode tests group explosion into member entries
func TestACLExplode(t *testing.T) {
	acl, err := governingSYS1(t).ACL(testACLSource(t), NewACLOptions().WithExplode())
	require.NoError(t, err)

	users, err := acl.Column("USER_ID")
	require.NoError(t, err)
	assert.Equal(t, []string{"*", "-uacc-", "IBMUSER", "SMITH", "WEBUSR1", "WEBUSR2"}, users)
}

// TestACLResolveUserOverridesGroup tests that a user's own permit beats a
// stronger group permit
func TestACLResolveUserOverridesGroup(t *testing.T) {
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

	members, err := NewFrame(FrameSpec{
		Kind:    KindUnclassified,
		Prefix:  "USCON_",
		Columns: []string{"USCON_GRP_ID", "USCON_USER_ID"},
		Index:   []string{"USCON_GRP_ID"},
		Rows: [][]string{
			{"PAYGRP", "ALICE"},
			{"PAYGRP", "BOB"},
		},
	})
	require.NoError(t, err)

	src := ACLSource{Access: []*Frame{access}, GroupMembers: members}
	acl, err := profiles.ACL(src, NewACLOptions().WithResolve().WithSort("user"))
	require.NoError(t, err)

	expected := [][]string{
		{"PAY.**", "ALICE", "ALICE", "READ"},
		{"PAY.**", "BOB", "PAYGRP", "ALTER"},
	}
	if diff := cmp.Diff(expected, rowSet(acl)); diff != "" {
		t.Errorf("resolved access list mismatch (-want +got):\n%s", diff)
	}
}

// TestACLOnPermissionFrame tests invocation from the permits side
func TestACLOnPermissionFrame(t *testing.T) {
	access := testDatasetAccess(t)
	proclib, err := access.Filter([]Criterion{Lit("SYS1.PROCLIB")}, nil, NewFilterOptions())
	require.NoError(t, err)
	require.Equal(t, 2, proclib.Len())

	acl, err := proclib.ACL(testACLSource(t), NewACLOptions())
	require.NoError(t, err)

	expected := [][]string{
		{"SYS1.PROCLIB", "-group-", "SYSPROG", "ALTER"},
		{"SYS1.PROCLIB", "JES", "JES", "UPDATE"},
	}
	if diff := cmp.Diff(expected, rowSet(acl)); diff != "" {
		t.Errorf("access list mismatch (-want +got):\n%s", diff)
	}
}

// TestACLLevelFilters tests the access and allows selections
func TestACLLevelFilters(t *testing.T) {
	src := testACLSource(t)

	t.Run("Allows keeps at-or-above", func(t *testing.T) {
		acl, err := governingSYS1(t).ACL(src, NewACLOptions().WithAllows("UPDATE"))
		require.NoError(t, err)
		require.Equal(t, 1, acl.Len())
		assert.Equal(t, "ALTER", acl.Row(0)[3])
	})

	t.Run("Access keeps exact level", func(t *testing.T) {
		acl, err := governingSYS1(t).ACL(src, NewACLOptions().WithAccess("read"))
		require.NoError(t, err)
		assert.Equal(t, 2, acl.Len())
	})

	t.Run("Unknown level", func(t *testing.T) {
		_, err := governingSYS1(t).ACL(src, NewACLOptions().WithAllows("SOMETIMES"))
		require.Error(t, err)
		assert.True(t, IsInvalidArguments(err))
	})
}

// TestACLSortAccess tests strongest-first ordering
func TestACLSortAccess(t *testing.T) {
	acl, err := governingSYS1(t).ACL(testACLSource(t), NewACLOptions().WithSort("access"))
	require.NoError(t, err)

	levels, err := acl.Column("ACCESS")
	require.NoError(t, err)
	assert.Equal(t, []string{"ALTER", "READ", "READ", "NONE"}, levels)
}

// TestACLValidation tests the option and source checks
func TestACLValidation(t *testing.T) {
	src := testACLSource(t)

	t.Run("Unknown sort order", func(t *testing.T) {
		_, err := governingSYS1(t).ACL(src, NewACLOptions().WithSort("sideways"))
		require.Error(t, err)
		assert.True(t, IsInvalidArguments(err))
	})

	t.Run("Explode needs group members", func(t *testing.T) {
		_, err := governingSYS1(t).ACL(ACLSource{Access: src.Access}, NewACLOptions().WithExplode())
		require.Error(t, err)
		assert.True(t, IsInvalidArguments(err))
	})

	t.Run("Permission frame needs profiles", func(t *testing.T) {
		_, err := testDatasetAccess(t).ACL(ACLSource{}, NewACLOptions())
		require.Error(t, err)
		assert.True(t, IsInvalidArguments(err))
	})

	t.Run("Unclassified frame unsupported", func(t *testing.T) {
		_, err := testNameFrame(t, "A.B").ACL(src, NewACLOptions())
		require.Error(t, err)
		assert.True(t, IsUnsupportedOperation(err))
	})
}

// TestACLGeneralResource tests the class+name profile key
func TestACLGeneralResource(t *testing.T) {
	generals := testGeneralProfiles(t)
	src := ACLSource{
		Access:       []*Frame{testGeneralAccess(t)},
		GroupMembers: testGroupMembers(t),
	}

	governing, err := generals.Match(MatchNames("BPX.DAEMON").WithClass("FACILITY"))
	require.NoError(t, err)

	acl, err := governing.ACL(src, NewACLOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"CLASS_NAME", "NAME", "USER_ID", "AUTH_ID", "ACCESS"}, acl.Columns())
	expected := [][]string{
		{"FACILITY", "BPX.*", "-group-", "SYSPROG", "READ"},
		{"FACILITY", "BPX.*", "OMVSGRP", "OMVSGRP", "READ"},
	}
	if diff := cmp.Diff(expected, rowSet(acl)); diff != "" {
		t.Errorf("general access list mismatch (-want +got):\n%s", diff)
	}
}
