package profilekit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixture frames for tests. Row order matters: resolution is
// first-match-wins, so generic profiles are deliberately listed before the
// exact ones they overlap with.

// testDatasetProfiles builds a dataset profile frame.
func testDatasetProfiles(t *testing.T) *Frame {
	t.Helper()
	f, err := NewFrame(FrameSpec{
		Kind:    KindDatasetProfile,
		Columns: []string{"DSBD_NAME", "DSBD_OWNER_ID", "DSBD_UACC"},
		Index:   []string{"DSBD_NAME"},
		Rows: [][]string{
			{"PROD.**", "PRODADM", "NONE"},
			{"SYS1.*", "SYSPROG", "READ"},
			{"SYS1.PROCLIB", "SYSPROG", "NONE"},
			{"SYS1.PARMLIB", "SYSPROG", "NONE"},
			{"SYS2.**", "SYSPROG", "NONE"},
		},
	})
	require.NoError(t, err)
	return f
}

// testDatasetAccess builds the matching dataset permission frame.
func testDatasetAccess(t *testing.T) *Frame {
	t.Helper()
	f, err := NewFrame(FrameSpec{
		Kind:    KindDatasetAccess,
		Columns: []string{"DSACC_NAME", "DSACC_AUTH_ID", "DSACC_ACCESS"},
		Index:   []string{"DSACC_NAME", "DSACC_AUTH_ID"},
		Rows: [][]string{
			{"PROD.**", "PRODADM", "ALTER"},
			{"SYS1.*", "SYSPROG", "ALTER"},
			{"SYS1.*", "WEBGRP", "READ"},
			{"SYS1.*", "*", "NONE"},
			{"SYS1.PROCLIB", "SYSPROG", "ALTER"},
			{"SYS1.PROCLIB", "JES", "UPDATE"},
			{"SYS2.**", "SYSPROG", "UPDATE"},
		},
	})
	require.NoError(t, err)
	return f
}

// testGeneralProfiles builds a general-resource profile frame. The FACILITY
// class holds two profiles that both match BPX.SUPERUSER.
func testGeneralProfiles(t *testing.T) *Frame {
	t.Helper()
	f, err := NewFrame(FrameSpec{
		Kind:    KindGeneralProfile,
		Columns: []string{"GRBD_CLASS_NAME", "GRBD_NAME", "GRBD_OWNER_ID", "GRBD_UACC"},
		Index:   []string{"GRBD_CLASS_NAME", "GRBD_NAME"},
		Rows: [][]string{
			{"FACILITY", "BPX.*", "SYSPROG", "NONE"},
			{"FACILITY", "BPX.SUPERUSER", "SYSPROG", "NONE"},
			{"FACILITY", "STGADMIN.**", "STGADM", "NONE"},
			{"XFACILIT", "BPX.**", "SYSPROG", "READ"},
		},
	})
	require.NoError(t, err)
	return f
}

// testGeneralAccess builds the matching general-resource permission frame.
func testGeneralAccess(t *testing.T) *Frame {
	t.Helper()
	f, err := NewFrame(FrameSpec{
		Kind:    KindGeneralAccess,
		Columns: []string{"GRACC_CLASS_NAME", "GRACC_NAME", "GRACC_AUTH_ID", "GRACC_ACCESS"},
		Index:   []string{"GRACC_CLASS_NAME", "GRACC_NAME", "GRACC_AUTH_ID"},
		Rows: [][]string{
			{"FACILITY", "BPX.*", "SYSPROG", "READ"},
			{"FACILITY", "BPX.*", "OMVSGRP", "READ"},
			{"FACILITY", "BPX.SUPERUSER", "OMVSADM", "READ"},
			{"FACILITY", "STGADMIN.**", "STGADM", "UPDATE"},
			{"XFACILIT", "BPX.**", "AUDITOR", "READ"},
		},
	})
	require.NoError(t, err)
	return f
}

// testGroupMembers connects groups to their users.
func testGroupMembers(t *testing.T) *Frame {
	t.Helper()
	f, err := NewFrame(FrameSpec{
		Kind:    KindUnclassified,
		Prefix:  "USCON_",
		Columns: []string{"USCON_GRP_ID", "USCON_USER_ID"},
		Index:   []string{"USCON_GRP_ID"},
		Rows: [][]string{
			{"SYSPROG", "IBMUSER"},
			{"SYSPROG", "SMITH"},
			{"WEBGRP", "WEBUSR1"},
			{"WEBGRP", "WEBUSR2"},
		},
	})
	require.NoError(t, err)
	return f
}

// testACLSource wires the dataset fixtures into an ACL source.
func testACLSource(t *testing.T) ACLSource {
	t.Helper()
	return ACLSource{
		Profiles:     testDatasetProfiles(t),
		Access:       []*Frame{testDatasetAccess(t)},
		GroupMembers: testGroupMembers(t),
	}
}

// rowSet extracts all rows of a frame for set comparisons.
func rowSet(f *Frame) [][]string {
	rows := make([][]string, f.Len())
	for i := 0; i < f.Len(); i++ {
		rows[i] = f.Row(i)
	}
	return rows
}

// names extracts the leading index values of a frame.
func names(t *testing.T, f *Frame) []string {
	t.Helper()
	vals, err := f.IndexValues(0)
	require.NoError(t, err)
	return vals
}
