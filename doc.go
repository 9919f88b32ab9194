// Package profilekit provides a query layer over tabular security-profile
// data: dataset profiles, general-resource profiles and their permission
// entries, as unloaded from a mainframe security database.
//
// ProfileKit does not load or persist tables. It operates on immutable
// Frames built by the caller and offers two things: a generic
// multi-criterion filter engine with include/exclude semantics, and a
// profile resolver that emulates hierarchical "first generic match wins"
// lookup against name-ordered profile tables.
//
// # Core Concepts
//
// Frame: an ordered, indexed, immutable collection of profile or permit
// rows. Each frame carries a Kind (dataset-profile, dataset-access,
// general-profile, general-access or unclassified) that selects the
// semantics applied to it, and a field prefix shared by its columns.
//
// Criterion: one selection value. Plain strings are literal-or-generic
// inferred ("SYS1.*" is generic, "SYS1.PARMLIB" literal, "*LIB*" a
// containment test, "**" any non-empty value); lists are membership or
// alternation tests; compiled regular expressions match from the start of
// the field.
//
// Generic pattern: a profile name using "*" (run of characters within one
// qualifier, "**" across qualifiers) and "%" (one character).
//
// # Filtering
//
//	df, err := datasets.Filter(
//	    []profilekit.Criterion{profilekit.Lit("SYS1.**")},
//	    map[string]profilekit.Criterion{"OWNER_ID": profilekit.Lit("IBMUSER")},
//	    profilekit.NewFilterOptions().WithIndex(),
//	)
//
// Keywords resolve against the alias map, then exact column names, then
// prefixed column names; an unresolvable keyword fails with
// ErrUnknownCriterion. With Exclude set, the rows matching ALL criteria are
// removed instead of kept.
//
// # Profile Resolution
//
//	// Which profile governs SYS1.PROCLIB?
//	governing, err := datasets.Match(profilekit.MatchNames("SYS1.PROCLIB"))
//
//	// Which FACILITY profile governs BPX.SUPERUSER?
//	governing, err = generals.Match(
//	    profilekit.MatchNames("BPX.SUPERUSER").WithClass("FACILITY"))
//
// Resolution walks rows in frame order and keeps the first matching profile
// (per class, for general resources). Frame ordering is authoritative; no
// specificity sorting is applied. Permission frames return every permit of
// the winning profile.
//
// # Access Lists
//
//	acl, err := governing.ACL(src, profilekit.NewACLOptions().WithResolve())
//
// ACL flattens profiles and permits into a uniform access list, optionally
// exploding groups into their members and resolving each user's effective
// access.
//
// # Effective Access
//
//	checker := profilekit.NewChecker("WEBADM", "WEBGRP")
//	level, err := checker.Access(datasets, src, "SYS1.PARMLIB")
//
// # Concurrency
//
// Frames are immutable and every operation returns a new view, so any
// number of goroutines may query the same frame concurrently.
package profilekit
